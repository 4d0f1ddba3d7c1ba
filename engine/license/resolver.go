package license

import (
	"slices"
	"strings"
)

// MatchKind identifies the resolution stage that produced a match.
type MatchKind int

const (
	MatchByID MatchKind = iota + 1
	MatchByName
	MatchByAlias
)

func (k MatchKind) String() string {
	switch k {
	case MatchByID:
		return "id"
	case MatchByName:
		return "name"
	case MatchByAlias:
		return "alias"
	default:
		return "unknown"
	}
}

func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Match is a successful resolution.
type Match struct {
	Entry *Entry
	Via   MatchKind
}

// Resolver maps free-form license strings to catalog entries.
// It never mutates the catalog and may be shared between goroutines.
type Resolver struct {
	catalog *Catalog
}

func NewResolver(c *Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve runs the id, name and alias stages in order and stops at the first
// stage with a candidate. A stage that yields several entries is reported as
// an *InternalConsistencyError; no stage matching is a *NoMatchError.
func (r *Resolver) Resolve(input string) (Match, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || r.catalog == nil {
		return Match{}, &NoMatchError{Input: input}
	}
	key := foldKey(trimmed)
	stages := []struct {
		kind  MatchKind
		match func(*Entry) bool
	}{
		{MatchByID, func(e *Entry) bool { return e.id != "" && e.id == trimmed }},
		{MatchByName, func(e *Entry) bool { return foldKey(e.name) == key }},
		{MatchByAlias, func(e *Entry) bool {
			return slices.ContainsFunc(e.aliases, func(a string) bool { return foldKey(a) == key })
		}},
	}
	for _, stage := range stages {
		candidates := r.collect(stage.match)
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return Match{Entry: r.catalog.entries[candidates[0]], Via: stage.kind}, nil
		default:
			refs := make([]EntryRef, len(candidates))
			for i, idx := range candidates {
				refs[i] = r.catalog.entries[idx].ref(idx)
			}
			return Match{}, &InternalConsistencyError{Input: input, Via: stage.kind, Candidates: refs}
		}
	}
	return Match{}, &NoMatchError{Input: input}
}

// collect returns the positions of every distinct entry accepted by match.
func (r *Resolver) collect(match func(*Entry) bool) []int {
	var found []int
	for i, entry := range r.catalog.entries {
		if entry == nil || !match(entry) {
			continue
		}
		duplicate := slices.ContainsFunc(found, func(j int) bool {
			return r.catalog.entries[j] == entry
		})
		if !duplicate {
			found = append(found, i)
		}
	}
	return found
}

// Resolve is shorthand for NewResolver(c).Resolve(input).
func Resolve(input string, c *Catalog) (Match, error) {
	return NewResolver(c).Resolve(input)
}
