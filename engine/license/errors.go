package license

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks catalog or entry construction failures.
	ErrValidation = errors.New("license validation failed")

	// ErrNoMatch marks resolution inputs that correspond to no catalog entry.
	ErrNoMatch = errors.New("no matching license")

	// ErrInternalConsistency marks a resolution that found several candidates.
	ErrInternalConsistency = errors.New("license catalog internally inconsistent")
)

// Field names reported by ValidationError.
const (
	FieldName           = "name"
	FieldPackage        = "packageName"
	FieldPackageAndName = "packageName+name"
	FieldNormativeID    = "normativeId"
	FieldAlias          = "aliases"
)

// EntryRef identifies an entry inside a catalog input for diagnostics.
// Index is -1 when the entry was rejected before it had a position.
type EntryRef struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Package string `json:"package"`
}

func (r EntryRef) String() string {
	if r.Index < 0 {
		return fmt.Sprintf("%q (%s)", r.Name, r.Package)
	}
	return fmt.Sprintf("entry #%d %q (%s)", r.Index, r.Name, r.Package)
}

// ValidationError describes a single invariant violation.
// Entries holds the offending entry, followed by the entry it collides with
// when the violation is a uniqueness conflict.
type ValidationError struct {
	Field   string     `json:"field"`
	Value   string     `json:"value,omitempty"`
	Reason  string     `json:"reason"`
	Entries []EntryRef `json:"entries,omitempty"`
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	switch len(e.Entries) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " (%s)", e.Entries[0])
	default:
		fmt.Fprintf(&b, " (%s conflicts with %s)", e.Entries[0], e.Entries[1])
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Conflicting reports whether the violation involves two entries.
func (e *ValidationError) Conflicting() bool {
	return len(e.Entries) > 1
}

// ValidationErrors aggregates every violation found while building a catalog.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "license catalog invalid"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("license catalog invalid: %v", e.Errors[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "license catalog invalid with %d errors:\n", len(e.Errors))
	for idx, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %v", idx+1, err)
		if idx < len(e.Errors)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Unwrap exposes the first violation so errors.As finds a *ValidationError.
func (e *ValidationErrors) Unwrap() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

func (e *ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// NoMatchError is returned when an input resolves to no catalog entry.
// Input is the string exactly as supplied by the caller.
type NoMatchError struct {
	Input string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no license matches %q", e.Input)
}

func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// InternalConsistencyError is returned when one resolution stage yields more
// than one entry. It always indicates a catalog that bypassed Build.
type InternalConsistencyError struct {
	Input      string
	Via        MatchKind
	Candidates []EntryRef
}

func (e *InternalConsistencyError) Error() string {
	refs := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		refs[i] = c.String()
	}
	return fmt.Sprintf(
		"input %q matched %d entries by %s: %s",
		e.Input, len(e.Candidates), e.Via, strings.Join(refs, ", "),
	)
}

func (e *InternalConsistencyError) Is(target error) bool {
	return target == ErrInternalConsistency
}

// IsNoMatch reports whether err is a resolution miss.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
