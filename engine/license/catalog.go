package license

import (
	"fmt"
	"slices"
)

// Catalog is the validated, ordered set of license entries for one build.
// It is immutable once built and safe for concurrent readers.
type Catalog struct {
	entries []*Entry
	byID    map[string]*Entry
}

// Build validates every uniqueness invariant across entries and returns the
// catalog in input order. On any violation no catalog is returned and the
// error is a *ValidationErrors listing each conflict.
func Build(entries []*Entry) (*Catalog, error) {
	b := newCatalogBuilder(len(entries))
	for i, entry := range entries {
		b.addIdentity(i, entry)
	}
	for i, entry := range entries {
		if entry != nil {
			b.addAliases(i, entry)
		}
	}
	if len(b.violations) > 0 {
		return nil, &ValidationErrors{Errors: b.violations}
	}
	return &Catalog{
		entries: slices.Clone(entries),
		byID:    b.byID,
	}, nil
}

type catalogBuilder struct {
	entries    []*Entry
	pairs      map[string]int
	names      map[string]int
	ids        map[string]int
	foldedIDs  map[string][]int
	aliases    map[string]int
	byID       map[string]*Entry
	violations []*ValidationError
}

func newCatalogBuilder(size int) *catalogBuilder {
	return &catalogBuilder{
		entries:   make([]*Entry, size),
		pairs:     make(map[string]int, size),
		names:     make(map[string]int, size),
		ids:       make(map[string]int, size),
		foldedIDs: make(map[string][]int, size),
		aliases:   make(map[string]int),
		byID:      make(map[string]*Entry, size),
	}
}

func (b *catalogBuilder) conflict(field, value, reason string, index, other int) {
	b.violations = append(b.violations, &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Entries: []EntryRef{b.entries[index].ref(index), b.entries[other].ref(other)},
	})
}

func (b *catalogBuilder) addIdentity(index int, entry *Entry) {
	if entry == nil {
		b.violations = append(b.violations, &ValidationError{
			Field:   "entry",
			Reason:  fmt.Sprintf("entry #%d is nil", index),
			Entries: []EntryRef{{Index: index}},
		})
		return
	}
	b.entries[index] = entry
	nameKey := foldKey(entry.name)
	pairKey := entry.pkg + "\x00" + nameKey
	if other, ok := b.pairs[pairKey]; ok {
		b.conflict(FieldPackageAndName, entry.name, "package and name already used", index, other)
	} else if other, ok := b.names[nameKey]; ok {
		b.conflict(FieldName, entry.name, "name already used by another entry", index, other)
	} else {
		b.pairs[pairKey] = index
		b.names[nameKey] = index
	}
	if !entry.HasNormativeID() {
		return
	}
	if other, ok := b.ids[entry.id]; ok {
		b.conflict(FieldNormativeID, entry.id, "duplicate normative id", index, other)
		return
	}
	b.ids[entry.id] = index
	b.byID[entry.id] = entry
	idKey := foldKey(entry.id)
	b.foldedIDs[idKey] = append(b.foldedIDs[idKey], index)
}

func (b *catalogBuilder) addAliases(index int, entry *Entry) {
	for _, alias := range entry.aliases {
		key := foldKey(alias)
		if other, ok := b.aliases[key]; ok && other != index {
			b.conflict(FieldAlias, alias, "alias already used by another entry", index, other)
			continue
		}
		if other, ok := b.names[key]; ok && other != index {
			b.conflict(FieldAlias, alias, "alias collides with the name of another entry", index, other)
			continue
		}
		if other, ok := b.otherID(key, index); ok {
			b.conflict(FieldAlias, alias, "alias collides with the normative id of another entry", index, other)
			continue
		}
		b.aliases[key] = index
	}
}

func (b *catalogBuilder) otherID(key string, index int) (int, bool) {
	for _, other := range b.foldedIDs[key] {
		if other != index {
			return other, true
		}
	}
	return 0, false
}

// Entries returns the entries in construction order.
func (c *Catalog) Entries() []*Entry {
	return slices.Clone(c.entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// LookupByID returns the entry whose normative id equals id exactly.
func (c *Catalog) LookupByID(id string) (*Entry, bool) {
	if id == "" {
		return nil, false
	}
	entry, ok := c.byID[id]
	return entry, ok
}
