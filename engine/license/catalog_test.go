package license

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, cfg EntryConfig) *Entry {
	t.Helper()
	entry, err := NewEntry(cfg)
	require.NoError(t, err)
	return entry
}

func mustCatalog(t *testing.T, cfgs ...EntryConfig) *Catalog {
	t.Helper()
	entries := make([]*Entry, len(cfgs))
	for i, cfg := range cfgs {
		entries[i] = mustEntry(t, cfg)
	}
	c, err := Build(entries)
	require.NoError(t, err)
	return c
}

func buildErr(t *testing.T, cfgs ...EntryConfig) *ValidationErrors {
	t.Helper()
	entries := make([]*Entry, len(cfgs))
	for i, cfg := range cfgs {
		entries[i] = mustEntry(t, cfg)
	}
	c, err := Build(entries)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrValidation)
	var agg *ValidationErrors
	require.ErrorAs(t, err, &agg)
	return agg
}

func TestBuild(t *testing.T) {
	t.Run("Should preserve input order", func(t *testing.T) {
		var cfgs []EntryConfig
		for i := range 12 {
			cfgs = append(cfgs, EntryConfig{
				Name:    fmt.Sprintf("License %02d", 11-i),
				Package: fmt.Sprintf("com.example.license.l%d", i),
				ID:      fmt.Sprintf("L-%d", i),
			})
		}
		c := mustCatalog(t, cfgs...)
		require.Equal(t, len(cfgs), c.Len())
		for i, entry := range c.Entries() {
			assert.Equal(t, cfgs[i].Name, entry.Name())
		}
	})

	t.Run("Should accept entries sharing a package", func(t *testing.T) {
		c := mustCatalog(t,
			EntryConfig{Name: "Generic Permissive", Package: "com.example.license.generic"},
			EntryConfig{Name: "Generic Copyleft", Package: "com.example.license.generic"},
		)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Should accept several entries without a normative id", func(t *testing.T) {
		c := mustCatalog(t,
			EntryConfig{Name: "Legacy One", Package: "com.example.license.legacy1", ID: ""},
			EntryConfig{Name: "Legacy Two", Package: "com.example.license.legacy2"},
		)
		assert.Equal(t, 2, c.Len())
		_, ok := c.LookupByID("")
		assert.False(t, ok)
	})

	t.Run("Should allow an alias equal to its own id or name", func(t *testing.T) {
		c := mustCatalog(t, EntryConfig{
			Name:    "MIT License",
			Package: "com.example.license.mit",
			ID:      "MIT",
			Aliases: []string{"MIT", "mit license"},
		})
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Should reject a duplicate normative id referencing both entries", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "MIT License", Package: "com.example.license.mit", ID: "MIT"},
			EntryConfig{Name: "Expat License", Package: "com.example.license.expat", ID: "MIT"},
		)
		require.Len(t, agg.Errors, 1)
		verr := agg.Errors[0]
		assert.Equal(t, FieldNormativeID, verr.Field)
		assert.Equal(t, "MIT", verr.Value)
		require.Len(t, verr.Entries, 2)
		assert.Equal(t, EntryRef{Index: 1, Name: "Expat License", Package: "com.example.license.expat"}, verr.Entries[0])
		assert.Equal(t, EntryRef{Index: 0, Name: "MIT License", Package: "com.example.license.mit"}, verr.Entries[1])
	})

	t.Run("Should treat ids as case sensitive", func(t *testing.T) {
		c := mustCatalog(t,
			EntryConfig{Name: "First", Package: "com.example.license.first", ID: "lic"},
			EntryConfig{Name: "Second", Package: "com.example.license.second", ID: "LIC"},
		)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Should reject a duplicate package and name pair", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "BSD License", Package: "com.example.license.bsd"},
			EntryConfig{Name: "bsd license", Package: "com.example.license.bsd"},
		)
		require.Len(t, agg.Errors, 1)
		assert.Equal(t, FieldPackageAndName, agg.Errors[0].Field)
		assert.True(t, agg.Errors[0].Conflicting())
	})

	t.Run("Should reject a name reused under another package", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "BSD License", Package: "com.example.license.bsd"},
			EntryConfig{Name: "BSD License", Package: "com.example.license.bsd2"},
		)
		require.Len(t, agg.Errors, 1)
		assert.Equal(t, FieldName, agg.Errors[0].Field)
	})

	t.Run("Should reject an alias equal to another entry's name", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "MIT License", Package: "com.example.license.mit", Aliases: []string{"  the unlicense "}},
			EntryConfig{Name: "The Unlicense", Package: "com.example.license.unlicense"},
		)
		require.Len(t, agg.Errors, 1)
		verr := agg.Errors[0]
		assert.Equal(t, FieldAlias, verr.Field)
		assert.Equal(t, "the unlicense", verr.Value)
		assert.Equal(t, 0, verr.Entries[0].Index)
		assert.Equal(t, 1, verr.Entries[1].Index)
	})

	t.Run("Should reject an alias equal to another entry's id ignoring case", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "MIT License", Package: "com.example.license.mit", ID: "MIT"},
			EntryConfig{Name: "Expat License", Package: "com.example.license.expat", Aliases: []string{"mit"}},
		)
		require.Len(t, agg.Errors, 1)
		assert.Equal(t, FieldAlias, agg.Errors[0].Field)
		assert.Contains(t, agg.Errors[0].Reason, "normative id")
	})

	t.Run("Should reject an alias shared by two entries", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "GPL v2", Package: "com.example.license.gpl2", Aliases: []string{"GPL"}},
			EntryConfig{Name: "GPL v3", Package: "com.example.license.gpl3", Aliases: []string{"gpl"}},
		)
		require.Len(t, agg.Errors, 1)
		assert.Equal(t, FieldAlias, agg.Errors[0].Field)
		assert.Contains(t, agg.Error(), `entry #1 "GPL v3"`)
		assert.Contains(t, agg.Error(), `entry #0 "GPL v2"`)
	})

	t.Run("Should report every violation at once", func(t *testing.T) {
		agg := buildErr(t,
			EntryConfig{Name: "A", Package: "com.example.a", ID: "X", Aliases: []string{"shared"}},
			EntryConfig{Name: "B", Package: "com.example.b", ID: "X"},
			EntryConfig{Name: "C", Package: "com.example.c", Aliases: []string{"Shared"}},
		)
		require.Len(t, agg.Errors, 2)
		assert.Equal(t, FieldNormativeID, agg.Errors[0].Field)
		assert.Equal(t, FieldAlias, agg.Errors[1].Field)
	})

	t.Run("Should reject nil entries", func(t *testing.T) {
		_, err := Build([]*Entry{nil})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Reason, "nil")
	})

	t.Run("Should not be affected by later changes to the input slice", func(t *testing.T) {
		entries := []*Entry{mustEntry(t, EntryConfig{Name: "MIT License", Package: "com.example.license.mit"})}
		c, err := Build(entries)
		require.NoError(t, err)
		entries[0] = mustEntry(t, EntryConfig{Name: "Other", Package: "com.example.license.other"})
		assert.Equal(t, "MIT License", c.Entries()[0].Name())
	})
}

func TestCatalog_LookupByID(t *testing.T) {
	c := mustCatalog(t,
		EntryConfig{Name: "MIT License", Package: "com.example.license.mit", ID: "MIT"},
		EntryConfig{Name: "Apache License 2.0", Package: "com.example.license.apache2", ID: "Apache-2.0"},
	)

	t.Run("Should find an entry by exact id", func(t *testing.T) {
		entry, ok := c.LookupByID("Apache-2.0")
		require.True(t, ok)
		assert.Equal(t, "Apache License 2.0", entry.Name())
	})

	t.Run("Should not match ids case-insensitively", func(t *testing.T) {
		_, ok := c.LookupByID("mit")
		assert.False(t, ok)
	})
}
