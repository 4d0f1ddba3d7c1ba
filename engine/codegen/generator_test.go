package codegen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/licensegen/engine/license"
)

func buildCatalog(t *testing.T, cfgs ...license.EntryConfig) *license.Catalog {
	t.Helper()
	entries := make([]*license.Entry, len(cfgs))
	for i, cfg := range cfgs {
		entry, err := license.NewEntry(cfg)
		require.NoError(t, err)
		entries[i] = entry
	}
	c, err := license.Build(entries)
	require.NoError(t, err)
	return c
}

func TestGenerateAll(t *testing.T) {
	c := buildCatalog(t,
		license.EntryConfig{Name: "MIT License", Package: "com.example.license.mit", ID: "MIT", Aliases: []string{"MIT", "Expat", "expat license"}},
		license.EntryConfig{Name: "Apache License 2.0", Package: "com.example.license.apache2", ID: "Apache-2.0"},
		license.EntryConfig{Name: "Zero-Clause BSD", Package: "example.com/licenses/bsd", Aliases: []string{"zero clause bsd"}},
	)

	t.Run("Should emit one request per entry in catalog order", func(t *testing.T) {
		reqs := GenerateAll(c)
		require.Len(t, reqs, 3)
		for i, entry := range c.Entries() {
			assert.Same(t, entry, reqs[i].Source)
			assert.Equal(t, entry.Package(), reqs[i].TargetPackage)
			assert.Equal(t, ArtifactName(entry.Name()), reqs[i].ArtifactName)
		}
		assert.Equal(t, "MitLicense", reqs[0].ArtifactName)
		assert.Equal(t, "mit", reqs[0].PackageName)
		assert.Equal(t, "mit_license", reqs[0].FileStem)
		assert.Equal(t, "ApacheLicense20", reqs[1].ArtifactName)
		assert.Equal(t, "ZeroClauseBsd", reqs[2].ArtifactName)
	})

	t.Run("Should dedupe alias artifacts and skip the main artifact", func(t *testing.T) {
		reqs := GenerateAll(c)
		assert.Equal(t, []string{"Mit", "Expat", "ExpatLicense"}, reqs[0].AliasArtifacts)
		assert.Empty(t, reqs[2].AliasArtifacts)
		assert.Equal(t, []string{"MitLicense", "Mit", "Expat", "ExpatLicense"}, reqs[0].Identifiers())
	})

	t.Run("Should be byte-identical across calls", func(t *testing.T) {
		first, err := json.Marshal(GenerateAll(c))
		require.NoError(t, err)
		second, err := json.Marshal(GenerateAll(c))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Should return nothing for a nil catalog", func(t *testing.T) {
		assert.Empty(t, GenerateAll(nil))
	})
}
