package render

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/licensegen/engine/codegen"
	"github.com/compozy/licensegen/engine/license"
	"github.com/compozy/licensegen/test/helpers"
)

const outDir = "/out"

func requests(t *testing.T, cfgs ...license.EntryConfig) []codegen.Request {
	t.Helper()
	entries := make([]*license.Entry, len(cfgs))
	for i, cfg := range cfgs {
		entry, err := license.NewEntry(cfg)
		require.NoError(t, err)
		entries[i] = entry
	}
	c, err := license.Build(entries)
	require.NoError(t, err)
	return codegen.GenerateAll(c)
}

func sampleRequests(t *testing.T) []codegen.Request {
	return requests(t,
		license.EntryConfig{Name: "MIT License", Package: "example.com/gen/licenses", ID: "MIT", Aliases: []string{"Expat", "MIT"}},
		license.EntryConfig{Name: "Apache License 2.0", Package: "example.com/gen/licenses/apache", ID: "Apache-2.0"},
		license.EntryConfig{Name: "Zero-Clause BSD", Package: "example.com/gen/licenses"},
	)
}

func fileContent(t *testing.T, plan *Plan, p string) string {
	t.Helper()
	for _, f := range plan.Files {
		if f.Path == p {
			return string(f.Content)
		}
	}
	t.Fatalf("file %s not planned", p)
	return ""
}

func TestRenderer_Plan(t *testing.T) {
	t.Run("Should group files by package below the module path", func(t *testing.T) {
		r := New(afero.NewMemMapFs(), Options{OutDir: outDir, ModulePath: "example.com/gen", Readme: true})
		plan, err := r.Plan(helpers.NewTestContext(t), sampleRequests(t))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"licenses/mit_license.go",
			"licenses/zero_clause_bsd.go",
			"licenses/README.md",
			"licenses/apache/apache_license_2_0.go",
			"licenses/apache/README.md",
		}, plan.Paths())
	})

	t.Run("Should keep the full import path without a module path", func(t *testing.T) {
		reqs := requests(t, license.EntryConfig{Name: "MIT License", Package: "com.example.license.mit"})
		plan, err := New(afero.NewMemMapFs(), Options{OutDir: outDir}).Plan(helpers.NewTestContext(t), reqs)
		require.NoError(t, err)
		assert.Equal(t, []string{"com.example.license.mit/mit_license.go"}, plan.Paths())
	})

	t.Run("Should render a parseable marker type with accessors and aliases", func(t *testing.T) {
		r := New(afero.NewMemMapFs(), Options{OutDir: outDir, ModulePath: "example.com/gen"})
		plan, err := r.Plan(helpers.NewTestContext(t), sampleRequests(t))
		require.NoError(t, err)
		src := fileContent(t, plan, "licenses/mit_license.go")
		assert.True(t, strings.HasPrefix(src, "// "+GeneratedHeader+"\n"))

		file, err := parser.ParseFile(token.NewFileSet(), "mit_license.go", src, parser.ParseComments)
		require.NoError(t, err)
		assert.Equal(t, "licenses", file.Name.Name)
		types := map[string]bool{}
		methods := map[string]bool{}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok {
						types[ts.Name.Name] = ts.Assign.IsValid()
					}
				}
			case *ast.FuncDecl:
				methods[d.Name.Name] = true
			}
		}
		assert.Equal(t, map[string]bool{"MitLicense": false, "Expat": true, "Mit": true}, types)
		assert.Equal(t, map[string]bool{"LicenseName": true, "LicenseID": true, "LicenseAliases": true}, methods)
		assert.Contains(t, src, `json:"small_changes,omitempty"`)
		assert.Contains(t, src, `return "MIT License"`)
		assert.Contains(t, src, `[]string{"Expat", "MIT"}`)
	})

	t.Run("Should return nil aliases for entries without aliases", func(t *testing.T) {
		plan, err := New(afero.NewMemMapFs(), Options{OutDir: outDir}).Plan(helpers.NewTestContext(t), sampleRequests(t))
		require.NoError(t, err)
		src := fileContent(t, plan, "example.com/gen/licenses/zero_clause_bsd.go")
		assert.Contains(t, src, "return nil")
		assert.Contains(t, src, `return ""`)
	})

	t.Run("Should render the package README", func(t *testing.T) {
		r := New(afero.NewMemMapFs(), Options{OutDir: outDir, ModulePath: "example.com/gen", Readme: true})
		plan, err := r.Plan(helpers.NewTestContext(t), sampleRequests(t))
		require.NoError(t, err)
		helpers.CompareWithGolden(t, []byte(fileContent(t, plan, "licenses/README.md")), "pkg/render/testdata/readme.golden")
	})

	t.Run("Should reject identifier collisions within a package", func(t *testing.T) {
		reqs := requests(t,
			license.EntryConfig{Name: "BSD License", Package: "example.com/gen/bsd"},
			license.EntryConfig{Name: "BSD-License", Package: "example.com/gen/bsd"},
		)
		_, err := New(afero.NewMemMapFs(), Options{OutDir: outDir}).Plan(helpers.NewTestContext(t), reqs)
		assert.ErrorIs(t, err, ErrCollision)
		var collision *CollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "identifier", collision.Kind)
		assert.Equal(t, "BsdLicense", collision.Value)
		assert.Equal(t, "BSD License", collision.First)
		assert.Equal(t, "BSD-License", collision.Second)
	})

	t.Run("Should reject file collisions within a package", func(t *testing.T) {
		reqs := requests(t,
			license.EntryConfig{Name: "Alpha", Package: "example.com/gen/x"},
			license.EntryConfig{Name: "Beta", Package: "example.com/gen/x"},
		)
		reqs[1].FileStem = reqs[0].FileStem
		_, err := New(afero.NewMemMapFs(), Options{OutDir: outDir}).Plan(helpers.NewTestContext(t), reqs)
		var collision *CollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "file", collision.Kind)
	})

	t.Run("Should reject two import paths sharing an output directory", func(t *testing.T) {
		reqs := requests(t,
			license.EntryConfig{Name: "MIT License", Package: "example.com/gen/mit"},
			license.EntryConfig{Name: "MIT License Copy", Package: "mit"},
		)
		_, err := New(afero.NewMemMapFs(), Options{OutDir: outDir, ModulePath: "example.com/gen"}).
			Plan(helpers.NewTestContext(t), reqs)
		assert.ErrorIs(t, err, ErrCollision)
		var collision *CollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "directory", collision.Kind)
		assert.Equal(t, "mit", collision.Value)
		assert.Equal(t, "example.com/gen/mit", collision.First)
		assert.Equal(t, "mit", collision.Second)
	})

	t.Run("Should allow the same identifier in different packages", func(t *testing.T) {
		reqs := requests(t,
			license.EntryConfig{Name: "BSD License", Package: "example.com/gen/a"},
			license.EntryConfig{Name: "BSD-License", Package: "example.com/gen/b"},
		)
		_, err := New(afero.NewMemMapFs(), Options{OutDir: outDir}).Plan(helpers.NewTestContext(t), reqs)
		assert.NoError(t, err)
	})
}

func TestRenderer_ApplyAndCheck(t *testing.T) {
	t.Run("Should be idempotent", func(t *testing.T) {
		ctx := helpers.NewTestContext(t)
		r := New(afero.NewMemMapFs(), Options{OutDir: outDir, ModulePath: "example.com/gen", Readme: true})
		plan, err := r.Plan(ctx, sampleRequests(t))
		require.NoError(t, err)

		first, err := r.Apply(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, 5, first.Count(StatusCreate))

		second, err := r.Apply(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, 5, second.Count(StatusUnchanged))
		assert.False(t, second.Dirty())

		checked, err := r.Check(ctx, plan)
		require.NoError(t, err)
		assert.False(t, checked.Dirty())
	})

	t.Run("Should report drift without writing", func(t *testing.T) {
		ctx := helpers.NewTestContext(t)
		fs := afero.NewMemMapFs()
		r := New(fs, Options{OutDir: outDir, ModulePath: "example.com/gen"})
		plan, err := r.Plan(ctx, sampleRequests(t))
		require.NoError(t, err)
		_, err = r.Apply(ctx, plan)
		require.NoError(t, err)

		edited := filepath.Join(outDir, "licenses", "mit_license.go")
		require.NoError(t, afero.WriteFile(fs, edited, []byte("package licenses\n"), 0o644))
		require.NoError(t, fs.Remove(filepath.Join(outDir, "licenses", "apache", "apache_license_2_0.go")))

		result, err := r.Check(ctx, plan)
		assert.ErrorIs(t, err, ErrDrift)
		var drift *DriftError
		require.ErrorAs(t, err, &drift)
		assert.Equal(t, []Change{
			{Path: "licenses/mit_license.go", Status: StatusUpdate},
			{Path: "licenses/apache/apache_license_2_0.go", Status: StatusCreate},
		}, drift.Changes)
		require.NotNil(t, result)
		content, err := afero.ReadFile(fs, edited)
		require.NoError(t, err)
		assert.Equal(t, "package licenses\n", string(content))

		applied, err := r.Apply(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, 1, applied.Count(StatusUpdate))
		assert.Equal(t, 1, applied.Count(StatusCreate))
	})

	t.Run("Should prune only stale generated files", func(t *testing.T) {
		ctx := helpers.NewTestContext(t)
		fs := afero.NewMemMapFs()
		stale := filepath.Join(outDir, "licenses", "old_license.go")
		manual := filepath.Join(outDir, "licenses", "doc.go")
		require.NoError(t, fs.MkdirAll(filepath.Dir(stale), 0o755))
		require.NoError(t, afero.WriteFile(fs, stale, []byte("// "+GeneratedHeader+"\n\npackage licenses\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, manual, []byte("// Package licenses holds markers.\npackage licenses\n"), 0o644))

		r := New(fs, Options{OutDir: outDir, ModulePath: "example.com/gen", Prune: true})
		plan, err := r.Plan(ctx, sampleRequests(t))
		require.NoError(t, err)

		_, err = r.Check(ctx, plan)
		var drift *DriftError
		require.ErrorAs(t, err, &drift)
		assert.Contains(t, drift.Changes, Change{Path: "licenses/old_license.go", Status: StatusRemove})

		result, err := r.Apply(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count(StatusRemove))
		exists, err := afero.Exists(fs, stale)
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = afero.Exists(fs, manual)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = r.Check(ctx, plan)
		assert.NoError(t, err)
	})

	t.Run("Should treat a missing output directory as empty when pruning", func(t *testing.T) {
		ctx := helpers.NewTestContext(t)
		r := New(afero.NewMemMapFs(), Options{OutDir: outDir, Prune: true})
		plan, err := r.Plan(ctx, nil)
		require.NoError(t, err)
		result, err := r.Check(ctx, plan)
		require.NoError(t, err)
		assert.Empty(t, result.Changes)
	})
}
