package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
	err        error
}

func (m *mockSource) Load() (map[string]any, error) {
	return m.data, m.err
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "licensegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Catalog.Root)
		assert.Equal(t, []string{"licenses/**/*.json", "licenses/**/*.yaml", "licenses/**/*.yml"}, cfg.Catalog.Include)
		assert.Equal(t, "generated", cfg.Render.OutDir)
		assert.True(t, cfg.Render.Readme)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
		assert.Equal(t, "auto", cfg.CLI.Format)
		assert.Equal(t, 200*time.Millisecond, cfg.CLI.WatchDebounce)
		assert.Equal(t, SourceDefault, svc.GetSource("render.out_dir"))
	})

	t.Run("Should merge YAML over defaults keeping absent keys", func(t *testing.T) {
		path := writeYAML(t, `
catalog:
  root: ./catalog
  package_prefix: example.com/licenses
render:
  out_dir: out
  module_path: example.com/licenses
cli:
  watch_debounce: 1s
`)
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewYAMLProvider(path))
		require.NoError(t, err)
		assert.Equal(t, "./catalog", cfg.Catalog.Root)
		assert.Equal(t, "example.com/licenses", cfg.Catalog.PackagePrefix)
		assert.Equal(t, "out", cfg.Render.OutDir)
		assert.True(t, cfg.Render.Readme)
		assert.Equal(t, time.Second, cfg.CLI.WatchDebounce)
		assert.Len(t, cfg.Catalog.Include, 3)
		assert.Equal(t, SourceYAML, svc.GetSource("render.out_dir"))
		assert.Equal(t, SourceDefault, svc.GetSource("render.readme"))
	})

	t.Run("Should apply defaults, YAML, environment and CLI in precedence order", func(t *testing.T) {
		path := writeYAML(t, `
render:
  out_dir: from-yaml
runtime:
  log_level: debug
  concurrency: 2
`)
		t.Setenv("LICENSEGEN_RENDER_OUT_DIR", "from-env")
		t.Setenv("LICENSEGEN_CONCURRENCY", "4")
		t.Setenv("LICENSEGEN_CATALOG_INCLUDE", "a/*.json,b/*.yaml")
		cli := &mockSource{
			data:       map[string]any{"render": map[string]any{"out_dir": "from-cli"}},
			sourceType: SourceCLI,
		}
		svc := NewService()
		cfg, err := svc.Load(context.Background(), cli, NewYAMLProvider(path))
		require.NoError(t, err)
		assert.Equal(t, "from-cli", cfg.Render.OutDir)
		assert.Equal(t, 4, cfg.Runtime.Concurrency)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.Equal(t, []string{"a/*.json", "b/*.yaml"}, cfg.Catalog.Include)
		assert.Equal(t, SourceCLI, svc.GetSource("render.out_dir"))
		assert.Equal(t, SourceEnv, svc.GetSource("runtime.concurrency"))
		assert.Equal(t, SourceYAML, svc.GetSource("runtime.log_level"))
	})

	t.Run("Should ignore unmapped and empty environment variables", func(t *testing.T) {
		t.Setenv("LICENSEGEN_UNKNOWN_SETTING", "x")
		t.Setenv("LICENSEGEN_FORMAT", "")
		cfg, err := NewService().Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "auto", cfg.CLI.Format)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		cases := map[string]map[string]any{
			"log level":   {"runtime": map[string]any{"log_level": "verbose"}},
			"format":      {"cli": map[string]any{"format": "xml"}},
			"out dir":     {"render": map[string]any{"out_dir": ""}},
			"include":     {"catalog": map[string]any{"include": []any{}}},
			"glob":        {"catalog": map[string]any{"include": []any{"licenses/[*.json"}}},
			"prefix":      {"catalog": map[string]any{"package_prefix": "bad//prefix"}},
			"concurrency": {"runtime": map[string]any{"concurrency": -1}},
		}
		for name, data := range cases {
			_, err := NewService().Load(context.Background(), &mockSource{data: data, sourceType: SourceYAML})
			require.Error(t, err, name)
			assert.ErrorIs(t, err, ErrInvalid, name)
		}
	})

	t.Run("Should require a package prefix when a module path is set", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"render": map[string]any{"module_path": "example.com/licenses"}},
			sourceType: SourceYAML,
		}
		_, err := NewService().Load(context.Background(), source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "package_prefix")
	})

	t.Run("Should surface source errors", func(t *testing.T) {
		source := &mockSource{err: assert.AnError, sourceType: SourceYAML}
		_, err := NewService().Load(context.Background(), source)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Should start from a clean state on every load", func(t *testing.T) {
		svc := NewService()
		source := &mockSource{
			data:       map[string]any{"render": map[string]any{"out_dir": "first"}},
			sourceType: SourceYAML,
		}
		_, err := svc.Load(context.Background(), source)
		require.NoError(t, err)
		cfg, err := svc.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "generated", cfg.Render.OutDir)
		assert.Equal(t, SourceDefault, svc.GetSource("render.out_dir"))
	})
}

func TestCLIProvider(t *testing.T) {
	t.Run("Should map flag names to config paths", func(t *testing.T) {
		data, err := NewCLIProvider(map[string]any{
			"out":       "dist",
			"log-level": "warn",
			"prune":     true,
			"unknown":   "ignored",
		}).Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"render":  map[string]any{"out_dir": "dist", "prune": true},
			"runtime": map[string]any{"log_level": "warn"},
		}, data)
	})

	t.Run("Should only collect flags that were set", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("out", "generated", "")
		fs.Bool("prune", false, "")
		fs.Int("concurrency", 0, "")
		fs.Duration("debounce", time.Second, "")
		require.NoError(t, fs.Parse([]string{"--prune", "--concurrency=3", "--debounce=2s"}))
		flags := FlagsFromSet(fs)
		assert.Equal(t, map[string]any{"prune": true, "concurrency": 3, "debounce": "2s"}, flags)

		cfg, err := NewService().Load(context.Background(), NewCLIProvider(flags))
		require.NoError(t, err)
		assert.True(t, cfg.Render.Prune)
		assert.Equal(t, "generated", cfg.Render.OutDir)
		assert.Equal(t, 2*time.Second, cfg.CLI.WatchDebounce)
	})
}

func TestYAMLProvider(t *testing.T) {
	t.Run("Should return no values for a missing file", func(t *testing.T) {
		data, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Should drop null values", func(t *testing.T) {
		data, err := NewYAMLProvider(writeYAML(t, "render:\n  out_dir: ~\n  prune: true\ncli: ~\n")).Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"render": map[string]any{"prune": true}}, data)
	})

	t.Run("Should report malformed YAML", func(t *testing.T) {
		_, err := NewYAMLProvider(writeYAML(t, "render: [unclosed\n")).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML file")
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("Should find the first known file name", func(t *testing.T) {
		dir := t.TempDir()
		assert.Empty(t, FindConfigFile(dir))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".licensegen.yaml"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "licensegen.yml"), nil, 0o644))
		assert.Equal(t, filepath.Join(dir, "licensegen.yml"), FindConfigFile(dir))
	})
}

func TestMappings(t *testing.T) {
	t.Run("Should derive env and flag mappings from struct tags", func(t *testing.T) {
		assert.Equal(t, "LICENSEGEN_RENDER_OUT_DIR", GetEnvVarForConfigPath("render.out_dir"))
		assert.Equal(t, "render.out_dir", GenerateFlagToConfigMap()["out"])
		assert.Equal(t, "cli.watch_debounce", GenerateFlagToConfigMap()["debounce"])
		for _, m := range GenerateEnvMappings() {
			assert.Contains(t, m.EnvVar, "LICENSEGEN_")
		}
	})
}

func TestContext(t *testing.T) {
	t.Run("Should fall back to defaults", func(t *testing.T) {
		assert.Equal(t, Default(), FromContext(context.Background()))
	})

	t.Run("Should return the attached config", func(t *testing.T) {
		cfg := Default()
		cfg.Render.OutDir = "custom"
		ctx := ContextWithConfig(context.Background(), cfg)
		assert.Same(t, cfg, FromContext(ctx))
	})
}

func TestConfig_AutoloadConfig(t *testing.T) {
	t.Run("Should copy the catalog section", func(t *testing.T) {
		cfg := Default()
		cfg.Catalog.PackagePrefix = "example.com/licenses"
		ac := cfg.AutoloadConfig()
		assert.Equal(t, cfg.Catalog.Include, ac.Include)
		assert.Equal(t, "example.com/licenses", ac.PackagePrefix)
		ac.Include[0] = "changed"
		assert.NotEqual(t, "changed", cfg.Catalog.Include[0])
	})
}
