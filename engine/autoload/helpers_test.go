package autoload

import (
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testRoot = "/catalog"

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := path.Join(testRoot, name)
		require.NoError(t, fs.MkdirAll(path.Dir(full), 0o755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0o644))
	}
}

func testConfig() *Config {
	cfg := NewConfig()
	cfg.Root = testRoot
	cfg.PackagePrefix = "example.com/licenses"
	return cfg
}
