package fixtures

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/otiai10/copy"
	"github.com/stretchr/testify/require"
)

// SetupFixture copies <pkgPath>/fixtures/<name> into a fresh temp directory
// and returns its path.
func SetupFixture(t *testing.T, pkgPath, name string) string {
	t.Helper()
	srcPath := filepath.Join(pkgPath, "fixtures", name)
	dstPath := filepath.Join(t.TempDir(), "licensegen-test-"+uuid.New().String())
	err := copy.Copy(srcPath, dstPath)
	require.NoError(t, err)
	return dstPath
}
