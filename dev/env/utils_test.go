package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetWorkspaceRoot(t *testing.T) {
	root, err := GetWorkspaceRoot()
	require.NoError(t, err)

	mod, err := os.ReadFile(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	require.Contains(t, string(mod), "module niopendata")
}

func TestResolvePath(t *testing.T) {
	path, err := ResolvePath("/tmp/pages.db")
	require.NoError(t, err)
	require.Equal(t, "/tmp/pages.db", path)

	root, err := GetWorkspaceRoot()
	require.NoError(t, err)

	path, err = ResolvePath("<dev_state>/http/dumps")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "http", "dumps"), path)
}
