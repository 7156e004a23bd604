package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Store   string            `json:"store"`
	Token   string            `json:"token"`
	Retries int               `json:"retries"`
	Labels  map[string]string `json:"labels"`
}

func write(t testing.TB, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tablesync.json5")

	_, err := ReadConfig[testConfig](name)
	require.True(t, os.IsNotExist(err), err)

	write(t, name, `{
		// comments and trailing commas are allowed
		store: "sqlite",
		retries: 3,
		labels: {team: "stats"},
	}`)
	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Store:   "sqlite",
		Retries: 3,
		Labels:  map[string]string{"team": "stats"},
	}, config)

	t.Setenv("TABLESYNC_TEST_TOKEN", "hunter2")
	write(t, filepath.Join(dir, "tablesync.local.json5"), `{
		store: "confluence",
		token: "${TABLESYNC_TEST_TOKEN}",
	}`)
	config, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "confluence", config.Store)
	require.Equal(t, "hunter2", config.Token)
	require.Equal(t, 3, config.Retries)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "telemetry.local.json5"), `{store: "memory"}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "telemetry.json5"))
	require.NoError(t, err)
	require.Equal(t, "memory", config.Store)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "broken.json5")
	write(t, name, `{store: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	write(t, filepath.Join(root, "found.json5"), `{retries: 7}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	config, err := ReadRecursively[testConfig]("found.json5")
	require.NoError(t, err)
	require.Equal(t, 7, config.Retries)

	_, err = ReadRecursively[testConfig]("missing-config-file.json5")
	require.True(t, os.IsNotExist(err), err)
}
