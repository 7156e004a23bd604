package configlibsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	db, err := Struct{File: path}.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("create table t (v text)")
	require.NoError(t, err)
	_, err = db.Exec("insert into t values ('x')")
	require.NoError(t, err)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)

	reopened, err := Struct{File: path}.OpenDB()
	require.NoError(t, err)
	defer reopened.Close()

	var v string
	require.NoError(t, reopened.QueryRow("select v from t").Scan(&v))
	require.Equal(t, "x", v)
}

func TestOpenMemory(t *testing.T) {
	db, err := Struct{File: ":memory:"}.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("create table t (v integer)")
	require.NoError(t, err)
	// a second query must land on the same in-memory database
	var count int
	require.NoError(t, db.QueryRow("select count(*) from t").Scan(&count))
	require.Equal(t, 0, count)
}

func TestOpenNothing(t *testing.T) {
	_, err := Struct{}.OpenDB()
	require.Error(t, err)
}
