package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	configlibsql "niopendata/lib/configutil/libsql"
	"niopendata/lib/telemetry"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService prepares logging and telemetry for a test and, when a schema
// is given, a fresh database with that schema applied.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	db, err := configlibsql.Struct{File: dbpath}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: db}, func() {
		db.Close()
		cleanup()
	}
}
