package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	devenv "niopendata/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct configures a database connection. Url selects a remote libsql
// server, otherwise File is opened as a local sqlite database. File may be
// ":memory:" or a path prefixed with <dev_state>.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return config.openRemote()
	}
	return config.openFile()
}

func (config Struct) openRemote() (*sql.DB, error) {
	dsn := config.Url
	if config.AuthToken != "" {
		values := url.Values{}
		values.Add("authToken", config.AuthToken)
		dsn += "?" + values.Encode()
	}
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s: %w", config.Url, err)
	}
	return db, nil
}

func (config Struct) openFile() (*sql.DB, error) {
	if config.File == "" {
		return nil, fmt.Errorf("neither a database url nor a file was specified")
	}

	dbpath := config.File
	if dbpath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(config.File)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(dbpath)
		if os.IsNotExist(statErr) {
			f, err := os.Create(dbpath)
			if err != nil {
				return nil, err
			}
			f.Close()
		}
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// sqlite only tolerates a single writer, and every :memory: connection
	// would otherwise be a separate database
	db.SetMaxOpenConns(1)
	if dbpath != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
