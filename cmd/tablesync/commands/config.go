package commands

import (
	"context"
	"fmt"
	"log/slog"
	"niopendata/lib/configutil"
	configlibsql "niopendata/lib/configutil/libsql"
	"niopendata/lib/pagestore"
	"niopendata/lib/pagestore/confluence"
	"niopendata/lib/pagestore/sqlstore"
	"niopendata/lib/restyutil"
	"os"
	"path/filepath"
	"time"
)

const (
	storeConfluence = "confluence"
	storeSqlite     = "sqlite"
)

type ConfluenceConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	// may reference an environment variable, e.g. "${CONFLUENCE_TOKEN}"
	Token          string `json:"token"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Config struct {
	// "confluence" or "sqlite"
	Store      string              `json:"store"`
	Confluence ConfluenceConfig    `json:"confluence"`
	Sqlite     configlibsql.Struct `json:"sqlite"`
	// http exchanges are dumped here when running with --debug
	DebugDir string `json:"debug_dir"`
}

func defaultConfig() Config {
	return Config{
		Store:    storeSqlite,
		Sqlite:   configlibsql.Struct{File: "<dev_state>/pages.db"},
		DebugDir: "<dev_state>/http",
	}
}

// loadConfig reads path directly when it has a directory part, a bare file
// name is searched for upwards from the working directory. no config at all means
// the local sqlite store.
func loadConfig(path string) (Config, error) {
	var (
		config Config
		err    error
	)
	if filepath.Base(path) != path {
		config, err = configutil.ReadConfig[Config](path)
	} else {
		config, err = configutil.ReadRecursively[Config](path)
	}
	if os.IsNotExist(err) {
		slog.Debug("no config found, using the local page store", "config", path)
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	if config.Store == "" {
		config.Store = storeSqlite
	}
	if config.Store == storeSqlite && config.Sqlite == (configlibsql.Struct{}) {
		config.Sqlite = defaultConfig().Sqlite
	}
	return config, nil
}

type openedStore struct {
	pagestore.Store
	close func() error
}

func (s openedStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStore(ctx context.Context, config Config) (openedStore, error) {
	switch config.Store {
	case storeConfluence:
		opts := confluence.ClientOptions{
			BaseUrl:  config.Confluence.BaseUrl,
			Username: config.Confluence.Username,
			Token:    config.Confluence.Token,
			Timeout:  time.Duration(config.Confluence.TimeoutSeconds) * time.Second,
		}
		if debug && config.DebugDir != "" {
			output, err := restyutil.NewFilesystemOutput(config.DebugDir)
			if err != nil {
				return openedStore{}, err
			}
			opts.Output = output
		}
		client, err := confluence.NewClient(opts)
		if err != nil {
			return openedStore{}, err
		}
		return openedStore{Store: client}, nil
	case storeSqlite:
		db, err := config.Sqlite.OpenDB()
		if err != nil {
			return openedStore{}, err
		}
		err = sqlstore.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return openedStore{}, err
		}
		return openedStore{Store: sqlstore.NewStore(db), close: db.Close}, nil
	}
	return openedStore{}, fmt.Errorf("unknown store %q, expected %q or %q", config.Store, storeConfluence, storeSqlite)
}
