// Package factory picks a concrete store.Writer backend from a
// cnf.StoreConfig, grounded directly on db/factory/main.go's
// NewDatabaseWriter: a switch over a config type string, falling back to
// a NullWriter when no backend is configured.
package factory

import (
	"github.com/cuedspeech/lpcdecode/cnf"
	"github.com/cuedspeech/lpcdecode/store"
	"github.com/cuedspeech/lpcdecode/store/mysql"
	"github.com/cuedspeech/lpcdecode/store/sqlite"
)

// NewWriter builds the store.Writer named by conf.DBType. An unrecognized
// or empty DBType returns a store.NullWriter, not an error: recording is
// optional (SPEC_FULL.md §2.3), and callers that never enable it should
// never have to check for one.
func NewWriter(conf cnf.StoreConfig) (store.Writer, error) {
	switch conf.DBType {
	case "sqlite":
		return &sqlite.Writer{Path: conf.Path}, nil
	case "mysql":
		return mysql.NewWriter(mysql.Config{
			Host:     conf.Host,
			User:     conf.User,
			Password: conf.Password,
			DBName:   conf.Name,
		})
	default:
		return &store.NullWriter{}, nil
	}
}
