// Package db internal/infrastructure/db/badger.go
package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
)

const sequenceBandwidth = 100

// Options configures how the Badger store is opened
type Options struct {
	Dir        string
	SyncWrites bool
	InMemory   bool
	Logger     logger.Logger
}

// Open opens (or creates) the Badger store described by opts
func Open(opts Options) (*badger.DB, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Dir).WithSyncWrites(opts.SyncWrites)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(&badgerLogger{log: opts.Logger.WithField("component", "badger")})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// badgerLogger routes Badger's internal logging through the application logger.
// Badger is chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(badgerMessage(format, args...), nil)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(badgerMessage(format, args...), nil)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(badgerMessage(format, args...), nil)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(badgerMessage(format, args...), nil)
}

func badgerMessage(format string, args ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

// idKey renders a zero-padded key so lexical order matches numeric order
func idKey(prefix string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

// indexPrefix is the key prefix for all index entries of one owner id
func indexPrefix(prefix string, ownerID uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", prefix, ownerID))
}

func indexKey(prefix string, ownerID, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", prefix, ownerID, id))
}
