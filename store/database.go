package store

import (
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Options configures Open. Dir is the directory the engine persists to; if
// InMemory is true, Dir is ignored and nothing touches disk, which is all
// the unit tests in this module need.
type Options struct {
	Dir      string
	InMemory bool
	Logger   *zap.Logger
}

// Database is a handle to one open engine file plus the registry of table
// and index names declared against it. It is safe for concurrent use by
// multiple goroutines and, like the engine handle it wraps, is cheap to
// pass around by pointer rather than by value.
type Database struct {
	db     *badger.DB
	mu     sync.Mutex
	names  map[string]struct{}
	logger *zap.Logger
}

// Open creates or opens the engine file at opts.Dir (or an in-memory store
// if opts.InMemory is set) and returns a Database ready for table and
// index registration.
func Open(opts Options) (*Database, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory || opts.Dir == "" {
		bopts = bopts.WithInMemory(true)
	}
	bopts = bopts.WithLogger(&badgerLogAdapter{logger.Sugar()})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	return &Database{db: db, names: make(map[string]struct{}), logger: logger}, nil
}

// Close releases the engine file. Registered tables and indexes remain
// valid Go values afterward but any operation against them will fail.
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("store: close database: %w", err)
	}
	return nil
}

// reserveName registers name in the shared table/index namespace, failing
// if it is already taken. Table and index names share one namespace
// because they share one flat keyspace: a collision would mean two
// schemas writing into the same byte-prefix region.
func (d *Database) reserveName(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.names[name]; dup {
		return fmt.Errorf("store: %q is already registered", name)
	}
	d.names[name] = struct{}{}
	return nil
}

// View runs fn in a read-only transaction. Per the underlying engine's
// MVCC model, fn observes a consistent snapshot for its whole duration
// even while concurrent writers commit.
func (d *Database) View(fn func(r *ReadTxn) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		return fn(&ReadTxn{txn: txn})
	})
}

// Update runs fn in a read-write transaction and commits on a nil return.
// Exactly one writer transaction runs at a time; keep fn's work to a
// single logical row (or a small batch of related ones) to avoid holding
// the write lock any longer than necessary.
func (d *Database) Update(fn func(w *WriteTxn) error) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return fn(&WriteTxn{ReadTxn{txn: txn}})
	})
}

// badgerLogAdapter routes the engine's own diagnostic logging through
// zap instead of badger's default stderr logger.
type badgerLogAdapter struct {
	s *zap.SugaredLogger
}

func (a *badgerLogAdapter) Errorf(f string, v ...interface{})   { a.s.Errorf(f, v...) }
func (a *badgerLogAdapter) Warningf(f string, v ...interface{}) { a.s.Warnf(f, v...) }
func (a *badgerLogAdapter) Infof(f string, v ...interface{})    { a.s.Infof(f, v...) }
func (a *badgerLogAdapter) Debugf(f string, v ...interface{})   { a.s.Debugf(f, v...) }
