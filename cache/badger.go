package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

const backendBadger = "badger"

// DefaultGCDiscardRatio is the value log garbage ratio that triggers a
// rewrite in Badger.Compact.
const DefaultGCDiscardRatio = 0.5

// Config holds configuration for a Badger cache.
type Config struct {
	// Path is the database directory, created when missing. Ignored when
	// InMemory is set.
	Path string

	// InMemory keeps the database in RAM only.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// GCDiscardRatio is passed to value log GC by Compact. 0 selects
	// DefaultGCDiscardRatio.
	GCDiscardRatio float64

	// Logger receives Badger's internal logging. nil disables it.
	Logger *slog.Logger
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("path is required for a persistent cache")
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio >= 1 {
		return fmt.Errorf("gc discard ratio must be in [0, 1), got %g", c.GCDiscardRatio)
	}
	return nil
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Badger is a cache persisted in a BadgerDB database. It is safe for
// concurrent use.
type Badger struct {
	db      *badger.DB
	discard float64
}

// Open opens (or creates) a Badger cache. The caller must Close it.
func Open(cfg Config) (*Badger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	discard := cfg.GCDiscardRatio
	if discard == 0 {
		discard = DefaultGCDiscardRatio
	}
	return &Badger{db: db, discard: discard}, nil
}

// Get returns the record stored under key.
func (b *Badger) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		observeGet(backendBadger, false, nil)
		return nil, false, nil
	}
	observeGet(backendBadger, err == nil, err)
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores data under key, replacing any previous record.
func (b *Badger) Set(key string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	observeSet(backendBadger, len(data), err)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Compact runs one value log garbage collection pass. Having nothing to
// rewrite is not an error.
func (b *Badger) Compact() error {
	err := b.db.RunValueLogGC(b.discard)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return fmt.Errorf("value log gc: %w", err)
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}
