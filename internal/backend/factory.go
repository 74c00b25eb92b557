package backend

import (
	"fmt"

	"liquiledger/internal/log"
	"liquiledger/internal/store"
)

// Result contains the store instance and its cleanup function
type Result struct {
	Store   store.BlobStore
	Cleanup func() error
}

// Factory creates blob stores based on configuration
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default(log.ComponentBackend)
	}
	return &Factory{logger: logger}
}

// CreateStore builds the blob store described by the options
func (f *Factory) CreateStore(opts Options) (*Result, error) {
	switch opts.Type {
	case MemoryBackend:
		ms := store.NewMemoryStore()
		f.logger.Info("Initialized memory backend")
		return &Result{Store: ms, Cleanup: ms.Close}, nil

	case FileBackend:
		fs, err := store.NewFileStore(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "data_dir", opts.DataDir)
		return &Result{Store: fs, Cleanup: fs.Close}, nil

	case SQLiteBackend:
		db, err := store.NewSQLiteStore(opts.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite backend", "db_path", opts.SQLiteDBPath)
		return &Result{Store: db, Cleanup: db.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s (valid: %v)", opts.Type, Types())
	}
}
