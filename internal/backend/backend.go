// Package backend selects and constructs the blob store implementation
// the ledger persists through.
package backend

import (
	"fmt"

	"liquiledger/internal/config"
)

// Type represents the kind of blob store backing the ledger
type Type string

const (
	MemoryBackend Type = "memory"
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types
func Types() []Type {
	return []Type{MemoryBackend, FileBackend, SQLiteBackend}
}

// Options holds backend construction parameters
type Options struct {
	Type         Type
	DataDir      string
	SQLiteDBPath string
}

// FromAppConfig converts the application config to backend options
func FromAppConfig(appConfig *config.Config) (Options, error) {
	if appConfig == nil {
		return Options{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Options{}, fmt.Errorf("invalid backend type in config: %s (valid: %v)", appConfig.DataBackend, Types())
	}

	return Options{
		Type:         t,
		DataDir:      appConfig.DataDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}
