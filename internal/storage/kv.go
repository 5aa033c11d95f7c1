// Package storage is the durable key-value port used for autosave and the
// saved-diagram list. Values are opaque bytes; a missing key is reported as
// absent rather than as an error.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// KV is the persistence port. Set must be durable when it returns nil.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Options struct {
	Driver    string
	Dir       string // bolt and sqlite database directory
	RedisAddr string
}

// Open returns the backend named by opts.Driver. An empty driver means
// bolt.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case DriverBolt, "":
		return OpenBolt(filepath.Join(opts.Dir, "sketchflow.db"))
	case DriverSQLite:
		return OpenSQLite(ctx, filepath.Join(opts.Dir, "sketchflow.sqlite"))
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisAddr)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}
