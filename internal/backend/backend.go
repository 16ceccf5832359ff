// Package backend turns a types.Config into an attached RowSource.
package backend

import (
	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/internal/bolt"
	"github.com/svewap/ext-oelib-sub002/internal/memory"
	"github.com/svewap/ext-oelib-sub002/internal/sqlite"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

type attacher interface {
	types.RowSource
	Attach(types.Config) error
}

// Open validates config and returns the matching backend, attached. The
// caller closes it.
func Open(config types.Config, log *zap.SugaredLogger) (types.RowSource, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var b attacher
	switch config.Backend {
	case types.BackendSQLite:
		b = sqlite.NewBackend(log)
	case types.BackendBolt:
		b = bolt.NewBackend(log)
	case types.BackendMemory:
		b = memory.NewBackend(log)
	default:
		return nil, types.ErrBackendUnknown
	}
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}
