package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svewap/ext-oelib-sub002/internal/backend"
	"github.com/svewap/ext-oelib-sub002/pkg/mapper"
	"github.com/svewap/ext-oelib-sub002/pkg/model"
	"github.com/svewap/ext-oelib-sub002/pkg/models"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

// session is an attached RowSource plus the registry reading from it.
type session struct {
	source   types.RowSource
	registry *mapper.Registry
}

func (s *session) Close() error { return s.source.Close() }

// mapperFor returns the data mapper serving table.
func (s *session) mapperFor(table string) (*mapper.DataMapper, error) {
	name, err := models.MapperForTable(table)
	if err != nil {
		return nil, userError(fmt.Errorf("unknown table %q (valid: %s)", table, validTableNamesStr))
	}
	m, err := s.registry.Get(name)
	if err != nil {
		return nil, sysError(err)
	}
	return m, nil
}

// existing finds uid in table and loads it, returning a user error when no
// live row exists.
func (s *session) existing(table, arg string) (*model.Record, error) {
	uid, err := strconv.Atoi(arg)
	if err != nil || uid <= 0 {
		return nil, userError(fmt.Errorf("invalid uid %q: must be a positive integer", arg))
	}
	m, err := s.mapperFor(table)
	if err != nil {
		return nil, err
	}
	ok, err := m.Existing(uid)
	if err != nil {
		return nil, sysError(fmt.Errorf("load %s %d: %w", table, uid, err))
	}
	if !ok {
		return nil, userError(fmt.Errorf("record %d not found in table %q", uid, table))
	}
	return m.Find(uid)
}

// openSource attaches the configured backend.
func openSource(name, dataDir string) (types.RowSource, error) {
	src, err := backend.Open(types.Config{Backend: name, DataDir: dataDir}, state.log)
	if err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrBackendEmpty) {
			return nil, userError(fmt.Errorf("backend %q: %w", name, err))
		}
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return src, nil
}

// openSession resolves the data directory and backend, attaches it and
// registers the standard models. The caller must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	src, err := openSource(resolveBackend(), dataDir)
	if err != nil {
		return nil, err
	}
	reg := mapper.NewRegistry(src,
		mapper.WithLogger(state.log),
		mapper.WithContext(cmd.Context()),
	)
	if err := models.Register(reg); err != nil {
		src.Close()
		return nil, sysError(err)
	}
	return &session{source: src, registry: reg}, nil
}
