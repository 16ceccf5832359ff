// Package models provides typed views over model records for the standard
// tables, and the mapper definitions that load them.
package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/svewap/ext-oelib-sub002/pkg/mapper"
	"github.com/svewap/ext-oelib-sub002/pkg/model"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// Mapper names.
const (
	FrontEndUserMapper      = "frontend_user"
	FrontEndUserGroupMapper = "frontend_user_group"
	CountryMapper           = "country"
)

// ErrEmptyGroupList is returned by HasGroupMembership for an empty list.
var ErrEmptyGroupList = errors.New("models: group uid list must not be empty")

// Definitions returns the mapper definitions of every model in this
// package.
func Definitions() []mapper.Definition {
	return []mapper.Definition{
		{
			Name:  FrontEndUserMapper,
			Table: types.FrontEndUsersTable,
			Relations: []mapper.Relation{
				{Column: "usergroup", Kind: mapper.ToMany, Mapper: FrontEndUserGroupMapper},
			},
		},
		{
			Name:  FrontEndUserGroupMapper,
			Table: types.FrontEndGroupsTable,
			Relations: []mapper.Relation{
				{Column: "subgroup", Kind: mapper.ToMany, Mapper: FrontEndUserGroupMapper, Owned: true},
			},
		},
		{
			Name:     CountryMapper,
			Table:    types.CountriesTable,
			ReadOnly: true,
		},
	}
}

// Register registers every definition with reg.
func Register(reg *mapper.Registry) error {
	for _, def := range Definitions() {
		if _, err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// MapperForTable returns the name of the mapper serving table.
func MapperForTable(table string) (string, error) {
	for _, def := range Definitions() {
		if def.Table == table {
			return def.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
}

func find(reg *mapper.Registry, name string, uid int) (*model.Record, error) {
	m, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	return m.Find(uid)
}

func findByColumn(ctx context.Context, reg *mapper.Registry, name, column string, value any) (*model.Record, error) {
	m, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	return m.FindSingleByColumn(ctx, column, value)
}
