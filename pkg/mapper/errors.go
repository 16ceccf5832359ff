package mapper

import "errors"

var (
	// ErrEmptyName is returned when a definition has no mapper name.
	ErrEmptyName = errors.New("mapper: empty name")
	// ErrEmptyTable is returned when a definition has no table.
	ErrEmptyTable = errors.New("mapper: empty table")
	// ErrInvalidRelation is returned for a relation without column or
	// target mapper.
	ErrInvalidRelation = errors.New("mapper: invalid relation")
	// ErrConflictingRegistration indicates an attempt to register a
	// different definition under a name already in use.
	ErrConflictingRegistration = errors.New("mapper: conflicting registration")
	// ErrMapperNotFound is returned by Registry.Get for an unknown name.
	ErrMapperNotFound = errors.New("mapper: not found")
)
