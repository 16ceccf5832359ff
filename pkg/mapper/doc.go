// Package mapper turns storage rows into model records.
//
// A DataMapper serves one table. It hands out ghosts from Find, keeps every
// record it produced in an identity map so a UID always maps to the same
// instance, and acts as the ghosts' Loader: the first read of a ghost
// fetches its row and resolves its relations into ghosts of other mappers.
//
// Mappers live in a Registry, which is scoped to one unit of work (a
// request, a CLI invocation, a test). Neither type is safe for concurrent
// use except Registry.Register, Get and Names.
package mapper
