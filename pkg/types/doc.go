// Package types defines the storage configuration, the standard table
// names and the RowSource interface that data mappers read rows through,
// together with the storage errors every backend returns.
package types
