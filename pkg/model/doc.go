// Package model provides the in-memory domain-model layer: records with a
// lazy-loading state machine, an identity map that keeps at most one live
// record per UID, and collections that track parent ownership for cloning.
//
// A record moves through the load states
//
//	virgin -> ghost -> loading -> loaded
//	                \-> dead <-/
//
// A record is virgin until it gets either data (SetData, straight to loaded)
// or a UID (SetUID, to ghost). A ghost materializes itself on the first
// field access by calling its Loader, which must leave it loaded or dead.
//
// Nothing in this package is safe for concurrent use. A record, its
// collections and the identity map that holds it belong to one request.
package model
