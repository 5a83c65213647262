// Package sqlite provides the SQLite-backed metadata stores: connections
// and the relational record of indexed documents. A single Store owns the
// database handle; the per-interface stores are thin wrappers over it.
package sqlite
