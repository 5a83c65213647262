// Package connectors contains the source connector implementations and the
// factory that binds a connection's service kind to one of them. Connectors
// fetch document snapshots with pages already extracted to plain text and
// tables; everything past that point is service-agnostic.
package connectors
