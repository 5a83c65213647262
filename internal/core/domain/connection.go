package domain

import (
	"encoding/json"
	"time"
)

// ServiceType identifies the kind of source behind a connection.
type ServiceType string

// Supported service kinds.
const (
	ServiceGoogleDrive  ServiceType = "GOOGLE_DRIVE"
	ServiceDropbox      ServiceType = "DROPBOX"
	ServiceAWS          ServiceType = "AWS"
	ServiceDirectUpload ServiceType = "DIRECT_UPLOAD"
)

// Connection represents a configured binding between an account and one
// document source. Each connection produces document snapshots via a
// connector and is indexed independently.
type Connection struct {
	// ID is the unique identifier for the connection.
	ID string

	// OwnerID is the account that owns this connection. All vector points
	// produced for the connection are tagged with it, and dedup lookups are
	// scoped by it.
	OwnerID string

	// Service identifies which connector fetches this connection's content.
	Service ServiceType

	// Identifier is the human-readable account identifier (email, bucket,
	// folder path) shown for this connection.
	Identifier string

	// Credentials holds opaque connector-specific credentials as JSON.
	Credentials string

	// FolderName restricts syncing to a folder, "*" for everything.
	FolderName string

	// Metadata is a free-form JSON object merged into the payload of every
	// chunk indexed under this connection.
	Metadata string

	// PageLimit caps the total pages indexed across all of the connection's
	// documents. Nil means unbounded.
	PageLimit *int

	// FileLimit caps the number of documents indexed in one run.
	// Nil means unbounded.
	FileLimit *int

	// ActiveJobID is non-empty while an indexing run is in flight. It acts
	// as a single-run mutex and as the handle for cancellation requests.
	ActiveJobID string

	// LastIndexedAt is when the last indexing run started, set on commit.
	LastIndexedAt *time.Time

	// CreatedAt is when the connection was configured.
	CreatedAt time.Time
}

// IsSyncing reports whether an indexing run is currently in flight.
func (c *Connection) IsSyncing() bool {
	return c.ActiveJobID != ""
}

// MergedMetadata decodes the connection's metadata JSON and merges it over
// the given file-level metadata. Connection metadata wins on key collisions.
// Malformed connection metadata is ignored rather than failing the run.
func (c *Connection) MergedMetadata(fileMetadata map[string]any) map[string]any {
	merged := make(map[string]any, len(fileMetadata))
	for k, v := range fileMetadata {
		merged[k] = v
	}
	if c.Metadata != "" {
		var connMeta map[string]any
		if err := json.Unmarshal([]byte(c.Metadata), &connMeta); err == nil {
			for k, v := range connMeta {
				merged[k] = v
			}
		}
	}
	return merged
}
