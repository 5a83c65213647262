package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentType distinguishes text chunks from table chunks.
type ContentType string

const (
	// ContentText is a chunk produced by splitting page text.
	ContentText ContentType = "text"

	// ContentTable is the single point produced from a page's tables.
	ContentTable ContentType = "table"
)

// VectorPoint is one entry in the vector store: an embedding plus the
// payload the retrieval path filters on.
type VectorPoint struct {
	// ID is the point id in the vector store.
	ID string

	// Vector is the embedding.
	Vector []float32

	// DocumentID is the name of the document the point was first indexed
	// under. A deduplicated point keeps its original attribution.
	DocumentID string

	// OwnerID is the account the point belongs to.
	OwnerID string

	// Source is the service kind of the connection that indexed the point.
	Source ServiceType

	// Metadata is the merged file + connection metadata at indexing time.
	// Refreshed on dedup reuse.
	Metadata map[string]any

	// ChunkIndex is the 1-based position of the chunk within its page.
	// Zero for table points.
	ChunkIndex int

	// PageNumber is the 1-based page the content came from.
	PageNumber int

	// ContentType is text or table.
	ContentType ContentType

	// Content is the chunk text itself.
	Content string

	// ContentHash is the hex SHA-256 of Content, the dedup key together
	// with OwnerID.
	ContentHash string

	// Title and Summary are generated by the enrichment service.
	Title   string
	Summary string
}

// HashContent returns the hex SHA-256 digest of the given content.
// Identical content always produces the identical hash.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
