package driven

import (
	"context"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// VectorStore persists embedded chunks with their payloads.
// Backed by Qdrant.
type VectorStore interface {
	// Upsert writes the batch of points. With wait set, the call blocks
	// until the store confirms durability. Existing ids are replaced.
	Upsert(ctx context.Context, points []domain.VectorPoint, wait bool) error

	// FindByHash looks up a point by (contentHash, ownerID). Returns
	// (nil, nil) when no point matches. The lookup is deliberately not
	// scoped by document: identical content under one owner shares a point.
	FindByHash(ctx context.Context, contentHash, ownerID string) (*domain.VectorPoint, error)

	// DeleteByDocument removes every point whose payload matches both the
	// document id and the owner id. Points of other owners are never
	// touched, even when document names collide.
	DeleteByDocument(ctx context.Context, documentID, ownerID string) error

	// Close releases resources.
	Close() error
}
