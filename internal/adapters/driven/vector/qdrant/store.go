// Package qdrant provides the Qdrant-backed vector store. Points carry the
// chunk payload under underscore-prefixed keys; the dedup and deletion paths
// filter on those keys server-side.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Payload keys. Prefixed to keep clear of user metadata merged in under
// their own names inside _metadata.
const (
	keyDocumentID = "_document_id"
	keyUserID     = "_user_id"
	keySource     = "_source"
	keyMetadata   = "_metadata"
	keyChunkID    = "_chunk_id"
	keyPageNumber = "_page_number"
	keyType       = "_type"
	keyContent    = "_content"
	keyHash       = "_hash"
	keyTitle      = "_title"
	keySummary    = "_summary"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Config holds Qdrant connection settings.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// Collection is the collection points are written to.
	Collection string

	// Dimensions is the embedding size the collection is created with. Must
	// match the embedding service.
	Dimensions int
}

// Store is a Qdrant-backed implementation of driven.VectorStore.
type Store struct {
	client     *qdrant.Client
	collection string
}

// NewStore connects to Qdrant and ensures the collection exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("invalid embedding dimensions: %d", cfg.Dimensions)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	s := &Store{client: client, collection: cfg.Collection}
	if err := s.ensureCollection(ctx, uint64(cfg.Dimensions)); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context, dimensions uint64) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimensions,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// Upsert writes the batch of points in one request. With wait set, the call
// blocks until Qdrant acknowledges durability, which the commit path relies
// on before touching the relational store.
func (s *Store) Upsert(ctx context.Context, points []domain.VectorPoint, wait bool) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(payloadOf(p)),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(wait),
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// FindByHash looks up a point by (contentHash, ownerID). Returns (nil, nil)
// when no point matches.
func (s *Store) FindByHash(ctx context.Context, contentHash, ownerID string) (*domain.VectorPoint, error) {
	results, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(keyHash, contentHash),
				qdrant.NewMatch(keyUserID, ownerID),
			},
		},
		Limit:       qdrant.PtrOf(uint32(1)),
		WithPayload: qdrant.NewWithPayload(true),
		WithVectors: qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling by hash: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return pointOf(results[0]), nil
}

// DeleteByDocument removes every point whose payload matches both the
// document id and the owner id.
func (s *Store) DeleteByDocument(ctx context.Context, documentID, ownerID string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(keyDocumentID, documentID),
				qdrant.NewMatch(keyUserID, ownerID),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("deleting points for %q: %w", documentID, err)
	}
	return nil
}

// Close releases the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func payloadOf(p domain.VectorPoint) map[string]any {
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		keyDocumentID: p.DocumentID,
		keyUserID:     p.OwnerID,
		keySource:     string(p.Source),
		keyMetadata:   metadata,
		keyChunkID:    int64(p.ChunkIndex),
		keyPageNumber: int64(p.PageNumber),
		keyType:       string(p.ContentType),
		keyContent:    p.Content,
		keyHash:       p.ContentHash,
		keyTitle:      p.Title,
		keySummary:    p.Summary,
	}
}

func pointOf(r *qdrant.RetrievedPoint) *domain.VectorPoint {
	payload := r.GetPayload()
	point := &domain.VectorPoint{
		ID:          r.GetId().GetUuid(),
		DocumentID:  payload[keyDocumentID].GetStringValue(),
		OwnerID:     payload[keyUserID].GetStringValue(),
		Source:      domain.ServiceType(payload[keySource].GetStringValue()),
		ChunkIndex:  int(payload[keyChunkID].GetIntegerValue()),
		PageNumber:  int(payload[keyPageNumber].GetIntegerValue()),
		ContentType: domain.ContentType(payload[keyType].GetStringValue()),
		Content:     payload[keyContent].GetStringValue(),
		ContentHash: payload[keyHash].GetStringValue(),
		Title:       payload[keyTitle].GetStringValue(),
		Summary:     payload[keySummary].GetStringValue(),
	}

	if vectors := r.GetVectors().GetVector(); vectors != nil {
		point.Vector = vectors.GetData()
	}
	if meta := payload[keyMetadata].GetStructValue(); meta != nil {
		point.Metadata = structToMap(meta)
	}
	return point
}

func structToMap(s *qdrant.Struct) map[string]any {
	result := make(map[string]any, len(s.GetFields()))
	for key, value := range s.GetFields() {
		result[key] = valueToAny(value)
	}
	return result
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_StructValue:
		return structToMap(kind.StructValue)
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		result := make([]any, 0, len(values))
		for _, item := range values {
			result = append(result, valueToAny(item))
		}
		return result
	default:
		return nil
	}
}
