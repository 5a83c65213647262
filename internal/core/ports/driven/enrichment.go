package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - compatible APIs via a custom base URL
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536, 3072).
	// This must match the vector store's collection configuration.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// SummaryService generates a short title and summary for a chunk.
// Called only on dedup cache misses; reused points keep their existing
// title and summary. Retries, if any, are the implementation's concern;
// the pipeline calls it exactly once per miss.
type SummaryService interface {
	// TitleAndSummary returns a title and summary for the content.
	// contextHint carries surrounding context (document name, page) to
	// ground the generation.
	TitleAndSummary(ctx context.Context, content, contextHint string) (title, summary string, err error)

	// Close releases resources.
	Close() error
}
