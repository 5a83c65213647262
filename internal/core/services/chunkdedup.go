package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

const (
	chunkSize    = 4096
	chunkOverlap = 614 // ~15% of chunkSize
)

// chunkSeparators prefer markdown heading boundaries, then paragraphs,
// lines, sentences and finally words.
var chunkSeparators = []string{"\n\n## ", "\n\n# ", "\n\n", "\n", ". ", "! ", "? ", " "}

func newSplitter() textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators(chunkSeparators),
		textsplitter.WithKeepSeparator(true),
	)
}

// payloadBase carries the per-document payload fields shared by every point
// produced from that document.
type payloadBase struct {
	DocumentID string
	OwnerID    string
	Source     domain.ServiceType
	Metadata   map[string]any
}

// pagePoints turns one page into vector points: one point per text chunk
// plus at most one point covering all of the page's tables.
func (ix *Indexer) pagePoints(ctx context.Context, page domain.PageContent, pageIdx int, base payloadBase) ([]domain.VectorPoint, error) {
	points, err := ix.textPoints(ctx, page.Text, pageIdx, base)
	if err != nil {
		return nil, err
	}

	table, err := ix.tablePoint(ctx, page.Tables, pageIdx, base)
	if err != nil {
		return nil, err
	}
	if table != nil {
		points = append(points, *table)
	}
	return points, nil
}

func (ix *Indexer) textPoints(ctx context.Context, text string, pageIdx int, base payloadBase) ([]domain.VectorPoint, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	chunks, err := ix.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	var points []domain.VectorPoint
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		point, err := ix.resolvePoint(ctx, chunk, base, domain.ContentText, i+1, pageIdx+1)
		if err != nil {
			return nil, err
		}
		points = append(points, *point)
	}
	return points, nil
}

func (ix *Indexer) tablePoint(ctx context.Context, tables []domain.Table, pageIdx int, base payloadBase) (*domain.VectorPoint, error) {
	content := renderTables(tables)
	if content == "" {
		return nil, nil
	}
	return ix.resolvePoint(ctx, content, base, domain.ContentTable, 0, pageIdx+1)
}

// resolvePoint deduplicates a piece of content against the vector store. On
// a hash hit the stored point is reused wholesale, keeping its id, vector
// and original document attribution; only the metadata is refreshed to the
// current run's merge. On a miss the content is embedded and enriched.
func (ix *Indexer) resolvePoint(ctx context.Context, content string, base payloadBase, contentType domain.ContentType, chunkIdx, pageNum int) (*domain.VectorPoint, error) {
	hash := domain.HashContent(content)

	existing, err := ix.vectors.FindByHash(ctx, hash, base.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing != nil {
		reused := *existing
		reused.Metadata = base.Metadata
		return &reused, nil
	}

	vector, err := ix.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed chunk: %w", err)
	}

	title, summary, err := ix.summaries.TitleAndSummary(ctx, content, fmt.Sprintf("%s, page %d", base.DocumentID, pageNum))
	if err != nil {
		return nil, fmt.Errorf("title and summary: %w", err)
	}

	return &domain.VectorPoint{
		ID:          uuid.NewString(),
		Vector:      vector,
		DocumentID:  base.DocumentID,
		OwnerID:     base.OwnerID,
		Source:      base.Source,
		Metadata:    base.Metadata,
		ChunkIndex:  chunkIdx,
		PageNumber:  pageNum,
		ContentType: contentType,
		Content:     content,
		ContentHash: hash,
		Title:       title,
		Summary:     summary,
	}, nil
}

// renderTables flattens a page's tables into one deterministic string. Each
// table is tagged with its ordinal and rendered as tab-separated rows so the
// same table always hashes the same.
func renderTables(tables []domain.Table) string {
	var rendered []string
	for i, table := range tables {
		if len(table) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "table %d:\n", i+1)
		for _, row := range table {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
		rendered = append(rendered, b.String())
	}
	return strings.Join(rendered, "\n-------------\n")
}
