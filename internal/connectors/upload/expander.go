// Package upload implements the direct-upload path: expanding explicitly
// supplied files, links and raw texts into file snapshots.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Ensure Expander implements the interface.
var _ driven.DirectExpander = (*Expander)(nil)

// maxLinkSize caps fetched link bodies (5MB).
const maxLinkSize = 5 * 1024 * 1024

// Expander turns direct content into file snapshots. Uploaded files arrive
// with pages already extracted; links are fetched as single-page text
// documents named after their URL.
type Expander struct {
	client *http.Client
}

// NewExpander creates an expander with a default HTTP client.
func NewExpander() *Expander {
	return &Expander{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Expand resolves the content into file snapshots. Order is files, then
// links, then texts; the page budget follows that order.
func (e *Expander) Expand(ctx context.Context, content domain.DirectContent) ([]domain.FileContent, error) {
	var result []domain.FileContent

	for _, f := range content.Files {
		result = append(result, domain.FileContent{
			Name:     f.Name,
			Pages:    f.Pages,
			Metadata: f.Metadata,
		})
	}

	for _, link := range content.Links {
		file, err := e.fetchLink(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("fetching link %q: %w", link, err)
		}
		result = append(result, *file)
	}

	for _, t := range content.Texts {
		result = append(result, domain.FileContent{
			Name:  t.Name,
			Pages: []domain.PageContent{{Text: t.Text}},
		})
	}

	return result, nil
}

func (e *Expander) fetchLink(ctx context.Context, link string) (*domain.FileContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLinkSize))
	if err != nil {
		return nil, err
	}

	return &domain.FileContent{
		Name:  link,
		Pages: []domain.PageContent{{Text: string(data)}},
		Metadata: map[string]any{
			"url":          link,
			"content_type": resp.Header.Get("Content-Type"),
		},
	}, nil
}
