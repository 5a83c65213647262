package drive

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// Google Workspace MIME types.
const (
	mimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	mimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	mimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	mimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	exportMimeText = "text/plain"
	exportMimeCSV  = "text/csv"
)

// maxExportSize is the maximum size for exported content (5MB).
const maxExportSize = 5 * 1024 * 1024

// fileContent extracts one Drive file into pages. Returns nil for files the
// pipeline cannot represent as text (binaries, images).
func (c *Connector) fileContent(ctx context.Context, f *drive.File) (*domain.FileContent, error) {
	var pages []domain.PageContent

	switch f.MimeType {
	case mimeTypeGoogleDoc, mimeTypeGoogleSlides:
		text, err := c.export(ctx, f.Id, exportMimeText)
		if err != nil {
			return nil, err
		}
		pages = splitPages(text)
	case mimeTypeGoogleSheet:
		raw, err := c.export(ctx, f.Id, exportMimeCSV)
		if err != nil {
			return nil, err
		}
		table, err := parseCSV(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing sheet export: %w", err)
		}
		pages = []domain.PageContent{{Title: f.Name, Tables: []domain.Table{table}}}
	default:
		if !isTextFile(f.MimeType) || f.Size > maxExportSize {
			return nil, nil
		}
		text, err := c.download(ctx, f.Id)
		if err != nil {
			return nil, err
		}
		pages = []domain.PageContent{{Text: text}}
	}

	return &domain.FileContent{
		Name:  f.Name,
		Pages: pages,
		Metadata: map[string]any{
			"file_id":       f.Id,
			"mime_type":     f.MimeType,
			"modified_time": f.ModifiedTime,
		},
	}, nil
}

func (c *Connector) export(ctx context.Context, fileID, exportMime string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
	if err != nil {
		c.recordIfRateLimited(err)
		return "", fmt.Errorf("exporting file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExportSize))
	if err != nil {
		return "", fmt.Errorf("reading export: %w", err)
	}
	return string(data), nil
}

func (c *Connector) download(ctx context.Context, fileID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		c.recordIfRateLimited(err)
		return "", fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExportSize))
	if err != nil {
		return "", fmt.Errorf("reading file content: %w", err)
	}
	return string(data), nil
}

// splitPages splits exported text on form feeds, which Drive inserts at
// page breaks. Blank pages are dropped; a document with no breaks is a
// single page.
func splitPages(text string) []domain.PageContent {
	var pages []domain.PageContent
	for _, part := range strings.Split(text, "\f") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pages = append(pages, domain.PageContent{Text: part})
	}
	return pages
}

// parseCSV parses a CSV export into one table. Ragged rows are tolerated;
// sheets frequently have trailing blank columns.
func parseCSV(raw string) (domain.Table, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	table := make(domain.Table, 0, len(rows))
	for _, row := range rows {
		table = append(table, row)
	}
	return table, nil
}

// isTextFile checks if a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	textTypes := []string{
		"application/json",
		"application/xml",
		"application/javascript",
		"application/x-yaml",
		"application/sql",
	}
	for _, t := range textTypes {
		if mimeType == t {
			return true
		}
	}
	return false
}
