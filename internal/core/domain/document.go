package domain

import "time"

// IndexedDocument is the relational record of what has been committed to the
// vector store for one document. One row exists per (connection, name) pair.
type IndexedDocument struct {
	// Name is the document name as reported by the connector. Unique within
	// a connection, not across owners.
	Name string

	// ConnectionID links to the owning Connection.
	ConnectionID string

	// TotalPages is the number of pages actually indexed for this document
	// in the latest run. A run stopped by budget or cancellation records
	// only the pages it processed.
	TotalPages int

	// ChunkIDs is the ordered list of vector point ids belonging to this
	// document.
	ChunkIDs []string

	// UpdatedAt is when the row was last written.
	UpdatedAt time.Time
}

// Table is one extracted table: rows of cells. The pipeline treats tables as
// opaque beyond rendering them into text for hashing and embedding.
type Table [][]string

// PageContent is one page of already-extracted content. Extraction from raw
// bytes (PDF parsing etc.) happens upstream of the pipeline.
type PageContent struct {
	// Title is the page or section title, may be empty.
	Title string

	// Text is the extracted plain text of the page.
	Text string

	// Tables are the tables found on the page, in order.
	Tables []Table
}

// FileContent is one document in a connection's snapshot. It is ephemeral:
// produced by a connector, consumed by a single run, never persisted.
type FileContent struct {
	// Name is the document name, unique within the connection.
	Name string

	// Pages are the document's pages in order.
	Pages []PageContent

	// Metadata is file-level metadata merged into each chunk payload,
	// beneath the connection's own metadata.
	Metadata map[string]any
}

// UploadedFile is a directly-uploaded document with its extracted pages.
type UploadedFile struct {
	Name     string
	Pages    []PageContent
	Metadata map[string]any
}

// TextUpload is a raw text snippet uploaded as a single-page document.
type TextUpload struct {
	Name string
	Text string
}

// DirectContent is the explicit content of a direct-upload sync. Unlike
// source-driven syncs there is no snapshot to diff against: removals are
// supplied by the caller.
type DirectContent struct {
	Files            []UploadedFile
	Links            []string
	Texts            []TextUpload
	RemovedDocuments []string
}
