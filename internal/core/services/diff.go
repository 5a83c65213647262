package services

import "github.com/docsync-labs/docsync/internal/core/domain"

// removedDocuments returns the names of previously indexed documents that no
// longer appear in the snapshot, preserving stored order.
func removedDocuments(stored []domain.IndexedDocument, snapshot []domain.FileContent) []string {
	present := make(map[string]bool, len(snapshot))
	for _, f := range snapshot {
		present[f.Name] = true
	}

	var removed []string
	for _, doc := range stored {
		if !present[doc.Name] {
			removed = append(removed, doc.Name)
		}
	}
	return removed
}
