package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

func TestRemovedDocuments(t *testing.T) {
	stored := []domain.IndexedDocument{
		{Name: "a.pdf"},
		{Name: "b.pdf"},
		{Name: "c.pdf"},
	}

	tests := []struct {
		name     string
		snapshot []domain.FileContent
		want     []string
	}{
		{
			name:     "all present",
			snapshot: []domain.FileContent{{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"}},
			want:     nil,
		},
		{
			name:     "one removed",
			snapshot: []domain.FileContent{{Name: "a.pdf"}, {Name: "c.pdf"}},
			want:     []string{"b.pdf"},
		},
		{
			name:     "empty snapshot removes everything in stored order",
			snapshot: nil,
			want:     []string{"a.pdf", "b.pdf", "c.pdf"},
		},
		{
			name:     "new documents are ignored",
			snapshot: []domain.FileContent{{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"}, {Name: "d.pdf"}},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removedDocuments(stored, tt.snapshot))
		})
	}
}

func TestRemovedDocuments_NoStored(t *testing.T) {
	assert.Nil(t, removedDocuments(nil, []domain.FileContent{{Name: "a.pdf"}}))
}
