package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionIsSyncing(t *testing.T) {
	conn := Connection{}
	assert.False(t, conn.IsSyncing())

	conn.ActiveJobID = "job-1"
	assert.True(t, conn.IsSyncing())
}

func TestMergedMetadata(t *testing.T) {
	tests := []struct {
		name     string
		connMeta string
		fileMeta map[string]any
		want     map[string]any
	}{
		{
			name:     "connection metadata wins on collision",
			connMeta: `{"team":"billing","env":"prod"}`,
			fileMeta: map[string]any{"team": "legacy", "path": "/a"},
			want:     map[string]any{"team": "billing", "env": "prod", "path": "/a"},
		},
		{
			name:     "empty connection metadata",
			connMeta: "",
			fileMeta: map[string]any{"path": "/a"},
			want:     map[string]any{"path": "/a"},
		},
		{
			name:     "malformed connection metadata is ignored",
			connMeta: "{not json",
			fileMeta: map[string]any{"path": "/a"},
			want:     map[string]any{"path": "/a"},
		},
		{
			name:     "nil file metadata",
			connMeta: `{"env":"prod"}`,
			fileMeta: nil,
			want:     map[string]any{"env": "prod"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := Connection{Metadata: tt.connMeta}
			assert.Equal(t, tt.want, conn.MergedMetadata(tt.fileMeta))
		})
	}
}

func TestHashContent(t *testing.T) {
	h1 := HashContent("hello world")
	h2 := HashContent("hello world")
	h3 := HashContent("hello worlds")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex sha256

	// Known digest to pin the algorithm.
	assert.Equal(t,
		"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", h1)
}
