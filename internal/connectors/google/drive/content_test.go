package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no page breaks",
			text: "single page of text",
			want: []string{"single page of text"},
		},
		{
			name: "form feed separated",
			text: "page one\fpage two\fpage three",
			want: []string{"page one", "page two", "page three"},
		},
		{
			name: "blank pages dropped",
			text: "page one\f   \f\fpage two",
			want: []string{"page one", "page two"},
		},
		{
			name: "empty document",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := splitPages(tt.text)
			require.Len(t, pages, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, pages[i].Text)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	table, err := parseCSV("name,amount\nwidgets,12\ngadgets,7\n")
	require.NoError(t, err)
	assert.Equal(t, domain.Table{
		{"name", "amount"},
		{"widgets", "12"},
		{"gadgets", "7"},
	}, table)
}

func TestParseCSV_RaggedRows(t *testing.T) {
	table, err := parseCSV("a,b,c\nonly-one\n")
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, []string{"only-one"}, table[1])
}

func TestIsTextFile(t *testing.T) {
	assert.True(t, isTextFile("text/plain"))
	assert.True(t, isTextFile("text/markdown"))
	assert.True(t, isTextFile("application/json"))
	assert.False(t, isTextFile("image/png"))
	assert.False(t, isTextFile("application/pdf"))
}
