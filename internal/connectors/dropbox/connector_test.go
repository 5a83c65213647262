package dropbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

func TestNew(t *testing.T) {
	conn := domain.Connection{
		Service:     domain.ServiceDropbox,
		Credentials: `{"access_token":"token-123"}`,
		FolderName:  "*",
	}
	c, err := New(conn)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceDropbox, c.Service())
}

func TestNew_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name        string
		credentials string
	}{
		{name: "malformed json", credentials: "not-json"},
		{name: "missing token", credentials: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(domain.Connection{Credentials: tt.credentials})
			assert.ErrorIs(t, err, domain.ErrConnectorValidation)
		})
	}
}

func TestTextExtensions(t *testing.T) {
	assert.True(t, textExtensions[".md"])
	assert.True(t, textExtensions[".csv"])
	assert.False(t, textExtensions[".pdf"])
	assert.False(t, textExtensions[".png"])
}
