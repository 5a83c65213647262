package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "documents", cfg.Qdrant.Collection)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 5*time.Second, cfg.Worker.PollTimeout())
}

func TestLoad_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
data_dir = "/var/lib/docsync"
verbose = true

[redis]
addr = "redis.internal:6379"
db = 2

[qdrant]
host = "qdrant.internal"
port = 6333
use_tls = true

[openai]
api_key = "file-key"
embedding_model = "text-embedding-3-large"

[worker]
poll_timeout_seconds = 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docsync", cfg.DataDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	assert.True(t, cfg.Qdrant.UseTLS)
	assert.Equal(t, "file-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "text-embedding-3-large", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 30*time.Second, cfg.Worker.PollTimeout())
	// unset values keep their defaults
	assert.Equal(t, "documents", cfg.Qdrant.Collection)
}

func TestLoad_EnvOverridesFileSecrets(t *testing.T) {
	dir := t.TempDir()
	content := `
[openai]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.Error(t, cfg.Validate(), "missing API key must fail validation")

	cfg.OpenAI.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.Redis.Addr = ""
	assert.Error(t, cfg.Validate())
}
