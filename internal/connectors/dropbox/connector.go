// Package dropbox implements the Dropbox connector. Only text-like files
// are fetched; Dropbox has no page structure, so each file becomes a
// single-page document.
package dropbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/users"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
	"github.com/docsync-labs/docsync/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// maxFileSize caps downloads (5MB); larger files are skipped.
const maxFileSize = 5 * 1024 * 1024

// textExtensions are the file extensions treated as extractable text.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
	".xml":  true,
	".yaml": true,
	".yml":  true,
	".log":  true,
	".html": true,
}

// credentials is the JSON shape stored on a Dropbox connection.
type credentials struct {
	AccessToken string `json:"access_token"`
}

// Connector fetches snapshots from one Dropbox account.
type Connector struct {
	files  files.Client
	users  users.Client
	folder string
}

// New builds a Dropbox connector from the connection's stored credentials.
func New(conn domain.Connection) (*Connector, error) {
	var creds credentials
	if err := json.Unmarshal([]byte(conn.Credentials), &creds); err != nil {
		return nil, fmt.Errorf("%w: parsing dropbox credentials: %v", domain.ErrConnectorValidation, err)
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: dropbox credentials carry no token", domain.ErrConnectorValidation)
	}

	cfg := dropbox.Config{Token: creds.AccessToken}
	return &Connector{
		files:  files.New(cfg),
		users:  users.New(cfg),
		folder: conn.FolderName,
	}, nil
}

// Service returns the service kind this connector handles.
func (c *Connector) Service() domain.ServiceType {
	return domain.ServiceDropbox
}

// Validate checks the token by fetching the account profile.
func (c *Connector) Validate(_ context.Context) error {
	if _, err := c.users.GetCurrentAccount(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}
	return nil
}

// FetchSnapshot lists the connection's folder recursively and downloads
// the text files. Undownloadable files are skipped with a log line.
func (c *Connector) FetchSnapshot(ctx context.Context) ([]domain.FileContent, error) {
	root := ""
	if c.folder != "" && c.folder != "*" {
		root = "/" + strings.TrimPrefix(c.folder, "/")
	}

	arg := files.NewListFolderArg(root)
	arg.Recursive = true

	var result []domain.FileContent
	page, err := c.files.ListFolder(arg)
	if err != nil {
		return nil, fmt.Errorf("listing dropbox folder %q: %w", root, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, entry := range page.Entries {
			meta, ok := entry.(*files.FileMetadata)
			if !ok {
				continue // folders and deleted entries
			}
			content, err := c.fileContent(meta)
			if err != nil {
				logger.Warn("skipping dropbox file %q: %v", meta.Name, err)
				continue
			}
			if content != nil {
				result = append(result, *content)
			}
		}

		if !page.HasMore {
			break
		}
		page, err = c.files.ListFolderContinue(files.NewListFolderContinueArg(page.Cursor))
		if err != nil {
			return nil, fmt.Errorf("continuing dropbox listing: %w", err)
		}
	}

	return result, nil
}

// Close releases resources.
func (c *Connector) Close() error {
	return nil
}

func (c *Connector) fileContent(meta *files.FileMetadata) (*domain.FileContent, error) {
	ext := strings.ToLower(path.Ext(meta.Name))
	if !textExtensions[ext] || meta.Size > maxFileSize {
		return nil, nil
	}

	_, body, err := c.files.Download(files.NewDownloadArg(meta.PathLower))
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	return &domain.FileContent{
		Name:  meta.Name,
		Pages: []domain.PageContent{{Text: string(data)}},
		Metadata: map[string]any{
			"file_id":       meta.Id,
			"path":          meta.PathDisplay,
			"modified_time": meta.ServerModified.Format("2006-01-02T15:04:05Z07:00"),
		},
	}, nil
}
