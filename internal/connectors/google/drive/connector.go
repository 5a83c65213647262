// Package drive implements the Google Drive connector. Snapshots cover the
// connection's folder (or the whole drive), with Google Workspace files
// exported to text and spreadsheets to tables.
package drive

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/docsync-labs/docsync/internal/connectors/google"
	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
	"github.com/docsync-labs/docsync/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, trashed)"

// Connector fetches snapshots from one Google Drive account.
type Connector struct {
	svc     *drive.Service
	limiter *google.RateLimiter
	folder  string
}

// New builds a Drive connector from the connection's stored credentials.
func New(ctx context.Context, conn domain.Connection) (*Connector, error) {
	creds, err := google.ParseCredentials(conn.Credentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(creds.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Connector{
		svc:     svc,
		limiter: google.NewRateLimiter(google.DefaultDriveRateLimit),
		folder:  conn.FolderName,
	}, nil
}

// Service returns the service kind this connector handles.
func (c *Connector) Service() domain.ServiceType {
	return domain.ServiceGoogleDrive
}

// Validate checks the credentials with a minimal listing call.
func (c *Connector) Validate(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.svc.Files.List().PageSize(1).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}
	return nil
}

// FetchSnapshot lists the connection's files and extracts their content.
// Files whose content cannot be fetched are skipped with a log line rather
// than failing the whole snapshot.
func (c *Connector) FetchSnapshot(ctx context.Context) ([]domain.FileContent, error) {
	query := "trashed = false"
	if c.folder != "" && c.folder != "*" {
		folderID, err := c.resolveFolder(ctx, c.folder)
		if err != nil {
			return nil, err
		}
		query = fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	}

	var files []domain.FileContent
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.Files.List().Q(query).Fields(listFields).PageSize(100).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			c.recordIfRateLimited(err)
			return nil, fmt.Errorf("listing drive files: %w", err)
		}

		for _, f := range page.Files {
			if f.MimeType == mimeTypeFolder {
				continue
			}
			content, err := c.fileContent(ctx, f)
			if err != nil {
				logger.Warn("skipping drive file %q: %v", f.Name, err)
				continue
			}
			if content != nil {
				files = append(files, *content)
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// Close releases resources. The underlying HTTP client needs no cleanup.
func (c *Connector) Close() error {
	return nil
}

// resolveFolder finds the folder id for a folder name. The first match
// wins; Drive allows duplicate names but connections are configured against
// uniquely named folders.
func (c *Connector) resolveFolder(ctx context.Context, name string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	query := fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false", mimeTypeFolder, name)
	page, err := c.svc.Files.List().Q(query).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		c.recordIfRateLimited(err)
		return "", fmt.Errorf("resolving folder %q: %w", name, err)
	}
	if len(page.Files) == 0 {
		return "", fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	}
	return page.Files[0].Id, nil
}

func (c *Connector) recordIfRateLimited(err error) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		c.limiter.RecordRateLimitError(0)
	}
}
