package connectors

import (
	"context"
	"fmt"

	"github.com/docsync-labs/docsync/internal/connectors/dropbox"
	"github.com/docsync-labs/docsync/internal/connectors/google/drive"
	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory creates connectors from a connection's service kind.
type Factory struct{}

// NewFactory creates a connector factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds the connector for the connection. Direct-upload connections
// have no connector; their content arrives with the job. AWS is a declared
// service kind without an implementation yet.
func (f *Factory) Create(ctx context.Context, conn domain.Connection) (driven.Connector, error) {
	switch conn.Service {
	case domain.ServiceGoogleDrive:
		return drive.New(ctx, conn)
	case domain.ServiceDropbox:
		return dropbox.New(conn)
	case domain.ServiceDirectUpload, domain.ServiceAWS:
		return nil, fmt.Errorf("service %s: %w", conn.Service, domain.ErrUnsupportedService)
	default:
		return nil, fmt.Errorf("service %q: %w", conn.Service, domain.ErrUnsupportedService)
	}
}
