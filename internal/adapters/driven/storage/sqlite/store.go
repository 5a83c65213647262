package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsync-labs/docsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docsync/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency between the worker and admin tooling
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ConnectionStore returns a ConnectionStore interface backed by this store.
func (s *Store) ConnectionStore() driven.ConnectionStore {
	return &connectionStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Connection Store ====================

// connectionStore implements driven.ConnectionStore.
type connectionStore struct {
	store *Store
}

var _ driven.ConnectionStore = (*connectionStore)(nil)

// Save stores or updates a connection.
func (s *connectionStore) Save(ctx context.Context, conn domain.Connection) error {
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO connections (id, owner_id, service, identifier, credentials, folder_name, metadata,
			page_limit, file_limit, active_job_id, last_indexed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			service = excluded.service,
			identifier = excluded.identifier,
			credentials = excluded.credentials,
			folder_name = excluded.folder_name,
			metadata = excluded.metadata,
			page_limit = excluded.page_limit,
			file_limit = excluded.file_limit,
			active_job_id = excluded.active_job_id,
			last_indexed_at = excluded.last_indexed_at
	`, conn.ID, conn.OwnerID, string(conn.Service), conn.Identifier, conn.Credentials,
		conn.FolderName, conn.Metadata, nullInt(conn.PageLimit), nullInt(conn.FileLimit),
		conn.ActiveJobID, nullTime(conn.LastIndexedAt), conn.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving connection: %w", err)
	}
	return nil
}

// Get retrieves a connection by ID.
func (s *connectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, service, identifier, credentials, folder_name, metadata,
			page_limit, file_limit, active_job_id, last_indexed_at, created_at
		FROM connections WHERE id = ?
	`, id)

	conn, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning connection: %w", err)
	}
	return conn, nil
}

// List returns all connections for an owner.
func (s *connectionStore) List(ctx context.Context, ownerID string) ([]domain.Connection, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, service, identifier, credentials, folder_name, metadata,
			page_limit, file_limit, active_job_id, last_indexed_at, created_at
		FROM connections WHERE owner_id = ? ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer rows.Close()

	var connections []domain.Connection //nolint:prealloc // size unknown from query
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning connection: %w", err)
		}
		connections = append(connections, *conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connections: %w", err)
	}

	return connections, nil
}

// Delete removes a connection; document rows follow via the cascade.
func (s *connectionStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM connections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActiveJob sets the active-job marker for a connection.
func (s *connectionStore) SetActiveJob(ctx context.Context, id, jobID string) error {
	return s.updateColumn(ctx, id, "active_job_id", jobID)
}

// ClearActiveJob clears the active-job marker.
func (s *connectionStore) ClearActiveJob(ctx context.Context, id string) error {
	return s.updateColumn(ctx, id, "active_job_id", "")
}

// SetLastIndexedAt records when the latest committed run started.
func (s *connectionStore) SetLastIndexedAt(ctx context.Context, id string, t time.Time) error {
	return s.updateColumn(ctx, id, "last_indexed_at", t.UTC())
}

func (s *connectionStore) updateColumn(ctx context.Context, id, column string, value any) error {
	// column comes from a fixed call site, never user input
	result, err := s.store.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE connections SET %s = ? WHERE id = ?", column), value, id)
	if err != nil {
		return fmt.Errorf("updating %s: %w", column, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(row scanner) (*domain.Connection, error) {
	var conn domain.Connection
	var service string
	var pageLimit, fileLimit sql.NullInt64
	var lastIndexedAt sql.NullTime
	if err := row.Scan(&conn.ID, &conn.OwnerID, &service, &conn.Identifier, &conn.Credentials,
		&conn.FolderName, &conn.Metadata, &pageLimit, &fileLimit,
		&conn.ActiveJobID, &lastIndexedAt, &conn.CreatedAt); err != nil {
		return nil, err
	}

	conn.Service = domain.ServiceType(service)
	if pageLimit.Valid {
		v := int(pageLimit.Int64)
		conn.PageLimit = &v
	}
	if fileLimit.Valid {
		v := int(fileLimit.Int64)
		conn.FileLimit = &v
	}
	if lastIndexedAt.Valid {
		t := lastIndexedAt.Time
		conn.LastIndexedAt = &t
	}
	return &conn, nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Upsert inserts or replaces the row for (doc.ConnectionID, doc.Name).
func (s *documentStore) Upsert(ctx context.Context, doc domain.IndexedDocument) error {
	chunkIDs, err := json.Marshal(doc.ChunkIDs)
	if err != nil {
		return fmt.Errorf("marshalling chunk ids: %w", err)
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (connection_id, name, total_pages, chunk_ids, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(connection_id, name) DO UPDATE SET
			total_pages = excluded.total_pages,
			chunk_ids = excluded.chunk_ids,
			updated_at = excluded.updated_at
	`, doc.ConnectionID, doc.Name, doc.TotalPages, string(chunkIDs), doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves one document row.
func (s *documentStore) Get(ctx context.Context, connectionID, name string) (*domain.IndexedDocument, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT connection_id, name, total_pages, chunk_ids, updated_at
		FROM documents WHERE connection_id = ? AND name = ?
	`, connectionID, name)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListByConnection returns all document rows for a connection in insertion
// order, which the budget accounting relies on being stable.
func (s *documentStore) ListByConnection(ctx context.Context, connectionID string) ([]domain.IndexedDocument, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT connection_id, name, total_pages, chunk_ids, updated_at
		FROM documents WHERE connection_id = ? ORDER BY rowid
	`, connectionID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.IndexedDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// Delete removes one document row.
func (s *documentStore) Delete(ctx context.Context, connectionID, name string) error {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE connection_id = ? AND name = ?", connectionID, name)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDocument(row scanner) (*domain.IndexedDocument, error) {
	var doc domain.IndexedDocument
	var chunkIDs string
	if err := row.Scan(&doc.ConnectionID, &doc.Name, &doc.TotalPages, &chunkIDs, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(chunkIDs), &doc.ChunkIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling chunk ids: %w", err)
	}
	return &doc, nil
}

// ==================== Helpers ====================

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
