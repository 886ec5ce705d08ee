// Package sqlite implements the persistence ports on a single SQLite
// database: the document replica, sources with their cursors, and sync
// job records.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/archivist-labs/archivist/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string

	// lockMu guards fileLocks; each entry serializes chunk replacement
	// for one file ID.
	lockMu    sync.Mutex
	fileLocks map[string]*sync.Mutex
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.archivist/data/replica.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".archivist", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "replica.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:        db,
		path:      dbPath,
		fileLocks: make(map[string]*sync.Mutex),
	}

	// Run migrations
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

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// SyncJobStore returns a SyncJobStore interface backed by this store.
func (s *Store) SyncJobStore() driven.SyncJobStore {
	return &syncJobStore{store: s}
}

// fileLock returns the mutex serializing chunk replacement for a file.
func (s *Store) fileLock(fileID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	mu, ok := s.fileLocks[fileID]
	if !ok {
		mu = &sync.Mutex{}
		s.fileLocks[fileID] = mu
	}
	return mu
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
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
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source. Cursor columns are left to
// AdvanceCursor.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	configJSON, err := json.Marshal(source.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if source.CreatedAt.IsZero() {
		source.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, type, name, config, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			config = excluded.config
	`, source.ID, source.Type, source.Name, string(configJSON), source.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, name, config, cursor, cursor_version, last_sync_at, created_at
		FROM sources WHERE id = ?
	`, id)

	return scanSource(row)
}

// List returns all configured sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, name, config, cursor, cursor_version, last_sync_at, created_at
		FROM sources ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// Delete removes a source.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// AdvanceCursor writes the cursor with a compare-and-swap on
// cursor_version so concurrent sync runs cannot clobber each other.
func (s *sourceStore) AdvanceCursor(ctx context.Context, sourceID, cursor string, expectedVersion int64) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE sources
		SET cursor = ?, cursor_version = cursor_version + 1, last_sync_at = ?
		WHERE id = ? AND cursor_version = ?
	`, cursor, time.Now().UTC(), sourceID, expectedVersion)
	if err != nil {
		return fmt.Errorf("advancing cursor: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advancing cursor: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a missing source from a lost CAS race.
	var exists int
	err = s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sources WHERE id = ?", sourceID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("advancing cursor: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrCursorConflict
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// ReplaceChunks swaps a document's chunk set in one transaction:
// readers never observe a partially-replaced set.
func (s *documentStore) ReplaceChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	mu := s.store.fileLock(doc.FileID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	indexedAt := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (file_id, source_id, name, mime_type, web_view_link, modified_time, indexed_at, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(file_id) DO UPDATE SET
			source_id = excluded.source_id,
			name = excluded.name,
			mime_type = excluded.mime_type,
			web_view_link = excluded.web_view_link,
			modified_time = excluded.modified_time,
			indexed_at = excluded.indexed_at,
			deleted = 0
	`, doc.FileID, doc.SourceID, doc.Name, doc.MIMEType, doc.WebViewLink,
		doc.ModifiedTime, indexedAt)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE file_id = ?", doc.FileID,
	); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_id, idx, text, embedding, heading)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		blob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, doc.FileID, chunk.Index, chunk.Text, blob, chunk.Heading,
		); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// MarkDeleted tombstones a document and empties its chunk set
// atomically.
func (s *documentStore) MarkDeleted(ctx context.Context, fileID string) error {
	mu := s.store.fileLock(fileID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET deleted = 1, indexed_at = ? WHERE file_id = ?
	`, time.Now().UTC(), fileID); err != nil {
		return fmt.Errorf("tombstoning document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE file_id = ?", fileID,
	); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by file ID.
func (s *documentStore) GetDocument(ctx context.Context, fileID string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT file_id, source_id, name, mime_type, web_view_link, modified_time, indexed_at, deleted
		FROM documents WHERE file_id = ?
	`, fileID)

	return scanDocument(row)
}

// GetChunks retrieves a document's chunks ordered by index.
func (s *documentStore) GetChunks(ctx context.Context, fileID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, file_id, idx, text, embedding, heading
		FROM chunks WHERE file_id = ?
		ORDER BY idx
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// ListDocuments returns all documents for a source.
func (s *documentStore) ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_id, source_id, name, mime_type, web_view_link, modified_time, indexed_at, deleted
		FROM documents WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ListChangedSince returns documents indexed at or after the threshold,
// newest first.
func (s *documentStore) ListChangedSince(ctx context.Context, since time.Time) ([]domain.ChangeEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_id, name, modified_time, indexed_at, deleted
		FROM documents WHERE indexed_at >= ?
		ORDER BY indexed_at DESC
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChangeEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			entry   domain.ChangeEntry
			deleted int
		)
		if err := rows.Scan(&entry.FileID, &entry.FileName, &entry.ModifiedTime,
			&entry.IndexedAt, &deleted); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		entry.Deleted = deleted != 0
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating changes: %w", err)
	}
	return entries, nil
}

// SearchCandidates returns live chunks joined with document metadata,
// with the filter predicates pushed down into SQL.
func (s *documentStore) SearchCandidates(ctx context.Context, filters domain.SearchFilters) ([]driven.Candidate, error) {
	query := `
		SELECT c.id, c.file_id, c.idx, c.text, c.embedding, c.heading,
		       d.source_id, d.name, d.mime_type, d.web_view_link, d.modified_time, d.indexed_at
		FROM chunks c
		JOIN documents d ON c.file_id = d.file_id
		WHERE d.deleted = 0`
	var args []any

	if len(filters.SourceIDs) > 0 {
		query += " AND d.source_id IN (" + placeholders(len(filters.SourceIDs)) + ")"
		for _, id := range filters.SourceIDs {
			args = append(args, id)
		}
	}
	if len(filters.MIMETypes) > 0 {
		query += " AND d.mime_type IN (" + placeholders(len(filters.MIMETypes)) + ")"
		for _, mt := range filters.MIMETypes {
			args = append(args, mt)
		}
	}
	if !filters.ModifiedAfter.IsZero() {
		query += " AND d.modified_time >= ?"
		args = append(args, filters.ModifiedAfter.UTC())
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []driven.Candidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			c    driven.Candidate
			blob []byte
		)
		if err := rows.Scan(
			&c.Chunk.ID, &c.Chunk.FileID, &c.Chunk.Index, &c.Chunk.Text, &blob, &c.Chunk.Heading,
			&c.Document.SourceID, &c.Document.Name, &c.Document.MIMEType,
			&c.Document.WebViewLink, &c.Document.ModifiedTime, &c.Document.IndexedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		c.Chunk.Embedding = bytesToFloat32Slice(blob)
		c.Document.FileID = c.Chunk.FileID
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return candidates, nil
}

// ==================== Sync Job Store ====================

// syncJobStore implements driven.SyncJobStore.
type syncJobStore struct {
	store *Store
}

var _ driven.SyncJobStore = (*syncJobStore)(nil)

// Create inserts a new job record.
func (s *syncJobStore) Create(ctx context.Context, job *domain.SyncJob) error {
	statsJSON, err := json.Marshal(job.Stats)
	if err != nil {
		return fmt.Errorf("marshalling stats: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sync_jobs (id, source_id, full_crawl, state, stats, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.SourceID, boolToInt(job.Full), string(job.State), string(statsJSON),
		job.Error, nullTime(job.StartedAt), nullTime(job.FinishedAt))
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}
	return nil
}

// Update rewrites a job record. Jobs already in a terminal state are
// immutable.
func (s *syncJobStore) Update(ctx context.Context, job *domain.SyncJob) error {
	statsJSON, err := json.Marshal(job.Stats)
	if err != nil {
		return fmt.Errorf("marshalling stats: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT state FROM sync_jobs WHERE id = ?", job.ID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading job state: %w", err)
	}
	if domain.JobState(current).Terminal() {
		return fmt.Errorf("job %s is terminal (%s): %w", job.ID, current, domain.ErrInvalidInput)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sync_jobs
		SET state = ?, stats = ?, error = ?, started_at = ?, finished_at = ?
		WHERE id = ?
	`, string(job.State), string(statsJSON), job.Error,
		nullTime(job.StartedAt), nullTime(job.FinishedAt), job.ID)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a job by ID.
func (s *syncJobStore) Get(ctx context.Context, id string) (*domain.SyncJob, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_id, full_crawl, state, stats, error, started_at, finished_at
		FROM sync_jobs WHERE id = ?
	`, id)

	return scanJob(row)
}

// List returns jobs for a source, newest first.
func (s *syncJobStore) List(ctx context.Context, sourceID string) ([]domain.SyncJob, error) {
	query := `
		SELECT id, source_id, full_crawl, state, stats, error, started_at, finished_at
		FROM sync_jobs`
	var args []any
	if sourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY started_at DESC"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.SyncJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// ==================== Scan helpers ====================

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*domain.Source, error) {
	var (
		source     domain.Source
		configJSON string
		lastSync   sql.NullTime
	)
	if err := row.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
		&source.Cursor, &source.CursorVersion, &lastSync, &source.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if lastSync.Valid {
		source.LastSyncAt = lastSync.Time
	}
	return &source, nil
}

func scanDocument(row scanner) (*domain.Document, error) {
	var (
		doc     domain.Document
		deleted int
	)
	if err := row.Scan(&doc.FileID, &doc.SourceID, &doc.Name, &doc.MIMEType,
		&doc.WebViewLink, &doc.ModifiedTime, &doc.IndexedAt, &deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Deleted = deleted != 0
	return &doc, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var (
		chunk domain.Chunk
		blob  []byte
	)
	if err := row.Scan(&chunk.ID, &chunk.FileID, &chunk.Index, &chunk.Text,
		&blob, &chunk.Heading); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	chunk.Embedding = bytesToFloat32Slice(blob)
	return &chunk, nil
}

func scanJob(row scanner) (*domain.SyncJob, error) {
	var (
		job        domain.SyncJob
		full       int
		state      string
		statsJSON  string
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)
	if err := row.Scan(&job.ID, &job.SourceID, &full, &state, &statsJSON,
		&job.Error, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	job.Full = full != 0
	job.State = domain.JobState(state)
	if err := json.Unmarshal([]byte(statsJSON), &job.Stats); err != nil {
		return nil, fmt.Errorf("unmarshaling stats: %w", err)
	}
	if startedAt.Valid {
		job.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		job.FinishedAt = finishedAt.Time
	}
	return &job, nil
}

// ==================== Conversion helpers ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
