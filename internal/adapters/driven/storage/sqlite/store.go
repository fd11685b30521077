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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lexikon-labs/lexikon/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the asset store and search engine interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lexikon/data/lexikon.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexikon", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lexikon.db")

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
		db:   db,
		path: dbPath,
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

// AssetStore returns an AssetStore interface backed by this store.
func (s *Store) AssetStore() driven.AssetStore {
	return &assetStore{store: s}
}

// SearchEngine returns a SearchEngine interface backed by this store.
func (s *Store) SearchEngine() driven.SearchEngine {
	return &searchEngine{store: s}
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

	// Sort and run migrations
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

		// Read and execute migration
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

// ==================== Asset Store ====================

// assetStore implements driven.AssetStore.
type assetStore struct {
	store *Store
}

var _ driven.AssetStore = (*assetStore)(nil)

// SaveAssetWithChunks stores an asset and its chunk set in one transaction.
func (s *assetStore) SaveAssetWithChunks(ctx context.Context, asset *domain.Asset, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assets (id, project_id, type, title, markdown, hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, asset.ID, asset.ProjectID, asset.Type, asset.Title, asset.Markdown,
		asset.Hash, asset.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("%w: saving asset: %v", domain.ErrStorage, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, project_id, asset_id, chunk_id, content, token_count,
			section, heading_path, position, has_embedding, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %v", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		pathJSON, err := json.Marshal(chunk.HeadingPath)
		if err != nil {
			return fmt.Errorf("marshalling heading path: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.ProjectID, chunk.AssetID,
			chunk.ChunkID, chunk.Text, chunk.TokenCount, chunk.Section, string(pathJSON),
			chunk.Position, chunk.HasEmbedding, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("%w: saving chunk: %v", domain.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrStorage, err)
	}
	return nil
}

// GetAsset retrieves an asset by ID.
func (s *assetStore) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project_id, type, title, markdown, hash, created_at
		FROM assets WHERE id = ?
	`, id)

	return scanAsset(row)
}

// GetAssetByHash looks up an asset by content hash within a project.
func (s *assetStore) GetAssetByHash(ctx context.Context, projectID, hash string) (*domain.Asset, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project_id, type, title, markdown, hash, created_at
		FROM assets WHERE project_id = ? AND hash = ?
	`, projectID, hash)

	return scanAsset(row)
}

// ListAssets returns all assets for a project, newest first.
func (s *assetStore) ListAssets(ctx context.Context, projectID string) ([]domain.Asset, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project_id, type, title, markdown, hash, created_at
		FROM assets WHERE project_id = ?
		ORDER BY created_at DESC, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying assets: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var assets []domain.Asset //nolint:prealloc // size unknown from query
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(&asset.ID, &asset.ProjectID, &asset.Type, &asset.Title,
			&asset.Markdown, &asset.Hash, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	return assets, nil
}

// GetChunks retrieves all chunks for an asset, ordered by position.
func (s *assetStore) GetChunks(ctx context.Context, assetID string) ([]domain.Chunk, error) {
	return s.queryChunks(ctx, `
		SELECT id, project_id, asset_id, chunk_id, content, token_count,
			section, heading_path, position, has_embedding, embedding
		FROM chunks WHERE asset_id = ?
		ORDER BY position
	`, assetID)
}

// CountChunks returns the number of chunks derived from an asset.
func (s *assetStore) CountChunks(ctx context.Context, assetID string) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE asset_id = ?", assetID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting chunks: %v", domain.ErrStorage, err)
	}
	return count, nil
}

// ChunksWithEmbeddings returns every embedded chunk in the project.
func (s *assetStore) ChunksWithEmbeddings(ctx context.Context, projectID string) ([]domain.Chunk, error) {
	return s.queryChunks(ctx, `
		SELECT id, project_id, asset_id, chunk_id, content, token_count,
			section, heading_path, position, has_embedding, embedding
		FROM chunks WHERE project_id = ? AND has_embedding = 1
	`, projectID)
}

// ChunksMissingEmbeddings returns every chunk awaiting an embedding.
func (s *assetStore) ChunksMissingEmbeddings(ctx context.Context, projectID string) ([]domain.Chunk, error) {
	return s.queryChunks(ctx, `
		SELECT id, project_id, asset_id, chunk_id, content, token_count,
			section, heading_path, position, has_embedding, embedding
		FROM chunks WHERE project_id = ? AND has_embedding = 0
	`, projectID)
}

// UpdateChunkEmbedding attaches an embedding to a stored chunk.
func (s *assetStore) UpdateChunkEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE chunks SET embedding = ?, has_embedding = 1 WHERE chunk_id = ?
	`, float32SliceToBytes(embedding), chunkID)
	if err != nil {
		return fmt.Errorf("%w: updating embedding: %v", domain.ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating embedding: %v", domain.ErrStorage, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAsset removes an asset and its chunks. Chunks are deleted
// explicitly so the FTS delete triggers fire for each row.
func (s *assetStore) DeleteAsset(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE asset_id = ?", id); err != nil {
		return fmt.Errorf("%w: deleting chunks: %v", domain.ErrStorage, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: deleting asset: %v", domain.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrStorage, err)
	}
	return nil
}

// queryChunks runs a chunk query and scans all rows.
func (s *assetStore) queryChunks(ctx context.Context, query string, args ...any) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrStorage, err)
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

// ==================== Search Engine ====================

// searchEngine implements driven.SearchEngine over the chunks_fts table.
type searchEngine struct {
	store *Store
}

var _ driven.SearchEngine = (*searchEngine)(nil)

// Search runs a BM25-ranked full-text query scoped to a project.
// FTS5 ranks ascending (more negative is better), so scores are
// negated to the "higher is better" convention callers expect.
func (s *searchEngine) Search(ctx context.Context, projectID, query string, k int) ([]driven.SearchHit, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.chunk_id, bm25(chunks_fts) AS rank, c.content, c.heading_path
		FROM chunks_fts
		JOIN chunks c ON c.rowid = chunks_fts.rowid
		WHERE chunks_fts MATCH ? AND c.project_id = ?
		ORDER BY rank
		LIMIT ?
	`, match, projectID, k)
	if err != nil {
		return nil, fmt.Errorf("%w: full-text query: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var hits []driven.SearchHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit driven.SearchHit
		var rank float64
		var pathJSON string
		if err := rows.Scan(&hit.ChunkID, &rank, &hit.Text, &pathJSON); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}

		if err := json.Unmarshal([]byte(pathJSON), &hit.HeadingPath); err != nil {
			return nil, fmt.Errorf("unmarshaling heading path: %w", err)
		}

		hit.Score = -rank
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search hits: %w", err)
	}

	return hits, nil
}

// buildMatchQuery converts free text into a safe FTS5 MATCH expression.
// Each token is double-quoted so user input cannot inject FTS syntax;
// tokens are OR-joined for recall, BM25 still ranks multi-term matches
// higher.
func buildMatchQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}

// ==================== Helper Functions ====================

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

// isUniqueViolation reports whether an error is a SQLite unique
// constraint failure. The modernc driver exposes no typed error for
// this, so the message is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// scanAsset scans a single asset row.
func scanAsset(row *sql.Row) (*domain.Asset, error) {
	var asset domain.Asset
	if err := row.Scan(&asset.ID, &asset.ProjectID, &asset.Type, &asset.Title,
		&asset.Markdown, &asset.Hash, &asset.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning asset: %w", err)
	}
	return &asset, nil
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var pathJSON string
	var embedding []byte
	if err := rows.Scan(&chunk.ID, &chunk.ProjectID, &chunk.AssetID, &chunk.ChunkID,
		&chunk.Text, &chunk.TokenCount, &chunk.Section, &pathJSON,
		&chunk.Position, &chunk.HasEmbedding, &embedding); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if err := json.Unmarshal([]byte(pathJSON), &chunk.HeadingPath); err != nil {
		return nil, fmt.Errorf("unmarshaling heading path: %w", err)
	}
	chunk.Embedding = bytesToFloat32Slice(embedding)

	return &chunk, nil
}
