package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/TitaniumShinobi/vvault-sub002/internal/config"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// SQLite is the reference Store backend, one records table in a local
// SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite initializes the database at baseDir/vvault.db (or cfg.StorePath
// when set). The baseDir parameter allows tests to use t.TempDir().
func OpenSQLite(baseDir string, cfg *config.Config) (*SQLite, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "vvault.db")
	if cfg != nil && cfg.StorePath != "" {
		dbPath = cfg.StorePath
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	if cfg != nil {
		if cfg.DBMaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		}
		if cfg.DBMaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		}
	}

	return &SQLite{db: db}, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS records (
		  id            TEXT PRIMARY KEY,
		  owner_id      TEXT NOT NULL DEFAULT '',
		  entity_id     TEXT NOT NULL,
		  name          TEXT NOT NULL,
		  content       TEXT NOT NULL,
		  content_hash  TEXT NOT NULL,
		  metadata_json TEXT,
		  created_at    INTEGER NOT NULL,
		  updated_at    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_entity
		ON records(entity_id, created_at DESC);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_records_entity_name
		ON records(entity_id, name);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", 1)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

const recordColumns = "id, owner_id, entity_id, name, content, content_hash, metadata_json, created_at, updated_at"

// ListRecords returns all records for an entity, oldest first.
func (s *SQLite) ListRecords(ctx context.Context, entityID string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE entity_id = ? ORDER BY created_at ASC, id ASC",
		entityID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// ListEntities returns the distinct entity ids present in the store.
func (s *SQLite) ListEntities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT entity_id FROM records ORDER BY entity_id ASC")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var entities []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewInternal(err)
		}
		entities = append(entities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return entities, nil
}

// GetRecordByName returns the record with the given storage name for an entity.
func (s *SQLite) GetRecordByName(ctx context.Context, entityID, name string) (*record.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE entity_id = ? AND name = ?",
		entityID, name)

	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(name)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// InsertRecord stores a new record with a fresh ULID and computed hash.
func (s *SQLite) InsertRecord(ctx context.Context, nr NewRecord) (*record.Record, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	r := &record.Record{
		ID:          id,
		OwnerID:     nr.OwnerID,
		EntityID:    nr.EntityID,
		Name:        nr.Name,
		Content:     nr.Content,
		ContentHash: record.HashContent(nr.Content),
		Metadata:    nr.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	metadataJSON, err := marshalMetadata(r.Metadata)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.OwnerID, r.EntityID, r.Name, r.Content, r.ContentHash,
		metadataJSON, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// UpdateRecord rewrites content and metadata of an existing record in place.
func (s *SQLite) UpdateRecord(ctx context.Context, id, content string, metadata map[string]string) error {
	metadataJSON, err := marshalMetadata(metadata)
	if err != nil {
		return errors.NewInternal(err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE records SET content = ?, content_hash = ?, metadata_json = ?, updated_at = ? WHERE id = ?",
		content, record.HashContent(content), metadataJSON, time.Now().Unix(), id)
	if err != nil {
		return errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// UpdateRecordIf rewrites a record only when its current content hash matches
// expectedHash. A failed precondition means another writer got there first.
func (s *SQLite) UpdateRecordIf(ctx context.Context, id, expectedHash, content string, metadata map[string]string) error {
	metadataJSON, err := marshalMetadata(metadata)
	if err != nil {
		return errors.NewInternal(err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE records SET content = ?, content_hash = ?, metadata_json = ?, updated_at = ? WHERE id = ? AND content_hash = ?",
		content, record.HashContent(content), metadataJSON, time.Now().Unix(), id, expectedHash)
	if err != nil {
		return errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		// Distinguish a missing record from a hash mismatch.
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM records WHERE id = ?", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return errors.NewNotFound(id)
		}
		if err != nil {
			return errors.NewInternal(err)
		}
		return errors.NewConflict(fmt.Sprintf("record %s changed since it was read", id))
	}

	return nil
}

// DeleteRecord removes a record permanently.
func (s *SQLite) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*record.Record, error) {
	var r record.Record
	var metadataJSON sql.NullString

	err := row.Scan(&r.ID, &r.OwnerID, &r.EntityID, &r.Name, &r.Content,
		&r.ContentHash, &metadataJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &r.Metadata); err != nil {
			return nil, err
		}
	}

	return &r, nil
}

func marshalMetadata(metadata map[string]string) (sql.NullString, error) {
	if len(metadata) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
