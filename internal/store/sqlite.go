package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/takak2166/notion2telegram/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sync_records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	page_id     TEXT    NOT NULL,
	message_id  INTEGER NOT NULL DEFAULT 0,
	last_edited INTEGER NOT NULL DEFAULT 0,
	title       TEXT    NOT NULL DEFAULT '',
	archived    INTEGER NOT NULL DEFAULT 0,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_records_active
	ON sync_records(page_id) WHERE archived = 0;
`

// SQLiteStore keeps records in a local SQLite file. Archived rows are kept.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database file and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite store: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]models.SyncRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT page_id, message_id, last_edited, title
		FROM sync_records
		WHERE archived = 0
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.SyncRecord)
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		out[rec.PageID] = rec
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec models.SyncRecord) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO sync_records (page_id, message_id, last_edited, title, archived, updated_at)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT(page_id) WHERE archived = 0 DO UPDATE SET
			message_id  = excluded.message_id,
			last_edited = excluded.last_edited,
			title       = excluded.title,
			updated_at  = excluded.updated_at
	`, models.NormalizePageID(rec.PageID), rec.MessageID, rec.Unix(), rec.Title, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert sync record %s: %w", rec.PageID, err)
	}
	return nil
}

func (s *SQLiteStore) Archive(ctx context.Context, pageID string) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE sync_records
		SET archived = 1, updated_at = ?
		WHERE page_id = ? AND archived = 0
	`, time.Now().UTC(), models.NormalizePageID(pageID))
	if err != nil {
		return fmt.Errorf("failed to archive sync record %s: %w", pageID, err)
	}
	return nil
}

// History returns every record stored for a page, archived ones included,
// oldest first
func (s *SQLiteStore) History(ctx context.Context, pageID string) ([]models.SyncRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT page_id, message_id, last_edited, title, archived
		FROM sync_records
		WHERE page_id = ?
		ORDER BY id
	`, models.NormalizePageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer rows.Close()

	var out []models.SyncRecord
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows, withArchived bool) (models.SyncRecord, error) {
	var (
		rec        models.SyncRecord
		lastEdited int64
		err        error
	)
	if withArchived {
		err = rows.Scan(&rec.PageID, &rec.MessageID, &lastEdited, &rec.Title, &rec.Archived)
	} else {
		err = rows.Scan(&rec.PageID, &rec.MessageID, &lastEdited, &rec.Title)
	}
	if err != nil {
		return models.SyncRecord{}, fmt.Errorf("failed to scan sync record: %w", err)
	}
	if lastEdited > 0 {
		rec.LastEdited = time.Unix(lastEdited, 0).UTC()
	}
	return rec, nil
}
