package deliverylog

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id TEXT PRIMARY KEY,
	form_id TEXT NOT NULL,
	response_id TEXT NOT NULL DEFAULT '',
	integration_id TEXT NOT NULL,
	integration_type TEXT NOT NULL,
	outcome TEXT NOT NULL,
	last_error TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS deliveries_integration_created
	ON deliveries (integration_id, created_at DESC);
`

// SQLiteRecorder stores delivery records in a SQLite database file.
type SQLiteRecorder struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteRecorder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("delivery log path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create deliveries table")
	}
	return &SQLiteRecorder{db: db}, nil
}

func (s *SQLiteRecorder) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteRecorder) RecordDelivery(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := normalize(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO deliveries (
	id,
	form_id,
	response_id,
	integration_id,
	integration_type,
	outcome,
	last_error,
	duration_ms,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		r.ID,
		r.FormID,
		r.ResponseID,
		r.IntegrationID,
		r.IntegrationType,
		r.Outcome,
		r.Error,
		r.DurationMs,
		r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return errors.Wrap(err, "record delivery")
	}
	return nil
}

func (s *SQLiteRecorder) ListDeliveries(ctx context.Context, integrationID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = checkLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT
	id,
	form_id,
	response_id,
	integration_id,
	integration_type,
	outcome,
	last_error,
	duration_ms,
	created_at
FROM deliveries
WHERE integration_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, integrationID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list deliveries")
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		var createdAt int64
		if err := rows.Scan(
			&r.ID,
			&r.FormID,
			&r.ResponseID,
			&r.IntegrationID,
			&r.IntegrationType,
			&r.Outcome,
			&r.Error,
			&r.DurationMs,
			&createdAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan delivery")
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate deliveries")
	}
	return records, nil
}

var _ Recorder = (*SQLiteRecorder)(nil)
