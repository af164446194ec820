package infra

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/grokdesk/grokdesk/internal/domain"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	at       INTEGER NOT NULL,
	point    TEXT    NOT NULL,
	decision TEXT    NOT NULL,
	url      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_at ON decisions(at);
`

// SQLiteAuditLog implements domain.AuditLog on a local sqlite database.
// It records only non-proceed decisions; allowed traffic is not persisted.
type SQLiteAuditLog struct {
	db *sql.DB
}

// NewSQLiteAuditLog opens (creating if needed) the audit database at path.
func NewSQLiteAuditLog(path string) (*SQLiteAuditLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit db: %w", err)
	}
	// Single writer, single reader; keep the pool trivial.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init audit schema: %w", err)
	}
	return &SQLiteAuditLog{db: db}, nil
}

// Record appends one decision.
func (l *SQLiteAuditLog) Record(entry domain.AuditEntry) error {
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.Exec(
		"INSERT INTO decisions(at, point, decision, url) VALUES(?, ?, ?, ?)",
		at.Unix(), string(entry.Point), string(entry.Decision), entry.URL,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *SQLiteAuditLog) Recent(limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		"SELECT id, at, point, decision, url FROM decisions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var at int64
		var point, decision string
		if err := rows.Scan(&e.ID, &at, &point, &decision, &e.URL); err != nil {
			return nil, err
		}
		e.At = time.Unix(at, 0)
		e.Point = domain.InterceptPoint(point)
		e.Decision = domain.Decision(decision)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (l *SQLiteAuditLog) Close() error {
	return l.db.Close()
}

// Ensure SQLiteAuditLog implements domain.AuditLog.
var _ domain.AuditLog = (*SQLiteAuditLog)(nil)
