package hoststore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/warpdl/nativecookies/internal/cookies"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
    scope     TEXT    NOT NULL,
    name      TEXT    NOT NULL,
    value     TEXT    NOT NULL,
    domain    TEXT    NOT NULL,
    path      TEXT    NOT NULL,
    expires   INTEGER NOT NULL DEFAULT 0,
    secure    INTEGER NOT NULL DEFAULT 0,
    http_only INTEGER NOT NULL DEFAULT 0,
    host_only INTEGER NOT NULL DEFAULT 0,
    version   TEXT    NOT NULL DEFAULT '',
    PRIMARY KEY (scope, name, domain, path)
)`

// SQLite persists jar contents to a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cookie database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error: cannot create cookie store directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open cookie database: %w", err)
	}
	// One writer; modernc.org/sqlite serializes on the file anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot create cookie table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save replaces every record of scope inside one transaction.
func (s *SQLite) Save(ctx context.Context, scope Scope, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error: cannot begin cookie transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cookies WHERE scope = ?`, string(scope)); err != nil {
		return fmt.Errorf("error: cannot clear %s cookies: %w", scope, err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR REPLACE INTO cookies
            (scope, name, value, domain, path, expires, secure, http_only, host_only, version)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("error: cannot prepare cookie insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		c := r.Cookie
		var expires int64
		if !c.Expires.IsZero() {
			expires = c.Expires.Unix()
		}
		if _, err := stmt.ExecContext(ctx,
			string(scope), c.Name, c.Value, c.Domain, c.Path, expires,
			boolToInt(c.Secure), boolToInt(c.HttpOnly), boolToInt(r.HostOnly), c.Version,
		); err != nil {
			return fmt.Errorf("error: cannot save cookie %q: %w", c.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error: cannot commit cookies: %w", err)
	}
	return nil
}

// Load reads every record of scope in insertion order.
func (s *SQLite) Load(ctx context.Context, scope Scope) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, value, domain, path, expires, secure, http_only, host_only, version
        FROM cookies
        WHERE scope = ?
        ORDER BY rowid ASC
    `, string(scope))
	if err != nil {
		return nil, fmt.Errorf("error: failed to query cookies: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			name, value, domain, path, version string
			expires                            int64
			secure, httpOnly, hostOnly         int
		)
		if err := rows.Scan(&name, &value, &domain, &path, &expires, &secure, &httpOnly, &hostOnly, &version); err != nil {
			return nil, fmt.Errorf("error: failed to scan cookie row: %w", err)
		}
		c := cookies.Cookie{
			Name:     name,
			Value:    value,
			Domain:   domain,
			Path:     path,
			Secure:   secure != 0,
			HttpOnly: httpOnly != 0,
			Version:  version,
		}
		if expires != 0 {
			c.Expires = time.Unix(expires, 0).UTC()
		}
		records = append(records, Record{Cookie: c, HostOnly: hostOnly != 0})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate cookie rows: %w", err)
	}
	return records, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Persister = (*SQLite)(nil)
