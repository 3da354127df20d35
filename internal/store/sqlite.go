package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS crowd_aliases (
	id           TEXT PRIMARY KEY,
	source_key   TEXT NOT NULL,
	target_field TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	usage_count  INTEGER NOT NULL DEFAULT 1,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (source_key, target_field)
);

CREATE INDEX IF NOT EXISTS idx_crowd_aliases_category ON crowd_aliases(category);
CREATE INDEX IF NOT EXISTS idx_crowd_aliases_source_key ON crowd_aliases(source_key);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListAliases(ctx context.Context, category string) ([]model.CrowdAlias, error) {
	query := `SELECT source_key, target_field, usage_count FROM crowd_aliases`
	var args []any
	if category != "" {
		query += ` WHERE category = ? OR category = ''`
		args = append(args, category)
	}
	query += ` ORDER BY usage_count DESC, source_key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list aliases")
	}
	defer rows.Close()

	var aliases []model.CrowdAlias
	for rows.Next() {
		var a model.CrowdAlias
		if err := rows.Scan(&a.SourceKey, &a.TargetField, &a.UsageCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alias")
		}
		aliases = append(aliases, a)
	}
	return aliases, eris.Wrap(rows.Err(), "sqlite: list aliases iterate")
}

func (s *SQLiteStore) RecordAlias(ctx context.Context, sourceKey, targetField, category string) error {
	if sourceKey == "" || targetField == "" {
		return eris.New("sqlite: source key and target field are required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crowd_aliases (id, source_key, target_field, category)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (source_key, target_field) DO UPDATE SET
		   usage_count = usage_count + 1,
		   category = excluded.category,
		   updated_at = datetime('now')`,
		uuid.New().String(), sourceKey, targetField, category,
	)
	return eris.Wrapf(err, "sqlite: record alias %s", sourceKey)
}

func (s *SQLiteStore) DeleteAlias(ctx context.Context, sourceKey, targetField string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM crowd_aliases WHERE source_key = ? AND target_field = ?`,
		sourceKey, targetField,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete alias %s", sourceKey)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("alias not found: %s → %s", sourceKey, targetField)
	}
	return nil
}
