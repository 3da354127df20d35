package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// pgPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgPool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS crowd_aliases (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source_key   TEXT NOT NULL,
	target_field TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	usage_count  INTEGER NOT NULL DEFAULT 1,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_key, target_field)
);

CREATE INDEX IF NOT EXISTS idx_crowd_aliases_category ON crowd_aliases(category);
CREATE INDEX IF NOT EXISTS idx_crowd_aliases_source_key ON crowd_aliases(source_key);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListAliases(ctx context.Context, category string) ([]model.CrowdAlias, error) {
	query := `SELECT source_key, target_field, usage_count FROM crowd_aliases`
	var args []any
	if category != "" {
		query += ` WHERE category = $1 OR category = ''`
		args = append(args, category)
	}
	query += ` ORDER BY usage_count DESC, source_key`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list aliases")
	}
	defer rows.Close()

	var aliases []model.CrowdAlias
	for rows.Next() {
		var a model.CrowdAlias
		if err := rows.Scan(&a.SourceKey, &a.TargetField, &a.UsageCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alias")
		}
		aliases = append(aliases, a)
	}
	return aliases, eris.Wrap(rows.Err(), "postgres: list aliases iterate")
}

func (s *PostgresStore) RecordAlias(ctx context.Context, sourceKey, targetField, category string) error {
	if sourceKey == "" || targetField == "" {
		return eris.New("postgres: source key and target field are required")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO crowd_aliases (id, source_key, target_field, category)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (source_key, target_field) DO UPDATE SET
		   usage_count = crowd_aliases.usage_count + 1,
		   category = EXCLUDED.category,
		   updated_at = now()`,
		uuid.New().String(), sourceKey, targetField, category,
	)
	return eris.Wrapf(err, "postgres: record alias %s", sourceKey)
}

func (s *PostgresStore) DeleteAlias(ctx context.Context, sourceKey, targetField string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM crowd_aliases WHERE source_key = $1 AND target_field = $2`,
		sourceKey, targetField,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete alias %s", sourceKey)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("alias not found: %s → %s", sourceKey, targetField)
	}
	return nil
}
