package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS crowd_aliases`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAliases(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"source_key", "target_field", "usage_count"}).
		AddRow("megapixels", "Effective Pixels", 12).
		AddRow("pickup pattern", "Polar Pattern", 4)
	mock.ExpectQuery(`SELECT source_key, target_field, usage_count FROM crowd_aliases`).
		WillReturnRows(rows)

	aliases, err := s.ListAliases(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, aliases, 2)
	assert.Equal(t, "megapixels", aliases[0].SourceKey)
	assert.Equal(t, "Effective Pixels", aliases[0].TargetField)
	assert.Equal(t, 12, aliases[0].UsageCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAliases_CategoryFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT source_key, target_field, usage_count FROM crowd_aliases WHERE category = \$1`).
		WithArgs("Cameras").
		WillReturnRows(pgxmock.NewRows([]string{"source_key", "target_field", "usage_count"}))

	aliases, err := s.ListAliases(context.Background(), "Cameras")
	require.NoError(t, err)
	assert.Empty(t, aliases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordAlias_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(pgxmock.AnyArg(), "megapixels", "Effective Pixels", "Cameras").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.RecordAlias(context.Background(), "megapixels", "Effective Pixels", "Cameras")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordAlias_Validation(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	assert.Error(t, s.RecordAlias(context.Background(), "", "Weight", ""))
	assert.Error(t, s.RecordAlias(context.Background(), "item weight", "", ""))
}

func TestPostgresStore_DeleteAlias(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM crowd_aliases`).
		WithArgs("megapixels", "Effective Pixels").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteAlias(context.Background(), "megapixels", "Effective Pixels"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAlias_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM crowd_aliases`).
		WithArgs("nope", "Weight").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteAlias(context.Background(), "nope", "Weight")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
