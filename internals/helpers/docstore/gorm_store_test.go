package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormStoreWithMock(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestGormStore_GetFound(t *testing.T) {
	s, mock := newGormStoreWithMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"collection", "doc_key", "data", "created_at", "updated_at"}).
		AddRow("pages", "ana__bia_abc123", []byte(`{"name":"ana","count":3}`), now, now)
	mock.ExpectQuery(`(?s)SELECT \* FROM "documents" WHERE collection = \$1 AND doc_key = \$2`).
		WillReturnRows(rows)

	var got sample
	found, err := s.Get(context.Background(), "pages", "ana__bia_abc123", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "ana", Count: 3}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetMissing(t *testing.T) {
	s, mock := newGormStoreWithMock(t)

	mock.ExpectQuery(`(?s)SELECT \* FROM "documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"collection", "doc_key", "data", "created_at", "updated_at"}))

	found, err := s.Get(context.Background(), "pages", "nope", &sample{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetError(t *testing.T) {
	s, mock := newGormStoreWithMock(t)

	mock.ExpectQuery(`(?s)SELECT \* FROM "documents"`).WillReturnError(errors.New("db down"))

	_, err := s.Get(context.Background(), "pages", "x", &sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestGormStore_CreateDuplicate(t *testing.T) {
	s, mock := newGormStoreWithMock(t)

	mock.ExpectExec(`(?s)INSERT INTO "documents"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.Create(context.Background(), "pages", "ana__bia_abc123", sample{Name: "ana"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "documents_pkey"`)))
}

func TestGormStore_PurgeBefore(t *testing.T) {
	s, mock := newGormStoreWithMock(t)
	cutoff := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM "documents" WHERE collection = \$1 AND updated_at < \$2`).
		WithArgs("drafts", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.PurgeBefore(context.Background(), "drafts", cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
