package reviews

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewColumns = []string{"text", "rating", "author", "created_at"}

func setupPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewPostgresStore(mock), mock
}

func TestPostgresStore_Append(t *testing.T) {
	s, mock := setupPostgres(t)

	rv := NewReview("great", 4, "alice", testTime)
	mock.ExpectExec("INSERT INTO product_reviews").
		WithArgs("p1", "great", 4, "alice", rv.Timestamp.Time).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Append(context.Background(), "p1", rv))
}

func TestPostgresStore_AppendError(t *testing.T) {
	s, mock := setupPostgres(t)

	rv := NewReview("great", 4, "alice", testTime)
	mock.ExpectExec("INSERT INTO product_reviews").
		WithArgs("p1", "great", 4, "alice", rv.Timestamp.Time).
		WillReturnError(errors.New("connection reset"))

	err := s.Append(context.Background(), "p1", rv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
}

func TestPostgresStore_ListInOrder(t *testing.T) {
	s, mock := setupPostgres(t)

	mock.ExpectQuery("SELECT .+ FROM product_reviews").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(reviewColumns).
			AddRow("first", 3, "alice", testTime).
			AddRow("second", 0, "bob", testTime))

	got, err := s.List(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []Review{
		NewReview("first", 3, "alice", testTime),
		NewReview("second", 0, "bob", testTime),
	}, got)
}

func TestPostgresStore_ListUnknownIsEmpty(t *testing.T) {
	s, mock := setupPostgres(t)

	mock.ExpectQuery("SELECT .+ FROM product_reviews").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(reviewColumns))

	got, err := s.List(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresStore_ListQueryError(t *testing.T) {
	s, mock := setupPostgres(t)

	mock.ExpectQuery("SELECT .+ FROM product_reviews").
		WithArgs("p1").
		WillReturnError(errors.New("boom"))

	_, err := s.List(context.Background(), "p1")
	assert.Error(t, err)
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	s, mock := setupPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS product_reviews").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
}
