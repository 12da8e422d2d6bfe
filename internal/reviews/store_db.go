package reviews

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS product_reviews (
		seq        BIGSERIAL PRIMARY KEY,
		product_id TEXT        NOT NULL,
		text       TEXT        NOT NULL,
		rating     INTEGER     NOT NULL,
		author     TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS product_reviews_product_seq_idx
		ON product_reviews (product_id, seq)`,
}

// pgxPool is the subset of *pgxpool.Pool the store needs.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore keeps reviews in product_reviews. The serial seq column
// records insertion order.
type PostgresStore struct {
	pool pgxPool
}

func NewPostgresStore(pool pgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ConnectPostgres opens a pool for dsn and verifies it answers.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	s := NewPostgresStore(pool)
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return s, nil
}

// EnsureSchema creates the reviews table and index when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
			_, err := s.pool.Exec(ctx, stmt)
			return err
		})
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.pool.Ping(ctx)
	})
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, productID string, rv Review) error {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO product_reviews (product_id, text, rating, author, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, productID, rv.Text, rv.Rating, rv.User, rv.Timestamp.Time)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, productID string) ([]Review, error) {
	out := make([]Review, 0)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, `
			SELECT text, rating, author, created_at
			FROM product_reviews
			WHERE product_id = $1
			ORDER BY seq ASC
		`, productID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				text, author string
				rating       int
				createdAt    time.Time
			)
			if err := rows.Scan(&text, &rating, &author, &createdAt); err != nil {
				return err
			}
			out = append(out, NewReview(text, rating, author, createdAt))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
