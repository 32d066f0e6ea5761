package feedback

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/batiprix/pricing-engine/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. Satisfied by
// pgxmock for unit testing.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
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
CREATE TABLE IF NOT EXISTS feedback (
	id            TEXT PRIMARY KEY,
	proposal_id   TEXT,
	item_type     TEXT,
	item_label    TEXT NOT NULL,
	feedback_type TEXT,
	actual_price  DOUBLE PRECISION,
	comment       TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_feedback_item_label ON feedback(item_label);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Append(ctx context.Context, rec model.FeedbackRecord) (string, error) {
	id := uuid.New().String()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var price sql.NullFloat64
	if rec.ActualPrice != nil {
		price = sql.NullFloat64{Float64: *rec.ActualPrice, Valid: true}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO feedback (id, proposal_id, item_type, item_label, feedback_type, actual_price, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, rec.ProposalID, string(rec.ItemType), rec.ItemLabel, rec.FeedbackType, price, rec.Comment, createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert feedback")
	}
	return id, nil
}

func (s *PostgresStore) AllPriced(ctx context.Context) ([]model.FeedbackRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, proposal_id, item_type, item_label, feedback_type, actual_price, comment, created_at
		 FROM feedback WHERE actual_price IS NOT NULL`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: select priced feedback")
	}
	defer rows.Close()
	return scanPgRecords(rows)
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]model.FeedbackRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, proposal_id, item_type, item_label, feedback_type, actual_price, comment, created_at
		 FROM feedback ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list feedback")
	}
	defer rows.Close()
	return scanPgRecords(rows)
}

func scanPgRecords(rows pgx.Rows) ([]model.FeedbackRecord, error) {
	var recs []model.FeedbackRecord
	for rows.Next() {
		var (
			r         model.FeedbackRecord
			itemType  string
			price     sql.NullFloat64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.ProposalID, &itemType, &r.ItemLabel, &r.FeedbackType, &price, &r.Comment, &createdAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feedback")
		}
		r.ItemType = model.ItemType(itemType)
		if price.Valid {
			v := price.Float64
			r.ActualPrice = &v
		}
		if createdAt.Valid {
			r.CreatedAt = createdAt.Time.UTC()
		}
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: iterate feedback")
}
