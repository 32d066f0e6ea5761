package feedback

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/batiprix/pricing-engine/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
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
CREATE TABLE IF NOT EXISTS feedback (
	id            TEXT PRIMARY KEY,
	proposal_id   TEXT,
	item_type     TEXT,
	item_label    TEXT NOT NULL,
	feedback_type TEXT,
	actual_price  REAL,
	comment       TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_feedback_item_label ON feedback(item_label);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.FeedbackRecord) (string, error) {
	id := uuid.New().String()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var price sql.NullFloat64
	if rec.ActualPrice != nil {
		price = sql.NullFloat64{Float64: *rec.ActualPrice, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, proposal_id, item_type, item_label, feedback_type, actual_price, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.ProposalID, string(rec.ItemType), rec.ItemLabel, rec.FeedbackType, price, rec.Comment, createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert feedback")
	}
	return id, nil
}

func (s *SQLiteStore) AllPriced(ctx context.Context) ([]model.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, proposal_id, item_type, item_label, feedback_type, actual_price, comment, created_at
		 FROM feedback WHERE actual_price IS NOT NULL`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: select priced feedback")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.FeedbackRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, proposal_id, item_type, item_label, feedback_type, actual_price, comment, created_at
		 FROM feedback ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list feedback")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]model.FeedbackRecord, error) {
	var recs []model.FeedbackRecord
	for rows.Next() {
		var (
			r         model.FeedbackRecord
			itemType  string
			price     sql.NullFloat64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.ProposalID, &itemType, &r.ItemLabel, &r.FeedbackType, &price, &r.Comment, &createdAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feedback")
		}
		r.ItemType = model.ItemType(itemType)
		if price.Valid {
			v := price.Float64
			r.ActualPrice = &v
		}
		// Malformed timestamps scan as invalid and leave CreatedAt zero;
		// the adjustment engine treats that as zero days old.
		if createdAt.Valid {
			r.CreatedAt = createdAt.Time.UTC()
		}
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate feedback")
}
