package feedback

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batiprix/pricing-engine/internal/model"
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

func TestPostgresStore_Append(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(pgxmock.AnyArg(), "prop-1", "task", "Install toilet", "too_low",
			sql.NullFloat64{Float64: 320, Valid: true}, "took longer", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.Append(context.Background(), model.FeedbackRecord{
		ProposalID:   "prop-1",
		ItemType:     model.ItemTypeTask,
		ItemLabel:    "Install toilet",
		FeedbackType: "too_low",
		ActualPrice:  ptr(320),
		Comment:      "took longer",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Append_NilPrice(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(pgxmock.AnyArg(), "", "material", "Mortier colle", "",
			sql.NullFloat64{}, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, err := s.Append(context.Background(), model.FeedbackRecord{
		ItemType:  model.ItemTypeMaterial,
		ItemLabel: "Mortier colle",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Append_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(eris.New("connection reset"))

	_, err := s.Append(context.Background(), model.FeedbackRecord{ItemLabel: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert feedback")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AllPriced(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "proposal_id", "item_type", "item_label", "feedback_type", "actual_price", "comment", "created_at",
	}).AddRow("fb-1", "prop-1", "task", "Install toilet", "too_low",
		sql.NullFloat64{Float64: 320, Valid: true}, "", sql.NullTime{Time: created, Valid: true})

	mock.ExpectQuery(`SELECT .+ FROM feedback WHERE actual_price IS NOT NULL`).
		WillReturnRows(rows)

	recs, err := s.AllPriced(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "fb-1", recs[0].ID)
	assert.Equal(t, model.ItemTypeTask, recs[0].ItemType)
	require.NotNil(t, recs[0].ActualPrice)
	assert.Equal(t, 320.0, *recs[0].ActualPrice)
	assert.Equal(t, created, recs[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AllPriced_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM feedback WHERE actual_price IS NOT NULL`).
		WillReturnError(eris.New("relation does not exist"))

	_, err := s.AllPriced(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select priced feedback")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List_DefaultsLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "proposal_id", "item_type", "item_label", "feedback_type", "actual_price", "comment", "created_at",
	})
	mock.ExpectQuery(`SELECT .+ FROM feedback ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(rows)

	recs, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS feedback`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
