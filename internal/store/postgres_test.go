package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/recovery-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

// anyArgs returns n pgxmock.AnyArg() matchers; pgxmock requires the
// expected argument count to match even when the test does not care
// about the argument values.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var leadRowColumns = []string{
	"id", "owner_name", "address", "city", "state", "zip",
	"amount_owed", "estimated_value", "repair_cost", "phones", "email",
	"status", "contact_attempts", "follow_up_stage", "next_follow_up_at", "last_contacted_at",
	"opted_out", "do_not_contact", "sms_opt_out", "scoring", "golden_match", "match_value",
	"version", "created_at", "updated_at",
}

func TestPostgresGetLead(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM leads WHERE id = \$1`).
		WithArgs("l1").
		WillReturnRows(pgxmock.NewRows(leadRowColumns).AddRow(
			"l1", "John Smith", "12 Main St", "Austin", "TX", "78701",
			52_000.0, 0.0, 0.0, "+15550001111,+15550002222", "john@example.com",
			"contacted", 1, 0, (*time.Time)(nil), (*time.Time)(nil),
			false, false, false, []byte(`{"score":80,"grade":"A"}`), false, 0.0,
			int64(2), now, now,
		))

	lead, err := s.GetLead(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", lead.OwnerName)
	assert.Equal(t, []string{"+15550001111", "+15550002222"}, lead.Phones)
	assert.Equal(t, model.StatusContacted, lead.Status)
	require.NotNil(t, lead.Scoring)
	assert.Equal(t, 80, lead.Scoring.Score)
	assert.Equal(t, int64(2), lead.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLeadNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLead(context.Background(), "missing")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateLeadStale(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE leads SET`).
		WithArgs(anyArgs(24)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM leads WHERE id = \$1`).
		WithArgs("l1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	lead := &model.Lead{ID: "l1", OwnerName: "John Smith", Status: model.StatusContacted, Version: 1}
	err := s.UpdateLead(context.Background(), lead)
	assert.True(t, eris.Is(err, ErrStaleLead))
	// The in-memory copy is untouched on a lost race.
	assert.Equal(t, int64(1), lead.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateLeadMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE leads SET`).
		WithArgs(anyArgs(24)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM leads WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	err := s.UpdateLead(context.Background(), &model.Lead{ID: "ghost", Version: 1})
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateLeadBumpsVersion(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE leads SET`).
		WithArgs(anyArgs(24)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	lead := &model.Lead{ID: "l1", OwnerName: "John Smith", Status: model.StatusContacted, Version: 3}
	require.NoError(t, s.UpdateLead(context.Background(), lead))
	assert.Equal(t, int64(4), lead.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDailySendCount(t *testing.T) {
	s, mock := newMockStore(t)
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count FROM daily_sends WHERE day = \$1`).
		WithArgs("2026-03-10").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	n, err := s.DailySendCount(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDailySendCountEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count FROM daily_sends WHERE day = \$1`).
		WithArgs("2026-03-10").
		WillReturnError(pgx.ErrNoRows)

	n, err := s.DailySendCount(context.Background(), time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIncrDailySend(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO daily_sends`).
		WithArgs("2026-03-10").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.IncrDailySend(context.Background(), time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResolveApprovalAlreadyResolved(t *testing.T) {
	s, mock := newMockStore(t)
	resolvedAt := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE approval_requests SET`).
		WithArgs("approved", "alice", "r1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT (.+) FROM approval_requests WHERE id = \$1`).
		WithArgs("r1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "lead_id", "type", "note", "requested_by", "state", "resolved_by", "resolved_at", "created_at",
		}).AddRow(
			"r1", "l1", "contact", "", "proj-1", "approved", "bob", &resolvedAt, resolvedAt.Add(-time.Hour),
		))

	err := s.ResolveApproval(context.Background(), "r1", model.RequestApproved, "alice")
	assert.True(t, eris.Is(err, ErrAlreadyResolved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendActivity(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO activity_log`).
		WithArgs(pgxmock.AnyArg(), "l1", "contact", "alice", "sent", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.AppendActivity(context.Background(), model.ActivityEntry{
		LeadID: "l1",
		Action: "contact",
		Actor:  "alice",
		Result: "sent",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
