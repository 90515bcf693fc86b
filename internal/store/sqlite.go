package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/recovery-cli/internal/model"
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
CREATE TABLE IF NOT EXISTS leads (
	id                TEXT PRIMARY KEY,
	owner_name        TEXT NOT NULL,
	address           TEXT NOT NULL DEFAULT '',
	city              TEXT NOT NULL DEFAULT '',
	state             TEXT NOT NULL DEFAULT '',
	zip               TEXT NOT NULL DEFAULT '',
	amount_owed       REAL NOT NULL DEFAULT 0,
	estimated_value   REAL NOT NULL DEFAULT 0,
	repair_cost       REAL NOT NULL DEFAULT 0,
	phones            TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'new',
	contact_attempts  INTEGER NOT NULL DEFAULT 0,
	follow_up_stage   INTEGER NOT NULL DEFAULT 0,
	next_follow_up_at DATETIME,
	last_contacted_at DATETIME,
	opted_out         INTEGER NOT NULL DEFAULT 0,
	do_not_contact    INTEGER NOT NULL DEFAULT 0,
	sms_opt_out       INTEGER NOT NULL DEFAULT 0,
	scoring           TEXT,
	golden_match      INTEGER NOT NULL DEFAULT 0,
	match_value       REAL NOT NULL DEFAULT 0,
	version           INTEGER NOT NULL DEFAULT 1,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS funds_records (
	id          TEXT PRIMARY KEY,
	lead_id     TEXT NOT NULL DEFAULT '',
	owner_name  TEXT NOT NULL,
	co_owner    TEXT NOT NULL DEFAULT '',
	amount      REAL NOT NULL DEFAULT 0,
	address     TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL DEFAULT '',
	state       TEXT NOT NULL DEFAULT '',
	zip         TEXT NOT NULL DEFAULT '',
	case_number TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS property_records (
	id              TEXT PRIMARY KEY,
	owner_name      TEXT NOT NULL,
	borrower        TEXT NOT NULL DEFAULT '',
	address         TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT '',
	zip             TEXT NOT NULL DEFAULT '',
	estimated_value REAL NOT NULL DEFAULT 0,
	loan_balance    REAL NOT NULL DEFAULT 0,
	auction_date    TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS golden_matches (
	funds_id       TEXT NOT NULL,
	property_id    TEXT NOT NULL,
	confidence     TEXT NOT NULL,
	combined_value REAL NOT NULL DEFAULT 0,
	matched_name   TEXT NOT NULL DEFAULT '',
	listing_status TEXT NOT NULL DEFAULT 'unknown',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (funds_id, property_id)
);

CREATE TABLE IF NOT EXISTS approval_requests (
	id           TEXT PRIMARY KEY,
	lead_id      TEXT NOT NULL,
	type         TEXT NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	requested_by TEXT NOT NULL,
	state        TEXT NOT NULL DEFAULT 'pending',
	resolved_by  TEXT NOT NULL DEFAULT '',
	resolved_at  DATETIME,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS activity_log (
	id        TEXT PRIMARY KEY,
	lead_id   TEXT NOT NULL,
	action    TEXT NOT NULL,
	actor     TEXT NOT NULL,
	result    TEXT NOT NULL DEFAULT '',
	timestamp DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS daily_sends (
	day   TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_next_follow_up ON leads(next_follow_up_at);
CREATE INDEX IF NOT EXISTS idx_funds_lead_id ON funds_records(lead_id);
CREATE INDEX IF NOT EXISTS idx_approvals_state ON approval_requests(state);
CREATE INDEX IF NOT EXISTS idx_activity_lead_id ON activity_log(lead_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const leadColumns = `id, owner_name, address, city, state, zip,
	amount_owed, estimated_value, repair_cost, phones, email,
	status, contact_attempts, follow_up_stage, next_follow_up_at, last_contacted_at,
	opted_out, do_not_contact, sms_opt_out, scoring, golden_match, match_value,
	version, created_at, updated_at`

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = model.StatusNew
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	lead.Version = 1

	scoringJSON, err := marshalScoring(lead.Scoring)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.OwnerName, lead.Address, lead.City, lead.State, lead.Zip,
		lead.AmountOwed, lead.EstimatedValue, lead.RepairCost, joinPhones(lead.Phones), lead.Email,
		string(lead.Status), lead.ContactAttempts, lead.FollowUpStage, lead.NextFollowUpAt, lead.LastContactedAt,
		lead.OptedOut, lead.DoNotContact, lead.SMSOptOut, scoringJSON, lead.GoldenMatch, lead.MatchValue,
		lead.Version, now, now,
	)
	return eris.Wrap(err, "sqlite: insert lead")
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	lead, err := scanLead(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return lead, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.State != "" {
		query += ` AND state = ?`
		args = append(args, filter.State)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (s *SQLiteStore) ListDueLeads(ctx context.Context, now time.Time, limit int) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE status IN ('contacted', 'awaiting_response')
		  AND follow_up_stage < ?
		  AND next_follow_up_at IS NOT NULL
		  AND next_follow_up_at <= ?
		ORDER BY next_follow_up_at ASC`
	args := []any{model.MaxFollowUpStage, now.UTC()}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list due leads")
	}
	defer rows.Close()
	return scanLeads(rows)
}

// UpdateLead writes the lead back conditionally on the version it was read
// at. On success the lead's Version is incremented in place.
func (s *SQLiteStore) UpdateLead(ctx context.Context, lead *model.Lead) error {
	scoringJSON, err := marshalScoring(lead.Scoring)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET
			owner_name = ?, address = ?, city = ?, state = ?, zip = ?,
			amount_owed = ?, estimated_value = ?, repair_cost = ?, phones = ?, email = ?,
			status = ?, contact_attempts = ?, follow_up_stage = ?, next_follow_up_at = ?, last_contacted_at = ?,
			opted_out = ?, do_not_contact = ?, sms_opt_out = ?, scoring = ?, golden_match = ?, match_value = ?,
			version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		lead.OwnerName, lead.Address, lead.City, lead.State, lead.Zip,
		lead.AmountOwed, lead.EstimatedValue, lead.RepairCost, joinPhones(lead.Phones), lead.Email,
		string(lead.Status), lead.ContactAttempts, lead.FollowUpStage, lead.NextFollowUpAt, lead.LastContactedAt,
		lead.OptedOut, lead.DoNotContact, lead.SMSOptOut, scoringJSON, lead.GoldenMatch, lead.MatchValue,
		now, lead.ID, lead.Version,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead %s", lead.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		// Distinguish a missing lead from a lost version race.
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM leads WHERE id = ?`, lead.ID).Scan(&exists); err != nil {
			return eris.Wrapf(err, "sqlite: check lead %s", lead.ID)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrStaleLead
	}
	lead.Version++
	lead.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) InsertFundsRecords(ctx context.Context, recs []model.FundsRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	inserted := 0
	for _, r := range recs {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO funds_records (id, lead_id, owner_name, co_owner, amount, address, city, state, zip, case_number, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			r.ID, r.LeadID, r.OwnerName, r.CoOwner, r.Amount, r.Address, r.City, r.State, r.Zip, r.CaseNumber, r.Source,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "sqlite: insert funds record %s", r.ID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return inserted, eris.Wrap(err, "sqlite: commit funds records")
	}
	return inserted, nil
}

func (s *SQLiteStore) InsertPropertyRecords(ctx context.Context, recs []model.PropertyRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	inserted := 0
	for _, r := range recs {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO property_records (id, owner_name, borrower, address, city, state, zip, estimated_value, loan_balance, auction_date, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			r.ID, r.OwnerName, r.Borrower, r.Address, r.City, r.State, r.Zip, r.EstimatedValue, r.LoanBalance, r.AuctionDate, r.Source,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "sqlite: insert property record %s", r.ID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return inserted, eris.Wrap(err, "sqlite: commit property records")
	}
	return inserted, nil
}

func (s *SQLiteStore) ListFundsRecords(ctx context.Context) ([]model.FundsRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, owner_name, co_owner, amount, address, city, state, zip, case_number, source
		 FROM funds_records ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list funds records")
	}
	defer rows.Close()

	var out []model.FundsRecord
	for rows.Next() {
		var r model.FundsRecord
		if err := rows.Scan(&r.ID, &r.LeadID, &r.OwnerName, &r.CoOwner, &r.Amount, &r.Address, &r.City, &r.State, &r.Zip, &r.CaseNumber, &r.Source); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan funds record")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate funds records")
}

func (s *SQLiteStore) ListPropertyRecords(ctx context.Context) ([]model.PropertyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_name, borrower, address, city, state, zip, estimated_value, loan_balance, auction_date, source
		 FROM property_records ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list property records")
	}
	defer rows.Close()

	var out []model.PropertyRecord
	for rows.Next() {
		var r model.PropertyRecord
		if err := rows.Scan(&r.ID, &r.OwnerName, &r.Borrower, &r.Address, &r.City, &r.State, &r.Zip, &r.EstimatedValue, &r.LoanBalance, &r.AuctionDate, &r.Source); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan property record")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate property records")
}

// UpsertGoldenMatch records a promoted pair and stamps the linked lead. The
// insert is keyed by (funds_id, property_id); a duplicate pair is a no-op.
func (s *SQLiteStore) UpsertGoldenMatch(ctx context.Context, cand model.MatchCandidate) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO golden_matches (funds_id, property_id, confidence, combined_value, matched_name, listing_status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (funds_id, property_id) DO NOTHING`,
		cand.FundsID, cand.PropertyID, string(cand.Confidence), cand.CombinedValue, cand.MatchedName, string(cand.ListingStatus),
	)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: insert golden match")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return false, tx.Commit()
	}

	// Write the flag back onto the lead linked to the funds record. The
	// version bump keeps CAS writers honest about the concurrent change.
	_, err = tx.ExecContext(ctx,
		`UPDATE leads SET golden_match = 1, match_value = ?, version = version + 1, updated_at = ?
		 WHERE id = (SELECT lead_id FROM funds_records WHERE id = ? AND lead_id != '')`,
		cand.CombinedValue, time.Now().UTC(), cand.FundsID,
	)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: stamp lead golden match")
	}

	if err := tx.Commit(); err != nil {
		return false, eris.Wrap(err, "sqlite: commit golden match")
	}
	return true, nil
}

func (s *SQLiteStore) CreateApproval(ctx context.Context, req *model.ApprovalRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.State = model.RequestPending
	req.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO approval_requests (id, lead_id, type, note, requested_by, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.LeadID, string(req.Type), req.Note, req.RequestedBy, string(req.State), req.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert approval")
}

func (s *SQLiteStore) GetApproval(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, lead_id, type, note, requested_by, state, resolved_by, resolved_at, created_at
		 FROM approval_requests WHERE id = ?`, id)

	var req model.ApprovalRequest
	var typ, state string
	var resolvedAt sql.NullTime
	err := row.Scan(&req.ID, &req.LeadID, &typ, &req.Note, &req.RequestedBy, &state, &req.ResolvedBy, &resolvedAt, &req.CreatedAt)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get approval %s", id)
	}
	req.Type = model.RequestType(typ)
	req.State = model.RequestState(state)
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	return &req, nil
}

func (s *SQLiteStore) ListApprovals(ctx context.Context, state model.RequestState) ([]model.ApprovalRequest, error) {
	query := `SELECT id, lead_id, type, note, requested_by, state, resolved_by, resolved_at, created_at
		 FROM approval_requests`
	var args []any
	if state != "" {
		query += ` WHERE state = ?`
		args = append(args, string(state))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list approvals")
	}
	defer rows.Close()

	var out []model.ApprovalRequest
	for rows.Next() {
		var req model.ApprovalRequest
		var typ, st string
		var resolvedAt sql.NullTime
		if err := rows.Scan(&req.ID, &req.LeadID, &typ, &req.Note, &req.RequestedBy, &st, &req.ResolvedBy, &resolvedAt, &req.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan approval")
		}
		req.Type = model.RequestType(typ)
		req.State = model.RequestState(st)
		if resolvedAt.Valid {
			req.ResolvedAt = &resolvedAt.Time
		}
		out = append(out, req)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate approvals")
}

// ResolveApproval moves a pending request to approved or rejected. Resolved
// requests are immutable; re-resolution returns ErrAlreadyResolved.
func (s *SQLiteStore) ResolveApproval(ctx context.Context, id string, state model.RequestState, actor string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE approval_requests SET state = ?, resolved_by = ?, resolved_at = ?
		 WHERE id = ? AND state = 'pending'`,
		string(state), actor, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: resolve approval %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		if _, err := s.GetApproval(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyResolved
	}
	return nil
}

func (s *SQLiteStore) AppendActivity(ctx context.Context, entry model.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, lead_id, action, actor, result, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.LeadID, entry.Action, entry.Actor, entry.Result, entry.Timestamp,
	)
	return eris.Wrap(err, "sqlite: append activity")
}

func (s *SQLiteStore) ListActivity(ctx context.Context, leadID string) ([]model.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, action, actor, result, timestamp
		 FROM activity_log WHERE lead_id = ? ORDER BY timestamp ASC`, leadID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list activity")
	}
	defer rows.Close()

	var out []model.ActivityEntry
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Action, &e.Actor, &e.Result, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan activity")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate activity")
}

func (s *SQLiteStore) DailySendCount(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM daily_sends WHERE day = ?`, dayKey(day)).Scan(&count)
	if eris.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return count, eris.Wrap(err, "sqlite: daily send count")
}

func (s *SQLiteStore) IncrDailySend(ctx context.Context, day time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_sends (day, count) VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET count = count + 1`, dayKey(day))
	return eris.Wrap(err, "sqlite: incr daily send")
}

// scanner abstracts *sql.Row and *sql.Rows for lead scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanLead(row scanner) (*model.Lead, error) {
	var (
		lead                          model.Lead
		phones, status                string
		scoring                       sql.NullString
		nextFollowUp, lastContactedAt sql.NullTime
	)
	err := row.Scan(
		&lead.ID, &lead.OwnerName, &lead.Address, &lead.City, &lead.State, &lead.Zip,
		&lead.AmountOwed, &lead.EstimatedValue, &lead.RepairCost, &phones, &lead.Email,
		&status, &lead.ContactAttempts, &lead.FollowUpStage, &nextFollowUp, &lastContactedAt,
		&lead.OptedOut, &lead.DoNotContact, &lead.SMSOptOut, &scoring, &lead.GoldenMatch, &lead.MatchValue,
		&lead.Version, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Phones = splitPhones(phones)
	lead.Status = model.LeadStatus(status)
	if nextFollowUp.Valid {
		lead.NextFollowUpAt = &nextFollowUp.Time
	}
	if lastContactedAt.Valid {
		lead.LastContactedAt = &lastContactedAt.Time
	}
	if scoring.Valid && scoring.String != "" {
		var sr model.ScoringResult
		if err := json.Unmarshal([]byte(scoring.String), &sr); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal scoring")
		}
		lead.Scoring = &sr
	}
	return &lead, nil
}

func scanLeads(rows *sql.Rows) ([]model.Lead, error) {
	var out []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		out = append(out, *lead)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

func marshalScoring(sr *model.ScoringResult) (any, error) {
	if sr == nil {
		return nil, nil
	}
	b, err := json.Marshal(sr)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal scoring")
	}
	return string(b), nil
}

func joinPhones(phones []string) string {
	return strings.Join(phones, ",")
}

func splitPhones(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
