package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/db"
	"github.com/sells-group/recovery-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
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

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                TEXT PRIMARY KEY,
	owner_name        TEXT NOT NULL,
	address           TEXT NOT NULL DEFAULT '',
	city              TEXT NOT NULL DEFAULT '',
	state             TEXT NOT NULL DEFAULT '',
	zip               TEXT NOT NULL DEFAULT '',
	amount_owed       DOUBLE PRECISION NOT NULL DEFAULT 0,
	estimated_value   DOUBLE PRECISION NOT NULL DEFAULT 0,
	repair_cost       DOUBLE PRECISION NOT NULL DEFAULT 0,
	phones            TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'new',
	contact_attempts  INTEGER NOT NULL DEFAULT 0,
	follow_up_stage   INTEGER NOT NULL DEFAULT 0,
	next_follow_up_at TIMESTAMPTZ,
	last_contacted_at TIMESTAMPTZ,
	opted_out         BOOLEAN NOT NULL DEFAULT false,
	do_not_contact    BOOLEAN NOT NULL DEFAULT false,
	sms_opt_out       BOOLEAN NOT NULL DEFAULT false,
	scoring           JSONB,
	golden_match      BOOLEAN NOT NULL DEFAULT false,
	match_value       DOUBLE PRECISION NOT NULL DEFAULT 0,
	version           BIGINT NOT NULL DEFAULT 1,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS funds_records (
	id          TEXT PRIMARY KEY,
	lead_id     TEXT NOT NULL DEFAULT '',
	owner_name  TEXT NOT NULL,
	co_owner    TEXT NOT NULL DEFAULT '',
	amount      DOUBLE PRECISION NOT NULL DEFAULT 0,
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
	estimated_value DOUBLE PRECISION NOT NULL DEFAULT 0,
	loan_balance    DOUBLE PRECISION NOT NULL DEFAULT 0,
	auction_date    TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS golden_matches (
	funds_id       TEXT NOT NULL,
	property_id    TEXT NOT NULL,
	confidence     TEXT NOT NULL,
	combined_value DOUBLE PRECISION NOT NULL DEFAULT 0,
	matched_name   TEXT NOT NULL DEFAULT '',
	listing_status TEXT NOT NULL DEFAULT 'unknown',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
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
	resolved_at  TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS activity_log (
	id        TEXT PRIMARY KEY,
	lead_id   TEXT NOT NULL,
	action    TEXT NOT NULL,
	actor     TEXT NOT NULL,
	result    TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
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

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.Lead) error {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		lead.ID, lead.OwnerName, lead.Address, lead.City, lead.State, lead.Zip,
		lead.AmountOwed, lead.EstimatedValue, lead.RepairCost, joinPhones(lead.Phones), lead.Email,
		string(lead.Status), lead.ContactAttempts, lead.FollowUpStage, lead.NextFollowUpAt, lead.LastContactedAt,
		lead.OptedOut, lead.DoNotContact, lead.SMSOptOut, scoringJSON, lead.GoldenMatch, lead.MatchValue,
		lead.Version, now, now,
	)
	return eris.Wrap(err, "postgres: insert lead")
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLeadPgx(row)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return lead, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var args []any
	argNum := 1

	if filter.Status != "" {
		query += ` AND status = $` + itoa(argNum)
		args = append(args, string(filter.Status))
		argNum++
	}
	if filter.State != "" {
		query += ` AND state = $` + itoa(argNum)
		args = append(args, filter.State)
		argNum++
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT $` + itoa(argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		query += ` OFFSET $` + itoa(argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()
	return scanLeadsPgx(rows)
}

func (s *PostgresStore) ListDueLeads(ctx context.Context, now time.Time, limit int) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE status IN ('contacted', 'awaiting_response')
		  AND follow_up_stage < $1
		  AND next_follow_up_at IS NOT NULL
		  AND next_follow_up_at <= $2
		ORDER BY next_follow_up_at ASC`
	args := []any{model.MaxFollowUpStage, now.UTC()}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list due leads")
	}
	defer rows.Close()
	return scanLeadsPgx(rows)
}

func (s *PostgresStore) UpdateLead(ctx context.Context, lead *model.Lead) error {
	scoringJSON, err := marshalScoring(lead.Scoring)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET
			owner_name = $1, address = $2, city = $3, state = $4, zip = $5,
			amount_owed = $6, estimated_value = $7, repair_cost = $8, phones = $9, email = $10,
			status = $11, contact_attempts = $12, follow_up_stage = $13, next_follow_up_at = $14, last_contacted_at = $15,
			opted_out = $16, do_not_contact = $17, sms_opt_out = $18, scoring = $19, golden_match = $20, match_value = $21,
			version = version + 1, updated_at = $22
		 WHERE id = $23 AND version = $24`,
		lead.OwnerName, lead.Address, lead.City, lead.State, lead.Zip,
		lead.AmountOwed, lead.EstimatedValue, lead.RepairCost, joinPhones(lead.Phones), lead.Email,
		string(lead.Status), lead.ContactAttempts, lead.FollowUpStage, lead.NextFollowUpAt, lead.LastContactedAt,
		lead.OptedOut, lead.DoNotContact, lead.SMSOptOut, scoringJSON, lead.GoldenMatch, lead.MatchValue,
		now, lead.ID, lead.Version,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead %s", lead.ID)
	}
	if tag.RowsAffected() == 0 {
		var exists int
		if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM leads WHERE id = $1`, lead.ID).Scan(&exists); err != nil {
			return eris.Wrapf(err, "postgres: check lead %s", lead.ID)
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

var fundsColumns = []string{"id", "lead_id", "owner_name", "co_owner", "amount", "address", "city", "state", "zip", "case_number", "source"}

func (s *PostgresStore) InsertFundsRecords(ctx context.Context, recs []model.FundsRecord) (int, error) {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		rows = append(rows, []any{r.ID, r.LeadID, r.OwnerName, r.CoOwner, r.Amount, r.Address, r.City, r.State, r.Zip, r.CaseNumber, r.Source})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "funds_records",
		Columns:      fundsColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	return int(n), err
}

var propertyColumns = []string{"id", "owner_name", "borrower", "address", "city", "state", "zip", "estimated_value", "loan_balance", "auction_date", "source"}

func (s *PostgresStore) InsertPropertyRecords(ctx context.Context, recs []model.PropertyRecord) (int, error) {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		rows = append(rows, []any{r.ID, r.OwnerName, r.Borrower, r.Address, r.City, r.State, r.Zip, r.EstimatedValue, r.LoanBalance, r.AuctionDate, r.Source})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "property_records",
		Columns:      propertyColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	return int(n), err
}

func (s *PostgresStore) ListFundsRecords(ctx context.Context) ([]model.FundsRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, owner_name, co_owner, amount, address, city, state, zip, case_number, source
		 FROM funds_records ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list funds records")
	}
	defer rows.Close()

	var out []model.FundsRecord
	for rows.Next() {
		var r model.FundsRecord
		if err := rows.Scan(&r.ID, &r.LeadID, &r.OwnerName, &r.CoOwner, &r.Amount, &r.Address, &r.City, &r.State, &r.Zip, &r.CaseNumber, &r.Source); err != nil {
			return nil, eris.Wrap(err, "postgres: scan funds record")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate funds records")
}

func (s *PostgresStore) ListPropertyRecords(ctx context.Context) ([]model.PropertyRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_name, borrower, address, city, state, zip, estimated_value, loan_balance, auction_date, source
		 FROM property_records ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list property records")
	}
	defer rows.Close()

	var out []model.PropertyRecord
	for rows.Next() {
		var r model.PropertyRecord
		if err := rows.Scan(&r.ID, &r.OwnerName, &r.Borrower, &r.Address, &r.City, &r.State, &r.Zip, &r.EstimatedValue, &r.LoanBalance, &r.AuctionDate, &r.Source); err != nil {
			return nil, eris.Wrap(err, "postgres: scan property record")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate property records")
}

func (s *PostgresStore) UpsertGoldenMatch(ctx context.Context, cand model.MatchCandidate) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`INSERT INTO golden_matches (funds_id, property_id, confidence, combined_value, matched_name, listing_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (funds_id, property_id) DO NOTHING`,
		cand.FundsID, cand.PropertyID, string(cand.Confidence), cand.CombinedValue, cand.MatchedName, string(cand.ListingStatus),
	)
	if err != nil {
		return false, eris.Wrap(err, "postgres: insert golden match")
	}
	if tag.RowsAffected() == 0 {
		return false, eris.Wrap(tx.Commit(ctx), "postgres: commit")
	}

	_, err = tx.Exec(ctx,
		`UPDATE leads SET golden_match = true, match_value = $1, version = version + 1, updated_at = now()
		 WHERE id = (SELECT lead_id FROM funds_records WHERE id = $2 AND lead_id != '')`,
		cand.CombinedValue, cand.FundsID,
	)
	if err != nil {
		return false, eris.Wrap(err, "postgres: stamp lead golden match")
	}

	if err := tx.Commit(ctx); err != nil {
		return false, eris.Wrap(err, "postgres: commit golden match")
	}
	return true, nil
}

func (s *PostgresStore) CreateApproval(ctx context.Context, req *model.ApprovalRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.State = model.RequestPending
	req.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO approval_requests (id, lead_id, type, note, requested_by, state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.LeadID, string(req.Type), req.Note, req.RequestedBy, string(req.State), req.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert approval")
}

func (s *PostgresStore) GetApproval(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, lead_id, type, note, requested_by, state, resolved_by, resolved_at, created_at
		 FROM approval_requests WHERE id = $1`, id)

	var req model.ApprovalRequest
	var typ, state string
	var resolvedAt *time.Time
	err := row.Scan(&req.ID, &req.LeadID, &typ, &req.Note, &req.RequestedBy, &state, &req.ResolvedBy, &resolvedAt, &req.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get approval %s", id)
	}
	req.Type = model.RequestType(typ)
	req.State = model.RequestState(state)
	req.ResolvedAt = resolvedAt
	return &req, nil
}

func (s *PostgresStore) ListApprovals(ctx context.Context, state model.RequestState) ([]model.ApprovalRequest, error) {
	query := `SELECT id, lead_id, type, note, requested_by, state, resolved_by, resolved_at, created_at
		 FROM approval_requests`
	var args []any
	if state != "" {
		query += ` WHERE state = $1`
		args = append(args, string(state))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list approvals")
	}
	defer rows.Close()

	var out []model.ApprovalRequest
	for rows.Next() {
		var req model.ApprovalRequest
		var typ, st string
		var resolvedAt *time.Time
		if err := rows.Scan(&req.ID, &req.LeadID, &typ, &req.Note, &req.RequestedBy, &st, &req.ResolvedBy, &resolvedAt, &req.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan approval")
		}
		req.Type = model.RequestType(typ)
		req.State = model.RequestState(st)
		req.ResolvedAt = resolvedAt
		out = append(out, req)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate approvals")
}

func (s *PostgresStore) ResolveApproval(ctx context.Context, id string, state model.RequestState, actor string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE approval_requests SET state = $1, resolved_by = $2, resolved_at = now()
		 WHERE id = $3 AND state = 'pending'`,
		string(state), actor, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: resolve approval %s", id)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetApproval(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyResolved
	}
	return nil
}

func (s *PostgresStore) AppendActivity(ctx context.Context, entry model.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO activity_log (id, lead_id, action, actor, result, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.LeadID, entry.Action, entry.Actor, entry.Result, entry.Timestamp,
	)
	return eris.Wrap(err, "postgres: append activity")
}

func (s *PostgresStore) ListActivity(ctx context.Context, leadID string) ([]model.ActivityEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, action, actor, result, timestamp
		 FROM activity_log WHERE lead_id = $1 ORDER BY timestamp ASC`, leadID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list activity")
	}
	defer rows.Close()

	var out []model.ActivityEntry
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Action, &e.Actor, &e.Result, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan activity")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate activity")
}

func (s *PostgresStore) DailySendCount(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count FROM daily_sends WHERE day = $1`, dayKey(day)).Scan(&count)
	if eris.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return count, eris.Wrap(err, "postgres: daily send count")
}

func (s *PostgresStore) IncrDailySend(ctx context.Context, day time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO daily_sends (day, count) VALUES ($1, 1)
		 ON CONFLICT (day) DO UPDATE SET count = daily_sends.count + 1`, dayKey(day))
	return eris.Wrap(err, "postgres: incr daily send")
}

func scanLeadPgx(row pgx.Row) (*model.Lead, error) {
	var (
		lead                          model.Lead
		phones, status                string
		scoring                       []byte
		nextFollowUp, lastContactedAt *time.Time
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
	lead.NextFollowUpAt = nextFollowUp
	lead.LastContactedAt = lastContactedAt
	if len(scoring) > 0 {
		var sr model.ScoringResult
		if err := json.Unmarshal(scoring, &sr); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal scoring")
		}
		lead.Scoring = &sr
	}
	return &lead, nil
}

func scanLeadsPgx(rows pgx.Rows) ([]model.Lead, error) {
	var out []model.Lead
	for rows.Next() {
		lead, err := scanLeadPgx(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		out = append(out, *lead)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
