// Package store persists leads, source records, golden matches, approval
// requests, and the activity log. Two backends: SQLite (default) and
// Postgres.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/model"
)

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = eris.New("store: not found")

	// ErrStaleLead is returned when a conditional lead write loses the
	// optimistic-concurrency race: the lead changed since it was read.
	ErrStaleLead = eris.New("store: stale lead version")

	// ErrAlreadyResolved is returned when resolving an approval request
	// that is no longer pending. Requests are immutable after resolution.
	ErrAlreadyResolved = eris.New("store: approval already resolved")
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status model.LeadStatus `json:"status,omitempty"`
	State  string           `json:"state,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the recovery engine.
type Store interface {
	// Leads. UpdateLead is a compare-and-set on the version read into the
	// lead; it returns ErrStaleLead when the row moved underneath it.
	CreateLead(ctx context.Context, lead *model.Lead) error
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	ListDueLeads(ctx context.Context, now time.Time, limit int) ([]model.Lead, error)
	UpdateLead(ctx context.Context, lead *model.Lead) error

	// Source records.
	InsertFundsRecords(ctx context.Context, recs []model.FundsRecord) (int, error)
	InsertPropertyRecords(ctx context.Context, recs []model.PropertyRecord) (int, error)
	ListFundsRecords(ctx context.Context) ([]model.FundsRecord, error)
	ListPropertyRecords(ctx context.Context) ([]model.PropertyRecord, error)

	// Golden matches. The upsert is keyed by (funds_id, property_id) and
	// idempotent; created=false means the pair was already promoted.
	UpsertGoldenMatch(ctx context.Context, cand model.MatchCandidate) (created bool, err error)

	// Approval requests.
	CreateApproval(ctx context.Context, req *model.ApprovalRequest) error
	GetApproval(ctx context.Context, id string) (*model.ApprovalRequest, error)
	ListApprovals(ctx context.Context, state model.RequestState) ([]model.ApprovalRequest, error)
	ResolveApproval(ctx context.Context, id string, state model.RequestState, actor string) error

	// Activity log (append-only).
	AppendActivity(ctx context.Context, entry model.ActivityEntry) error
	ListActivity(ctx context.Context, leadID string) ([]model.ActivityEntry, error)

	// Daily send counter, keyed by UTC date.
	DailySendCount(ctx context.Context, day time.Time) (int, error)
	IncrDailySend(ctx context.Context, day time.Time) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// dayKey normalizes a timestamp to its UTC date string for counter rows.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
