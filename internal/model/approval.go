package model

import "time"

// ActorKind splits callers across the trust boundary. Operating actors may
// execute side-effecting actions directly; projecting actors may only file
// approval requests.
type ActorKind string

const (
	ActorOperating  ActorKind = "operating"
	ActorProjecting ActorKind = "projecting"
)

// Actor identifies a caller on one side of the trust boundary.
type Actor struct {
	ID   string    `json:"id"`
	Kind ActorKind `json:"kind"`
}

// RequestType classifies what a projecting actor is asking for.
type RequestType string

const (
	RequestContact    RequestType = "contact"
	RequestContract   RequestType = "contract"
	RequestInfo       RequestType = "info"
	RequestEscalation RequestType = "escalation"
)

// RequestState is the resolution state of an approval request.
type RequestState string

const (
	RequestPending  RequestState = "pending"
	RequestApproved RequestState = "approved"
	RequestRejected RequestState = "rejected"
)

// ApprovalRequest is a projecting-layer ask that an operating actor must
// resolve before any side effect occurs. Immutable once resolved.
type ApprovalRequest struct {
	ID          string       `json:"id"`
	LeadID      string       `json:"lead_id"`
	Type        RequestType  `json:"type"`
	Note        string       `json:"note,omitempty"`
	RequestedBy string       `json:"requested_by"`
	State       RequestState `json:"state"`
	ResolvedBy  string       `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Resolved reports whether the request has been decided.
func (r *ApprovalRequest) Resolved() bool {
	return r.State != RequestPending
}

// ActivityEntry is one immutable row in the activity log. Every operating
// action is appended here; projecting actors never appear as executors.
type ActivityEntry struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}
