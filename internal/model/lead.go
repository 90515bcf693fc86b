// Package model defines the core entities tracked by the recovery engine:
// leads, source records, match candidates, and approval requests.
package model

import "time"

// LeadStatus represents the current lifecycle state of a lead.
type LeadStatus string

const (
	StatusNew              LeadStatus = "new"
	StatusContacted        LeadStatus = "contacted"
	StatusAwaitingResponse LeadStatus = "awaiting_response"
	StatusQualified        LeadStatus = "qualified"
	StatusInterested       LeadStatus = "interested"
	StatusNegotiating      LeadStatus = "negotiating"
	StatusContractSent     LeadStatus = "contract_sent"
	StatusContractSigned   LeadStatus = "contract_signed"
	StatusClosed           LeadStatus = "closed"
	StatusRejected         LeadStatus = "rejected"
	StatusDead             LeadStatus = "dead"
	StatusOptedOut         LeadStatus = "opted_out"
)

// Terminal reports whether the status is absorbing: leads in these states
// are retained for audit but never advanced by automation.
func (s LeadStatus) Terminal() bool {
	switch s {
	case StatusClosed, StatusRejected, StatusDead, StatusOptedOut:
		return true
	}
	return false
}

// AutoFollowUp reports whether a lead in this status is still on the
// automatic follow-up path.
func (s LeadStatus) AutoFollowUp() bool {
	return s == StatusContacted || s == StatusAwaitingResponse
}

// MaxFollowUpStage is the terminal follow-up stage; once reached, no
// further automatic contact is scheduled.
const MaxFollowUpStage = 4

// Lead is the central entity: a person/property opportunity tracked through
// scoring, matching, and outreach. Leads are never physically deleted;
// terminal states are retained for audit.
type Lead struct {
	ID        string `json:"id"`
	OwnerName string `json:"owner_name"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	// Financials.
	AmountOwed     float64 `json:"amount_owed"`     // funds recovery value
	EstimatedValue float64 `json:"estimated_value"` // equity / wholesale potential
	RepairCost     float64 `json:"repair_cost,omitempty"`

	// Contact channels.
	Phones []string `json:"phones,omitempty"`
	Email  string   `json:"email,omitempty"`

	// Outreach state.
	Status          LeadStatus `json:"status"`
	ContactAttempts int        `json:"contact_attempts"`
	FollowUpStage   int        `json:"follow_up_stage"`
	NextFollowUpAt  *time.Time `json:"next_follow_up_at,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`

	// Compliance flags. Any set flag means no automated contact, ever.
	OptedOut     bool `json:"opted_out"`
	DoNotContact bool `json:"do_not_contact"`
	SMSOptOut    bool `json:"sms_opt_out"`

	// Scoring outputs (embedded; persisted alongside the lead).
	Scoring *ScoringResult `json:"scoring,omitempty"`

	// Matching outputs.
	GoldenMatch bool    `json:"golden_match"`
	MatchValue  float64 `json:"match_value,omitempty"`

	// Version is the optimistic-concurrency token: every write increments
	// it, and conditional writes only apply when it is unchanged.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPhone reports whether the lead has at least one phone number.
func (l *Lead) HasPhone() bool {
	for _, p := range l.Phones {
		if p != "" {
			return true
		}
	}
	return false
}

// PrimaryPhone returns the first non-empty phone number, or "".
func (l *Lead) PrimaryPhone() string {
	for _, p := range l.Phones {
		if p != "" {
			return p
		}
	}
	return ""
}

// ContactBlocked reports whether any compliance flag or the opted_out
// status forbids automated contact.
func (l *Lead) ContactBlocked() bool {
	return l.OptedOut || l.DoNotContact || l.SMSOptOut || l.Status == StatusOptedOut
}

// Grade is the ordered scoring tier.
type Grade string

const (
	GradeA Grade = "A" // top
	GradeB Grade = "B" // high
	GradeC Grade = "C" // mid
	GradeD Grade = "D" // low
)

// ContactPriority orders leads for outreach.
type ContactPriority string

const (
	PriorityImmediate ContactPriority = "immediate"
	PriorityHigh      ContactPriority = "high"
	PriorityNormal    ContactPriority = "normal"
	PriorityLow       ContactPriority = "low"
)

// DealType is the suggested shape of the opportunity.
type DealType string

const (
	DealFundsOnly  DealType = "funds_only"
	DealEquityOnly DealType = "equity_only"
	DealCombined   DealType = "combined"
)

// ScoringResult holds the Eleanor score and its derived fields for a lead.
// Reasons are ordered, human-readable contributions kept for audit; they are
// never used in further computation.
type ScoringResult struct {
	Score            int             `json:"score"` // 0-100
	Grade            Grade           `json:"grade"`
	Priority         ContactPriority `json:"priority"`
	DealType         DealType        `json:"deal_type"`
	ProjectedRevenue float64         `json:"projected_revenue"`
	Reasons          []string        `json:"reasons,omitempty"`
	ScoredAt         time.Time       `json:"scored_at"`
}
