// Package compliance implements the pure predicate layer that gates every
// outbound contact attempt. The gate never mutates state and never performs
// I/O: callers supply the clock and the daily send counter, which keeps the
// checks deterministic and testable.
package compliance

import (
	"time"

	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/model"
)

// BlockReason names why a contact attempt was blocked.
type BlockReason string

const (
	ReasonOptedOut     BlockReason = "opted_out"
	ReasonMaxAttempts  BlockReason = "max_attempts"
	ReasonOutsideHours BlockReason = "outside_hours"
	ReasonDailyCap     BlockReason = "daily_cap"
)

// Decision is the gate's verdict on a single contact attempt.
type Decision struct {
	Allowed bool        `json:"allowed"`
	Reason  BlockReason `json:"reason,omitempty"`
}

// Gate evaluates compliance rules against a lead. Stateless; safe for
// concurrent use.
type Gate struct {
	cfg config.ComplianceConfig
}

// NewGate creates a Gate with the given config.
func NewGate(cfg config.ComplianceConfig) *Gate {
	return &Gate{cfg: cfg}
}

// CanContact decides whether the lead may be contacted at now, given how
// many messages have already been sent today. Checks run in fixed order and
// the first failing check wins: opt-out flags, attempt cap, contact-hours
// window, daily cap.
func (g *Gate) CanContact(lead *model.Lead, now time.Time, dailySent int) Decision {
	if lead.ContactBlocked() {
		return Decision{Reason: ReasonOptedOut}
	}

	if g.cfg.MaxAttempts > 0 && lead.ContactAttempts >= g.cfg.MaxAttempts {
		return Decision{Reason: ReasonMaxAttempts}
	}

	hour := now.Hour()
	if hour < g.cfg.ContactHourStart || hour >= g.cfg.ContactHourEnd {
		return Decision{Reason: ReasonOutsideHours}
	}

	if g.cfg.DailyCap > 0 && dailySent >= g.cfg.DailyCap {
		return Decision{Reason: ReasonDailyCap}
	}

	return Decision{Allowed: true}
}
