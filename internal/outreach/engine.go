// Package outreach implements the per-lead contact state machine: initial
// contact, staged follow-ups, inbound reply handling, and contract lifecycle
// updates. Every transition that implies contacting the person consults the
// compliance gate first; a blocked transition is a skipped outcome, never an
// error.
package outreach

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/compliance"
	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/store"
)

// Messenger sends one outbound message and returns the provider message id.
// The engine never constructs transport-level payloads itself.
type Messenger interface {
	SendMessage(ctx context.Context, phone, text string) (string, error)
}

// Classifier labels an inbound reply with an intent.
type Classifier interface {
	ClassifyIntent(ctx context.Context, text string) (model.Intent, error)
}

// OutcomeStatus summarizes what happened to one lead in one pass.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeUpdated OutcomeStatus = "updated"
)

// Outcome is the structured per-lead result of a transition attempt. A batch
// over N leads always yields N outcomes.
type Outcome struct {
	LeadID string        `json:"lead_id"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Stage  int           `json:"stage,omitempty"`
	Err    error         `json:"-"`
}

// Engine drives lead transitions. Per-lead transitions are serialized via
// the store's compare-and-set on the lead version: a write that loses the
// race is retried once against refreshed state, then deferred to the next
// cycle.
type Engine struct {
	store      store.Store
	messenger  Messenger
	classifier Classifier
	gate       *compliance.Gate
	cfg        config.OutreachConfig
	log        *zap.Logger
}

// NewEngine creates an outreach Engine.
func NewEngine(st store.Store, m Messenger, c Classifier, gate *compliance.Gate, cfg config.OutreachConfig) *Engine {
	return &Engine{
		store:      st,
		messenger:  m,
		classifier: c,
		gate:       gate,
		cfg:        cfg,
		log:        zap.L().With(zap.String("component", "outreach")),
	}
}

// InitialContact sends the first message to a new lead. Blocked attempts
// leave the lead unchanged for the next scheduled run.
func (e *Engine) InitialContact(ctx context.Context, lead *model.Lead, now time.Time) Outcome {
	if lead.Status != model.StatusNew {
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "not_new"}
	}
	return e.contact(ctx, lead, now, e.renderMessage(e.cfg.InitialMessage, lead), func(l *model.Lead) {
		l.Status = model.StatusContacted
		l.FollowUpStage = 0
	})
}

// FollowUp advances a due lead one follow-up stage. The caller supplies the
// clock; due-ness, stage bounds, status, and compliance are all re-checked
// here so stale batch listings cannot over-send.
func (e *Engine) FollowUp(ctx context.Context, lead *model.Lead, now time.Time) Outcome {
	if !lead.Status.AutoFollowUp() {
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "not_in_follow_up"}
	}
	if lead.FollowUpStage >= model.MaxFollowUpStage {
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "stage_exhausted"}
	}
	if lead.NextFollowUpAt == nil || now.Before(*lead.NextFollowUpAt) {
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "not_due"}
	}

	next := lead.FollowUpStage + 1
	return e.contact(ctx, lead, now, e.stageMessage(next, lead), func(l *model.Lead) {
		l.FollowUpStage = next
	})
}

// contact runs the shared contact path: gate check, send, stamp, CAS write.
func (e *Engine) contact(ctx context.Context, lead *model.Lead, now time.Time, text string, advance func(*model.Lead)) Outcome {
	dailySent, err := e.store.DailySendCount(ctx, now)
	if err != nil {
		return Outcome{LeadID: lead.ID, Status: OutcomeFailed, Reason: "daily_count", Err: err}
	}

	if d := e.gate.CanContact(lead, now, dailySent); !d.Allowed {
		e.log.Debug("contact blocked",
			zap.String("lead_id", lead.ID),
			zap.String("reason", string(d.Reason)),
		)
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: string(d.Reason)}
	}

	phone := lead.PrimaryPhone()
	if phone == "" {
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "no_phone"}
	}

	// External failures are retryable-but-not-fatal for this lead: the
	// stage does not advance and the normal schedule retries it.
	msgID, err := e.messenger.SendMessage(ctx, phone, text)
	if err != nil {
		e.log.Warn("send failed", zap.String("lead_id", lead.ID), zap.Error(err))
		return Outcome{LeadID: lead.ID, Status: OutcomeFailed, Reason: "send_failed", Err: err}
	}

	origStage := lead.FollowUpStage
	stamp := func(l *model.Lead) {
		advance(l)
		l.ContactAttempts++
		t := now.UTC()
		l.LastContactedAt = &t
		if next, ok := model.NextFollowUp(l.FollowUpStage, t); ok {
			l.NextFollowUpAt = &next
		} else {
			l.NextFollowUpAt = nil
		}
	}

	if err := e.casApply(ctx, lead, stamp, func(fresh *model.Lead) bool {
		// The write only replays if the stage is unchanged since our
		// read; a concurrent tick or inbound reply abandons it.
		return !fresh.ContactBlocked() && fresh.FollowUpStage == origStage
	}); err != nil {
		if eris.Is(err, store.ErrStaleLead) {
			return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "stale_state"}
		}
		return Outcome{LeadID: lead.ID, Status: OutcomeFailed, Reason: "persist", Err: err}
	}

	if err := e.store.IncrDailySend(ctx, now); err != nil {
		e.log.Warn("daily counter increment failed", zap.Error(err))
	}

	e.log.Info("message sent",
		zap.String("lead_id", lead.ID),
		zap.String("message_id", msgID),
		zap.Int("stage", lead.FollowUpStage),
		zap.Int("attempts", lead.ContactAttempts),
	)
	return Outcome{LeadID: lead.ID, Status: OutcomeSent, Stage: lead.FollowUpStage}
}

// casApply writes lead mutations with one retry against refreshed state.
// stillValid decides whether the transition may be replayed after a refresh;
// when it reports false the attempt is abandoned for this cycle.
func (e *Engine) casApply(ctx context.Context, lead *model.Lead, mutate func(*model.Lead), stillValid func(*model.Lead) bool) error {
	mutate(lead)
	err := e.store.UpdateLead(ctx, lead)
	if err == nil || !eris.Is(err, store.ErrStaleLead) {
		return err
	}

	fresh, gerr := e.store.GetLead(ctx, lead.ID)
	if gerr != nil {
		return gerr
	}
	if stillValid != nil && !stillValid(fresh) {
		return store.ErrStaleLead
	}
	mutate(fresh)
	if err := e.store.UpdateLead(ctx, fresh); err != nil {
		return err
	}
	*lead = *fresh
	return nil
}

// renderMessage fills the {name} placeholder with the lead's first name.
func (e *Engine) renderMessage(tmpl string, lead *model.Lead) string {
	name := strings.TrimSpace(lead.OwnerName)
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	if name == "" {
		name = "there"
	}
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// stageMessage returns the template for the given follow-up stage (1-4),
// falling back to the last configured template.
func (e *Engine) stageMessage(stage int, lead *model.Lead) string {
	msgs := e.cfg.StageMessages
	if len(msgs) == 0 {
		return e.renderMessage(e.cfg.InitialMessage, lead)
	}
	idx := stage - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(msgs) {
		idx = len(msgs) - 1
	}
	return e.renderMessage(msgs[idx], lead)
}
