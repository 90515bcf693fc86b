package outreach

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/store"
)

// HandleReply classifies an inbound message and applies the resulting status
// transition. Classification failures degrade to IntentUnknown rather than
// erroring: an unreadable reply must never block the lead.
func (e *Engine) HandleReply(ctx context.Context, leadID, text string, now time.Time) (Outcome, error) {
	lead, err := e.store.GetLead(ctx, leadID)
	if err != nil {
		return Outcome{LeadID: leadID, Status: OutcomeFailed, Reason: "load"}, err
	}

	intent := model.IntentUnknown
	if e.classifier != nil {
		got, cerr := e.classifier.ClassifyIntent(ctx, text)
		if cerr != nil {
			e.log.Warn("intent classification failed", zap.String("lead_id", leadID), zap.Error(cerr))
		} else {
			intent = got.Canonical()
		}
	}

	return e.applyIntent(ctx, lead, intent, now)
}

// applyIntent maps an intent onto a status transition. Terminal leads are
// left untouched except for opt-outs, which always record the flags.
func (e *Engine) applyIntent(ctx context.Context, lead *model.Lead, intent model.Intent, now time.Time) (Outcome, error) {
	var mutate func(*model.Lead)
	switch intent {
	case model.IntentOptOut, model.IntentWrongPerson:
		// All three suppression flags move together so no later code
		// path can find a half-suppressed lead.
		mutate = func(l *model.Lead) {
			l.Status = model.StatusOptedOut
			l.OptedOut = true
			l.DoNotContact = true
			l.SMSOptOut = true
			l.NextFollowUpAt = nil
		}
	case model.IntentNotInterested:
		if lead.Status.Terminal() {
			return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "terminal"}, nil
		}
		mutate = func(l *model.Lead) {
			l.Status = model.StatusRejected
			l.NextFollowUpAt = nil
		}
	case model.IntentInterested, model.IntentQuestion:
		if lead.Status.Terminal() {
			return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "terminal"}, nil
		}
		next := model.StatusQualified
		if intent == model.IntentInterested {
			next = model.StatusInterested
		}
		mutate = func(l *model.Lead) {
			l.Status = next
			l.NextFollowUpAt = nil
		}
	default:
		return Outcome{LeadID: lead.ID, Status: OutcomeSkipped, Reason: "intent_unknown"}, nil
	}

	if err := e.casApply(ctx, lead, mutate, nil); err != nil {
		return Outcome{LeadID: lead.ID, Status: OutcomeFailed, Reason: "persist"}, eris.Wrapf(err, "outreach: apply reply for lead %s", lead.ID)
	}

	e.log.Info("reply applied",
		zap.String("lead_id", lead.ID),
		zap.String("intent", string(intent)),
		zap.String("status", string(lead.Status)),
	)
	return Outcome{LeadID: lead.ID, Status: OutcomeUpdated, Reason: string(intent)}, nil
}

// RecordOptOut suppresses a lead directly, without a classified reply. Used
// for carrier-level STOP notifications and manual compliance requests.
func (e *Engine) RecordOptOut(ctx context.Context, leadID string, now time.Time) (Outcome, error) {
	lead, err := e.store.GetLead(ctx, leadID)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			return Outcome{LeadID: leadID, Status: OutcomeSkipped, Reason: "not_found"}, err
		}
		return Outcome{LeadID: leadID, Status: OutcomeFailed, Reason: "load"}, err
	}
	return e.applyIntent(ctx, lead, model.IntentOptOut, now)
}
