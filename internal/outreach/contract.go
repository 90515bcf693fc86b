package outreach

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
)

// ContractEvent is a lifecycle notification from the e-signature provider.
type ContractEvent string

const (
	ContractSent      ContractEvent = "sent"
	ContractSigned    ContractEvent = "signed"
	ContractCompleted ContractEvent = "completed"
	ContractDeclined  ContractEvent = "declined"
	ContractVoided    ContractEvent = "voided"
	ContractExpired   ContractEvent = "expired"
)

// contractStatus maps provider events onto lead statuses. Events are
// authoritative: they restamp the lead even if local state drifted.
var contractStatus = map[ContractEvent]model.LeadStatus{
	ContractSent:      model.StatusContractSent,
	ContractSigned:    model.StatusContractSigned,
	ContractCompleted: model.StatusClosed,
	ContractDeclined:  model.StatusRejected,
	ContractVoided:    model.StatusRejected,
	ContractExpired:   model.StatusRejected,
}

// HandleContractEvent applies a contract lifecycle event to a lead. The
// compliance gate is not consulted: these updates record what the provider
// already did, they do not initiate contact.
func (e *Engine) HandleContractEvent(ctx context.Context, leadID string, event ContractEvent, now time.Time) (Outcome, error) {
	status, ok := contractStatus[event]
	if !ok {
		return Outcome{LeadID: leadID, Status: OutcomeSkipped, Reason: "unknown_event"}, nil
	}

	lead, err := e.store.GetLead(ctx, leadID)
	if err != nil {
		return Outcome{LeadID: leadID, Status: OutcomeFailed, Reason: "load"}, err
	}
	if lead.Status == model.StatusOptedOut {
		// Suppression outranks the contract pipeline.
		return Outcome{LeadID: leadID, Status: OutcomeSkipped, Reason: "opted_out"}, nil
	}

	mutate := func(l *model.Lead) {
		l.Status = status
		l.NextFollowUpAt = nil
	}
	if err := e.casApply(ctx, lead, mutate, nil); err != nil {
		return Outcome{LeadID: leadID, Status: OutcomeFailed, Reason: "persist"}, eris.Wrapf(err, "outreach: contract event %s for lead %s", event, leadID)
	}

	e.log.Info("contract event applied",
		zap.String("lead_id", leadID),
		zap.String("event", string(event)),
		zap.String("status", string(status)),
	)
	return Outcome{LeadID: leadID, Status: OutcomeUpdated, Reason: string(event)}, nil
}
