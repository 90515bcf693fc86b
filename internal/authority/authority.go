// Package authority enforces the trust boundary between operating and
// projecting actors. Operating actors execute side effects directly and every
// execution lands in the activity log under their name. Projecting actors can
// only file approval requests; they never appear as the executor of anything.
package authority

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/outreach"
	"github.com/sells-group/recovery-cli/internal/store"
)

// ErrForbidden is returned when an actor attempts an action outside its side
// of the boundary.
var ErrForbidden = eris.New("authority: action not permitted for actor")

// Service wraps the outreach engine so that every side-effecting call is
// authorized and logged. It is the only path through which contact or
// contract actions may be triggered.
type Service struct {
	store  store.Store
	engine *outreach.Engine
	log    *zap.Logger
}

// NewService creates an authority Service.
func NewService(st store.Store, engine *outreach.Engine) *Service {
	return &Service{
		store:  st,
		engine: engine,
		log:    zap.L().With(zap.String("component", "authority")),
	}
}

// Contact sends the next outbound message to a lead on behalf of an operating
// actor. New leads get initial contact, everything else a follow-up.
func (s *Service) Contact(ctx context.Context, actor model.Actor, leadID string, now time.Time) (outreach.Outcome, error) {
	if actor.Kind != model.ActorOperating {
		return outreach.Outcome{LeadID: leadID}, ErrForbidden
	}

	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return outreach.Outcome{LeadID: leadID, Status: outreach.OutcomeFailed, Reason: "load"}, err
	}

	var out outreach.Outcome
	if lead.Status == model.StatusNew {
		out = s.engine.InitialContact(ctx, lead, now)
	} else {
		out = s.engine.FollowUp(ctx, lead, now)
	}
	s.record(ctx, actor, leadID, "contact", string(out.Status)+":"+out.Reason, now)
	return out, nil
}

// HandleReply applies an inbound reply under an operating actor's authority.
func (s *Service) HandleReply(ctx context.Context, actor model.Actor, leadID, text string, now time.Time) (outreach.Outcome, error) {
	if actor.Kind != model.ActorOperating {
		return outreach.Outcome{LeadID: leadID}, ErrForbidden
	}
	out, err := s.engine.HandleReply(ctx, leadID, text, now)
	s.record(ctx, actor, leadID, "reply", string(out.Status)+":"+out.Reason, now)
	return out, err
}

// ContractEvent applies a contract lifecycle event under an operating actor.
func (s *Service) ContractEvent(ctx context.Context, actor model.Actor, leadID string, event outreach.ContractEvent, now time.Time) (outreach.Outcome, error) {
	if actor.Kind != model.ActorOperating {
		return outreach.Outcome{LeadID: leadID}, ErrForbidden
	}
	out, err := s.engine.HandleContractEvent(ctx, leadID, event, now)
	s.record(ctx, actor, leadID, "contract_"+string(event), string(out.Status), now)
	return out, err
}

// Request files an approval request on behalf of a projecting actor. This is
// the only write projecting actors are allowed; the request has no effect
// until an operating actor resolves it.
func (s *Service) Request(ctx context.Context, actor model.Actor, leadID string, typ model.RequestType, note string, now time.Time) (*model.ApprovalRequest, error) {
	if actor.Kind != model.ActorProjecting {
		return nil, ErrForbidden
	}
	if _, err := s.store.GetLead(ctx, leadID); err != nil {
		return nil, eris.Wrapf(err, "authority: request for lead %s", leadID)
	}

	req := &model.ApprovalRequest{
		ID:          uuid.NewString(),
		LeadID:      leadID,
		Type:        typ,
		Note:        note,
		RequestedBy: actor.ID,
		State:       model.RequestPending,
		CreatedAt:   now.UTC(),
	}
	if err := s.store.CreateApproval(ctx, req); err != nil {
		return nil, eris.Wrapf(err, "authority: create approval for lead %s", leadID)
	}

	s.log.Info("approval requested",
		zap.String("request_id", req.ID),
		zap.String("lead_id", leadID),
		zap.String("type", string(typ)),
		zap.String("requested_by", actor.ID),
	)
	return req, nil
}

// Resolve decides a pending approval request. Approving a contact request
// executes the contact immediately, attributed to the resolving operating
// actor. Resolving an already-decided request returns ErrAlreadyResolved.
func (s *Service) Resolve(ctx context.Context, actor model.Actor, requestID string, approve bool, now time.Time) (*model.ApprovalRequest, outreach.Outcome, error) {
	if actor.Kind != model.ActorOperating {
		return nil, outreach.Outcome{}, ErrForbidden
	}

	req, err := s.store.GetApproval(ctx, requestID)
	if err != nil {
		return nil, outreach.Outcome{}, err
	}
	if req.Resolved() {
		return req, outreach.Outcome{}, store.ErrAlreadyResolved
	}

	state := model.RequestRejected
	if approve {
		state = model.RequestApproved
	}
	if err := s.store.ResolveApproval(ctx, requestID, state, actor.ID); err != nil {
		return nil, outreach.Outcome{}, err
	}
	req.State = state
	req.ResolvedBy = actor.ID
	t := now.UTC()
	req.ResolvedAt = &t

	s.record(ctx, actor, req.LeadID, "approval_"+string(state), string(req.Type), now)

	var out outreach.Outcome
	if approve && req.Type == model.RequestContact {
		out, err = s.Contact(ctx, actor, req.LeadID, now)
		if err != nil {
			return req, out, err
		}
	}
	return req, out, nil
}

// Pending lists unresolved approval requests.
func (s *Service) Pending(ctx context.Context) ([]model.ApprovalRequest, error) {
	return s.store.ListApprovals(ctx, model.RequestPending)
}

// Activity returns the append-only action history for a lead.
func (s *Service) Activity(ctx context.Context, leadID string) ([]model.ActivityEntry, error) {
	return s.store.ListActivity(ctx, leadID)
}

// record appends an activity entry. Log failures are reported but never fail
// the action itself: the side effect already happened.
func (s *Service) record(ctx context.Context, actor model.Actor, leadID, action, result string, now time.Time) {
	entry := model.ActivityEntry{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Action:    action,
		Actor:     actor.ID,
		Result:    result,
		Timestamp: now.UTC(),
	}
	if err := s.store.AppendActivity(ctx, entry); err != nil {
		s.log.Error("activity append failed",
			zap.String("lead_id", leadID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
