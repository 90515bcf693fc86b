package outreach

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/store"
)

// BatchResult aggregates per-lead outcomes for one batch pass.
type BatchResult struct {
	Outcomes []Outcome
	Sent     int
	Skipped  int
	Failed   int
	Updated  int
}

func (r *BatchResult) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case OutcomeSent:
		r.Sent++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	case OutcomeUpdated:
		r.Updated++
	}
}

// limiter paces outbound sends. Burst of one: messages leave at a steady
// per-second rate regardless of batch size.
func (e *Engine) limiter() *rate.Limiter {
	per := e.cfg.MessagesPerSecond
	if per <= 0 {
		per = 1
	}
	return rate.NewLimiter(rate.Limit(per), 1)
}

// RunInitialContacts sends the first message to every new lead, up to the
// configured batch limit. One outcome per listed lead, in listing order.
func (e *Engine) RunInitialContacts(ctx context.Context, now time.Time) (*BatchResult, error) {
	leads, err := e.store.ListLeads(ctx, store.LeadFilter{Status: model.StatusNew, Limit: e.cfg.BatchLimit})
	if err != nil {
		return nil, err
	}
	return e.run(ctx, leads, now, e.InitialContact)
}

// RunFollowUps advances every lead whose next follow-up is due.
func (e *Engine) RunFollowUps(ctx context.Context, now time.Time) (*BatchResult, error) {
	leads, err := e.store.ListDueLeads(ctx, now, e.cfg.BatchLimit)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, leads, now, e.FollowUp)
}

func (e *Engine) run(ctx context.Context, leads []model.Lead, now time.Time, step func(context.Context, *model.Lead, time.Time) Outcome) (*BatchResult, error) {
	res := &BatchResult{Outcomes: make([]Outcome, 0, len(leads))}
	lim := e.limiter()

	for i := range leads {
		if err := lim.Wait(ctx); err != nil {
			// Context cancelled mid-batch: remaining leads are deferred,
			// not failed.
			for _, rest := range leads[len(res.Outcomes):] {
				res.add(Outcome{LeadID: rest.ID, Status: OutcomeSkipped, Reason: "cancelled"})
			}
			return res, err
		}
		res.add(step(ctx, &leads[i], now))
	}

	e.log.Info("batch complete",
		zap.Int("leads", len(leads)),
		zap.Int("sent", res.Sent),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
