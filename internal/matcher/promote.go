package matcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
)

// GoldenStore is the narrow persistence surface promotion needs. The upsert
// is keyed by the (funds id, property id) pair and must be idempotent:
// repeated promotion of the same pair reports created=false and changes
// nothing.
type GoldenStore interface {
	UpsertGoldenMatch(ctx context.Context, cand model.MatchCandidate) (created bool, err error)
}

// Notifier delivers fire-and-forget human-visible alerts. Failures are the
// notifier's problem; promotion never observes them.
type Notifier interface {
	Notify(event string, payload map[string]any)
}

// PromoteResult summarizes one promotion pass.
type PromoteResult struct {
	Evaluated int `json:"evaluated"`
	Promoted  int `json:"promoted"`
	Duplicate int `json:"duplicate"`
	Skipped   int `json:"skipped"`
}

// Eligible reports whether a candidate clears the promotion gate: confidence
// at least medium, and either the lead score meets the configured threshold
// or the property listing indicates a sale in progress.
func (m *Matcher) Eligible(cand model.MatchCandidate, leadScore int) bool {
	if !cand.Confidence.AtLeast(model.ConfidenceMedium) {
		return false
	}
	return leadScore >= m.cfg.PromoteMinScore || cand.ListingStatus.SaleInProgress()
}

// Promote upserts golden matches for all eligible candidates. scoreOf maps a
// candidate to the associated lead score (0 when unscored). Re-promotion of
// an already-promoted pair is a no-op success, never an error.
func (m *Matcher) Promote(ctx context.Context, store GoldenStore, notifier Notifier, cands []model.MatchCandidate, scoreOf func(model.MatchCandidate) int) (PromoteResult, error) {
	log := zap.L().With(zap.String("component", "matcher"))

	res := PromoteResult{Evaluated: len(cands)}
	for _, cand := range cands {
		if !m.Eligible(cand, scoreOf(cand)) {
			res.Skipped++
			continue
		}

		created, err := store.UpsertGoldenMatch(ctx, cand)
		if err != nil {
			return res, err
		}
		if !created {
			res.Duplicate++
			continue
		}
		res.Promoted++

		log.Info("golden match promoted",
			zap.String("funds_id", cand.FundsID),
			zap.String("property_id", cand.PropertyID),
			zap.String("confidence", string(cand.Confidence)),
			zap.Float64("combined_value", cand.CombinedValue),
		)
		if notifier != nil {
			notifier.Notify("golden_match", map[string]any{
				"funds_id":       cand.FundsID,
				"property_id":    cand.PropertyID,
				"confidence":     string(cand.Confidence),
				"combined_value": cand.CombinedValue,
				"matched_name":   cand.MatchedName,
			})
		}
	}
	return res, nil
}
