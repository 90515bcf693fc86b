// Package scorer implements the Eleanor lead score: a deterministic mapping
// from a lead's financial, contact, and geographic attributes to a 0-100
// score with grade, priority, deal type, and projected revenue.
package scorer

import (
	"fmt"
	"time"

	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/model"
)

// fundsBreakpoints maps funds-owed floors to graduated points. Evaluated
// top-down; the first floor the amount clears wins.
var fundsBreakpoints = []struct {
	floor  float64
	points int
}{
	{50_000, 40},
	{30_000, 35},
	{20_000, 30},
	{10_000, 20},
	{5_000, 10},
}

// Grade bands, non-overlapping, covering the full 0-100 range.
const (
	gradeAMin = 80
	gradeBMin = 60
	gradeCMin = 40
)

// Score computes the Eleanor score for a lead. Pure: no I/O, no mutation of
// the input; callers persist the result. It produces a result for any input,
// including all-missing fields (score 0, lowest grade), and never errors.
func Score(lead *model.Lead, cfg config.ScorerConfig) model.ScoringResult {
	var (
		score   int
		reasons []string
	)

	for _, bp := range fundsBreakpoints {
		if lead.AmountOwed >= bp.floor {
			score += bp.points
			reasons = append(reasons, fmt.Sprintf("funds owed $%.0f (+%d)", lead.AmountOwed, bp.points))
			break
		}
	}

	equity := lead.EstimatedValue - lead.RepairCost
	if cfg.EquityThreshold > 0 && equity >= cfg.EquityThreshold {
		score += cfg.EquityBonus
		reasons = append(reasons, fmt.Sprintf("wholesale equity $%.0f (+%d)", equity, cfg.EquityBonus))
	}

	if lead.HasPhone() {
		score += cfg.PhoneBonus
		reasons = append(reasons, fmt.Sprintf("phone on file (+%d)", cfg.PhoneBonus))
	}
	if lead.Email != "" {
		score += cfg.EmailBonus
		reasons = append(reasons, fmt.Sprintf("email on file (+%d)", cfg.EmailBonus))
	}

	if premiumZip(lead.Zip, cfg.PremiumZips) {
		score += cfg.ZipBonus
		reasons = append(reasons, fmt.Sprintf("premium zip %s (+%d)", lead.Zip, cfg.ZipBonus))
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	grade := gradeFor(score)
	deal := dealType(lead.AmountOwed, equity, cfg.EquityThreshold)

	return model.ScoringResult{
		Score:            score,
		Grade:            grade,
		Priority:         priorityFor(grade, lead.AmountOwed),
		DealType:         deal,
		ProjectedRevenue: projectedRevenue(lead.AmountOwed, equity, deal, cfg),
		Reasons:          reasons,
		ScoredAt:         time.Now().UTC(),
	}
}

func gradeFor(score int) model.Grade {
	switch {
	case score >= gradeAMin:
		return model.GradeA
	case score >= gradeBMin:
		return model.GradeB
	case score >= gradeCMin:
		return model.GradeC
	default:
		return model.GradeD
	}
}

// priorityFor derives contact priority from grade plus urgency: top-grade
// leads with large recoveries jump straight to immediate.
func priorityFor(grade model.Grade, amountOwed float64) model.ContactPriority {
	switch grade {
	case model.GradeA:
		if amountOwed >= 50_000 {
			return model.PriorityImmediate
		}
		return model.PriorityHigh
	case model.GradeB:
		return model.PriorityHigh
	case model.GradeC:
		return model.PriorityNormal
	default:
		return model.PriorityLow
	}
}

// dealType suggests the opportunity shape: combined when both a recovery and
// strong equity are present, funds-only otherwise. Equity-only covers leads
// with no funds record at all.
func dealType(amountOwed, equity, equityThreshold float64) model.DealType {
	strongEquity := equityThreshold > 0 && equity >= equityThreshold
	switch {
	case amountOwed > 0 && strongEquity:
		return model.DealCombined
	case amountOwed <= 0 && strongEquity:
		return model.DealEquityOnly
	default:
		return model.DealFundsOnly
	}
}

// projectedRevenue estimates fee income: the funds-recovery fee on the
// amount owed, plus the assignment fee on equity for combined deals.
func projectedRevenue(amountOwed, equity float64, deal model.DealType, cfg config.ScorerConfig) float64 {
	rev := amountOwed * cfg.FundsFeeRate
	if deal == model.DealCombined || deal == model.DealEquityOnly {
		rev += equity * cfg.AssignmentFeeRate
	}
	if rev < 0 {
		return 0
	}
	return rev
}

func premiumZip(zip string, premium []string) bool {
	if zip == "" {
		return false
	}
	for _, p := range premium {
		if zip == p {
			return true
		}
	}
	return false
}
