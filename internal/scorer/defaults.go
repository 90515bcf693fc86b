package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/config"
)

// DefaultScorerConfig returns a config.ScorerConfig with the production
// defaults. These mirror the viper defaults so library callers and the CLI
// score identically.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		EquityThreshold:   25_000,
		EquityBonus:       20,
		PhoneBonus:        25,
		EmailBonus:        10,
		ZipBonus:          15,
		FundsFeeRate:      0.25,
		AssignmentFeeRate: 0.10,
	}
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	bonuses := map[string]int{
		"equity_bonus": c.EquityBonus,
		"phone_bonus":  c.PhoneBonus,
		"email_bonus":  c.EmailBonus,
		"zip_bonus":    c.ZipBonus,
	}
	for name, b := range bonuses {
		if b < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if c.EquityThreshold < 0 {
		errs = append(errs, "equity_threshold must be >= 0")
	}
	if c.FundsFeeRate < 0 || c.FundsFeeRate > 1 {
		errs = append(errs, "funds_fee_rate must be between 0 and 1")
	}
	if c.AssignmentFeeRate < 0 || c.AssignmentFeeRate > 1 {
		errs = append(errs, "assignment_fee_rate must be between 0 and 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
