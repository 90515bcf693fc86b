package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/scorer"
	"github.com/sells-group/recovery-cli/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score all leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		scorerCfg := cfg.Scorer
		if err := scorer.ValidateConfig(scorerCfg); err != nil {
			return err
		}

		leads, err := e.Store.ListLeads(ctx, store.LeadFilter{})
		if err != nil {
			return err
		}

		results, err := scorer.ScoreAll(ctx, leads, scorerCfg)
		if err != nil {
			return err
		}

		byGrade := map[string]int{}
		for i := range leads {
			lead := &leads[i]
			lead.Scoring = &results[i]
			if err := e.Store.UpdateLead(ctx, lead); err != nil {
				zap.L().Warn("score write failed",
					zap.String("lead_id", lead.ID),
					zap.Error(err),
				)
				continue
			}
			byGrade[string(results[i].Grade)]++
		}

		zap.L().Info("scoring complete",
			zap.Int("leads", len(leads)),
			zap.Int("grade_a", byGrade["A"]),
			zap.Int("grade_b", byGrade["B"]),
			zap.Int("grade_c", byGrade["C"]),
			zap.Int("grade_d", byGrade["D"]),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
