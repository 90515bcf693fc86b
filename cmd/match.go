package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/ingest"
	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/store"
)

var matchListingsPath string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Cross-reference funds and property records, promote golden leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		funds, err := e.Store.ListFundsRecords(ctx)
		if err != nil {
			return err
		}
		props, err := e.Store.ListPropertyRecords(ctx)
		if err != nil {
			return err
		}

		var listings map[string]model.ListingStatus
		if matchListingsPath != "" {
			listings, err = ingest.ReadListingsCSV(matchListingsPath)
			if err != nil {
				return err
			}
		}

		cands := e.Matcher.Match(funds, props, listings)

		// Promotion is gated on the linked lead's score.
		scoreByFunds := make(map[string]int, len(funds))
		leads, err := e.Store.ListLeads(ctx, store.LeadFilter{})
		if err != nil {
			return err
		}
		leadScore := make(map[string]int, len(leads))
		for i := range leads {
			if leads[i].Scoring != nil {
				leadScore[leads[i].ID] = leads[i].Scoring.Score
			}
		}
		for _, f := range funds {
			if f.LeadID != "" {
				scoreByFunds[f.ID] = leadScore[f.LeadID]
			}
		}

		res, err := e.Matcher.Promote(ctx, e.Store, e.Notifier, cands, func(c model.MatchCandidate) int {
			return scoreByFunds[c.FundsID]
		})
		if err != nil {
			return err
		}

		zap.L().Info("match complete",
			zap.Int("funds_records", len(funds)),
			zap.Int("property_records", len(props)),
			zap.Int("candidates", res.Evaluated),
			zap.Int("promoted", res.Promoted),
			zap.Int("duplicate", res.Duplicate),
			zap.Int("skipped", res.Skipped),
		)
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchListingsPath, "listings", "", "optional property_id,status CSV of listing signals")
	rootCmd.AddCommand(matchCmd)
}
