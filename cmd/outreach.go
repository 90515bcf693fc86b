package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
)

var (
	outreachActor  string
	outreachLeadID string
	outreachText   string
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Run the automated contact state machine",
}

var outreachInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Send initial contact to all new leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.Engine.RunInitialContacts(ctx, time.Now())
		if err != nil {
			return err
		}
		logBatch("initial contacts", res.Sent, res.Skipped, res.Failed)
		return nil
	},
}

var outreachTickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Send due follow-ups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.Engine.RunFollowUps(ctx, time.Now())
		if err != nil {
			return err
		}
		logBatch("follow-ups", res.Sent, res.Skipped, res.Failed)
		return nil
	},
}

var outreachReplyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Record an inbound reply for a lead",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor := model.Actor{ID: outreachActor, Kind: model.ActorOperating}
		out, err := e.Authority.HandleReply(ctx, actor, outreachLeadID, outreachText, time.Now())
		if err != nil {
			return err
		}
		zap.L().Info("reply recorded",
			zap.String("lead_id", out.LeadID),
			zap.String("status", string(out.Status)),
			zap.String("reason", out.Reason),
		)
		return nil
	},
}

var outreachOptOutCmd = &cobra.Command{
	Use:   "optout",
	Short: "Suppress a lead from all future contact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		out, err := e.Engine.RecordOptOut(ctx, outreachLeadID, time.Now())
		if err != nil {
			return err
		}
		zap.L().Info("opt-out recorded",
			zap.String("lead_id", out.LeadID),
			zap.String("status", string(out.Status)),
		)
		return nil
	},
}

func logBatch(kind string, sent, skipped, failed int) {
	zap.L().Info("outreach batch complete",
		zap.String("kind", kind),
		zap.Int("sent", sent),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
}

func init() {
	outreachCmd.PersistentFlags().StringVar(&outreachActor, "actor", "cli", "operating actor id")

	outreachReplyCmd.Flags().StringVar(&outreachLeadID, "lead", "", "lead id (required)")
	outreachReplyCmd.Flags().StringVar(&outreachText, "text", "", "reply text (required)")
	_ = outreachReplyCmd.MarkFlagRequired("lead")
	_ = outreachReplyCmd.MarkFlagRequired("text")

	outreachOptOutCmd.Flags().StringVar(&outreachLeadID, "lead", "", "lead id (required)")
	_ = outreachOptOutCmd.MarkFlagRequired("lead")

	outreachCmd.AddCommand(outreachInitCmd)
	outreachCmd.AddCommand(outreachTickCmd)
	outreachCmd.AddCommand(outreachReplyCmd)
	outreachCmd.AddCommand(outreachOptOutCmd)
	rootCmd.AddCommand(outreachCmd)
}
