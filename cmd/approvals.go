package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
)

var (
	approvalActor   string
	approvalLeadID  string
	approvalType    string
	approvalNote    string
	approvalID      string
	approvalApprove bool
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Manage projecting-layer approval requests",
}

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending approval requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		pending, err := e.Authority.Pending(ctx)
		if err != nil {
			return err
		}
		for _, req := range pending {
			fmt.Printf("%s  lead=%s  type=%s  by=%s  %s\n",
				req.ID, req.LeadID, req.Type, req.RequestedBy, req.Note)
		}
		zap.L().Info("approvals listed", zap.Int("pending", len(pending)))
		return nil
	},
}

var approvalsRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "File an approval request as a projecting actor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor := model.Actor{ID: approvalActor, Kind: model.ActorProjecting}
		req, err := e.Authority.Request(ctx, actor, approvalLeadID, model.RequestType(approvalType), approvalNote, time.Now())
		if err != nil {
			return err
		}
		zap.L().Info("approval requested",
			zap.String("request_id", req.ID),
			zap.String("lead_id", req.LeadID),
		)
		return nil
	},
}

var approvalsResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Approve or reject a pending request as an operating actor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor := model.Actor{ID: approvalActor, Kind: model.ActorOperating}
		req, out, err := e.Authority.Resolve(ctx, actor, approvalID, approvalApprove, time.Now())
		if err != nil {
			return err
		}
		zap.L().Info("approval resolved",
			zap.String("request_id", req.ID),
			zap.String("state", string(req.State)),
			zap.String("contact_outcome", string(out.Status)),
		)
		return nil
	},
}

func init() {
	approvalsCmd.PersistentFlags().StringVar(&approvalActor, "actor", "cli", "actor id")

	approvalsRequestCmd.Flags().StringVar(&approvalLeadID, "lead", "", "lead id (required)")
	approvalsRequestCmd.Flags().StringVar(&approvalType, "type", string(model.RequestContact), "request type: contact, contract, info, escalation")
	approvalsRequestCmd.Flags().StringVar(&approvalNote, "note", "", "free-form note")
	_ = approvalsRequestCmd.MarkFlagRequired("lead")

	approvalsResolveCmd.Flags().StringVar(&approvalID, "id", "", "request id (required)")
	approvalsResolveCmd.Flags().BoolVar(&approvalApprove, "approve", false, "approve instead of reject")
	_ = approvalsResolveCmd.MarkFlagRequired("id")

	approvalsCmd.AddCommand(approvalsListCmd)
	approvalsCmd.AddCommand(approvalsRequestCmd)
	approvalsCmd.AddCommand(approvalsResolveCmd)
	rootCmd.AddCommand(approvalsCmd)
}
