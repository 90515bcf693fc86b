package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/outreach"
	"github.com/sells-group/recovery-cli/pkg/esign"
)

var (
	contractActor  string
	contractLeadID string
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Generate and send a recovery contract for a lead",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		lead, err := e.Store.GetLead(ctx, contractLeadID)
		if err != nil {
			return err
		}

		client := esign.NewClient(cfg.ESign.URL, cfg.ESign.Token, time.Duration(cfg.ESign.TimeoutSecs)*time.Second)
		contract, err := client.GenerateContract(ctx, esign.ContractRequest{
			LeadID:     lead.ID,
			OwnerName:  lead.OwnerName,
			Email:      lead.Email,
			Phone:      lead.PrimaryPhone(),
			AmountOwed: lead.AmountOwed,
			FeeRate:    cfg.Scorer.FundsFeeRate,
		})
		if err != nil {
			return err
		}

		actor := model.Actor{ID: contractActor, Kind: model.ActorOperating}
		out, err := e.Authority.ContractEvent(ctx, actor, lead.ID, outreach.ContractSent, time.Now())
		if err != nil {
			return err
		}

		zap.L().Info("contract sent",
			zap.String("lead_id", lead.ID),
			zap.String("contract_id", contract.ID),
			zap.String("url", contract.URL),
			zap.String("outcome", string(out.Status)),
		)
		return nil
	},
}

func init() {
	contractCmd.Flags().StringVar(&contractActor, "actor", "cli", "operating actor id")
	contractCmd.Flags().StringVar(&contractLeadID, "lead", "", "lead id (required)")
	_ = contractCmd.MarkFlagRequired("lead")
	rootCmd.AddCommand(contractCmd)
}
