package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/ingest"
	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/store"
)

var (
	importCSVPath string
	importSource  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import source records from CSV exports",
}

var importFundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Import unclaimed-funds records and create leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		imports, err := ingest.ReadFundsCSV(importCSVPath, importSource)
		if err != nil {
			return err
		}

		now := time.Now()
		recs := make([]model.FundsRecord, 0, len(imports))
		leadsCreated := 0
		for i := range imports {
			lead := ingest.LeadFromFunds(&imports[i], now)
			// Lead ids are derived from record ids, so a re-imported row
			// resolves to its existing lead instead of minting another.
			_, err := e.Store.GetLead(ctx, lead.ID)
			if err == nil {
				recs = append(recs, imports[i].Record)
				continue
			}
			if !eris.Is(err, store.ErrNotFound) {
				return eris.Wrapf(err, "look up lead for %s", imports[i].Record.OwnerName)
			}
			if err := e.Store.CreateLead(ctx, lead); err != nil {
				return eris.Wrapf(err, "create lead for %s", imports[i].Record.OwnerName)
			}
			leadsCreated++
			recs = append(recs, imports[i].Record)
		}

		inserted, err := e.Store.InsertFundsRecords(ctx, recs)
		if err != nil {
			return eris.Wrap(err, "insert funds records")
		}

		zap.L().Info("funds import complete",
			zap.Int("rows", len(imports)),
			zap.Int("records_inserted", inserted),
			zap.Int("leads_created", leadsCreated),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

var importPropertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Import distressed-property records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := ingest.ReadPropertyCSV(importCSVPath, importSource)
		if err != nil {
			return err
		}

		inserted, err := e.Store.InsertPropertyRecords(ctx, recs)
		if err != nil {
			return eris.Wrap(err, "insert property records")
		}

		zap.L().Info("property import complete",
			zap.Int("rows", len(recs)),
			zap.Int("records_inserted", inserted),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.PersistentFlags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	importCmd.PersistentFlags().StringVar(&importSource, "source", "", "source label for the records")
	_ = importCmd.MarkPersistentFlagRequired("csv")

	importCmd.AddCommand(importFundsCmd)
	importCmd.AddCommand(importPropertiesCmd)
	rootCmd.AddCommand(importCmd)
}
