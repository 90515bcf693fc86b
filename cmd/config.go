package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configOutPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and scaffold configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := os.Stat(configOutPath); err == nil {
			return eris.Errorf("%s already exists", configOutPath)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		if err := os.WriteFile(configOutPath, data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", configOutPath)
		}

		zap.L().Info("config written", zap.String("path", configOutPath))
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configOutPath, "out", "config.yaml", "output path")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
