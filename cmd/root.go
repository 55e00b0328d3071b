package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dealpipe",
	Short: "AI-orchestrated deal analysis service",
	Long:  "Serves the deal-analysis pipeline: turns pitch decks and founder questionnaires into schema-validated snapshot and verdict results via Claude.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
