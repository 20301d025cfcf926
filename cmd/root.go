package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pud-zones",
	Short: "Download Chattanooga PUD zones from ArcGIS",
	Long: `Pages through the PUD / special permit FeatureServer layer, normalizes every
feature and writes the zones to a file (pud_zones.csv by default).

With no subcommand this is the same as "pud-zones fetch" using configuration
defaults.`,
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
	RunE: func(cmd *cobra.Command, _ []string) error {
		return fetchCmd.RunE(cmd, nil)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
