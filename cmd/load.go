package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/db"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch all PUD zones and load them into PostGIS",
	Long: `Fetches every zone like "fetch" does, then replaces the contents of
<schema>.<table> in store.database_url inside one transaction. Geometry is
stored as geometry(Geometry, 4326).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cmd.Flags().Changed("schema") {
			cfg.Store.Schema, _ = cmd.Flags().GetString("schema")
		}
		if cmd.Flags().Changed("table") {
			cfg.Store.Table, _ = cmd.Flags().GetString("table")
		}
		if err := cfg.Validate("load"); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "load"), zap.String("run_id", uuid.NewString()))

		zones, err := collectZones(ctx, cfg, log)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d rows retrieved.\n", len(zones))
		if len(zones) == 0 {
			return eris.Wrap(db.ErrNoZones, "load")
		}

		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		fmt.Fprintf(out, "Writing to %s.%s...\n", cfg.Store.Schema, cfg.Store.Table)
		n, err := db.LoadZones(ctx, pool, cfg.Store.Schema, cfg.Store.Table, zones)
		if err != nil {
			return eris.Wrap(err, "load")
		}
		fmt.Fprintln(out, "Success!")

		log.Info("load complete", zap.Int64("rows", n))
		return nil
	},
}

func init() {
	loadCmd.Flags().String("schema", "", "target schema (default from store.schema)")
	loadCmd.Flags().String("table", "", "target table (default from store.table)")
	rootCmd.AddCommand(loadCmd)
}
