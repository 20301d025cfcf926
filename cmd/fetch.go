package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/arcgis"
	"github.com/sells-group/pud-zones/internal/config"
	"github.com/sells-group/pud-zones/internal/export"
	"github.com/sells-group/pud-zones/internal/fetcher"
	"github.com/sells-group/pud-zones/internal/pud"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all PUD zones and write them to a file",
	Long: `Requests the FeatureServer query endpoint page by page until a short or empty
page arrives, then writes every zone at once. Nothing is written if any page
fails, the page cap is reached, or no zones are returned.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyFetchFlags(cmd, cfg)
		return runFetch(ctx, cmd.OutOrStdout(), cfg)
	},
}

func init() {
	f := fetchCmd.Flags()
	f.StringP("output", "o", "", "output file path (default from output.path)")
	f.StringP("format", "f", "", "output format: csv, xlsx, geojson, shp, sqlite")
	f.Int("page-size", 0, "features per request (default from arcgis.page_size)")
	f.Int("max-pages", 0, "maximum requests before giving up (default from arcgis.max_pages)")
	rootCmd.AddCommand(fetchCmd)
}

// applyFetchFlags copies explicitly set flags over the loaded config.
func applyFetchFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("output") == nil {
		return
	}

	if flags.Changed("output") {
		c.Output.Path, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		c.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("page-size") {
		c.ArcGIS.PageSize, _ = flags.GetInt("page-size")
	}
	if flags.Changed("max-pages") {
		c.ArcGIS.MaxPages, _ = flags.GetInt("max-pages")
	}
}

// runFetch collects every zone and writes it to c.Output. Progress lines go
// to out.
func runFetch(ctx context.Context, out io.Writer, c *config.Config) error {
	if err := c.Validate("fetch"); err != nil {
		return err
	}
	format, err := export.ParseFormat(c.Output.Format)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "fetch"), zap.String("run_id", uuid.NewString()))

	zones, err := collectZones(ctx, c, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d rows retrieved.\n", len(zones))

	if len(zones) == 0 {
		return eris.Wrap(export.ErrNoZones, "fetch")
	}

	fmt.Fprintf(out, "Writing to %s...\n", format.Label())
	if err := export.Write(c.Output.Path, format, zones); err != nil {
		return eris.Wrapf(err, "fetch: write %s", c.Output.Path)
	}
	fmt.Fprintln(out, "Success!")

	log.Info("fetch complete",
		zap.String("path", c.Output.Path),
		zap.String("format", string(format)),
		zap.Int("zones", len(zones)),
	)
	return nil
}

// collectZones pages through the configured endpoint and normalizes every
// feature.
func collectZones(ctx context.Context, c *config.Config, log *zap.Logger) ([]pud.Zone, error) {
	q, err := arcgis.NewQuery(c.ArcGIS.QueryURL, c.ArcGIS.PageSize)
	if err != nil {
		return nil, err
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    c.ArcGIS.UserAgent,
		Timeout:      time.Duration(c.ArcGIS.TimeoutSecs) * time.Second,
		MaxRetries:   c.ArcGIS.MaxRetries,
		RateLimiters: fetcher.HostLimiter(c.ArcGIS.QueryURL, c.ArcGIS.RateLimit),
	})
	p := arcgis.NewPaginator(f, q, c.ArcGIS.MaxPages)

	start := time.Now()
	zones, requests, err := pud.Collect(ctx, p)
	if err != nil {
		log.Error("collect failed", zap.Int("requests", requests), zap.Error(err))
		return nil, err
	}

	log.Info("collected zones",
		zap.Int("requests", requests),
		zap.Int("zones", len(zones)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return zones, nil
}
