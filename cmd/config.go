package main

import (
	"net/url"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pud-zones/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// redacted returns a copy of c with the database password masked.
func redacted(c *config.Config) config.Config {
	out := *c
	if u, err := url.Parse(out.Store.DatabaseURL); err == nil && u.User != nil {
		out.Store.DatabaseURL = u.Redacted()
	}
	return out
}
