package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wkarim/osintagent/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "osintagent",
	Short: "Multi-phase OSINT investigation for a target domain",
	Long: `OSINT Agent runs a phased reconnaissance workflow against a target domain:
subdomain enumeration, Shodan host intelligence, web technology
fingerprinting, and finally an LLM-written markdown report.

All scanning tools (subfinder, httpx, whatweb) execute inside a resource-
limited Docker sandbox, so nothing beyond docker itself needs to be
installed on the host. Findings accumulate in a shared investigation state;
a phase that fails records its error and the run carries on, so the final
report reflects whatever intelligence was actually gathered.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		skipConfig := map[string]bool{
			"init":    true,
			"help":    true,
			"version": true,
		}

		if skipConfig[cmd.Name()] {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: search ./osintagent.yaml)")

	rootCmd.Version = "0.1.0-dev"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
