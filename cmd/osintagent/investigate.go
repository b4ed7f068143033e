package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wkarim/osintagent/internal/llm"
	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/report"
	"github.com/wkarim/osintagent/internal/sandbox"
	"github.com/wkarim/osintagent/internal/shodan"
	"github.com/wkarim/osintagent/internal/storage"
	"github.com/wkarim/osintagent/internal/workflow"
)

var investigateCmd = &cobra.Command{
	Use:   "investigate",
	Short: "Run the full OSINT workflow against a target domain",
	Long: `Run the complete investigation workflow for a target domain.

Executes the four phases in order — recon, shodan, fingerprint, report.
Subdomain enumeration and fingerprinting run inside the Docker sandbox;
Shodan lookups and report generation call their respective APIs directly.
A phase failure is recorded in the findings and does not stop the run;
only a failed report aborts.

The report is written to {report_dir}/report_{target}.md and run metadata
is persisted to the configured database so 'osintagent history' works
across runs.

Requires DEEPSEEK_API_KEY in the environment. SHODAN_API_KEY is optional;
without it the host-intel phase records an error and the run continues.

Examples:
  osintagent investigate -d example.com
  osintagent investigate -d example.com --checkpoint
  osintagent investigate -d example.com --timeout 30m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		checkpoint, _ := cmd.Flags().GetBool("checkpoint")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		target := strings.ToLower(strings.TrimSpace(domain))
		if target == "" {
			return fmt.Errorf("target domain must not be empty")
		}

		if cfg == nil {
			return fmt.Errorf("config not loaded. Run 'osintagent init' first to create config")
		}

		// ── 1. Credential checks ───────────────────────────────────────────────
		// Fail fast on the report credential; a missing Shodan key only
		// degrades the run.
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY environment variable not set (required for report generation)")
		}
		if cfg.Shodan.APIKey == "" {
			fmt.Println("[!] Warning: SHODAN_API_KEY not set — host-intel phase will record an error")
		}

		// ── 2. Build the sandbox runner ────────────────────────────────────────
		runner, err := sandbox.NewRunner(cfg.Docker.Image)
		if err != nil {
			return err
		}

		// ── 3. External clients ────────────────────────────────────────────────
		shodanClient := shodan.NewClient(cfg.Shodan.APIKey)
		llmClient, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return err
		}

		// ── 4. Open bbolt store ────────────────────────────────────────────────
		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		// ── 5. Wire the workflow driver ────────────────────────────────────────
		phaseLabels := map[models.Phase]string{
			models.PhaseRecon:       "Subdomain enumeration",
			models.PhaseShodan:      "Shodan host intelligence",
			models.PhaseFingerprint: "Technology fingerprinting",
			models.PhaseReport:      "Report generation",
		}
		phaseStart := map[models.Phase]time.Time{}

		driver := &workflow.Driver{
			Handlers: &workflow.Handlers{
				Caps:   workflow.NewCapabilities(runner, shodanClient, llmClient, cfg),
				Limits: cfg.Limits,
			},
			Store:      store,
			Checkpoint: checkpoint,
			OnPhaseStart: func(p models.Phase) {
				phaseStart[p] = time.Now()
				fmt.Printf("[*] Phase: %s...\n", phaseLabels[p])
			},
			OnPhaseDone: func(p models.Phase, inv *models.Investigation) {
				fmt.Printf("[+] Phase: %s complete (%s)\n",
					phaseLabels[p], time.Since(phaseStart[p]).Round(time.Millisecond))
			},
		}

		// ── 6. Run until interrupted or done ───────────────────────────────────
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		fmt.Printf("[*] Starting investigation of %s\n", target)
		inv, run, err := driver.Run(ctx, target)
		if err != nil {
			if checkpoint {
				fmt.Println("[!] Run aborted — progress saved, rerun with --checkpoint to resume")
			}
			return fmt.Errorf("investigation failed: %w", err)
		}

		// ── 7. Write the report artifact ───────────────────────────────────────
		reportPath, err := report.WriteArtifact(cfg.ReportDir, target, inv.Report)
		if err != nil {
			return err
		}
		run.ReportPath = reportPath
		if err := store.SaveRun(run); err != nil {
			fmt.Printf("[!] Warning: could not update run record: %v\n", err)
		}

		// ── 8. Print final summary ─────────────────────────────────────────────
		fmt.Println()
		fmt.Printf("[+] Investigation complete!\n")
		fmt.Printf("    Target:       %s\n", inv.Target)
		fmt.Printf("    Run ID:       %s\n", run.ID)
		fmt.Printf("    Subdomains:   %d\n", len(inv.Subdomains))
		fmt.Printf("    Live hosts:   %d\n", len(inv.LiveHosts))
		fmt.Printf("    Shodan hosts: %d\n", len(inv.ShodanHosts))
		fmt.Printf("    Fingerprints: %d\n", len(inv.Technologies))
		fmt.Printf("    Report:       %s\n", reportPath)

		if len(inv.Errors) > 0 {
			fmt.Println()
			fmt.Println("[!] Phase errors:")
			for _, msg := range inv.Errors {
				fmt.Printf("    %s\n", msg)
			}
		}

		return nil
	},
}

func init() {
	investigateCmd.Flags().StringP("domain", "d", "", "Target domain to investigate (required)")
	investigateCmd.Flags().Bool("checkpoint", false, "Save progress after each phase and resume an interrupted run")
	investigateCmd.Flags().Duration("timeout", 0, "Total investigation timeout (0 = no limit)")

	investigateCmd.MarkFlagRequired("domain")

	rootCmd.AddCommand(investigateCmd)
}
