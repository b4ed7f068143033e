package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wkarim/osintagent/internal/tools"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check sandbox and API credential preconditions",
	Long: `Verify that everything an investigation needs is in place: the docker
binary, the sandbox tool image, and the API credentials in the environment.
Shows status per requirement and a fix hint for anything missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		image := "osint-tools:latest"
		if cfg != nil {
			image = cfg.Docker.Image
		}

		results := tools.CheckRequirements(tools.DefaultRequirements(image))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Requirement\tStatus\tDetail")
		fmt.Fprintln(w, "-----------\t------\t------")

		foundCount := 0
		requiredMissing := 0

		for _, result := range results {
			status := "[-]"
			detail := "-"

			if result.Found {
				status = "[+]"
				foundCount++
				if result.Detail != "" {
					detail = result.Detail
				}
			} else if result.Requirement.Required {
				requiredMissing++
			}

			fmt.Fprintf(w, "%s\t%s\t%s\n", result.Requirement.Name, status, detail)
		}

		w.Flush()

		// Fix hints for anything missing
		fmt.Println()
		missing := false
		for _, result := range results {
			if !result.Found {
				if !missing {
					fmt.Println("Missing requirements:")
					missing = true
				}
				required := ""
				if result.Requirement.Required {
					required = " (REQUIRED)"
				}
				fmt.Printf("  %s%s\n    Fix: %s\n",
					result.Requirement.Name, required, result.Requirement.FixHint)
			}
		}

		fmt.Println()
		fmt.Printf("Summary: %d/%d requirements satisfied", foundCount, len(results))
		if requiredMissing > 0 {
			fmt.Printf(", %d required missing", requiredMissing)
		}
		fmt.Println()

		if requiredMissing > 0 {
			return fmt.Errorf("required preconditions are missing")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
