package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wkarim/osintagent/internal/config"
	"github.com/wkarim/osintagent/internal/storage"
)

var (
	initForce bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize osintagent with default configuration",
	Long: `Creates a default configuration file (osintagent.yaml), the report
directory, and the database for run metadata.

This is typically the first command you run when setting up osintagent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "osintagent.yaml"
		if initDir != "." {
			configPath = fmt.Sprintf("%s/osintagent.yaml", initDir)
		}

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists at %s. Use --force to overwrite", configPath)
		}

		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Printf("Created %s with default configuration\n", configPath)

		// Load the config we just created to get paths
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := storage.EnsureDir(cfg.ReportDir); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		fmt.Printf("Created report directory: %s\n", cfg.ReportDir)

		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()
		fmt.Printf("Initialized database: %s\n", cfg.DBPath)

		fmt.Println()
		fmt.Println("OSINT Agent initialized successfully!")
		fmt.Println("Run 'osintagent check' to verify the sandbox and credentials.")

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "output directory")
	rootCmd.AddCommand(initCmd)
}
