// Package main provides the citizen voice admin CLI. It works directly on the
// configured storage, the same one the server uses.
package main

import (
	"context"
	"fmt"
	"os"

	"citizenvoice/backend/cmd/admin/commands"
	"citizenvoice/backend/internal/app"
	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	// Keep the terminal for command output.
	cfg.Log.Level = "error"

	logger := logging.New(cfg.Log)
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close storage: %v\n", err)
		}
	}()
	a.Restore(ctx)

	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Citizen Voice administration tool",
		Long: `Citizen Voice administration tool

Inspects and edits the complaints, session and onboarding state kept in the
configured storage.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(commands.ComplaintCommands(a.Store))
	rootCmd.AddCommand(commands.SessionCommands(a.Store))
	rootCmd.AddCommand(commands.SeedCommand(a.Store))
	rootCmd.AddCommand(commands.OnboardingCommands(a.Store))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
