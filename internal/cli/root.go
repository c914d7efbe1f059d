package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/dominoes-go/internal/logging"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "dominoes",
		Short: "CLI tool for the dominoes API",
		Long: `dominoes is a CLI tool for interacting with the dominoes JSON API.

It covers players, games and rounds, and can watch a game's event stream
while folding it into the current table state.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != OutputText && cfg.Output != OutputJSON {
				return fmt.Errorf("invalid output format %q (use text or json)", cfg.Output)
			}

			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			level := "error"
			if cfg.Verbose {
				level = "debug"
			}
			logger, err := logging.New(logging.Config{Level: level, Format: logging.FormatText}, os.Stderr)
			if err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token, logger)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: DOMINOES_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: DOMINOES_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: DOMINOES_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log API requests to stderr")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newRoundCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
