package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the dominoes server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			started := time.Now()
			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}
			result.Server = cfg.ServerURL
			result.LatencyMS = time.Since(started).Milliseconds()

			NewOutput(cfg.Output).Print(result)
			if result.Status != "ok" {
				return fmt.Errorf("server %s reported status %q", cfg.ServerURL, result.Status)
			}
			return nil
		},
	}
}
