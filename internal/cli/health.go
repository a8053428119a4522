package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the presence server is reachable",
		Long:  "Check that the presence server is reachable. Exits non-zero when the server is down or reports a status other than ok, so it can back a liveness script.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}
			if result.Status != "ok" {
				return fmt.Errorf("server reports status %q", result.Status)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
