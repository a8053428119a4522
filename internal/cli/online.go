package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newOnlineCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "online [query]",
		Short: "List online players",
		Long: `List players currently online, sorted by power.

An optional query argument filters the list by a case-insensitive
substring match on player names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if len(args) > 0 {
				params.Set("q", args[0])
			}
			if limit > 0 {
				params.Set("limit", fmt.Sprintf("%d", limit))
			}

			path := "/api/v1/online"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var result OnlineList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of players to return")

	return cmd
}
