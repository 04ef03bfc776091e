package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and show current rate limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := loadClient()
			if err != nil {
				return err
			}

			rl, err := client.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("connectivity check failed: %w", err)
			}

			fmt.Printf("Connected to %s\n", client.CloudName())
			fmt.Printf("Rate limit: %d/%d remaining", rl.Remaining, rl.Limit)
			if !rl.Reset.IsZero() {
				fmt.Printf(", resets at %s", rl.Reset.Local().Format("15:04:05"))
			}
			fmt.Println()
			return nil
		},
	}
}
