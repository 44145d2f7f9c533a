// ABOUTME: Limits command for checking the message quota.
// ABOUTME: Reports monthly limit, remaining messages, and reset time.
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newLimitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Show Pushover API message limits",
		RunE:  runLimits,
	}
	return cmd
}

func runLimits(cmd *cobra.Command, args []string) error {
	creds, err := requireCredentials()
	if err != nil {
		return err
	}

	client := newClient(creds)
	defer client.Close()

	resp, err := client.GetLimits(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Limit:     %d\n", resp.Limit)
	cmd.Printf("Remaining: %d\n", resp.Remaining)
	if resp.Reset > 0 {
		cmd.Printf("Resets:    %s\n", time.Unix(resp.Reset, 0).Local().Format(time.RFC1123))
	}
	return nil
}
