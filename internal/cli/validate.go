// ABOUTME: Validate command for checking Pushover credentials.
// ABOUTME: Confirms the user key and lists registered devices.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate Pushover credentials and list devices",
		RunE:  runValidate,
	}

	cmd.Flags().StringP("device", "d", "", "device name to validate")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	creds, err := requireCredentials()
	if err != nil {
		return err
	}

	device, _ := cmd.Flags().GetString("device")

	client := newClient(creds)
	defer client.Close()

	resp, err := client.ValidateUser(cmd.Context(), device)
	if err != nil {
		return err
	}

	if !resp.Valid {
		return fmt.Errorf("credentials are invalid: %s", strings.Join(resp.Errors, "; "))
	}

	cmd.Println("✓ Credentials are valid.")
	if len(resp.Devices) > 0 {
		cmd.Printf("Devices: %s\n", strings.Join(resp.Devices, ", "))
	}
	if len(resp.Licenses) > 0 {
		cmd.Printf("Licenses: %s\n", strings.Join(resp.Licenses, ", "))
	}
	return nil
}
