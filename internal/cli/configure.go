// ABOUTME: Configure command for interactive credential entry.
// ABOUTME: Prompts for the token and user key and writes config.json.
package cli

import (
	"errors"
	"fmt"

	"github.com/mlgill/pushover-mcp-server/internal/config"
	"github.com/spf13/cobra"
)

func newConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Interactively store Pushover credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd)
		},
	}
	return cmd
}

func runConfigure(cmd *cobra.Command) error {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	existing := (config.FileSource{Path: cfgPath}).Credentials()
	prom := newPrompter(cmd.OutOrStdout())

	token, err := prom.AskSecret("Pushover application token")
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if token == "" {
		token = existing.Token
	}

	userKey, err := prom.Ask("Pushover user key", existing.UserKey)
	if err != nil {
		return fmt.Errorf("reading user key: %w", err)
	}

	creds := config.Credentials{Token: token, UserKey: userKey}
	if !creds.IsValid() {
		return errors.New("both the application token and the user key are required")
	}

	if err := config.Save(cfgPath, creds); err != nil {
		return err
	}

	cmd.Printf("✓ Credentials saved to %s\n", cfgPath)
	return nil
}
