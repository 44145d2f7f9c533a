// ABOUTME: Config command for displaying the resolved configuration.
// ABOUTME: Shows the config path and where each credential came from.
package cli

import (
	"github.com/mlgill/pushover-mcp-server/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE:  runConfig,
	}

	cmd.Flags().Bool("path", false, "print the config file path only")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	showPathOnly, _ := cmd.Flags().GetBool("path")

	cfgPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if showPathOnly {
		cmd.Println(cfgPath)
		return nil
	}

	res := config.ResolveDetailed(cfgPath)

	cmd.Printf("Config file: %s\n", cfgPath)
	cmd.Printf("Token:       %s\n", describeField(res.Credentials.Token, res.TokenSource))
	cmd.Printf("User key:    %s\n", describeField(res.Credentials.UserKey, res.UserKeySource))
	if res.Credentials.IsValid() {
		cmd.Println("Status:      configured")
	} else {
		cmd.Println("Status:      not configured")
	}
	return nil
}

func describeField(value, source string) string {
	if value == "" {
		return "(not set)"
	}
	return "set (from " + source + ")"
}
