// ABOUTME: Root command and CLI setup for the pushover-mcp binary.
// ABOUTME: Configures Cobra commands and resolves config/data paths.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlgill/pushover-mcp-server/internal/config"
	"github.com/spf13/cobra"
)

// appOptions carries CLI-wide path overrides.
type appOptions struct {
	configPath string
	dataDir    string
}

var opts = appOptions{}

// Execute runs the Cobra root command.
func Execute(ctx context.Context) error {
	cmd := newRootCmd()
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pushover-mcp",
		Short: "Pushover notifications as MCP tools and CLI commands",
		Long:  "pushover-mcp exposes the Pushover API to AI assistants over the Model Context Protocol and to humans as direct subcommands.",
	}
	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/pushover-mcp/config.json)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data", "", "data directory (default ~/.local/share/pushover-mcp)")

	cmd.AddCommand(
		newServeCmd(),
		newSendCmd(),
		newValidateCmd(),
		newLimitsCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newConfigureCmd(),
	)

	return cmd
}

func resolveConfigPath() (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.DefaultPath()
}

func resolveDataDir() (string, error) {
	if opts.dataDir != "" {
		return opts.dataDir, nil
	}

	// Use XDG_DATA_HOME if set, otherwise ~/.local/share (even on macOS)
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "pushover-mcp"), nil
}
