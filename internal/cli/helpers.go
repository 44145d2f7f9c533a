// ABOUTME: Helper functions shared across CLI commands.
// ABOUTME: Provides credential resolution, database access, and client creation.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mlgill/pushover-mcp-server/internal/config"
	"github.com/mlgill/pushover-mcp-server/internal/db"
	"github.com/mlgill/pushover-mcp-server/internal/pushover"
)

func resolveCredentials() (config.Credentials, string, error) {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return config.Credentials{}, "", err
	}
	return config.Resolve(cfgPath), cfgPath, nil
}

func requireCredentials() (config.Credentials, error) {
	creds, _, err := resolveCredentials()
	if err != nil {
		return creds, err
	}
	if !creds.IsValid() {
		return creds, fmt.Errorf("pushover credentials not configured: set %s and %s, or run 'pushover-mcp configure'",
			config.EnvToken, config.EnvUserKey)
	}
	return creds, nil
}

func databasePath() (string, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "sent.db"), nil
}

func openStore() (*db.Store, string, error) {
	path, err := databasePath()
	if err != nil {
		return nil, "", err
	}
	store, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	return store, path, nil
}

func newClient(creds config.Credentials) *pushover.Client {
	return pushover.NewClient(creds.Token, creds.UserKey)
}
