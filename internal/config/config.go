// ABOUTME: Credential resolution for the Pushover MCP server.
// ABOUTME: Merges environment variables with the JSON config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvToken and EnvUserKey are the environment variables checked
	// before the config file.
	EnvToken   = "PUSHOVER_TOKEN"
	EnvUserKey = "PUSHOVER_USER_KEY"

	appDirName     = "pushover-mcp"
	configFileName = "config.json"
)

// Credentials holds the Pushover application token and user key.
type Credentials struct {
	Token   string `json:"token"`
	UserKey string `json:"user_key"`
}

// IsValid reports whether both credential fields are present.
func (c Credentials) IsValid() bool {
	return c.Token != "" && c.UserKey != ""
}

// Source yields a partial set of credentials. Empty fields defer to
// later sources in the resolution order.
type Source interface {
	Name() string
	Credentials() Credentials
}

// EnvSource reads credentials from the process environment.
type EnvSource struct{}

func (EnvSource) Name() string { return "environment" }

func (EnvSource) Credentials() Credentials {
	return Credentials{
		Token:   os.Getenv(EnvToken),
		UserKey: os.Getenv(EnvUserKey),
	}
}

// FileSource reads credentials from a JSON config file. A missing,
// unreadable, or malformed file yields empty credentials rather than
// an error; validity is a property the caller checks after resolution.
type FileSource struct {
	Path string
}

func (FileSource) Name() string { return "file" }

func (s FileSource) Credentials() Credentials {
	path := s.Path
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Credentials{}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}
	}
	return creds
}

// Resolution records the merged credentials and which source supplied
// each field. An empty source name means no source had the field.
type Resolution struct {
	Credentials   Credentials
	TokenSource   string
	UserKeySource string
}

// Merge combines sources left to right, taking the first non-empty
// value per field independently.
func Merge(sources ...Source) Resolution {
	var res Resolution
	for _, src := range sources {
		creds := src.Credentials()
		if res.Credentials.Token == "" && creds.Token != "" {
			res.Credentials.Token = creds.Token
			res.TokenSource = src.Name()
		}
		if res.Credentials.UserKey == "" && creds.UserKey != "" {
			res.Credentials.UserKey = creds.UserKey
			res.UserKeySource = src.Name()
		}
	}
	return res
}

// Resolve returns credentials from the default source order:
// environment variables first, then the config file at path (or the
// default location when path is empty).
func Resolve(path string) Credentials {
	return ResolveDetailed(path).Credentials
}

// ResolveDetailed is Resolve with per-field source attribution.
func ResolveDetailed(path string) Resolution {
	return Merge(EnvSource{}, FileSource{Path: path})
}

// DefaultPath returns the config file location: XDG_CONFIG_HOME if
// set, otherwise ~/.config, joined with pushover-mcp/config.json.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, appDirName, configFileName), nil
}

// Save writes the credentials atomically to the JSON config file.
func Save(path string, creds Credentials) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpName := tmpFile.Name()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting config permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing config: %w", err)
	}

	return nil
}
