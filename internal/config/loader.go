package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for when no
// explicit path is given.
const DefaultConfigFile = ".webcrawl.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
// Callers decide whether that is fatal: an explicitly requested file that
// is missing is an error, a missing default file is not.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads crawl overrides from a YAML file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Hosts == nil {
		cf.Hosts = make(map[string]HostConfig)
	}

	return &cf, nil
}

// FindConfigFile locates the configuration file:
//
//  1. An explicit path is used as-is (empty result if it does not exist).
//  2. DefaultConfigFile in the current directory.
//  3. DefaultConfigFile in the XDG config directory.
//  4. DefaultConfigFile in the user's home directory.
//
// Returns empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
