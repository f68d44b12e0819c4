// Package config handles global configuration for the lsr CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/lsr/config.yml.
type GlobalConfig struct {
	// Email is sent to PubMed and OpenAlex per their usage policies
	// (polite pool).
	Email string `yaml:"email,omitempty"`
	// OpenAlexAPIKey enables authenticated OpenAlex requests.
	OpenAlexAPIKey string `yaml:"openalex_api_key,omitempty"`
	// ProjectsRoot is where project workspaces live. Defaults to
	// ./projects under the working directory.
	ProjectsRoot string `yaml:"projects_root,omitempty"`
	// ColumnAliases extends or replaces the column resolver's alias sets,
	// keyed by canonical field. New export formats are added here, not in
	// code.
	ColumnAliases map[string][]string `yaml:"column_aliases,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "lsr"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultProjectsRoot is used when no root is configured.
	DefaultProjectsRoot = "projects"
)

// Environment variables that override file values.
const (
	EnvEmail          = "LSR_EMAIL"
	EnvOpenAlexAPIKey = "OPENALEX_API_KEY"
	EnvProjectsRoot   = "LSR_PROJECTS"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/lsr/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file. A missing file is
// not an error; environment variables override file values either way.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg := &GlobalConfig{}

	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("reading global config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvEmail); v != "" {
		cfg.Email = v
	}
	if v := os.Getenv(EnvOpenAlexAPIKey); v != "" {
		cfg.OpenAlexAPIKey = v
	}
	if v := os.Getenv(EnvProjectsRoot); v != "" {
		cfg.ProjectsRoot = v
	}
	if cfg.ProjectsRoot == "" {
		cfg.ProjectsRoot = DefaultProjectsRoot
	}

	globalConfigCache = cfg
	return cfg, nil
}

// ResetGlobalConfigCache clears the cached global config. Useful for
// testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetEmail returns the contact email from global config.
func GetEmail() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.Email
}

// GetOpenAlexAPIKey returns the OpenAlex API key from global config.
func GetOpenAlexAPIKey() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAlexAPIKey
}

// GetProjectsRoot returns the configured projects root.
func GetProjectsRoot() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.ProjectsRoot
}
