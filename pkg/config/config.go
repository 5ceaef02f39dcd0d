// Package config loads connection settings from an optional YAML file and
// the environment. Environment variables always win, so the tool works in
// agent sandboxes that only carry a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds Jira and model connection settings. It is passed explicitly
// to every constructor; there is no package-level client state.
type Config struct {
	BaseURL      string `yaml:"base_url"`                 // e.g. "https://yourcompany.atlassian.net"
	Email        string `yaml:"email"`                    // User email for the API token
	APIToken     string `yaml:"api_token,omitempty"`      // Jira API token
	GeminiAPIKey string `yaml:"gemini_api_key,omitempty"` // Key for the Gemini API
	Model        string `yaml:"model,omitempty"`          // Model used by the agent and prompt generator
	ContextFile  string `yaml:"context_file,omitempty"`   // Path to the generated JQL context document
}

const (
	// ConfigDirName is the name of the config directory
	ConfigDirName = ".jqla"
	// ConfigFileName is the name of the config file
	ConfigFileName = "config.yaml"
	// ConfigFilePerms is the file permission for the config file (read/write for owner only)
	ConfigFilePerms = 0600
	// ConfigDirPerms is the directory permission for the config directory
	ConfigDirPerms = 0700

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-flash"
	// DefaultContextFile is where the context generator writes its output
	DefaultContextFile = "jira_context.txt"
)

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ConfigDirName, ConfigFileName), nil
}

// Load reads the config file from the default location, if present, and
// applies .env and environment overrides.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(configPath)
}

// LoadFromPath reads the config file from a specific path and applies .env
// and environment overrides. A missing file is not an error: credentials may
// come entirely from the environment.
func LoadFromPath(configPath string) (*Config, error) {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	config := &Config{}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnv()

	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.ContextFile == "" {
		config.ContextFile = DefaultContextFile
	}

	return config, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if v := os.Getenv("JIRA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("JIRA_API_USER"); v != "" {
		c.Email = v
	}
	if v := os.Getenv("JIRA_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.Model = v
	}
}

// Save writes the config to the default config file location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), ConfigDirPerms); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, ConfigFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the Jira connection settings are complete.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required (or set JIRA_BASE_URL)")
	}
	if c.Email == "" {
		return fmt.Errorf("email is required (or set JIRA_API_USER)")
	}
	if c.APIToken == "" {
		return fmt.Errorf("api_token is required (or set JIRA_API_TOKEN)")
	}
	return nil
}

// HasJiraCredentials reports whether a Jira call can be attempted at all.
func (c *Config) HasJiraCredentials() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != ""
}

// APIBaseURL returns the REST API v3 base URL.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/rest/api/3"
}
