package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for iqsync.
type Config struct {
	IQ                IQConfig       `yaml:"iq"`
	Provider          ProviderConfig `yaml:"provider"`
	DefaultBranch     string         `yaml:"default_branch"`
	StageID           string         `yaml:"stage_id"`
	OrganizationsFile string         `yaml:"organizations_file"`
	VerifyRemotes     bool           `yaml:"verify_remotes"`
}

// IQConfig holds the IQ Server endpoint and credentials.
type IQConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"` // Inline, ${ENV_VAR}, or file path
	Token    string `yaml:"token"`    // Bearer token; takes precedence over username/password
}

// ProviderConfig describes the source-control provider to synchronize from.
type ProviderConfig struct {
	Type         string `yaml:"type"`         // "github" or "azuredevops"
	Token        string `yaml:"token"`        // Inline, ${ENV_VAR}, or file path
	Organization string `yaml:"organization"` // Azure DevOps collection; GitHub org scope (optional)
	SearchTerm   string `yaml:"search_term"`  // Extra GitHub search term (optional)
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads the configuration file (when present), expands environment
// variable references in credentials, and applies environment fallbacks and
// defaults. Semantic validation happens per command via ValidateSync and
// ValidateCleanup.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}

	var cfg Config

	if path == "" {
		if found, findErr := FindConfigFile(); findErr == nil {
			path = found
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, unmarshalErr)
		}
	}

	cfg.IQ.URL = valueOrEnv(cfg.IQ.URL, "IQ_SERVER_URL")
	cfg.IQ.Username = valueOrEnv(cfg.IQ.Username, "IQ_USERNAME")
	cfg.IQ.Password = resolveToken(valueOrEnv(cfg.IQ.Password, "IQ_PASSWORD"))
	cfg.IQ.Token = resolveToken(valueOrEnv(cfg.IQ.Token, "IQ_TOKEN"))
	cfg.Provider.Organization = valueOrEnv(cfg.Provider.Organization, "AZURE_DEVOPS_ORGANIZATION")
	cfg.ResolveProviderToken()

	cfg.DefaultBranch = valueOrEnv(cfg.DefaultBranch, "DEFAULT_BRANCH")
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = "main"
	}
	cfg.StageID = valueOrEnv(cfg.StageID, "STAGE_ID")
	if cfg.StageID == "" {
		cfg.StageID = "source"
	}
	cfg.OrganizationsFile = valueOrEnv(cfg.OrganizationsFile, "ORGANIZATIONS_FILE")
	if cfg.OrganizationsFile == "" {
		cfg.OrganizationsFile = defaultOrganizationsFile()
	}

	// The client joins paths onto the base URL, so a trailing slash would
	// produce double slashes in every endpoint.
	cfg.IQ.URL = strings.TrimRight(cfg.IQ.URL, "/")

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".iqsync.yaml",
		".iqsync.yml",
		"iqsync.yaml",
		"iqsync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveProviderToken resolves the provider token, falling back to the
// conventional environment variable for the provider type. Commands call it
// again after flags may have changed the type.
func (c *Config) ResolveProviderToken() {
	c.Provider.Token = resolveToken(c.Provider.Token)
	if c.Provider.Token != "" {
		return
	}
	switch c.Provider.Type {
	case "github":
		c.Provider.Token = os.Getenv("GITHUB_TOKEN")
	case "azuredevops":
		c.Provider.Token = os.Getenv("AZURE_DEVOPS_TOKEN")
	}
}

// ValidateSync checks the fields the synchronization flow requires.
func ValidateSync(cfg *Config) error {
	if err := validateIQ(cfg); err != nil {
		return err
	}

	switch cfg.Provider.Type {
	case "":
		return errors.New("provider.type is required (github or azuredevops)")
	case "github", "azuredevops":
	default:
		return fmt.Errorf("unsupported provider type %q (expected github or azuredevops)", cfg.Provider.Type)
	}

	if cfg.Provider.Token == "" {
		return fmt.Errorf(
			"provider.token is required (set inline, via ${ENV_VAR}, or export %s)",
			tokenEnvVar(cfg.Provider.Type),
		)
	}
	if cfg.Provider.Type == "azuredevops" && cfg.Provider.Organization == "" {
		return errors.New("provider.organization is required for azuredevops (set AZURE_DEVOPS_ORGANIZATION)")
	}

	return nil
}

// ValidateCleanup checks the fields the cleanup flow requires. Cleanup talks
// to IQ Server only, so provider settings are not needed.
func ValidateCleanup(cfg *Config) error {
	return validateIQ(cfg)
}

func validateIQ(cfg *Config) error {
	if cfg.IQ.URL == "" {
		return errors.New("iq.url is required (set IQ_SERVER_URL)")
	}
	if cfg.IQ.Token == "" && (cfg.IQ.Username == "" || cfg.IQ.Password == "") {
		return errors.New(
			"iq credentials are required: username and password (IQ_USERNAME/IQ_PASSWORD) or a token (IQ_TOKEN)",
		)
	}
	return nil
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// valueOrEnv returns the configured value, falling back to the named
// environment variable when it is empty.
func valueOrEnv(value, envVar string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envVar)
}

func tokenEnvVar(providerType string) string {
	if providerType == "github" {
		return "GITHUB_TOKEN"
	}
	return "AZURE_DEVOPS_TOKEN"
}

// defaultOrganizationsFile keeps debug shells away from the production
// inventory: DEBUG switches to a separate file.
func defaultOrganizationsFile() string {
	if os.Getenv("DEBUG") != "" {
		return filepath.Join("config", "organizations.debug.json")
	}
	return filepath.Join("config", "organizations.json")
}
