package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TobiSchelling/secfetch/internal/edgar"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	EDGAR   EDGAR   `yaml:"edgar"`
	Roster  Roster  `yaml:"roster"`
	Output  Output  `yaml:"output"`
	Pacing  Pacing  `yaml:"pacing"`
	Logging Logging `yaml:"logging"`
}

type EDGAR struct {
	SubmissionsURL    string  `yaml:"submissions_url"`
	ArchiveURL        string  `yaml:"archive_url"`
	UserAgent         string  `yaml:"user_agent"`
	UserAgentEnv      string  `yaml:"user_agent_env"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type Roster struct {
	Path          string `yaml:"path"`
	RankThreshold int    `yaml:"rank_threshold"`
	TopCap        int    `yaml:"top_cap"`
	RestCap       int    `yaml:"rest_cap"`
}

type Output struct {
	Dir          string `yaml:"dir"`
	SnapshotPath string `yaml:"snapshot_path"`
}

type Pacing struct {
	DelayMS int `yaml:"delay_ms"`
}

// Logging.Level is INFO or DEBUG. DEBUG adds source locations and a line
// per archive request.
type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for secfetch.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "secfetch")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/secfetch/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", ErrNoConfig
}

// ErrNoConfig is returned by ResolveConfigPath when no file exists in the search path.
var ErrNoConfig = errors.New("no config file found; run 'secfetch init' to create one")

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		EDGAR: EDGAR{
			SubmissionsURL:    edgar.DefaultSubmissionsURL,
			ArchiveURL:        edgar.DefaultArchiveURL,
			UserAgent:         edgar.DefaultUserAgent,
			UserAgentEnv:      "EDGAR_USER_AGENT",
			TimeoutSeconds:    30,
			RequestsPerSecond: 10,
		},
		Roster: Roster{
			Path:          "stock_new.json",
			RankThreshold: 50,
			TopCap:        8,
			RestCap:       1,
		},
		Output:  Output{Dir: filepath.Join("data", "raw")},
		Pacing:  Pacing{DelayMS: 500},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch strings.ToUpper(cfg.Logging.Level) {
	case "", "INFO":
		cfg.Logging.Level = "INFO"
	case "DEBUG":
		cfg.Logging.Level = "DEBUG"
	default:
		return nil, fmt.Errorf("invalid logging level %q (want INFO or DEBUG)", cfg.Logging.Level)
	}

	return cfg, nil
}

// GetUserAgent returns the User-Agent to send to EDGAR. The environment
// variable named by user_agent_env wins over the configured value.
func (c *Config) GetUserAgent() string {
	if c.EDGAR.UserAgentEnv != "" {
		if ua := os.Getenv(c.EDGAR.UserAgentEnv); ua != "" {
			return ua
		}
	}
	return c.EDGAR.UserAgent
}

// Timeout returns the HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.EDGAR.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.EDGAR.TimeoutSeconds) * time.Second
}

// Delay returns the pause inserted after every document download.
func (c *Config) Delay() time.Duration {
	if c.Pacing.DelayMS < 0 {
		return 0
	}
	return time.Duration(c.Pacing.DelayMS) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.Logging.Level == "DEBUG"
}
