package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Enrichment configures the LLM metadata-extraction provider.
type Enrichment struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type Config struct {
	GatewayURL  string      `yaml:"gateway_url"`
	AnonKey     string      `yaml:"anon_key"`
	CacheTTL    string      `yaml:"cache_ttl"`
	AutoAnalyze *bool       `yaml:"auto_analyze,omitempty"`
	Enrich      *Enrichment `yaml:"enrichment,omitempty"`
}

// EnrichEnabled returns true if an enrichment provider is configured with a
// usable API key.
func (c *Config) EnrichEnabled() bool {
	return c.Enrich != nil && c.EnrichKey() != ""
}

// EnrichKey returns the resolved API key (config or env var).
func (c *Config) EnrichKey() string {
	if c.Enrich != nil && c.Enrich.APIKey != "" {
		return c.Enrich.APIKey
	}
	return os.Getenv("LINKVERSE_AI_KEY")
}

// CacheWindow returns the configured freshness window, defaulting to 30s.
func (c *Config) CacheWindow() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// AutoAnalyzeEnabled defaults to true when unset.
func (c *Config) AutoAnalyzeEnabled() bool {
	if c.AutoAnalyze == nil {
		return true
	}
	return *c.AutoAnalyze
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "linkverse", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "linkverse", "linkverse.db")
}

func SessionPath() string {
	return filepath.Join(xdg.StateHome, "linkverse", "session.yaml")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "linkverse", "linkverse.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.GatewayURL != "" {
		u, err := url.Parse(cfg.GatewayURL)
		if err != nil {
			return fmt.Errorf("invalid gateway_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("gateway_url scheme must be http or https, got %q", u.Scheme)
		}
	}
	if cfg.CacheTTL != "" {
		if _, err := time.ParseDuration(cfg.CacheTTL); err != nil {
			return fmt.Errorf("invalid cache_ttl %q: %w", cfg.CacheTTL, err)
		}
	}
	if cfg.Enrich != nil {
		switch cfg.Enrich.Provider {
		case "", "claude", "openai":
		default:
			return fmt.Errorf("unknown enrichment provider %q (valid: claude, openai)", cfg.Enrich.Provider)
		}
	}
	return nil
}
