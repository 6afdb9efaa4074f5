package config

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/spf13/viper"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/placeholder"
	"github.com/joescharf/modcount/internal/source"
)

// CurseForge fetch strategies.
const (
	StrategyAPI    = "api"
	StrategyScrape = "scrape"
)

// APIKeyEnv is the conventional environment variable holding the CurseForge key.
const APIKeyEnv = "CURSEFORGE_API_KEY"

var placeholderName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Config is the resolved configuration for one run.
type Config struct {
	Document  string             `mapstructure:"document"`
	Layout    placeholder.Layout `mapstructure:"layout"`
	Timeout   time.Duration      `mapstructure:"timeout"`
	UserAgent string             `mapstructure:"user_agent"`

	Modrinth   ModrinthConfig   `mapstructure:"modrinth"`
	CurseForge CurseForgeConfig `mapstructure:"curseforge"`

	Projects []models.Project `mapstructure:"projects"`
}

// ModrinthConfig holds platform A settings.
type ModrinthConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CurseForgeConfig holds platform B settings.
type CurseForgeConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	PageURL  string `mapstructure:"page_url"`
	APIKey   string `mapstructure:"api_key"`
	Strategy string `mapstructure:"strategy"`
}

// DefaultProjects are the mods tracked when no projects are configured.
func DefaultProjects() []models.Project {
	return []models.Project{
		{
			Name:        "CobblePass",
			Placeholder: "COBBLEPASS_DOWNLOADS",
			Modrinth:    "cobble-pass",
			CurseForge:  "cobblemon-cobblepass",
		},
		{
			Name:        "SimpleDexRewards",
			Placeholder: "SDEXREWARDS_DOWNLOADS",
			Modrinth:    "cobblemon-simpledexrewards",
			CurseForge:  "cobblemon-simpledexrewards",
		},
	}
}

// SetDefaults registers default values and env bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("document", "README.md")
	v.SetDefault("layout", string(placeholder.LayoutInline))
	v.SetDefault("timeout", "30s")
	v.SetDefault("user_agent", "modcount (+https://github.com/joescharf/modcount)")
	v.SetDefault("modrinth.base_url", source.DefaultModrinthBaseURL)
	v.SetDefault("curseforge.base_url", source.DefaultCurseForgeBaseURL)
	v.SetDefault("curseforge.page_url", source.DefaultCurseForgePageURL)
	v.SetDefault("curseforge.api_key", "")
	v.SetDefault("curseforge.strategy", StrategyAPI)

	// MODCOUNT_CURSEFORGE_API_KEY wins over the bare CURSEFORGE_API_KEY.
	_ = v.BindEnv("curseforge.api_key", "MODCOUNT_CURSEFORGE_API_KEY", APIKeyEnv)
}

// Load builds a Config from v. Projects fall back to DefaultProjects.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Unmarshal does not see env-only bindings for nested keys.
	cfg.CurseForge.APIKey = v.GetString("curseforge.api_key")

	if len(cfg.Projects) == 0 {
		cfg.Projects = DefaultProjects()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for values a run cannot proceed with.
func (c *Config) Validate() error {
	if c.Document == "" {
		return fmt.Errorf("document path is empty")
	}
	if !placeholder.ValidLayout(c.Layout) {
		return fmt.Errorf("unknown layout %q (want %q or %q)", c.Layout, placeholder.LayoutInline, placeholder.LayoutBlock)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.CurseForge.Strategy {
	case StrategyAPI, StrategyScrape:
	default:
		return fmt.Errorf("unknown curseforge strategy %q (want %q or %q)", c.CurseForge.Strategy, StrategyAPI, StrategyScrape)
	}
	if len(c.Projects) == 0 {
		return fmt.Errorf("no projects configured")
	}

	seen := make(map[string]bool)
	for i, p := range c.Projects {
		if p.Name == "" {
			return fmt.Errorf("project %d: name is required", i+1)
		}
		if !placeholderName.MatchString(p.Placeholder) {
			return fmt.Errorf("project %s: invalid placeholder name %q", p.Name, p.Placeholder)
		}
		if seen[p.Placeholder] {
			return fmt.Errorf("project %s: duplicate placeholder %q", p.Name, p.Placeholder)
		}
		seen[p.Placeholder] = true
	}
	return nil
}

// HTTPClient returns a client honouring the configured timeout.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.Timeout}
}

// Sources builds the platform sources in fetch order. The CurseForge source
// is the API client or the page scraper depending on Strategy.
func (c *Config) Sources(client *http.Client, log source.Logger) []source.Source {
	var cf source.Source
	if c.CurseForge.Strategy == StrategyScrape {
		cf = source.NewCurseForgePage(client, c.CurseForge.PageURL, "", log)
	} else {
		cf = source.NewCurseForge(client, c.CurseForge.BaseURL, c.CurseForge.APIKey, c.UserAgent)
	}
	return []source.Source{
		source.NewModrinth(client, c.Modrinth.BaseURL, c.UserAgent),
		cf,
	}
}

// MaskedAPIKey returns the API key with all but the last four characters hidden.
func (c *Config) MaskedAPIKey() string {
	k := c.CurseForge.APIKey
	switch {
	case k == "":
		return ""
	case len(k) <= 4:
		return "****"
	default:
		return "****" + k[len(k)-4:]
	}
}
