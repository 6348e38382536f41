// Package config loads newsletter settings from an optional YAML file with
// environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "SPRACHBRIEF_CONFIG"

// SourceConfig describes one RSS source with its selection prior.
type SourceConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	BaseScore int    `yaml:"baseScore"`
}

// SelectionConfig holds the keyword lists and the eligibility threshold used
// by the scorer.
type SelectionConfig struct {
	PositiveKeywords []string `yaml:"positiveKeywords"`
	NegativeKeywords []string `yaml:"negativeKeywords"`
	BreakingKeywords []string `yaml:"breakingKeywords"`
	Threshold        int      `yaml:"threshold"`
}

// BackendConfig defines how to contact the text-generation backend.
type BackendConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeoutSec"`
}

// Timeout is the overall budget for one generation call.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// ScraperConfig controls the article content extraction.
type ScraperConfig struct {
	UserAgent  string `yaml:"userAgent"`
	TimeoutSec int    `yaml:"timeoutSec"`
	// AllowInsecureTLS disables certificate verification for article fetches.
	// Several of the configured news sites sit behind middleboxes that break
	// verification; this mirrors the long-standing default but is a real
	// security trade-off. Set to false to enforce verification.
	AllowInsecureTLS bool `yaml:"allowInsecureTLS"`
}

// Timeout is the page-fetch budget.
func (s ScraperConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// MailConfig wires the SMTP dispatcher. Empty Recipients disables sending.
type MailConfig struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port"`
	From       string   `yaml:"from"`
	FromName   string   `yaml:"fromName"`
	Password   string   `yaml:"password"`
	Recipients []string `yaml:"recipients"`
}

type Config struct {
	Sources      []SourceConfig  `yaml:"sources"`
	Selection    SelectionConfig `yaml:"selection"`
	Backend      BackendConfig   `yaml:"backend"`
	Scraper      ScraperConfig   `yaml:"scraper"`
	TemplatePath string          `yaml:"templatePath"`
	OutputDir    string          `yaml:"outputDir"`
	Mail         MailConfig      `yaml:"mail"`
}

// Load reads the YAML config (if SPRACHBRIEF_CONFIG points at one) and applies
// environment overrides on top of the built-in defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OLLAMA_ENDPOINT"); v != "" {
		c.Backend.Endpoint = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.Backend.Model = v
	}
	if v := os.Getenv("TEMPLATE_PATH"); v != "" {
		c.TemplatePath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("GMAIL_ADDRESS"); v != "" {
		c.Mail.From = v
	}
	if v := os.Getenv("GMAIL_APP_PASSWORD"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("RECIPIENTS"); v != "" {
		c.Mail.Recipients = splitList(v)
	}
	if v := os.Getenv("SELECTION_THRESHOLD"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			c.Selection.Threshold = val
		}
	}
	if v := os.Getenv("ALLOW_INSECURE_TLS"); v != "" {
		c.Scraper.AllowInsecureTLS = v == "true"
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one RSS source is required")
	}
	for _, s := range c.Sources {
		if s.Name == "" || s.URL == "" {
			return fmt.Errorf("source name and url are required")
		}
	}
	if c.Backend.Endpoint == "" {
		return fmt.Errorf("backend endpoint is required")
	}
	if c.Backend.Model == "" {
		return fmt.Errorf("backend model is required")
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("template path is required")
	}
	if len(c.Mail.Recipients) > 0 && (c.Mail.From == "" || c.Mail.Password == "") {
		return fmt.Errorf("mail recipients configured but GMAIL_ADDRESS/GMAIL_APP_PASSWORD missing")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Sources: []SourceConfig{
			{Name: "DW Culture", URL: "https://rss.dw.com/rdf/rss-de-cul", BaseScore: 2},
			{Name: "Tagesschau", URL: "https://www.tagesschau.de/xml/rss2", BaseScore: 1},
		},
		Selection: SelectionConfig{
			PositiveKeywords: []string{
				"kultur", "gesellschaft", "geschichte", "umwelt", "europa",
				"kunst", "musik", "film", "literatur", "wissenschaft",
			},
			NegativeKeywords: []string{
				"tote", "krieg", "angriff", "terror", "krise", "gewalt",
				"eilmeldung", "breaking", "live",
			},
			BreakingKeywords: []string{"eilmeldung", "breaking", "live"},
			Threshold:        6,
		},
		Backend: BackendConfig{
			Endpoint:    "http://localhost:11434/api/generate",
			Model:       "phi3",
			Temperature: 0.3,
			TimeoutSec:  90,
		},
		Scraper: ScraperConfig{
			UserAgent:        "Mozilla/5.0",
			TimeoutSec:       10,
			AllowInsecureTLS: true,
		},
		TemplatePath: "templates/newsletter_template.html",
		OutputDir:    ".",
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "Newsletter Allemand",
		},
	}
}
