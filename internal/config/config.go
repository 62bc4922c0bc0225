package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	feedNameEnv         = "PEERIODICALS_FEED_NAME"
	feedURLNameEnv      = "PEERIODICALS_FEED_URL_NAME"
	feedDescriptionEnv  = "PEERIODICALS_FEED_DESCRIPTION"
	outputPathEnv       = "PEERIODICALS_OUTPUT"
	crossrefEndpointEnv = "PEERIODICALS_CROSSREF_ENDPOINT"
	emailFileEnv        = "PEERIODICALS_EMAIL_FILE"
	logLevelEnv         = "PEERIODICALS_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Feed     FeedConfig     `yaml:"feed"`
	Crossref CrossrefConfig `yaml:"crossref"`
	Proxies  ProxyConfig    `yaml:"proxies"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FeedConfig identifies the peeriodical being converted and the output file.
type FeedConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	Name        string `yaml:"name"`
	URLName     string `yaml:"urlName"`
	Description string `yaml:"description"`
	Output      string `yaml:"output"`
}

// ListingURL is the page holding the publication collection.
func (f FeedConfig) ListingURL() string {
	return f.BaseURL + "/peeriodicals/" + f.URLName
}

// PublicationURL derives the per-publication page from a listing identifier.
// The path segment is singular "peeriodical"; the listing itself is plural.
func (f FeedConfig) PublicationURL(id string) string {
	return f.BaseURL + "/peeriodical/" + f.URLName + "/publications/" + id
}

// CrossrefConfig defines how to contact the Crossref works API.
type CrossrefConfig struct {
	Endpoint    string `yaml:"endpoint"`
	EmailFile   string `yaml:"emailFile"`
	EmailDomain string `yaml:"emailDomain"`
}

// ProxyConfig points to the optional scheme-to-proxy map file.
type ProxyConfig struct {
	File string `yaml:"file"`
}

// LoggingConfig selects console verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
			}
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(feedNameEnv); v != "" {
		c.Feed.Name = v
	}

	if v := os.Getenv(feedURLNameEnv); v != "" {
		c.Feed.URLName = v
	}

	if v := os.Getenv(feedDescriptionEnv); v != "" {
		c.Feed.Description = v
	}

	if v := os.Getenv(outputPathEnv); v != "" {
		c.Feed.Output = v
	}

	if v := os.Getenv(crossrefEndpointEnv); v != "" {
		c.Crossref.Endpoint = v
	}

	if v := os.Getenv(emailFileEnv); v != "" {
		c.Crossref.EmailFile = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Feed.BaseURL != "" {
		base.Feed.BaseURL = override.Feed.BaseURL
	}
	if override.Feed.Name != "" {
		base.Feed.Name = override.Feed.Name
	}
	if override.Feed.URLName != "" {
		base.Feed.URLName = override.Feed.URLName
	}
	if override.Feed.Description != "" {
		base.Feed.Description = override.Feed.Description
	}
	if override.Feed.Output != "" {
		base.Feed.Output = override.Feed.Output
	}

	if override.Crossref.Endpoint != "" {
		base.Crossref.Endpoint = override.Crossref.Endpoint
	}
	if override.Crossref.EmailFile != "" {
		base.Crossref.EmailFile = override.Crossref.EmailFile
	}
	if override.Crossref.EmailDomain != "" {
		base.Crossref.EmailDomain = override.Crossref.EmailDomain
	}

	if override.Proxies.File != "" {
		base.Proxies.File = override.Proxies.File
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Feed: FeedConfig{
			BaseURL:     "https://peeriodicals.com",
			Name:        "High-Throughput Automation In R and D",
			URLName:     "high-throughput-automation-in-rampd",
			Description: "This journal aims to be a repository of peer-reviewed articles on the use of HTE for small molecules and related topics in R&D laboratories.",
			Output:      "rss.xml",
		},
		Crossref: CrossrefConfig{
			Endpoint:    "http://api.crossref.org",
			EmailFile:   "email.txt",
			EmailDomain: "astrazeneca.com",
		},
		Proxies: ProxyConfig{File: "proxies.txt"},
		Logging: LoggingConfig{Level: "info"},
	}
}
