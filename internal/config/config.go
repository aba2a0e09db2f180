package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Env keys for the managed site credentials.
const (
	EnvWebsiteID = "WEBSITE_ID"
	EnvSecret    = "PRESSILLION_PING_SECRET"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	Namespace  string `yaml:"namespace"`
	TrustProxy bool   `yaml:"trust_proxy"`
	HSTS       bool   `yaml:"hsts"`
}

func Default() Config {
	return Config{
		ListenAddr: ":9096",
		Namespace:  "pressillion/v1",
		TrustProxy: false,
		HSTS:       false,
	}
}

// Load builds the server configuration: defaults, then the YAML file named
// by CONFIG_PATH (if any), then env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if listen := os.Getenv("LISTEN_ADDR"); listen != "" {
		cfg.ListenAddr = listen
	}

	if ns := os.Getenv("HEALTH_NAMESPACE"); ns != "" {
		cfg.Namespace = ns
	}

	if os.Getenv("TRUST_PROXY") == "true" {
		cfg.TrustProxy = true
	}

	if os.Getenv("HSTS_ENABLED") == "true" {
		cfg.HSTS = true
	}

	cfg.Namespace = strings.Trim(cfg.Namespace, "/")
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("config: namespace must not be empty")
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Site holds the credentials shared between the platform and this site.
// A zero WebsiteID or empty Secret means the health check is not configured.
type Site struct {
	WebsiteID int64
	Secret    string
}

// Configured reports whether both credentials are present.
func (s Site) Configured() bool {
	return s.WebsiteID > 0 && s.Secret != ""
}

// SiteSource yields the current site credentials. Handlers call it once per
// request.
type SiteSource func() Site

// LoadSite reads the site credentials through getenv. It never fails:
// a missing or non-numeric id resolves to 0 and a missing secret to "".
func LoadSite(getenv func(string) string) Site {
	var site Site

	if raw := strings.TrimSpace(getenv(EnvWebsiteID)); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			site.WebsiteID = id
		}
	}

	site.Secret = strings.TrimSpace(getenv(EnvSecret))

	return site
}

// EnvSite loads the site credentials from the process environment.
func EnvSite() Site {
	return LoadSite(os.Getenv)
}

// StaticSite returns a SiteSource that always yields site.
func StaticSite(site Site) SiteSource {
	return func() Site { return site }
}
