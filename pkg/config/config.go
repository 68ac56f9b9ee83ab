package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the storefront service settings.
type Config struct {
	ListenAddress   string
	DebugAddress    string
	UpstreamUrl     string
	UpstreamTimeout time.Duration
	RefreshInterval time.Duration
	DataDir         string
	RedisUrl        string
	RedisPassword   string
	RabbitUrl       string
	Country         string
	PriceBandsFile  string
	SessionLimit    int
	CacheTtl        time.Duration

	AdminApiKey        string
	TokenSecret        string
	GoogleClientId     string
	GoogleClientSecret string
	CallbackUrl        string
	AdminEmails        []string
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddress:   ":8080",
		DebugAddress:    ":8081",
		UpstreamTimeout: 10 * time.Second,
		RefreshInterval: 300 * time.Second,
		DataDir:         "data",
		Country:         "se",
		SessionLimit:    10000,
		CacheTtl:        60 * time.Second,
	}
}

type lookupFunc func(string) (string, bool)

// Load reads a .env file when one exists and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		log.Printf("Loaded environment from %s", f)
	}
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup lookupFunc) (*Config, error) {
	cfg := DefaultConfig()
	str := func(key string, target *string) {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}
	var err error
	num := func(key string, target *int) {
		v, ok := lookup(key)
		if !ok || v == "" || err != nil {
			return
		}
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			err = fmt.Errorf("%s: %w", key, convErr)
			return
		}
		*target = n
	}
	seconds := func(key string, target *time.Duration) {
		n := int(*target / time.Second)
		num(key, &n)
		*target = time.Duration(n) * time.Second
	}

	str("LISTEN_ADDRESS", &cfg.ListenAddress)
	str("DEBUG_ADDRESS", &cfg.DebugAddress)
	str("UPSTREAM_URL", &cfg.UpstreamUrl)
	seconds("UPSTREAM_TIMEOUT", &cfg.UpstreamTimeout)
	seconds("REFRESH_INTERVAL", &cfg.RefreshInterval)
	str("DATA_DIR", &cfg.DataDir)
	str("REDIS_URL", &cfg.RedisUrl)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("RABBIT_URL", &cfg.RabbitUrl)
	str("COUNTRY", &cfg.Country)
	str("PRICE_BANDS_FILE", &cfg.PriceBandsFile)
	num("SESSION_LIMIT", &cfg.SessionLimit)
	seconds("CACHE_TTL", &cfg.CacheTtl)
	str("ADMIN_API_KEY", &cfg.AdminApiKey)
	str("TOKEN_SECRET", &cfg.TokenSecret)
	str("GOOGLE_CLIENT_ID", &cfg.GoogleClientId)
	str("GOOGLE_CLIENT_SECRET", &cfg.GoogleClientSecret)
	str("CALLBACK_URL", &cfg.CallbackUrl)
	if v, ok := lookup("ADMIN_EMAILS"); ok {
		for _, email := range strings.Split(v, ",") {
			if email = strings.TrimSpace(email); email != "" {
				cfg.AdminEmails = append(cfg.AdminEmails, email)
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.UpstreamUrl == "" {
		return fmt.Errorf("UPSTREAM_URL cannot be empty")
	}
	parsed, err := url.Parse(c.UpstreamUrl)
	if err != nil {
		return fmt.Errorf("invalid upstream url: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("upstream url must include a host")
	}
	if c.ListenAddress == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval cannot be negative")
	}
	if c.SessionLimit <= 0 {
		return fmt.Errorf("session limit must be positive")
	}
	if c.CacheTtl <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir cannot be empty")
	}
	if c.HasGoogleAuth() && c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required when google login is configured")
	}
	if c.HasGoogleAuth() && len(c.AdminEmails) == 0 {
		return fmt.Errorf("ADMIN_EMAILS is required when google login is configured")
	}
	return nil
}

// HasGoogleAuth is true when the admin login can use google.
func (c *Config) HasGoogleAuth() bool {
	return c.GoogleClientId != "" && c.GoogleClientSecret != "" && c.CallbackUrl != ""
}
