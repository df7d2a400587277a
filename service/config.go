package service

import (
	"os"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Session struct {
		Secret string
	}

	Admin struct {
		Username string
		Password string
	}

	PortalCore PortalCoreConfig
}

// PortalCoreConfig carries the hosted-auth portal settings resolved from
// the environment. Enabled defaults to true and is switched off only by a
// literal "false"; the client-updates feature is opt-in and requires a
// literal "true".
type PortalCoreConfig struct {
	Enabled              bool
	SupabaseURL          string
	SupabaseAnonKey      string
	SiteURL              string
	FeatureClientUpdates bool
}

// Configured reports whether both backend credentials are present.
func (c PortalCoreConfig) Configured() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/portal.db"),
	}

	// Session
	config.Session.Secret = getEnv("SESSION_SECRET", "development-secret")

	// Admin
	config.Admin.Username = getEnv("ADMIN_USERNAME", "admin")
	config.Admin.Password = getEnv("ADMIN_PASSWORD", "password")

	// Portal
	config.PortalCore = LoadPortalCoreConfig(config.BaseURL)

	return config, nil
}

// LoadPortalCoreConfig resolves the portal settings from the environment.
// The site URL used in magic-link redirects falls back to the server's own
// base URL when SITE_URL is unset.
func LoadPortalCoreConfig(defaultSiteURL string) PortalCoreConfig {
	return PortalCoreConfig{
		Enabled:              os.Getenv("FEATURE_PORTAL_CORE") != "false",
		SupabaseURL:          os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:      os.Getenv("SUPABASE_ANON_KEY"),
		SiteURL:              getEnv("SITE_URL", defaultSiteURL),
		FeatureClientUpdates: os.Getenv("FEATURE_CLIENT_UPDATES") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
