package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPortalCoreConfig_EnabledFlag(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		wantEnabled bool
	}{
		{name: "unset_defaults_to_enabled", value: "", wantEnabled: true},
		{name: "literal_false_disables", value: "false", wantEnabled: false},
		{name: "literal_true_enables", value: "true", wantEnabled: true},
		{name: "FALSE_is_not_false", value: "FALSE", wantEnabled: true},
		{name: "zero_is_not_false", value: "0", wantEnabled: true},
		{name: "garbage_is_enabled", value: "off", wantEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("FEATURE_PORTAL_CORE", tt.value)
			}
			config := LoadPortalCoreConfig("http://localhost:8000")
			assert.Equal(t, tt.wantEnabled, config.Enabled)
		})
	}
}

func TestLoadPortalCoreConfig_ClientUpdatesFlag(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantFlag bool
	}{
		{name: "unset_defaults_to_off", value: "", wantFlag: false},
		{name: "literal_true_enables", value: "true", wantFlag: true},
		{name: "TRUE_is_not_true", value: "TRUE", wantFlag: false},
		{name: "one_is_not_true", value: "1", wantFlag: false},
		{name: "false_stays_off", value: "false", wantFlag: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("FEATURE_CLIENT_UPDATES", tt.value)
			}
			config := LoadPortalCoreConfig("http://localhost:8000")
			assert.Equal(t, tt.wantFlag, config.FeatureClientUpdates)
		})
	}
}

func TestLoadPortalCoreConfig_Credentials(t *testing.T) {
	t.Run("unconfigured_without_credentials", func(t *testing.T) {
		config := LoadPortalCoreConfig("http://localhost:8000")
		assert.False(t, config.Configured())
	})

	t.Run("one_credential_is_not_configured", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://example.supabase.co")
		config := LoadPortalCoreConfig("http://localhost:8000")
		assert.False(t, config.Configured())
	})

	t.Run("both_credentials_configured", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://example.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon-key")
		config := LoadPortalCoreConfig("http://localhost:8000")
		assert.True(t, config.Configured())
		assert.Equal(t, "https://example.supabase.co", config.SupabaseURL)
		assert.Equal(t, "anon-key", config.SupabaseAnonKey)
	})
}

func TestLoadPortalCoreConfig_SiteURL(t *testing.T) {
	t.Run("falls_back_to_base_url", func(t *testing.T) {
		config := LoadPortalCoreConfig("http://localhost:8000")
		assert.Equal(t, "http://localhost:8000", config.SiteURL)
	})

	t.Run("explicit_site_url_wins", func(t *testing.T) {
		t.Setenv("SITE_URL", "https://portal.example.com")
		config := LoadPortalCoreConfig("http://localhost:8000")
		assert.Equal(t, "https://portal.example.com", config.SiteURL)
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "8000", config.Port)
	assert.Equal(t, "admin", config.Admin.Username)
	assert.NotEmpty(t, config.Session.Secret)
	assert.True(t, config.PortalCore.Enabled)
}
