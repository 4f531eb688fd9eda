package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "RecipeVerse", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "recipeverse-session", cfg.Server.SessionCookie)
	assert.Equal(t, "/generate", cfg.Backend.GeneratePath)
	assert.Equal(t, "/api/user_credits", cfg.Backend.CreditsPath)
	assert.Equal(t, "/stripe/create-checkout-session", cfg.Backend.CheckoutPath)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  environment: production
backend:
  base_url: https://api.recipeverse.test
  credits_path: /api/user-info
  timeout: 5s
`), 0o600))

	t.Setenv("RECIPEVERSE_SERVER_PORT", "9091")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.recipeverse.test", cfg.Backend.BaseURL)
	assert.Equal(t, "/api/user-info", cfg.Backend.CreditsPath)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 9091, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"relative backend url": func(c *Config) { c.Backend.BaseURL = "/api" },
		"zero timeout":         func(c *Config) { c.Backend.Timeout = 0 },
		"bad port":             func(c *Config) { c.Server.Port = 70000 },
		"negative rate":        func(c *Config) { c.Backend.RequestsPerSecond = -1 },
		"sampling above one":   func(c *Config) { c.Monitoring.SamplingRate = 1.5 },
		"no session cookie":    func(c *Config) { c.Server.SessionCookie = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
