package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contactcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultContactURL, cfg.ContactURL)
	assert.False(t, cfg.RouteInterception)
	assert.Equal(t, 1280, cfg.Browser.Width)
	assert.Equal(t, 720, cfg.Browser.Height)
	assert.Equal(t, 10*time.Second, cfg.Browser.DefaultTimeout)
	assert.True(t, cfg.Browser.IgnoreHTTPSErrors)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingImplicitFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default().ContactURL, cfg.ContactURL)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, `
contactURL: http://localhost:8080/contact/
siteDomain: localhost
routeInterception: true
mockDelay: 250ms
browser:
  headless: false
  width: 800
  height: 600
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/contact/", cfg.ContactURL)
	assert.Equal(t, "localhost", cfg.SiteDomain)
	assert.True(t, cfg.RouteInterception)
	assert.Equal(t, 250*time.Millisecond, cfg.MockDelay)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 800, cfg.Browser.Width)
	// untouched keys keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Browser.DefaultTimeout)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "routeInterception: false\nmockDelay: 2s\n")
	t.Setenv("CONTACTCHECK_ROUTE_INTERCEPTION", "true")
	t.Setenv("CONTACTCHECK_MOCK_DELAY", "50ms")
	t.Setenv("CONTACTCHECK_TARGET", "fixture")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.True(t, cfg.RouteInterception)
	assert.Equal(t, 50*time.Millisecond, cfg.MockDelay)
	assert.Equal(t, TargetFixture, cfg.Target)
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("CONTACTCHECK_HEADLESS", "sometimes")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTACTCHECK_HEADLESS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Target = "staging"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ContactURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Browser.Width = 0
	assert.Error(t, cfg.Validate())
}
