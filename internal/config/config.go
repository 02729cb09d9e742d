// Package config holds the settings shared by the CLI and the e2e suite.
//
// Values are layered: built-in defaults, then an optional yaml file, then
// CONTACTCHECK_* environment variables (a .env file is loaded first if
// present). The CLI applies its flags on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

const (
	DefaultContactURL = "https://wearenotch.com/contact/"
	DefaultSiteDomain = "wearenotch.com"
	DefaultFile       = "contactcheck.yaml"

	envPrefix = "CONTACTCHECK_"
)

// Target selects which site the suite drives.
type Target string

const (
	TargetLive    Target = "live"
	TargetFixture Target = "fixture"
)

type Config struct {
	ContactURL string `yaml:"contactURL"`
	SiteDomain string `yaml:"siteDomain"`
	Target     Target `yaml:"target"`

	// RouteInterception makes submissions hit a fabricated response instead
	// of the real backend.
	RouteInterception bool          `yaml:"routeInterception"`
	MockDelay         time.Duration `yaml:"mockDelay"`

	// VerifyTimeout bounds the wait for the thank-you redirect.
	VerifyTimeout time.Duration `yaml:"verifyTimeout"`

	Browser BrowserConfig `yaml:"browser"`

	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	Verbose bool `yaml:"verbose"`
}

type BrowserConfig struct {
	Headless          bool          `yaml:"headless"`
	Width             int           `yaml:"width"`
	Height            int           `yaml:"height"`
	IgnoreHTTPSErrors bool          `yaml:"ignoreHTTPSErrors"`
	DefaultTimeout    time.Duration `yaml:"defaultTimeout"`
	ProfileDir        string        `yaml:"profileDir"`
	Bin               string        `yaml:"bin"`
}

func Default() Config {
	return Config{
		ContactURL:    DefaultContactURL,
		SiteDomain:    DefaultSiteDomain,
		Target:        TargetLive,
		MockDelay:     time.Second,
		VerifyTimeout: 5 * time.Second,
		Browser: BrowserConfig{
			Headless:          true,
			Width:             1280,
			Height:            720,
			IgnoreHTTPSErrors: true,
			DefaultTimeout:    10 * time.Second,
		},
		Provider: "claude",
	}
}

// Load builds a Config from defaults, the yaml file at path and the
// environment. A missing file is only an error when path was given
// explicitly (explicit == true).
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = b
		return nil
	}
	duration := func(name string, dst *time.Duration) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("CONTACT_URL", &c.ContactURL)
	str("SITE_DOMAIN", &c.SiteDomain)
	str("PROVIDER", &c.Provider)
	str("MODEL", &c.Model)
	str("PROFILE", &c.Browser.ProfileDir)
	str("BROWSER_BIN", &c.Browser.Bin)
	var target string
	str("TARGET", &target)
	if target != "" {
		c.Target = Target(target)
	}

	for name, dst := range map[string]*bool{
		"ROUTE_INTERCEPTION": &c.RouteInterception,
		"HEADLESS":           &c.Browser.Headless,
		"VERBOSE":            &c.Verbose,
	} {
		if err := boolean(name, dst); err != nil {
			return err
		}
	}
	for name, dst := range map[string]*time.Duration{
		"MOCK_DELAY":      &c.MockDelay,
		"VERIFY_TIMEOUT":  &c.VerifyTimeout,
		"DEFAULT_TIMEOUT": &c.Browser.DefaultTimeout,
	} {
		if err := duration(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.ContactURL == "" {
		return errors.New("contact URL is required")
	}
	switch c.Target {
	case TargetLive, TargetFixture:
	default:
		return fmt.Errorf("unknown target %q (supported: live, fixture)", c.Target)
	}
	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Browser.Width, c.Browser.Height)
	}
	if c.MockDelay < 0 {
		return errors.New("mock delay must not be negative")
	}
	return nil
}
