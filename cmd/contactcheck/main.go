package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/v0xg/contactcheck/internal/config"
	"github.com/v0xg/contactcheck/internal/console"
	"github.com/v0xg/contactcheck/internal/sitefixture"
)

var (
	configPath string
	contactURL string
	mock       bool
	headless   bool
	verbose    bool
	timeout    time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contactcheck",
		Short: "Drive the wearenotch.com contact form and check the outcome",
		Long: `contactcheck opens the contact form in Chrome, fills and submits it, and
verifies where the browser ends up. Submissions can be answered by a
fabricated response instead of reaching the real backend (--mock).

Examples:
  contactcheck selectors --suggest
  contactcheck submit --mock --complete --record run.gif`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultFile+" if present)")
	pf.StringVar(&contactURL, "url", "", "Contact page URL override")
	pf.BoolVar(&mock, "mock", false, "Intercept form submissions with a fabricated response")
	pf.BoolVar(&headless, "headless", true, "Run Chrome without a window")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	pf.DurationVar(&timeout, "timeout", 0, "Per-operation browser timeout (default from config)")

	rootCmd.AddCommand(selectorsCmd(), submitCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig layers the flags the user actually set over the file and
// environment configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath, configPath != "")
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.ContactURL = contactURL
	}
	if flags.Changed("mock") {
		cfg.RouteInterception = mock
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("timeout") {
		cfg.Browser.DefaultTimeout = timeout
	}
	return cfg, cfg.Validate()
}

// startTarget starts the local replica when the fixture target is selected
// and points cfg at it. The returned func stops it.
func startTarget(cfg *config.Config, con *console.Console) (func(), error) {
	if cfg.Target != config.TargetFixture {
		return func() {}, nil
	}

	srv := sitefixture.NewServer(sitefixture.DefaultConfig(), console.WithPrefix(con, "[fixture] "))
	addr, err := srv.Start()
	if err != nil {
		return nil, fmt.Errorf("start fixture site: %w", err)
	}
	cfg.ContactURL = srv.ContactURL()
	if u, err := url.Parse(cfg.ContactURL); err == nil {
		cfg.SiteDomain = u.Hostname()
	}
	con.Debugf("Fixture site listening on %s", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
