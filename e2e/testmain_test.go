//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/v0xg/contactcheck/internal/browser"
	"github.com/v0xg/contactcheck/internal/config"
	"github.com/v0xg/contactcheck/internal/console"
	"github.com/v0xg/contactcheck/internal/sitefixture"
)

// cfg is loaded once and read by every test.
var cfg config.Config

func TestMain(m *testing.M) {
	path := os.Getenv("CONTACTCHECK_CONFIG")
	var err error
	cfg, err = config.Load(path, path != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	var srv *sitefixture.Server
	if cfg.Target == config.TargetFixture {
		srv = sitefixture.NewServer(sitefixture.DefaultConfig(), console.NullLogger())
		if _, err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "start fixture site: %v\n", err)
			os.Exit(2)
		}
		cfg.ContactURL = srv.ContactURL()
		if u, err := url.Parse(cfg.ContactURL); err == nil {
			cfg.SiteDomain = u.Hostname()
		}
	}

	code := m.Run()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(ctx)
		cancel()
	}

	// catches browsers whose Close never ran
	if n := browser.KillLaunched(); n > 0 {
		fmt.Fprintf(os.Stderr, "killed %d browser(s) left open by tests\n", n)
	}

	os.Exit(code)
}
