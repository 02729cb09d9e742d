// Package browser launches the Chrome instance a run drives and owns its
// single page.
package browser

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/contactcheck/internal/config"
)

// ErrNoPage is returned by operations that need Navigate to have run first.
var ErrNoPage = errors.New("no page open, call Navigate first")

// Browser wraps the Rod browser and page for reuse
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     config.BrowserConfig
	release func()
}

// process is the Chrome process behind a launcher.
type process interface {
	Launch() (string, error)
	Kill()
}

var (
	launchedMu sync.Mutex
	launched   = map[process]struct{}{}
)

// Launch starts Chrome with the viewport and certificate settings from cfg.
func Launch(cfg config.BrowserConfig) (*Browser, error) {
	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = 10 * time.Second
	}

	bin := cfg.Bin
	if bin == "" {
		// an empty bin lets rod download a matching Chromium
		bin, _ = launcher.LookPath()
	}
	l := launcher.New().
		Bin(bin).
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")
	if cfg.ProfileDir != "" {
		l = l.UserDataDir(cfg.ProfileDir)
	}

	b, release, err := start(l, connect)
	if err != nil {
		return nil, err
	}
	if cfg.IgnoreHTTPSErrors {
		if err := b.IgnoreCertErrors(true); err != nil {
			_ = b.Close()
			release()
			return nil, fmt.Errorf("failed to ignore certificate errors: %w", err)
		}
	}

	return &Browser{browser: b, cfg: cfg, release: release}, nil
}

func connect(controlURL string) (*rod.Browser, error) {
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, err
	}
	return b, nil
}

// start launches p and connects to it. The process is tracked until the
// returned release func runs; a failed connect kills it right away.
func start(p process, connect func(string) (*rod.Browser, error)) (*rod.Browser, func(), error) {
	u, err := p.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	launchedMu.Lock()
	launched[p] = struct{}{}
	launchedMu.Unlock()

	release := func() {
		p.Kill()
		launchedMu.Lock()
		delete(launched, p)
		launchedMu.Unlock()
	}

	b, err := connect(u)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}
	return b, release, nil
}

// KillLaunched kills every Chrome this process launched that was never
// closed. Browsers started by anything else are left alone.
func KillLaunched() int {
	launchedMu.Lock()
	procs := make([]process, 0, len(launched))
	for p := range launched {
		procs = append(procs, p)
	}
	launched = map[process]struct{}{}
	launchedMu.Unlock()

	for _, p := range procs {
		p.Kill()
	}
	return len(procs)
}

// Navigate opens url in a fresh page sized to the configured viewport.
// Returns the page for further interaction.
func (b *Browser) Navigate(url string) (*rod.Page, error) {
	page, err := b.NewPage()
	if err != nil {
		return nil, err
	}
	if err := page.Timeout(b.cfg.DefaultTimeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.Timeout(b.cfg.DefaultTimeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("page %s did not load: %w", url, err)
	}
	return page, nil
}

// NewPage opens a blank page and makes it the current one. Callers that need
// interception before the first request register it on this page and then
// call Navigate on it themselves.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.Width,
		Height:            b.cfg.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	if b.page != nil {
		_ = b.page.Close()
	}
	b.page = page
	return page, nil
}

// Page returns the current page, or nil if none open.
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Timeout is the per-operation timeout pages are driven with.
func (b *Browser) Timeout() time.Duration {
	return b.cfg.DefaultTimeout
}

// WaitStable waits for the page to be stable (no DOM changes).
func (b *Browser) WaitStable() error {
	if b.page == nil {
		return ErrNoPage
	}
	return b.page.WaitStable(b.cfg.DefaultTimeout)
}

// Close cleans up browser resources.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (b *Browser) Close() error {
	if b.page != nil {
		_ = b.page.Close()
	}
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.release != nil {
		b.release()
		b.release = nil
	}
	return err
}
