//go:build e2e

package e2e

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/contactcheck/internal/browser"
	"github.com/v0xg/contactcheck/internal/console"
	"github.com/v0xg/contactcheck/internal/contactpage"
	"github.com/v0xg/contactcheck/internal/submission"
)

const verifyTimeout = 3 * time.Second

// testLogger routes page-object and helper output into the test log.
type testLogger struct{ t *testing.T }

func (l testLogger) Println(args ...interface{}) {
	l.t.Helper()
	l.t.Log(args...)
}

func (l testLogger) Printf(message string, args ...interface{}) {
	l.t.Helper()
	l.t.Logf(message, args...)
}

// openContactPage launches a browser, loads the contact page and returns the
// page object. The browser closes when the test ends.
func openContactPage(t *testing.T) (*contactpage.ContactPage, *rod.Page) {
	t.Helper()

	b, err := browser.Launch(cfg.Browser)
	require.NoError(t, err, "failed to launch browser")
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("browser close error: %v", err)
		}
	})

	page, err := b.NewPage()
	require.NoError(t, err)

	cp := contactpage.New(page,
		contactpage.WithURL(cfg.ContactURL),
		contactpage.WithTimeout(b.Timeout()),
		contactpage.WithLogger(testLogger{t}),
	)
	require.NoError(t, cp.Navigate())
	return cp, page
}

// mockSubmission intercepts the form submission if route interception is
// configured; otherwise submissions reach the real backend.
func mockSubmission(t *testing.T, page *rod.Page, success bool) {
	t.Helper()
	mock, err := submission.SetupFormSubmissionMock(page, cfg.RouteInterception,
		submission.MockOptions{Success: success, Delay: 500 * time.Millisecond}, testLogger{t})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mock.Stop() })
}

func verifySubmission(t *testing.T, page *rod.Page, expectSuccess bool) bool {
	t.Helper()
	v := submission.NewVerifier(cfg, testLogger{t})
	return v.VerifyFormSubmission(context.Background(), submission.FromRod(page), expectSuccess, verifyTimeout)
}

// assertOnContactPage checks the browser did not leave the contact page.
func assertOnContactPage(t *testing.T, cp *contactpage.ContactPage) {
	t.Helper()
	current, err := cp.URL()
	require.NoError(t, err)
	assert.True(t, current == cp.URLString() || strings.Contains(current, "contact"),
		"expected to stay on the contact page, got %s", current)
}

// expectedFailure skips tests that document known defects of the live form.
func expectedFailure(t *testing.T) {
	t.Helper()
	if os.Getenv("CONTACTCHECK_EXPECTED_FAILURES") != "1" {
		t.Skip("documents a known defect of the live form; set CONTACTCHECK_EXPECTED_FAILURES=1 to run")
	}
}

var _ console.Logger = testLogger{}
