//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/contactcheck/internal/browser"
	"github.com/v0xg/contactcheck/internal/contactpage"
	"github.com/v0xg/contactcheck/internal/sitefixture"
	"github.com/v0xg/contactcheck/internal/submission"
)

// openFixturePage is openContactPage against a replica started for this test
// alone, whatever target is configured.
func openFixturePage(t *testing.T, timeout time.Duration) (*contactpage.ContactPage, *rod.Page, *sitefixture.Server) {
	t.Helper()

	srv := sitefixture.NewServer(sitefixture.DefaultConfig(), testLogger{t})
	_, err := srv.Start()
	require.NoError(t, err, "failed to start fixture site")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})

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
		contactpage.WithURL(srv.ContactURL()),
		contactpage.WithTimeout(timeout),
		contactpage.WithCookieWait(2*time.Second),
		contactpage.WithLogger(testLogger{t}),
	)
	require.NoError(t, cp.Navigate())
	return cp, page, srv
}

// interceptSubmission always intercepts, ignoring the configured toggle.
func interceptSubmission(t *testing.T, page *rod.Page, success bool) *submission.Mock {
	t.Helper()
	mock, err := submission.SetupFormSubmissionMock(page, true,
		submission.MockOptions{Success: success, Delay: 200 * time.Millisecond}, testLogger{t})
	require.NoError(t, err)
	require.NotNil(t, mock)
	t.Cleanup(func() { _ = mock.Stop() })
	return mock
}

func interceptingVerifier(t *testing.T, siteDomain string) *submission.Verifier {
	c := cfg
	c.RouteInterception = true
	c.SiteDomain = siteDomain
	return submission.NewVerifier(c, testLogger{t})
}

func submitRequiredFields(t *testing.T, cp *contactpage.ContactPage) {
	t.Helper()
	require.NoError(t, cp.FillRequiredFields(contactpage.DefaultFirstName, contactpage.DefaultLastName, contactpage.DefaultEmail))
	require.NoError(t, cp.CheckConsent())
	require.NoError(t, cp.Submit())
}

func TestSubmitOnHiddenButtonFailsWithinTimeout(t *testing.T) {
	const timeout = 2 * time.Second
	cp, page, _ := openFixturePage(t, timeout)

	_, err := page.Eval(`() => { document.querySelector('#gform_submit_button_2').style.visibility = 'hidden' }`)
	require.NoError(t, err)

	start := time.Now()
	err = cp.Submit()
	elapsed := time.Since(start)

	require.Error(t, err, "clicking a hidden submit button must fail")
	assert.Less(t, elapsed, timeout+2*time.Second, "Submit took %s", elapsed)
}

func TestMockedSuccessfulSubmission(t *testing.T) {
	cp, page, srv := openFixturePage(t, 10*time.Second)
	mock := interceptSubmission(t, page, true)

	submitRequiredFields(t, cp)

	v := interceptingVerifier(t, "127.0.0.1")
	assert.True(t, v.VerifyFormSubmission(context.Background(), submission.FromRod(page), true, verifyTimeout))
	assert.Positive(t, mock.Hits())
	assert.Equal(t, http.StatusOK, mock.LastStatus())
	assert.Empty(t, srv.Submissions(), "the mocked submission must not reach the backend")
}

func TestMockedFailedSubmission(t *testing.T) {
	cp, page, srv := openFixturePage(t, 10*time.Second)
	mock := interceptSubmission(t, page, false)

	submitRequiredFields(t, cp)

	// a mocked failure reports false even though the page stayed put
	v := interceptingVerifier(t, "127.0.0.1")
	assert.False(t, v.VerifyFormSubmission(context.Background(), submission.FromRod(page), false, verifyTimeout))
	assertOnContactPage(t, cp)
	assert.Positive(t, mock.Hits())
	assert.Equal(t, http.StatusBadRequest, mock.LastStatus())
	assert.Empty(t, srv.Submissions())
}
