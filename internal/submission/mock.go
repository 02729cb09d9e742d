// Package submission decouples the suite from the real form backend. It can
// intercept the form's submission requests and answer them with a canned
// response, and it verifies what the page looks like after a submit.
//
// Whether interception is on is passed in explicitly by the caller (see
// config.Config.RouteInterception); nothing in this package keeps global state.
package submission

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/v0xg/contactcheck/internal/console"
)

const (
	successMessage = "Thank you! Your message has been sent."
	failureMessage = "There was an error sending your message."
)

// RoutePatterns are the URL globs a mock intercepts: the WordPress ajax
// endpoint and generic contact/submit/send handlers. '*' matches any run of
// characters, '/' included.
var RoutePatterns = []string{
	"*/wp-admin/admin-ajax.php",
	"*/contact/*",
	"*/submit/*",
	"*/send/*",
}

var routeRegexps = compilePatterns(RoutePatterns)

// MockOptions parameterizes the fabricated response.
type MockOptions struct {
	Success bool
	// Delay simulates server response time before the response is sent.
	Delay time.Duration
}

// MockBody is the JSON payload of a fabricated response.
type MockBody struct {
	Success bool `json:"success"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
}

// MockResponse is what an intercepted request is fulfilled with.
type MockResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// NewMockResponse builds the canned response: 200 for success, 400 for
// failure, JSON body and a permissive CORS header either way.
func NewMockResponse(success bool) MockResponse {
	var body MockBody
	body.Success = success
	status := http.StatusOK
	body.Data.Message = successMessage
	if !success {
		status = http.StatusBadRequest
		body.Data.Message = failureMessage
	}
	data, _ := json.Marshal(body)

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	return MockResponse{Status: status, Headers: h, Body: data}
}

// Mock is an active interception on one page. It stops when the page closes
// or when Stop is called.
type Mock struct {
	router *rod.HijackRouter
	opts   MockOptions
	hits   atomic.Int64
	status atomic.Int32
	log    console.Logger
}

// SetupFormSubmissionMock intercepts the page's form submissions when
// interception is enabled. With interception disabled it only logs a notice,
// returns a nil Mock, and real traffic flows unmodified.
func SetupFormSubmissionMock(page *rod.Page, interception bool, opts MockOptions, log console.Logger) (*Mock, error) {
	if log == nil {
		log = console.NullLogger()
	}
	if !interception {
		log.Println("Route interception disabled - using real form submission")
		return nil, nil
	}

	m := &Mock{router: page.HijackRequests(), opts: opts, log: log}
	for _, pattern := range RoutePatterns {
		if err := m.router.Add(pattern, "", m.handle); err != nil {
			return nil, fmt.Errorf("intercept %s: %w", pattern, err)
		}
	}
	go m.router.Run()

	log.Printf("Form submission mocking enabled - success: %v, delay: %dms", opts.Success, opts.Delay.Milliseconds())
	return m, nil
}

func (m *Mock) handle(ctx *rod.Hijack) {
	if m.opts.Delay > 0 {
		time.Sleep(m.opts.Delay)
	}
	resp := NewMockResponse(m.opts.Success)
	m.hits.Add(1)
	m.status.Store(int32(resp.Status))
	m.log.Printf("Fulfilled %s %s with status %d", ctx.Request.Method(), ctx.Request.URL(), resp.Status)

	ctx.Response.Payload().ResponseCode = resp.Status
	for name := range resp.Headers {
		ctx.Response.SetHeader(name, resp.Headers.Get(name))
	}
	ctx.Response.SetBody(resp.Body)
}

// Hits is the number of requests fulfilled so far.
func (m *Mock) Hits() int64 {
	if m == nil {
		return 0
	}
	return m.hits.Load()
}

// LastStatus is the HTTP status of the most recent fulfilled request, or 0
// if none was fulfilled yet.
func (m *Mock) LastStatus() int {
	if m == nil {
		return 0
	}
	return int(m.status.Load())
}

// Stop removes the interception. Safe on a nil Mock.
func (m *Mock) Stop() error {
	if m == nil {
		return nil
	}
	return m.router.Stop()
}

// MatchRoute returns the first route pattern covering url.
func MatchRoute(url string) (string, bool) {
	for i, re := range routeRegexps {
		if re.MatchString(url) {
			return RoutePatterns[i], true
		}
	}
	return "", false
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		parts := strings.Split(p, "*")
		for j := range parts {
			parts[j] = regexp.QuoteMeta(parts[j])
		}
		res[i] = regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
	}
	return res
}
