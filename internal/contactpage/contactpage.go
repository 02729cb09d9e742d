// Package contactpage is the page object for the contact form: it turns
// semantic actions (fill the required fields, pick a budget, submit) into
// rod interactions against fixed selectors.
//
// Every method returns the underlying rod error wrapped with context. No
// action is retried.
package contactpage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/contactcheck/internal/config"
	"github.com/v0xg/contactcheck/internal/console"
)

const (
	DefaultFirstName = "Test"
	DefaultLastName  = "Test"
	DefaultEmail     = "test.test@example.com"
	DefaultHearAbout = "Google"
	DefaultBudget    = "Up to €50.000"

	settleAfterNavigate = 500 * time.Millisecond
	settleAfterCookies  = time.Second
	defaultCookieWait   = 5 * time.Second
)

var (
	ErrNotFound        = errors.New("element not found")
	ErrOptionNotFound  = errors.New("dropdown option not found")
	ErrServiceNotFound = errors.New("service label not found")
)

// StepObserver is notified after each completed interaction. target is the
// element acted on, or nil for page-level steps.
type StepObserver interface {
	Step(name string, target *rod.Element)
}

// OptionalFields are skipped when empty.
type OptionalFields struct {
	Phone          string
	Company        string
	ProjectDetails string
}

type ContactPage struct {
	page       *rod.Page
	url        string
	sel        Selectors
	timeout    time.Duration
	cookieWait time.Duration
	log        console.Logger
	observer   StepObserver
}

type Option func(*ContactPage)

func WithURL(url string) Option { return func(p *ContactPage) { p.url = url } }

func WithSelectors(s Selectors) Option { return func(p *ContactPage) { p.sel = s } }

func WithTimeout(d time.Duration) Option { return func(p *ContactPage) { p.timeout = d } }

func WithCookieWait(d time.Duration) Option { return func(p *ContactPage) { p.cookieWait = d } }

func WithLogger(l console.Logger) Option { return func(p *ContactPage) { p.log = l } }

func WithObserver(o StepObserver) Option { return func(p *ContactPage) { p.observer = o } }

func New(page *rod.Page, opts ...Option) *ContactPage {
	p := &ContactPage{
		page:       page,
		url:        config.DefaultContactURL,
		sel:        DefaultSelectors(),
		timeout:    10 * time.Second,
		cookieWait: defaultCookieWait,
		log:        console.NullLogger(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *ContactPage) Page() *rod.Page      { return p.page }
func (p *ContactPage) URLString() string    { return p.url }
func (p *ContactPage) Selectors() Selectors { return p.sel }

// URL returns the address the page is currently showing.
func (p *ContactPage) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("read page URL: %w", err)
	}
	return info.URL, nil
}

// Navigate loads the contact page and dismisses the cookie banner if it shows up.
func (p *ContactPage) Navigate() error {
	if err := p.page.Timeout(p.timeout).Navigate(p.url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", p.url, err)
	}
	if err := p.page.Timeout(p.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("page %s did not load: %w", p.url, err)
	}
	time.Sleep(settleAfterNavigate)
	p.notify("navigate", nil)
	p.HandleCookieConsent(p.cookieWait)
	return nil
}

// HandleCookieConsent clicks "Accept All" on the cookie banner if it becomes
// visible within timeout. It never fails; the result says whether the banner
// was handled.
func (p *ContactPage) HandleCookieConsent(timeout time.Duration) bool {
	el, err := p.page.Timeout(timeout).Element(p.sel.CookieAccept.CSS)
	if err != nil {
		p.log.Println("No cookie consent popup found")
		return false
	}
	if err := el.WaitVisible(); err != nil {
		p.log.Println("No cookie consent popup found")
		return false
	}
	p.log.Println("Cookie consent popup detected - clicking Accept All")
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		p.log.Printf("Cookie consent handling failed: %v", err)
		return false
	}
	time.Sleep(settleAfterCookies)
	p.notify("accept cookies", el)
	return true
}

func (p *ContactPage) FillRequiredFields(first, last, email string) error {
	for _, f := range []struct {
		loc   Locator
		value string
	}{
		{p.sel.FirstName, first},
		{p.sel.LastName, last},
		{p.sel.Email, email},
	} {
		if err := p.Fill(f.loc, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (p *ContactPage) FillOptionalFields(f OptionalFields) error {
	for _, o := range []struct {
		loc   Locator
		value string
	}{
		{p.sel.Phone, f.Phone},
		{p.sel.Company, f.Company},
		{p.sel.ProjectDetails, f.ProjectDetails},
	} {
		if o.value == "" {
			continue
		}
		if err := p.Fill(o.loc, o.value); err != nil {
			return err
		}
	}
	return nil
}

// Fill replaces the content of a text input or textarea. An empty value
// clears the field.
func (p *ContactPage) Fill(loc Locator, value string) error {
	el, err := p.element(loc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text in %s: %w", loc, err)
	}
	if value == "" {
		err = el.Type(input.Backspace)
	} else {
		err = el.Input(value)
	}
	if err != nil {
		return fmt.Errorf("fill %s: %w", loc, err)
	}
	p.notify("fill "+loc.CSS, el)
	return nil
}

// InputValue reads the current value property of a form field.
func (p *ContactPage) InputValue(loc Locator) (string, error) {
	el, err := p.element(loc)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", loc, err)
	}
	return v.Str(), nil
}

func (p *ContactPage) CheckConsent() error {
	return p.check(p.sel.Consent)
}

func (p *ContactPage) SelectHearAbout(value string) error {
	return p.selectChosen(p.sel.HearAboutTrigger, p.sel.HearAboutOption(value))
}

func (p *ContactPage) SelectBudget(value string) error {
	return p.selectChosen(p.sel.BudgetTrigger, p.sel.BudgetOption(value))
}

// CheckServiceByName clicks the label of each named service. The first
// missing label stops the loop.
func (p *ContactPage) CheckServiceByName(services ...string) error {
	for _, service := range services {
		loc := p.sel.ServiceLabel(service)
		label, err := p.byText(loc)
		if err != nil {
			return err
		}
		if label == nil {
			return fmt.Errorf("label for service %q: %w", service, ErrServiceNotFound)
		}
		if err := label.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("click service %q: %w", service, err)
		}
		p.notify("check service "+service, label)
	}
	return nil
}

// ServiceChecked resolves the checkbox a service label points at through
// its for attribute and reports whether it is checked.
func (p *ContactPage) ServiceChecked(service string) (bool, error) {
	label, err := p.byText(p.sel.ServiceLabel(service))
	if err != nil {
		return false, err
	}
	if label == nil {
		return false, fmt.Errorf("label for service %q: %w", service, ErrServiceNotFound)
	}
	forID, err := label.Attribute("for")
	if err != nil {
		return false, fmt.Errorf("read for attribute of %q: %w", service, err)
	}
	if forID == nil || *forID == "" {
		return false, fmt.Errorf("label for service %q has no for attribute: %w", service, ErrNotFound)
	}
	return p.IsChecked(Locator{CSS: "input#" + *forID})
}

func (p *ContactPage) IsChecked(loc Locator) (bool, error) {
	el, err := p.element(loc)
	if err != nil {
		return false, err
	}
	v, err := el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("read checked state of %s: %w", loc, err)
	}
	return v.Bool(), nil
}

func (p *ContactPage) IsVisible(loc Locator) (bool, error) {
	el, err := p.element(loc)
	if err != nil {
		return false, err
	}
	return el.Visible()
}

// Attribute returns the named attribute, or nil when the element lacks it.
func (p *ContactPage) Attribute(loc Locator, name string) (*string, error) {
	el, err := p.element(loc)
	if err != nil {
		return nil, err
	}
	return el.Attribute(name)
}

func (p *ContactPage) Submit() error {
	return p.click(p.sel.Submit, "submit")
}

func (p *ContactPage) check(loc Locator) error {
	checked, err := p.IsChecked(loc)
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return p.click(loc, "check "+loc.CSS)
}

func (p *ContactPage) click(loc Locator, step string) error {
	el, err := p.element(loc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	p.notify(step, el)
	return nil
}

func (p *ContactPage) selectChosen(trigger, option Locator) error {
	if err := p.click(trigger, "open "+trigger.CSS); err != nil {
		return err
	}
	// the option list renders on open; wait for it before matching text
	if _, err := p.page.Timeout(p.timeout).Element(option.CSS); err != nil {
		return fmt.Errorf("option list %s: %w", option.CSS, err)
	}
	el, err := p.byText(option)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("%q in %s: %w", option.Text, option.CSS, ErrOptionNotFound)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click option %q: %w", option.Text, err)
	}
	p.notify("select "+option.Text, el)
	return nil
}

// element waits up to the page timeout for loc to appear. The returned
// element keeps that deadline, so actions on it are bounded too.
func (p *ContactPage) element(loc Locator) (*rod.Element, error) {
	if loc.Text != "" {
		if _, err := p.page.Timeout(p.timeout).Element(loc.CSS); err != nil {
			return nil, fmt.Errorf("%s: %w", loc, err)
		}
		el, err := p.byText(loc)
		if err != nil {
			return nil, err
		}
		if el == nil {
			return nil, fmt.Errorf("%s: %w", loc, ErrNotFound)
		}
		return el, nil
	}
	el, err := p.page.Timeout(p.timeout).Element(loc.CSS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	return el, nil
}

// byText returns the first element currently matching loc.CSS whose text
// contains loc.Text, ignoring case. It does not wait for matches; nil means
// no match. Found elements carry the page timeout.
func (p *ContactPage) byText(loc Locator) (*rod.Element, error) {
	els, err := p.page.Timeout(p.timeout).Elements(loc.CSS)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc.CSS, err)
	}
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("read text of %s: %w", loc.CSS, err)
		}
		if ContainsText(text, loc.Text) {
			return el, nil
		}
	}
	return nil, nil
}

// ContainsText reports whether want occurs in text, ignoring case and
// collapsing whitespace runs the way rendered text does.
func ContainsText(text, want string) bool {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return strings.Contains(norm(text), norm(want))
}

func (p *ContactPage) notify(step string, el *rod.Element) {
	if p.observer != nil {
		p.observer.Step(step, el)
	}
}
