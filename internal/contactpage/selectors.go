package contactpage

import (
	"sort"
)

// Locator describes how to find one element: a CSS selector, optionally
// narrowed to the candidates whose visible text contains Text.
type Locator struct {
	CSS  string
	Text string
}

func (l Locator) String() string {
	if l.Text == "" {
		return l.CSS
	}
	return l.CSS + ` (text "` + l.Text + `")`
}

// LocatorFunc builds a Locator from the text the caller wants to match.
type LocatorFunc func(text string) Locator

// TextIn returns a LocatorFunc matching css elements by text.
func TextIn(css string) LocatorFunc {
	return func(text string) Locator {
		return Locator{CSS: css, Text: text}
	}
}

// Selectors maps every logical field of the contact form to a locator.
type Selectors struct {
	FirstName      Locator
	LastName       Locator
	Email          Locator
	Phone          Locator
	Company        Locator
	ProjectDetails Locator

	// chosen.js dropdowns: a trigger anchor plus an option list
	HearAboutTrigger Locator
	HearAboutOption  LocatorFunc
	BudgetTrigger    Locator
	BudgetOption     LocatorFunc

	ServiceLabel LocatorFunc

	Consent      Locator
	PrivacyLink  Locator
	Submit       Locator
	CookieAccept Locator
}

// DefaultSelectors matches the Gravity Forms markup of the contact page.
func DefaultSelectors() Selectors {
	return Selectors{
		FirstName:      Locator{CSS: `input[name="input_5"]`},
		LastName:       Locator{CSS: `input[name="input_18"]`},
		Email:          Locator{CSS: `input[name="input_17"]`},
		Phone:          Locator{CSS: `input[name="input_8"]`},
		Company:        Locator{CSS: `input[name="input_11"]`},
		ProjectDetails: Locator{CSS: `textarea[name="input_15"]`},

		HearAboutTrigger: Locator{CSS: `#input_2_9_chosen a.chosen-single`},
		HearAboutOption:  TextIn(`#input_2_9_chosen .chosen-results li`),
		BudgetTrigger:    Locator{CSS: `#input_2_12_chosen a.chosen-single`},
		BudgetOption:     TextIn(`#input_2_12_chosen .chosen-results li`),

		ServiceLabel: TextIn(`fieldset#field_2_14 label`),

		Consent:      Locator{CSS: `#input_2_16_1`},
		PrivacyLink:  Locator{CSS: `#field_2_16 > div > label > a`},
		Submit:       Locator{CSS: `#gform_submit_button_2`},
		CookieAccept: Locator{CSS: `button.cky-btn.cky-btn-accept[data-cky-tag="accept-button"]`},
	}
}

// Static returns the locators that do not depend on caller text, keyed by a
// stable logical name.
func (s Selectors) Static() map[string]Locator {
	return map[string]Locator{
		"first_name":         s.FirstName,
		"last_name":          s.LastName,
		"email":              s.Email,
		"phone":              s.Phone,
		"company":            s.Company,
		"project_details":    s.ProjectDetails,
		"hear_about_trigger": s.HearAboutTrigger,
		"budget_trigger":     s.BudgetTrigger,
		"consent":            s.Consent,
		"privacy_link":       s.PrivacyLink,
		"submit":             s.Submit,
		"cookie_accept":      s.CookieAccept,
	}
}

// Names returns the keys of Static in sorted order.
func (s Selectors) Names() []string {
	static := s.Static()
	names := make([]string, 0, len(static))
	for name := range static {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Override replaces static locators by logical name. Unknown names are
// returned so the caller can report them.
func (s *Selectors) Override(css map[string]string) (unknown []string) {
	fields := map[string]*Locator{
		"first_name":         &s.FirstName,
		"last_name":          &s.LastName,
		"email":              &s.Email,
		"phone":              &s.Phone,
		"company":            &s.Company,
		"project_details":    &s.ProjectDetails,
		"hear_about_trigger": &s.HearAboutTrigger,
		"budget_trigger":     &s.BudgetTrigger,
		"consent":            &s.Consent,
		"privacy_link":       &s.PrivacyLink,
		"submit":             &s.Submit,
		"cookie_accept":      &s.CookieAccept,
	}
	for name, sel := range css {
		f, ok := fields[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		*f = Locator{CSS: sel}
	}
	sort.Strings(unknown)
	return unknown
}
