package crawler

// PageMap represents the analyzed structure of the contact form page
type PageMap struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Fields     []Element  `json:"fields"`
	Checkboxes []Checkbox `json:"checkboxes"`
	Dropdowns  []Dropdown `json:"dropdowns"`
	Buttons    []Element  `json:"buttons"`
}

// Element represents an interactive element on the page
type Element struct {
	Selector    string `json:"selector"`
	Type        string `json:"type"` // text, email, tel, textarea, submit, button
	Text        string `json:"text,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
}

// Checkbox is a checkbox with the text of the label pointing at it
type Checkbox struct {
	Selector string `json:"selector"`
	Label    string `json:"label"`
	Checked  bool   `json:"checked"`
}

// Dropdown is a chosen.js widget: its trigger and the option texts it offers
type Dropdown struct {
	Container string   `json:"container"`
	Trigger   string   `json:"trigger"`
	Options   []string `json:"options"`
}

// AuditResult tells whether one logical selector matched anything
type AuditResult struct {
	Name  string `json:"name"`
	CSS   string `json:"css"`
	Found bool   `json:"found"`
	Count int    `json:"count"`
}
