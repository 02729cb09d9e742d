// Package crawler extracts the structure of the contact form from a live page
// and audits the page object's selectors against it.
package crawler

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-rod/rod"
	"github.com/v0xg/contactcheck/internal/contactpage"
)

// Map extracts the form's fields, checkboxes, dropdowns and buttons from the
// current page state.
func Map(page *rod.Page) (*PageMap, error) {
	// Wait for network to be idle, bounded so persistent connections can't hang us
	page.Timeout(5 * time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	if err := waitForForm(page, 5*time.Second); err != nil {
		return nil, err
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("read page info: %w", err)
	}

	res, err := page.Eval(extractJS)
	if err != nil {
		return nil, fmt.Errorf("extract form structure: %w", err)
	}
	v := res.Value

	pm := &PageMap{URL: info.URL, Title: info.Title}
	for _, f := range v.Get("fields").Arr() {
		pm.Fields = append(pm.Fields, Element{
			Selector:    f.Get("selector").Str(),
			Type:        f.Get("type").Str(),
			Placeholder: f.Get("placeholder").Str(),
			Name:        f.Get("name").Str(),
			ID:          f.Get("id").Str(),
		})
	}
	for _, b := range v.Get("buttons").Arr() {
		pm.Buttons = append(pm.Buttons, Element{
			Selector: b.Get("selector").Str(),
			Type:     b.Get("type").Str(),
			Text:     b.Get("text").Str(),
			ID:       b.Get("id").Str(),
		})
	}
	for _, c := range v.Get("checkboxes").Arr() {
		pm.Checkboxes = append(pm.Checkboxes, Checkbox{
			Selector: c.Get("selector").Str(),
			Label:    c.Get("label").Str(),
			Checked:  c.Get("checked").Bool(),
		})
	}
	for _, d := range v.Get("dropdowns").Arr() {
		dd := Dropdown{
			Container: d.Get("container").Str(),
			Trigger:   d.Get("trigger").Str(),
		}
		for _, o := range d.Get("options").Arr() {
			dd.Options = append(dd.Options, o.Str())
		}
		pm.Dropdowns = append(pm.Dropdowns, dd)
	}
	return pm, nil
}

// Audit checks every static locator against the page without waiting.
// Results are sorted by name.
func Audit(page *rod.Page, locators map[string]contactpage.Locator) ([]AuditResult, error) {
	results := make([]AuditResult, 0, len(locators))
	for name, loc := range locators {
		els, err := page.Elements(loc.CSS)
		if err != nil {
			return nil, fmt.Errorf("query %s (%s): %w", name, loc.CSS, err)
		}
		results = append(results, AuditResult{
			Name:  name,
			CSS:   loc.CSS,
			Found: len(els) > 0,
			Count: len(els),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// Missing returns name → CSS for the results that matched nothing.
func Missing(results []AuditResult) map[string]string {
	missing := map[string]string{}
	for _, r := range results {
		if !r.Found {
			missing[r.Name] = r.CSS
		}
	}
	return missing
}

// OptionsFor returns the options of the dropdown whose container matches.
func (pm *PageMap) OptionsFor(container string) []string {
	for _, d := range pm.Dropdowns {
		if d.Container == container {
			return d.Options
		}
	}
	return nil
}

// waitForForm polls until at least one visible form control appears or timeout
func waitForForm(page *rod.Page, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	checkInterval := 200 * time.Millisecond

	for time.Now().Before(deadline) {
		res, err := page.Eval(`() => {
			let visible = 0;
			document.querySelectorAll('form input:not([type="hidden"]), form textarea, form [type="submit"]').forEach(el => {
				if (el.offsetParent) visible++;
			});
			return visible;
		}`)
		if err != nil {
			return fmt.Errorf("count form controls: %w", err)
		}
		if res.Value.Int() > 0 {
			return nil
		}
		time.Sleep(checkInterval)
	}
	return fmt.Errorf("no form controls appeared within %s", timeout)
}

const extractJS = `() => {
	// CSS class names can't start with a digit or contain selector syntax
	function isValidIdent(s) {
		if (!s || s.length === 0) return false;
		if (/^[0-9]/.test(s)) return false;
		if (/^-[0-9]/.test(s)) return false;
		if (/[.:#\[\]()>~+*\/\\]/.test(s)) return false;
		return true;
	}

	function getSelector(el) {
		if (el.id && isValidIdent(el.id)) return '#' + el.id;
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
		const parent = el.parentElement;
		if (parent) {
			const index = Array.from(parent.children).indexOf(el) + 1;
			return getSelector(parent) + ' > ' + el.tagName.toLowerCase() + ':nth-child(' + index + ')';
		}
		return el.tagName.toLowerCase();
	}

	function labelFor(el) {
		if (el.id) {
			const l = document.querySelector('label[for="' + el.id + '"]');
			if (l) return l.textContent.trim();
		}
		const wrap = el.closest('label');
		return wrap ? wrap.textContent.trim() : '';
	}

	const out = { fields: [], buttons: [], checkboxes: [], dropdowns: [] };

	document.querySelectorAll('input:not([type="hidden"]):not([type="submit"]):not([type="button"]):not([type="checkbox"]):not([type="radio"]), textarea').forEach(el => {
		if (!el.offsetParent) return;
		out.fields.push({
			selector: getSelector(el),
			type: el.tagName.toLowerCase() === 'textarea' ? 'textarea' : (el.type || 'text'),
			placeholder: el.placeholder || '',
			name: el.name || '',
			id: el.id || ''
		});
	});

	document.querySelectorAll('button, input[type="submit"], input[type="button"]').forEach(el => {
		if (!el.offsetParent) return;
		out.buttons.push({
			selector: getSelector(el),
			type: el.type || 'button',
			text: (el.textContent || el.value || '').trim().slice(0, 50),
			id: el.id || ''
		});
	});

	document.querySelectorAll('input[type="checkbox"]').forEach(el => {
		out.checkboxes.push({
			selector: getSelector(el),
			label: labelFor(el).slice(0, 80),
			checked: el.checked
		});
	});

	document.querySelectorAll('.chosen-container').forEach(c => {
		const options = [];
		c.querySelectorAll('.chosen-results li').forEach(li => options.push(li.textContent.trim()));
		if (options.length === 0) {
			const select = c.previousElementSibling;
			if (select && select.tagName === 'SELECT') {
				Array.from(select.options).forEach(o => { if (o.value) options.push(o.textContent.trim()); });
			}
		}
		out.dropdowns.push({
			container: c.id ? '#' + c.id : getSelector(c),
			trigger: (c.id ? '#' + c.id : getSelector(c)) + ' a.chosen-single',
			options: options
		});
	});

	return out;
}`
