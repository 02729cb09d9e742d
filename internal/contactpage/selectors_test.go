package contactpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionLocators(t *testing.T) {
	sel := DefaultSelectors()

	assert.Equal(t,
		Locator{CSS: "#input_2_9_chosen .chosen-results li", Text: "Google"},
		sel.HearAboutOption("Google"))
	assert.Equal(t,
		Locator{CSS: "#input_2_12_chosen .chosen-results li", Text: "Up to €50.000"},
		sel.BudgetOption(DefaultBudget))
	assert.Equal(t,
		Locator{CSS: "fieldset#field_2_14 label", Text: "UX/UI Design"},
		sel.ServiceLabel("UX/UI Design"))
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "#gform_submit_button_2", Locator{CSS: "#gform_submit_button_2"}.String())
	assert.Equal(t, `fieldset#field_2_14 label (text "Team Extension")`,
		TextIn("fieldset#field_2_14 label")("Team Extension").String())
}

func TestStaticNamesAreSorted(t *testing.T) {
	sel := DefaultSelectors()
	names := sel.Names()
	assert.Len(t, names, len(sel.Static()))
	assert.IsIncreasing(t, names)
	assert.Equal(t, "#input_2_16_1", sel.Static()["consent"].CSS)
}

func TestOverride(t *testing.T) {
	sel := DefaultSelectors()
	unknown := sel.Override(map[string]string{
		"submit":  "button[type=submit]",
		"email":   "#email",
		"fax":     "#fax",
		"another": "#x",
	})
	assert.Equal(t, []string{"another", "fax"}, unknown)
	assert.Equal(t, Locator{CSS: "button[type=submit]"}, sel.Submit)
	assert.Equal(t, Locator{CSS: "#email"}, sel.Email)
	// builders are untouched
	assert.Equal(t, "fieldset#field_2_14 label", sel.ServiceLabel("x").CSS)
}

func TestContainsText(t *testing.T) {
	assert.True(t, ContainsText("  Custom Software\n  Development ", "custom software development"))
	assert.True(t, ContainsText("Can’t disclose", "Can’t"))
	assert.False(t, ContainsText("Product Discovery", "AI Discovery"))
	assert.True(t, ContainsText("anything", ""))
}
