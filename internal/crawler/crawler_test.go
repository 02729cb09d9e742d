package crawler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissing(t *testing.T) {
	results := []AuditResult{
		{Name: "consent", CSS: "#input_2_16_1", Found: true, Count: 1},
		{Name: "email", CSS: `input[name="input_17"]`, Found: false},
		{Name: "submit", CSS: "#gform_submit_button_2", Found: false},
	}
	assert.Equal(t, map[string]string{
		"email":  `input[name="input_17"]`,
		"submit": "#gform_submit_button_2",
	}, Missing(results))

	assert.Empty(t, Missing(results[:1]))
}

func TestOptionsFor(t *testing.T) {
	pm := &PageMap{Dropdowns: []Dropdown{
		{Container: "#input_2_9_chosen", Options: []string{"Google", "Clutch"}},
		{Container: "#input_2_12_chosen", Options: []string{"Over €250.000"}},
	}}
	assert.Equal(t, []string{"Over €250.000"}, pm.OptionsFor("#input_2_12_chosen"))
	assert.Nil(t, pm.OptionsFor("#nope"))
}

func TestPageMapJSONOmitsEmptyText(t *testing.T) {
	data, err := json.Marshal(Element{Selector: "#gform_submit_button_2", Type: "submit"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"selector":"#gform_submit_button_2","type":"submit"}`, string(data))
}
