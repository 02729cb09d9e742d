package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/contactcheck/internal/crawler"
)

var missing = map[string]string{
	"email":  `input[name="input_17"]`,
	"submit": "#gform_submit_button_2",
}

func TestParseSuggestionsPlainJSON(t *testing.T) {
	got, err := parseSuggestionsJSON(`{"email": "#email", "submit": " #send "}`, missing)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "#email", "submit": "#send"}, got)
}

func TestParseSuggestionsSurroundedByText(t *testing.T) {
	resp := "Here you go:\n```json\n{\"email\": \"input[name=\\\"mail}\\\"]\", \"phone\": \"#tel\"}\n```\nGood luck."
	got, err := parseSuggestionsJSON(resp, missing)
	require.NoError(t, err)
	// phone was not asked for; the brace inside the string does not end the object
	assert.Equal(t, map[string]string{"email": `input[name="mail}"]`}, got)
}

func TestParseSuggestionsErrors(t *testing.T) {
	_, err := parseSuggestionsJSON("no idea", missing)
	assert.Error(t, err)

	_, err = parseSuggestionsJSON(`{"email": "#x"`, missing)
	assert.Error(t, err)
}

func TestBuildUserPromptListsMissingSorted(t *testing.T) {
	prompt, err := buildUserPrompt(&crawler.PageMap{URL: "https://wearenotch.com/contact/"}, missing)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"url": "https://wearenotch.com/contact/"`)
	assert.Contains(t, prompt, "- email: input[name=\"input_17\"]\n- submit: #gform_submit_button_2\n")
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("llama", "")
	assert.Error(t, err)
}

func TestNewProviderRequiresKey(t *testing.T) {
	t.Setenv("CONTACTCHECK_ANTHROPIC_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewProvider("claude", "")
	assert.Error(t, err)
}
