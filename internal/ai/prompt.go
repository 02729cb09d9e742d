package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/v0xg/contactcheck/internal/crawler"
)

const systemPrompt = `You maintain the selectors of a browser test suite for a web contact form. Some CSS selectors the suite relies on no longer match anything on the page.

You will receive:
1. A page map of the form: its text fields, checkboxes with their label text, custom dropdowns with their options, and buttons, each with a CSS selector that currently works
2. The list of broken selectors, each with a logical name (for example "email" or "submit") and the selector that stopped matching

For every broken selector, pick the element from the page map that plays the same role and answer with its selector.

Guidelines:
- Use only selectors that appear in the provided page map
- Prefer id selectors, then name attributes
- For "*_trigger" names, use the dropdown's trigger selector
- Leave out a name entirely if nothing in the page map fits; never guess

Respond ONLY with a JSON object mapping logical name to selector, no explanation or markdown. Example:
{"email": "input[name=\"input_17\"]", "submit": "#gform_submit_button_2"}`

func buildUserPrompt(pageMap *crawler.PageMap, missing map[string]string) (string, error) {
	pageMapJSON, err := json.MarshalIndent(pageMap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal page map: %w", err)
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Page map:\n")
	b.Write(pageMapJSON)
	b.WriteString("\n\nBroken selectors:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, missing[name])
	}
	return b.String(), nil
}

// parseSuggestionsJSON extracts and parses a JSON object from a response that
// may contain surrounding text. Names that were not asked for are dropped.
func parseSuggestionsJSON(response string, missing map[string]string) (map[string]string, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		start := strings.Index(response, "{")
		if start == -1 {
			return nil, fmt.Errorf("no JSON object found in response")
		}

		// Find matching closing brace, skipping braces inside strings
		depth, end := 0, -1
		inString, escaped := false, false
	scan:
		for i := start; i < len(response); i++ {
			c := response[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\' && inString:
				escaped = true
			case c == '"':
				inString = !inString
			case inString:
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					end = i + 1
					break scan
				}
			}
		}
		if end == -1 {
			return nil, fmt.Errorf("no matching closing brace found")
		}
		if err := json.Unmarshal([]byte(response[start:end]), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
		}
	}

	out := make(map[string]string, len(raw))
	for name, sel := range raw {
		if _, ok := missing[name]; ok && strings.TrimSpace(sel) != "" {
			out[name] = strings.TrimSpace(sel)
		}
	}
	return out, nil
}
