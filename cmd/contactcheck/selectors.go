package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/v0xg/contactcheck/internal/ai"
	"github.com/v0xg/contactcheck/internal/browser"
	"github.com/v0xg/contactcheck/internal/console"
	"github.com/v0xg/contactcheck/internal/contactpage"
	"github.com/v0xg/contactcheck/internal/crawler"
)

var suggest bool

func selectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selectors",
		Short: "Check that every page-object selector still matches the live form",
		Args:  cobra.NoArgs,
		RunE:  runSelectors,
	}
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Ask the AI provider for replacements of missing selectors")
	return cmd
}

func runSelectors(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	con := console.New(cfg.Verbose)

	stopTarget, err := startTarget(&cfg, con)
	if err != nil {
		return err
	}
	defer stopTarget()

	con.Printf("→ Opening %s", cfg.ContactURL)
	b, err := browser.Launch(cfg.Browser)
	if err != nil {
		return err
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		return err
	}
	cp := contactpage.New(page,
		contactpage.WithURL(cfg.ContactURL),
		contactpage.WithTimeout(b.Timeout()),
		contactpage.WithLogger(console.WithPrefix(con, "  ")),
	)
	if err := cp.Navigate(); err != nil {
		return err
	}

	pageMap, err := crawler.Map(page)
	if err != nil {
		return fmt.Errorf("map failed: %w", err)
	}
	con.Printf("→ Found %d fields, %d checkboxes, %d dropdowns", len(pageMap.Fields), len(pageMap.Checkboxes), len(pageMap.Dropdowns))

	sel := cp.Selectors()
	results, err := crawler.Audit(page, sel.Static())
	if err != nil {
		return err
	}
	report(con, results)
	reportDropdown(con, pageMap, "hear about", sel.HearAboutTrigger)
	reportDropdown(con, pageMap, "budget", sel.BudgetTrigger)

	missing := crawler.Missing(results)
	if len(missing) == 0 {
		con.OKf("All %d selectors match", len(results))
		return nil
	}
	if !suggest {
		return fmt.Errorf("%d of %d selectors match nothing", len(missing), len(results))
	}

	con.Printf("→ Asking %s for replacements", cfg.Provider)
	provider, err := ai.NewProvider(cfg.Provider, cfg.Model)
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}
	suggestions, err := provider.SuggestSelectors(cmd.Context(), pageMap, missing)
	if err != nil {
		return fmt.Errorf("selector suggestion failed: %w", err)
	}

	proposed := proposedLocators(sel, missing, suggestions)
	checked, err := crawler.Audit(page, proposed)
	if err != nil {
		return err
	}
	con.Heading("Suggested replacements")
	report(con, checked)

	if still := len(missing) - countFound(checked); still > 0 {
		return fmt.Errorf("%d selectors still unresolved", still)
	}
	return nil
}

// proposedLocators applies the suggestions to sel and returns the resulting
// locators of the names that were missing and got a suggestion.
func proposedLocators(sel contactpage.Selectors, missing, suggestions map[string]string) map[string]contactpage.Locator {
	sel.Override(suggestions)
	static := sel.Static()

	proposed := map[string]contactpage.Locator{}
	for name := range missing {
		if _, ok := suggestions[name]; ok {
			proposed[name] = static[name]
		}
	}
	return proposed
}

func report(con *console.Console, results []crawler.AuditResult) {
	for _, r := range results {
		if r.Found {
			con.OKf("%-18s %s (%d)", r.Name, r.CSS, r.Count)
		} else {
			con.Failf("%-18s %s", r.Name, r.CSS)
		}
	}
}

// reportDropdown lists the options a chosen widget offers in verbose mode.
func reportDropdown(con *console.Console, pm *crawler.PageMap, name string, trigger contactpage.Locator) {
	fields := strings.Fields(trigger.CSS)
	if len(fields) == 0 {
		return
	}
	options := pm.OptionsFor(fields[0])
	if len(options) == 0 {
		console.Warn(con, "No options found for %s dropdown (%s)", name, fields[0])
		return
	}
	sorted := append([]string(nil), options...)
	sort.Strings(sorted)
	con.Debugf("%s options: %s", name, strings.Join(sorted, " | "))
}

func countFound(results []crawler.AuditResult) int {
	n := 0
	for _, r := range results {
		if r.Found {
			n++
		}
	}
	return n
}
