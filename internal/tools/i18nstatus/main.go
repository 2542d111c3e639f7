// Package main reports catalog translation coverage for translators.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/louisbranch/dualidade/internal/platform/config"
	i18ncatalog "github.com/louisbranch/dualidade/internal/platform/i18n/catalog"
)

type report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []localeStatus `json:"locales"`
}

type localeStatus struct {
	Locale      string   `json:"locale"`
	BaseKeys    int      `json:"base_keys"`
	Translated  int      `json:"translated"`
	Completion  float64  `json:"completion"`
	MissingKeys []string `json:"missing_keys"`
	ExtraKeys   []string `json:"extra_keys"`
}

func main() {
	var baseLocale, jsonOut string
	flag.StringVar(&baseLocale, "base-locale", i18ncatalog.BaseLocale, "locale every other catalog is compared against")
	flag.StringVar(&jsonOut, "json-out", "", "optional json output path")
	flag.Parse()

	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		config.Exitf("load i18n catalogs: %v", err)
	}
	if !bundle.HasLocale(baseLocale) {
		config.Exitf("base locale %q is missing from catalogs", baseLocale)
	}

	rep := buildReport(bundle, baseLocale)
	if jsonOut != "" {
		if err := writeJSON(jsonOut, rep); err != nil {
			config.Exitf("write json report: %v", err)
		}
	}
	writeSummary(os.Stdout, rep)
}

func buildReport(bundle *i18ncatalog.Bundle, baseLocale string) report {
	base := bundle.Keys(baseLocale)
	rep := report{BaseLocale: baseLocale}
	for _, locale := range bundle.Locales() {
		keys := bundle.Keys(locale)
		missing := difference(base, keys)
		translated := len(base) - len(missing)
		rep.Locales = append(rep.Locales, localeStatus{
			Locale:      locale,
			BaseKeys:    len(base),
			Translated:  translated,
			Completion:  percent(translated, len(base)),
			MissingKeys: missing,
			ExtraKeys:   difference(keys, base),
		})
	}
	return rep
}

func writeJSON(path string, rep report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeSummary(w io.Writer, rep report) {
	fmt.Fprintf(w, "base locale %s\n", rep.BaseLocale)
	for _, locale := range rep.Locales {
		fmt.Fprintf(w, "%-6s %d/%d (%.1f%%)\n", locale.Locale, locale.Translated, locale.BaseKeys, locale.Completion)
		if len(locale.MissingKeys) > 0 {
			fmt.Fprintf(w, "  missing: %s\n", strings.Join(locale.MissingKeys, ", "))
		}
		if len(locale.ExtraKeys) > 0 {
			fmt.Fprintf(w, "  extra: %s\n", strings.Join(locale.ExtraKeys, ", "))
		}
	}
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b []string) []string {
	out := make([]string, 0)
	for _, key := range a {
		if !slices.Contains(b, key) {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

func percent(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
