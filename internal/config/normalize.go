package config

import (
	"fmt"
	"strings"
)

// NormalizationResult collects warnings produced while canonicalizing input.
type NormalizationResult struct {
	Warnings []string
}

// NormalizeConfig case-folds enumerations and canonicalizes list fields.
// Invalid enum values fall back to their documented defaults with a warning;
// they never fail the load.
func NormalizeConfig(cfg *Config) *NormalizationResult {
	res := &NormalizationResult{}

	normalizePolicy("navigation.broken_references", &cfg.Navigation.BrokenReferences, res)
	normalizePolicy("navigation.broken_links", &cfg.Navigation.BrokenLinks, res)
	normalizePolicy("navigation.broken_anchors", &cfg.Navigation.BrokenAnchors, res)

	normalizeLogging(&cfg.Logging, res)

	// Locale order matters (first entry is the default), so only trim.
	cfg.Site.Locales = trimStringSlice(cfg.Site.Locales)
	cfg.Site.HighlightLanguages = normalizeStringSlice("site.highlight_languages", cfg.Site.HighlightLanguages, res)

	if cfg.Site.BaseURL != "" {
		trimmed := strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")
		if trimmed != cfg.Site.BaseURL {
			res.Warnings = append(res.Warnings, warnChanged("site.base_url", cfg.Site.BaseURL, trimmed))
			cfg.Site.BaseURL = trimmed
		}
	}

	if cfg.Site.ColorMode.Default != "" {
		mode := strings.ToLower(strings.TrimSpace(cfg.Site.ColorMode.Default))
		switch mode {
		case "light", "dark", "system":
			cfg.Site.ColorMode.Default = mode
		default:
			res.Warnings = append(res.Warnings, warnUnknown("site.color_mode.default", cfg.Site.ColorMode.Default, "system"))
			cfg.Site.ColorMode.Default = "system"
		}
	}

	return res
}

func normalizePolicy(field string, p *RefPolicy, res *NormalizationResult) {
	if *p == "" {
		return
	}
	if norm := NormalizeRefPolicy(string(*p)); norm != "" {
		if norm != *p {
			res.Warnings = append(res.Warnings, warnChanged(field, *p, norm))
		}
		*p = norm
		return
	}
	res.Warnings = append(res.Warnings, warnUnknown(field, string(*p), string(PolicyWarn)))
	*p = PolicyWarn
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if l.Level != "" {
		if lvl := NormalizeLogLevel(string(l.Level)); lvl != "" {
			l.Level = lvl
		} else {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", string(l.Level), string(LogLevelInfo)))
			l.Level = LogLevelInfo
		}
	}
	if l.Format != "" {
		if f := NormalizeLogFormat(string(l.Format)); f != "" {
			l.Format = f
		} else {
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", string(l.Format), string(LogFormatText)))
			l.Format = LogFormatText
		}
	}
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("%s normalized from %q to %q", field, fmt.Sprint(from), fmt.Sprint(to))
}

func warnUnknown(field, got, fallback string) string {
	return fmt.Sprintf("%s has unknown value %q, using %q", field, got, fallback)
}

// normalizeStringSlice performs trim, dedupe, and sort operations on a string
// slice. Use this for configuration fields that should be canonical.
func normalizeStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	changed := false

	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			changed = true
			continue
		}
		if _, ok := seen[t]; ok {
			changed = true
			continue
		}
		if t != v {
			changed = true
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if changed {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s list (%d -> %d entries)", label, len(in), len(out)))
	}

	if len(out) <= 1 {
		return out
	}
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j-1] > out[j] {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}

	return out
}

// trimStringSlice removes empty entries from a string slice without
// reordering. Use this for order-sensitive fields.
func trimStringSlice(in []string) []string {
	if len(in) == 0 {
		return in
	}

	out := make([]string, 0, len(in))
	for _, p := range in {
		if tp := strings.TrimSpace(p); tp != "" {
			out = append(out, tp)
		}
	}
	return out
}
