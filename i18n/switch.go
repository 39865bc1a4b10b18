package i18n

import (
	"strings"
	"time"
)

// SwitchPath maps the browser-visible path to the same page in target.
// Only non-default locales carry a prefix: "/ru/pricing" <-> "/pricing".
func (s Set) SwitchPath(externalPath string, target Locale) string {
	if externalPath == "" {
		externalPath = "/"
	}

	rest := externalPath
	for _, l := range s.locales {
		if l == s.def {
			continue
		}
		prefix := "/" + string(l)
		if rest == prefix || strings.HasPrefix(rest, prefix+"/") {
			rest = strings.TrimPrefix(rest, prefix)
			break
		}
	}
	if rest == "" {
		rest = "/"
	}

	if target == s.def {
		return rest
	}
	if rest == "/" {
		return "/" + string(target)
	}
	return "/" + string(target) + rest
}

// LocalizedPath prefixes an unprefixed site path for l.
func (s Set) LocalizedPath(l Locale, path string) string {
	return s.SwitchPath(path, l)
}

// Option is one entry of the language selector.
type Option struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

// Options builds the language selector for a page at externalPath.
func (s Set) Options(active Locale, externalPath string) []Option {
	out := make([]Option, 0, len(s.locales))
	for _, l := range s.locales {
		out = append(out, Option{
			Code:   string(l),
			Label:  strings.ToUpper(string(l)),
			Href:   s.SwitchPath(externalPath, l),
			Active: l == active,
		})
	}
	return out
}

var dateLayouts = map[Locale]string{
	English: "1/2/2006",
	Russian: "02.01.2006",
}

// FormatDate renders t the way the locale writes short dates.
func FormatDate(t time.Time, l Locale) string {
	if t.IsZero() {
		return ""
	}
	layout, ok := dateLayouts[l]
	if !ok {
		layout = "2006-01-02"
	}
	return t.Format(layout)
}
