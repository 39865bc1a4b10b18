package i18n

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Locale is a supported content language, e.g. "en".
type Locale string

const (
	English Locale = "en"
	Russian Locale = "ru"
)

func (l Locale) String() string {
	return string(l)
}

// Set is the ordered list of locales a site serves plus its default.
type Set struct {
	locales []Locale
	def     Locale
	matcher language.Matcher
}

// DefaultSet is en + ru with en as the default.
var DefaultSet = MustNewSet(string(English), string(English), string(Russian))

// NewSet validates the locale codes as BCP 47 tags and builds a Set.
func NewSet(def string, locales ...string) (Set, error) {
	if len(locales) == 0 {
		return Set{}, errors.New("at least one locale is required")
	}

	set := Set{}
	tags := make([]language.Tag, 0, len(locales))
	seen := make(map[Locale]bool, len(locales))
	for _, code := range locales {
		code = strings.ToLower(strings.TrimSpace(code))
		tag, err := language.Parse(code)
		if err != nil {
			return Set{}, errors.Wrapf(err, "invalid locale %q", code)
		}
		loc := Locale(code)
		if seen[loc] {
			return Set{}, errors.Errorf("duplicate locale %q", code)
		}
		seen[loc] = true
		set.locales = append(set.locales, loc)
		tags = append(tags, tag)
	}

	def = strings.ToLower(strings.TrimSpace(def))
	if !seen[Locale(def)] {
		return Set{}, errors.Errorf("default locale %q is not in %v", def, locales)
	}
	set.def = Locale(def)

	// The matcher prefers its first tag, so the default goes first.
	ordered := []language.Tag{language.Make(def)}
	for _, tag := range tags {
		if tag.String() != def {
			ordered = append(ordered, tag)
		}
	}
	set.matcher = language.NewMatcher(ordered)

	return set, nil
}

func MustNewSet(def string, locales ...string) Set {
	set, err := NewSet(def, locales...)
	if err != nil {
		panic(err)
	}
	return set
}

func (s Set) Default() Locale {
	return s.def
}

// Locales returns a copy of the supported locales in configured order.
func (s Set) Locales() []Locale {
	out := make([]Locale, len(s.locales))
	copy(out, s.locales)
	return out
}

// Contains reports whether code is exactly one of the supported locales.
func (s Set) Contains(code string) bool {
	for _, l := range s.locales {
		if string(l) == code {
			return true
		}
	}
	return false
}

// Parse resolves a loosely written language value ("RU", "ru-RU") to a
// supported locale by its base language.
func (s Set) Parse(value string) (Locale, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if s.Contains(base.String()) {
		return Locale(base.String()), true
	}
	return "", false
}

// Match picks the best supported locale for an Accept-Language header,
// falling back to the default.
func (s Set) Match(acceptLanguage string) Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.def
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.def
	}
	if idx == 0 {
		return s.def
	}
	// idx is into the default-first ordering.
	n := 0
	for _, l := range s.locales {
		if l == s.def {
			continue
		}
		n++
		if n == idx {
			return l
		}
	}
	return s.def
}

// Alternates returns every supported locale except l.
func (s Set) Alternates(l Locale) []Locale {
	out := make([]Locale, 0, len(s.locales))
	for _, other := range s.locales {
		if other != l {
			out = append(out, other)
		}
	}
	return out
}
