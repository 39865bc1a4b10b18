package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet(t *testing.T) {
	set, err := NewSet("en", "en", "ru")
	require.NoError(t, err)
	assert.Equal(t, English, set.Default())
	assert.Equal(t, []Locale{English, Russian}, set.Locales())

	_, err = NewSet("de", "en", "ru")
	assert.Error(t, err)

	_, err = NewSet("en", "en", "en")
	assert.Error(t, err)

	_, err = NewSet("en")
	assert.Error(t, err)

	_, err = NewSet("en", "en", "not a tag!")
	assert.Error(t, err)
}

func TestSetParse(t *testing.T) {
	cases := map[string]struct {
		want Locale
		ok   bool
	}{
		"en":    {English, true},
		"RU":    {Russian, true},
		"ru-RU": {Russian, true},
		"de":    {"", false},
		"":      {"", false},
	}
	for in, tc := range cases {
		got, ok := DefaultSet.Parse(in)
		assert.Equal(t, tc.ok, ok, in)
		assert.Equal(t, tc.want, got, in)
	}
}

func TestSetMatch(t *testing.T) {
	assert.Equal(t, Russian, DefaultSet.Match("ru-RU,ru;q=0.9,en;q=0.8"))
	assert.Equal(t, English, DefaultSet.Match("en-US,en;q=0.9"))
	assert.Equal(t, English, DefaultSet.Match("fr-FR"))
	assert.Equal(t, English, DefaultSet.Match(""))
}

func TestSetAlternates(t *testing.T) {
	assert.Equal(t, []Locale{Russian}, DefaultSet.Alternates(English))
	assert.Equal(t, []Locale{English}, DefaultSet.Alternates(Russian))
}
