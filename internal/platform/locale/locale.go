// Package locale resolves the configured output language and normalises
// learner-supplied text.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// Language is the language generated content must be written in.
type Language struct {
	Tag language.Tag
}

// Parse resolves a BCP 47 tag such as "zh-Hans" or "en".
func Parse(tag string) (Language, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Language{}, fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	return Language{Tag: t}, nil
}

// MustParse is Parse for package-level defaults and tests.
func MustParse(tag string) Language {
	l, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the English name of the language ("Simplified Chinese"),
// which is how prompts refer to it.
func (l Language) Name() string {
	if name := display.English.Tags().Name(l.Tag); name != "" {
		return name
	}
	return l.Tag.String()
}

func (l Language) String() string {
	return l.Tag.String()
}

// Normalize trims surrounding space and puts text into NFC so equal topics
// typed on different keyboards compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
