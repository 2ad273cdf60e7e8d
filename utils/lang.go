package utils

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const DefaultLang = "en"

var (
	supportedLangs = []language.Tag{language.English, language.Arabic, language.French}
	langMatcher    = language.NewMatcher(supportedLangs)
)

// NormalizeLang maps a BCP 47 tag onto one of en, ar or fr.
func NormalizeLang(s string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	_, idx, conf := langMatcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	base, _ := supportedLangs[idx].Base()
	return base.String(), nil
}

func IsRTL(lang string) bool {
	return lang == "ar"
}

// LanguageName is the English name of a language code, e.g. "Arabic".
func LanguageName(lang string) string {
	name := display.English.Tags().Name(language.Make(lang))
	if name == "" {
		return lang
	}
	return name
}
