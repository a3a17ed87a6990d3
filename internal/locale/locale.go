// Package locale resolves the literal UI labels of the automated web apps
// for the language their pages are rendered in.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a UI language with its own label table.
type Locale int

const (
	English Locale = iota
	Japanese

	numLocales
)

var japaneseBase, _ = language.Japanese.Base()

func (l Locale) String() string {
	switch l {
	case English:
		return "en"
	case Japanese:
		return "ja"
	default:
		return fmt.Sprintf("Locale(%d)", int(l))
	}
}

// Detect maps a document language attribute (for example "ja-JP") to a
// Locale. Anything that is not Japanese, including an empty or malformed
// value, falls back to English.
func Detect(lang string) Locale {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return English
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return English
	}
	base, conf := tag.Base()
	if conf != language.No && base == japaneseBase {
		return Japanese
	}
	return English
}

// Parse reads a configured locale override. "auto" and "" report ok=false,
// meaning the locale should be detected from the page.
func Parse(s string) (l Locale, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return English, false, nil
	case "en":
		return English, true, nil
	case "ja":
		return Japanese, true, nil
	default:
		return English, false, fmt.Errorf("unknown locale %q", s)
	}
}
