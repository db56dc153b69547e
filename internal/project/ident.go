package project

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

// reserved names are taken by generated modules other than page views.
var reserved = map[string]bool{"App": true, "NotFound": true, "ThemeToggle": true}

// identWords splits s into ASCII alphanumeric words after folding diacritics.
func identWords(s string) []string {
	return strings.FieldsFunc(site.FoldASCII(s), func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func pascal(words []string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ViewName derives a component identifier from a page slug and language:
// "about-us" -> "AboutUsPage", ("about", "pt-BR") -> "AboutPagePtBr",
// "404" -> "View404Page".
func ViewName(slug, lang string) string {
	base := pascal(identWords(slug))
	if base == "" {
		base = "Untitled"
	}
	if base[0] >= '0' && base[0] <= '9' {
		base = "View" + base
	}
	return base + "Page" + pascal(identWords(lang))
}

// viewNamer hands out collision-free view identifiers.
type viewNamer struct {
	used map[string]bool
}

func newViewNamer() *viewNamer {
	used := make(map[string]bool, len(reserved))
	for k := range reserved {
		used[k] = true
	}
	return &viewNamer{used: used}
}

func (n *viewNamer) name(slug, lang string) string {
	base := ViewName(slug, lang)
	name := base
	for i := 2; n.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}
