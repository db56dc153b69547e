package site

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

// Normalize validates s and returns a normalized deep copy together with
// human-readable warnings for every adjustment made. The input is not modified.
//
// A nil site or a site without pages is a fatal validation error; everything
// else is repaired: slugs are sanitized and made unique, exactly one home page
// is selected, invalid translation language tags are dropped, collection props
// are coerced, and the theme is completed with defaults.
func Normalize(s *Site) (*Site, []string, error) {
	if s == nil {
		return nil, nil, errors.ValidationError("site is nil").WithContext("phase", "load").Build()
	}
	if len(s.Pages) == 0 {
		return nil, nil, errors.ValidationError("site has no pages").
			WithContext("phase", "load").
			WithContext("site", s.Name).
			Build()
	}

	var warnings []string
	warn := func(format string, args ...any) { warnings = append(warnings, fmt.Sprintf(format, args...)) }

	out := &Site{
		Name:            s.Name,
		Slug:            s.Slug,
		DefaultLanguage: s.DefaultLanguage,
		Theme:           s.Theme.WithDefaults(),
		Favicon:         s.Favicon,
		Pages:           make([]Page, 0, len(s.Pages)),
	}
	if out.Name == "" {
		out.Name = "Untitled site"
	}
	if out.DefaultLanguage == "" {
		out.DefaultLanguage = "en"
	} else if tag, err := language.Parse(out.DefaultLanguage); err == nil {
		out.DefaultLanguage = tag.String()
	} else {
		warn("invalid default language %q, using en", out.DefaultLanguage)
		out.DefaultLanguage = "en"
	}

	usedSlugs := map[string]bool{}
	homeIndex := -1
	for i, p := range s.Pages {
		np := Page{
			Title:      p.Title,
			IsHomePage: p.IsHomePage,
			Components: normalizeTree(p.Components),
			SEO:        cloneSEO(p.SEO),
		}
		if np.Title == "" {
			np.Title = fmt.Sprintf("Page %d", i+1)
		}

		slug := Slugify(p.Slug)
		if slug == "" {
			slug = Slugify(np.Title)
		}
		if slug == "" {
			slug = fmt.Sprintf("page-%d", i+1)
		}
		if slug != strings.Trim(p.Slug, "/") {
			warn("page %d: slug %q normalized to %q", i+1, p.Slug, slug)
		}
		base := slug
		for n := 2; usedSlugs[slug]; n++ {
			slug = fmt.Sprintf("%s-%d", base, n)
		}
		if slug != base {
			warn("page %d: duplicate slug %q renamed to %q", i+1, base, slug)
		}
		usedSlugs[slug] = true
		np.Slug = slug

		if np.IsHomePage {
			if homeIndex >= 0 {
				warn("page %q: additional home page flag ignored", slug)
				np.IsHomePage = false
			} else {
				homeIndex = i
			}
		}

		if len(p.Translations) > 0 {
			np.Translations = make(map[string]Translation, len(p.Translations))
			for code, tr := range p.Translations {
				tag, err := language.Parse(code)
				if err != nil {
					warn("page %q: dropping translation with invalid language %q", slug, code)
					continue
				}
				canon := tag.String()
				if canon == out.DefaultLanguage {
					warn("page %q: translation %q duplicates the default language", slug, code)
					continue
				}
				if _, dup := np.Translations[canon]; dup {
					warn("page %q: duplicate translation %q ignored", slug, code)
					continue
				}
				np.Translations[canon] = Translation{
					Title:      tr.Title,
					Components: normalizeTree(tr.Components),
					SEO:        cloneSEO(tr.SEO),
				}
			}
		}
		out.Pages = append(out.Pages, np)
	}
	if homeIndex < 0 {
		warn("no home page flagged, using %q", out.Pages[0].Slug)
		out.Pages[0].IsHomePage = true
	}

	// A page slug equal to a language code would share that language's directory.
	langs := map[string]bool{}
	for _, l := range out.Languages() {
		langs[strings.ToLower(l)] = true
	}
	for i := range out.Pages {
		p := &out.Pages[i]
		if p.IsHomePage || !langs[p.Slug] {
			continue
		}
		slug := p.Slug + "-page"
		for n := 2; usedSlugs[slug]; n++ {
			slug = fmt.Sprintf("%s-page-%d", p.Slug, n)
		}
		warn("page %q: slug collides with a language directory, renamed to %q", p.Slug, slug)
		usedSlugs[slug] = true
		p.Slug = slug
	}
	return out, warnings, nil
}

func normalizeTree(in []Component) []Component {
	if len(in) == 0 {
		return nil
	}
	out := make([]Component, len(in))
	for i, c := range in {
		out[i] = normalizeComponent(c)
	}
	return out
}

func normalizeComponent(c Component) Component {
	nc := Component{
		ID:       c.ID,
		Kind:     Kind(strings.ToLower(strings.TrimSpace(string(c.Kind)))),
		Props:    Props{},
		Children: normalizeTree(c.Children),
		Styles: Styles{
			Desktop: cloneStrings(c.Styles.Desktop),
			Tablet:  cloneStrings(c.Styles.Tablet),
			Mobile:  cloneStrings(c.Styles.Mobile),
		},
		Hidden: c.Hidden,
	}
	for k, v := range c.Props {
		nc.Props[k] = clone(v)
	}
	for _, key := range CollectionProps(nc.Kind) {
		if _, present := nc.Props[key]; present {
			nc.Props[key] = CoerceList(nc.Props[key])
		}
	}
	if c.Animation != nil && c.Animation.Kind != "" {
		a := *c.Animation
		if a.Delay < 0 {
			a.Delay = 0
		}
		switch a.Speed {
		case "slow", "normal", "fast":
		default:
			a.Speed = "normal"
		}
		nc.Animation = &a
	}
	return nc
}

func cloneStrings(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSEO(s *SEO) *SEO {
	if s == nil {
		return nil
	}
	c := *s
	c.Keywords = append([]string(nil), s.Keywords...)
	return &c
}

// Slugify folds diacritics, lowercases and replaces every run of characters
// outside [a-z0-9] with a single hyphen.
func Slugify(s string) string {
	folded := FoldASCII(s)
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// FoldASCII strips combining marks after canonical decomposition ("Café" -> "Cafe").
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
