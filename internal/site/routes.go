package site

import "strings"

// Variant is one routed document: a page in the default language or one of
// its translations.
type Variant struct {
	Page     *Page
	Language string // "" for the default language
	Route    string // "/", "/about", "/fr", "/fr/about"
}

// Dir is the route without its leading slash ("" for the site root).
func (v Variant) Dir() string { return strings.Trim(v.Route, "/") }

// Title returns the localized page title.
func (v Variant) Title() string {
	title, _, _ := v.Page.Localized(v.Language)
	return title
}

// Components returns the localized component tree.
func (v Variant) Components() []Component {
	_, cs, _ := v.Page.Localized(v.Language)
	return cs
}

// SEO returns the localized SEO metadata, or nil.
func (v Variant) SEO() *SEO {
	_, _, seo := v.Page.Localized(v.Language)
	return seo
}

// Variants lists every routed document in output order: pages in input
// order, each followed by its translations in sorted language order.
func (s *Site) Variants() []Variant {
	var out []Variant
	for i := range s.Pages {
		p := &s.Pages[i]
		out = append(out, Variant{Page: p, Route: pageRoute(p, "")})
		for _, lang := range p.TranslationLanguages() {
			out = append(out, Variant{Page: p, Language: lang, Route: pageRoute(p, lang)})
		}
	}
	return out
}

// RouteFor returns the route of the page with slug in lang. A page without
// a translation for lang falls back to its default-language route; an unknown
// slug yields "/<slug>".
func (s *Site) RouteFor(slug, lang string) string {
	p := s.PageBySlug(slug)
	if p == nil {
		return "/" + strings.Trim(slug, "/")
	}
	if _, ok := p.Translations[lang]; !ok {
		lang = ""
	}
	return pageRoute(p, lang)
}

func pageRoute(p *Page, lang string) string {
	switch {
	case p.IsHomePage && lang == "":
		return "/"
	case p.IsHomePage:
		return "/" + lang
	case lang == "":
		return "/" + p.Slug
	default:
		return "/" + lang + "/" + p.Slug
	}
}
