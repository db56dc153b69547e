package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindNavbar, renderNavbar)
	register(site.KindFooter, renderFooter)
	register(site.KindBreadcrumbs, renderBreadcrumbs)
	register(site.KindSidebarNav, renderSidebarNav)
	register(site.KindMobileMenu, renderMobileMenu)
	register(site.KindScrollToTop, renderScrollToTop)
	register(site.KindLanguageSwitcher, renderLanguageSwitcher)
}

// navLinks returns the explicit links of a navigation component, or one link
// per site page when none are configured.
func (n *node) navLinks(key string) []site.Props {
	if items := n.p.Items(key); len(items) > 0 {
		return items
	}
	out := make([]site.Props, 0, len(n.ctx.Pages))
	for _, p := range n.ctx.Pages {
		title, _, _ := p.Localized(n.ctx.Language)
		out = append(out, site.Props{"label": title, "page": p.Slug})
	}
	return out
}

// linkItems renders <li> entries, marking the current page.
func (n *node) linkItems(items []site.Props, class string) string {
	var b strings.Builder
	for _, it := range items {
		label := itemLabel(it)
		if label == "" {
			continue
		}
		cls := class
		extra := ""
		if slug := it.String("page"); slug != "" && slug == n.ctx.CurrentSlug {
			cls = strings.TrimSpace(cls + " is-active")
			extra = attr("aria-current", "page")
		}
		b.WriteString("<li>" + "<a" + attr("class", cls) + attr("href", orHash(n.href(it))) + extra + ">" + esc(label) + "</a></li>")
	}
	return b.String()
}

func (n *node) homeHref() string {
	for _, p := range n.ctx.Pages {
		if p.IsHomePage {
			return n.ctx.links().PageHref(p.Slug, n.ctx.Language)
		}
	}
	return "/"
}

func orHash(s string) string {
	if s == "" {
		return "#"
	}
	return s
}

func renderNavbar(n *node) string {
	brand := esc(n.p.String("brand"))
	if logo := n.p.String("logo"); logo != "" {
		brand = img(logo, n.p.String("brand"), "sp-logo", false)
	}
	menuID := n.uid("menu")
	var b strings.Builder
	b.WriteString(`<div class="sp-container sp-navbar-inner">`)
	b.WriteString(link(n.homeHref(), "sp-brand", brand, false))
	b.WriteString(`<button class="sp-menu-toggle" type="button" data-menu-toggle` + attr("aria-controls", menuID) + ` aria-expanded="false" aria-label="Toggle menu"><span></span><span></span><span></span></button>`)
	b.WriteString(el("ul", "sp-nav-links", n.linkItems(n.navLinks("links"), "sp-nav-link"), attr("id", menuID), " data-menu"))
	if cta := n.p.Map("cta"); len(cta) > 0 {
		b.WriteString(n.button(cta, "primary"))
	}
	b.WriteString("</div>")
	cls := "sp-navbar"
	if n.p.Bool("sticky") {
		cls += " is-sticky"
	}
	return n.wrap("nav", cls, b.String(), attr("aria-label", "Main"))
}

func renderFooter(n *node) string {
	var b strings.Builder
	b.WriteString(`<div class="sp-container">`)
	if cols := n.p.Items("columns"); len(cols) > 0 {
		b.WriteString(`<div class="sp-footer-columns">`)
		for _, col := range cols {
			b.WriteString(`<div class="sp-footer-column">`)
			b.WriteString(textEl("h4", "", itemLabel(col)))
			b.WriteString(el("ul", "", n.linkItems(col.Items("links"), "")))
			b.WriteString("</div>")
		}
		b.WriteString("</div>")
	}
	if links := n.p.Items("links"); len(links) > 0 {
		b.WriteString(el("ul", "sp-footer-links", n.linkItems(links, "")))
	}
	if socials := n.p.Items("socials"); len(socials) > 0 {
		b.WriteString(socialList(socials))
	}
	text := n.p.StringOr("copyright", n.p.String("text"))
	b.WriteString(textEl("p", "sp-footer-text", text))
	b.WriteString("</div>")
	return n.wrap("footer", "sp-footer", b.String())
}

func renderBreadcrumbs(n *node) string {
	items := n.p.Items("items")
	if len(items) == 0 {
		items = append(items, site.Props{"label": "Home", "href": n.homeHref()})
		if cur := n.ctx.currentPage(); cur != nil && !cur.IsHomePage {
			title, _, _ := cur.Localized(n.ctx.Language)
			items = append(items, site.Props{"label": title})
		}
	}
	var b strings.Builder
	for i, it := range items {
		label := esc(itemLabel(it))
		if i == len(items)-1 {
			b.WriteString(`<li aria-current="page">` + label + "</li>")
			continue
		}
		b.WriteString("<li>" + link(n.href(it), "", label, false) + "</li>")
	}
	return n.wrap("nav", "sp-breadcrumbs", el("ol", "", b.String()), attr("aria-label", "Breadcrumb"))
}

func renderSidebarNav(n *node) string {
	body := textEl("h4", "sp-sidebar-title", n.p.String("title")) +
		el("ul", "", n.linkItems(n.navLinks("links"), "sp-sidebar-link"))
	return n.wrap("aside", "sp-sidebar-nav", body)
}

func renderMobileMenu(n *node) string {
	menuID := n.uid("mobile-menu")
	label := n.p.StringOr("label", "Menu")
	body := `<button class="sp-menu-toggle" type="button" data-menu-toggle` + attr("aria-controls", menuID) + ` aria-expanded="false">` + esc(label) + "</button>" +
		el("ul", "sp-mobile-links", n.linkItems(n.navLinks("links"), ""), attr("id", menuID), " data-menu")
	return n.wrap("div", "sp-mobile-menu", body)
}

func renderScrollToTop(n *node) string {
	label := n.p.StringOr("label", "Back to top")
	return n.wrap("button", "sp-scroll-top", "&#8593;", attr("type", "button"), " data-scroll-top", attr("aria-label", label))
}

func renderLanguageSwitcher(n *node) string {
	cur := n.ctx.currentPage()
	if cur == nil || len(cur.Translations) == 0 {
		return ""
	}
	langs := append([]string{""}, cur.TranslationLanguages()...)
	var b strings.Builder
	for _, lang := range langs {
		code := lang
		if code == "" {
			code = n.ctx.DefaultLanguage
		}
		label := languageLabel(code)
		extra := attr("hreflang", code)
		cls := "sp-lang"
		if lang == n.ctx.Language {
			cls += " is-active"
			extra += attr("aria-current", "true")
		}
		b.WriteString("<li><a" + attr("class", cls) + attr("href", n.ctx.links().PageHref(cur.Slug, lang)) + extra + ">" + esc(label) + "</a></li>")
	}
	return n.wrap("nav", "sp-language-switcher", el("ul", "", b.String()), attr("aria-label", "Language"))
}

// languageLabel renders "fr" as "FR"; unparsable codes fall back to their raw form.
func languageLabel(code string) string {
	if code == "" {
		return "Default"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return cases.Upper(language.Und).String(base.String())
}

func socialList(items []site.Props) string {
	var b strings.Builder
	for _, it := range items {
		network := it.StringOr("network", itemLabel(it))
		href := safeURL(it.StringOr("url", it.String("href")))
		if network == "" || href == "" {
			continue
		}
		b.WriteString("<li>" + link(href, "sp-social sp-social-"+cssIdent(strings.ToLower(network)), esc(network), true) + "</li>")
	}
	return el("ul", "sp-social-links", b.String())
}
