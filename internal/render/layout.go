package render

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindSection, renderSection)
	register(site.KindColumns, renderColumns)
	register(site.KindSticky, renderSticky)
	register(site.KindContainer, renderContainer)
	register(site.KindGrid, renderGrid)
	register(site.KindDivider, renderDivider)
	register(site.KindSpacer, renderSpacer)
	register(site.KindAnchor, renderAnchor)
}

// px formats a length property; bare numbers get a px unit.
func px(v string) string {
	v = cssValue(v)
	if v == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v + "px"
	}
	return v
}

func renderSection(n *node) string {
	if bg := n.p.String("background"); bg != "" {
		n.style("background", cssValue(bg))
	}
	if bg := n.p.String("backgroundImage"); bg != "" {
		n.style("background-image", cssURL(bg))
	}
	head := textEl("h2", "sp-section-title", n.p.String("title")) +
		textEl("p", "sp-section-subtitle", n.p.String("subtitle"))
	return n.wrap("section", "sp-section", el("div", "sp-container", head+n.children()))
}

func renderColumns(n *node) string {
	parts := n.childList()
	count := n.p.Int("columns", len(parts))
	if count <= 0 {
		count = 1
	}
	n.style("--sp-cols", strconv.Itoa(count))
	n.style("gap", px(n.p.String("gap")))
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(el("div", "sp-column", part))
	}
	return n.wrap("div", "sp-columns", b.String())
}

func renderSticky(n *node) string {
	n.style("top", px(n.p.StringOr("offset", "0")))
	return n.wrap("div", "sp-sticky", n.children())
}

func renderContainer(n *node) string {
	n.style("max-width", px(n.p.String("maxWidth")))
	n.style("padding", px(n.p.String("padding")))
	return n.wrap("div", "sp-container", n.children())
}

func renderGrid(n *node) string {
	n.style("--sp-cols", strconv.Itoa(max(n.p.Int("columns", 3), 1)))
	n.style("gap", px(n.p.String("gap")))
	return n.wrap("div", "sp-grid", n.children())
}

func renderDivider(n *node) string {
	cls := "sp-divider"
	if style := n.p.String("style"); style != "" {
		cls += " sp-divider-" + cssIdent(style)
	}
	return n.void("hr", cls)
}

func renderSpacer(n *node) string {
	n.style("height", px(n.p.StringOr("height", "40")))
	return n.wrap("div", "sp-spacer", "", attr("aria-hidden", "true"))
}

func renderAnchor(n *node) string {
	name := cssIdent(n.p.StringOr("name", n.p.String("id")))
	if name == "" {
		return ""
	}
	return n.wrap("span", "sp-anchor", "", attr("id", name))
}
