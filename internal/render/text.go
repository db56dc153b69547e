package render

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindHeading, renderHeading)
	register(site.KindParagraph, renderParagraph)
	register(site.KindRichText, renderRichText)
	register(site.KindMarkdown, renderMarkdown)
	register(site.KindQuote, renderQuote)
	register(site.KindList, renderList)
	register(site.KindDefinitionList, renderDefinitionList)
	register(site.KindCodeBlock, renderCodeBlock)
	register(site.KindCustomHTML, renderCustomHTML)
	register(site.KindBadge, renderBadge)
}

func renderHeading(n *node) string {
	level := n.p.Int("level", 2)
	if level < 1 || level > 6 {
		level = 2
	}
	tag := "h" + strconv.Itoa(level)
	cls := "sp-heading"
	if align := n.p.String("align"); align != "" {
		cls += " sp-align-" + cssIdent(align)
	}
	return n.wrap(tag, cls, n.text("text"))
}

func renderParagraph(n *node) string {
	text := n.p.String("text")
	return n.wrap("p", "sp-paragraph", strings.ReplaceAll(esc(text), "\n", "<br>"))
}

// renderRichText passes the "html" property through unescaped.
func renderRichText(n *node) string {
	return n.wrap("div", "sp-rich-text", n.p.StringOr("html", n.p.String("content")))
}

func renderMarkdown(n *node) string {
	return n.wrap("div", "sp-markdown", n.r.markdown(n.p.StringOr("content", n.p.String("text"))))
}

func renderQuote(n *node) string {
	body := el("p", "", n.text("text"))
	if author := n.p.String("author"); author != "" {
		cite := "<cite>" + esc(author)
		if role := n.p.String("role"); role != "" {
			cite += ", " + esc(role)
		}
		body += el("footer", "", cite+"</cite>")
	}
	return n.wrap("blockquote", "sp-quote", body)
}

func renderList(n *node) string {
	tag := "ul"
	if n.p.Bool("ordered") {
		tag = "ol"
	}
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		b.WriteString("<li>" + esc(itemLabel(it)) + "</li>")
	}
	return n.wrap(tag, "sp-list", b.String())
}

func renderDefinitionList(n *node) string {
	var b strings.Builder
	for _, it := range n.p.Items("items") {
		b.WriteString(textEl("dt", "", it.StringOr("term", it.String("title"))))
		b.WriteString(textEl("dd", "", it.StringOr("definition", it.String("description"))))
	}
	return n.wrap("dl", "sp-definition-list", b.String())
}

func renderCodeBlock(n *node) string {
	lang := cssIdent(n.p.String("language"))
	class := ""
	if lang != "" {
		class = "language-" + lang
	}
	return n.wrap("pre", "sp-code", el("code", class, n.text("code")))
}

// renderCustomHTML passes the "html" property through unescaped.
func renderCustomHTML(n *node) string {
	return n.wrap("div", "sp-custom-html", n.p.String("html"))
}

func renderBadge(n *node) string {
	variant := cssIdent(n.p.StringOr("variant", "default"))
	return n.wrap("span", "sp-badge sp-badge-"+variant, n.text("text"))
}
