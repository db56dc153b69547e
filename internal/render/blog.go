package render

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindBlogList, renderBlogList)
	register(site.KindBlogPost, renderBlogPost)
	register(site.KindAuthorBio, renderAuthorBio)
	register(site.KindCategoryList, renderCategoryList)
	register(site.KindTagCloud, renderTagCloud)
}

func renderBlogList(n *node) string {
	n.style("--sp-cols", strconv.Itoa(max(n.p.Int("columns", 3), 1)))
	var b strings.Builder
	for _, post := range n.p.Items("posts") {
		title := esc(itemLabel(post))
		if href := n.href(post); href != "" {
			title = link(href, "", title, false)
		}
		meta := textEl("time", "", post.String("date")) + textEl("span", "sp-post-author", post.String("author"))
		body := img(post.String("image"), itemLabel(post), "sp-post-image", true) +
			el("h3", "sp-post-title", title) +
			el("p", "sp-post-meta", meta) +
			textEl("p", "sp-post-excerpt", post.String("excerpt"))
		b.WriteString(el("article", "sp-post-card", body))
	}
	return n.wrap("section", "sp-blog-list", n.sectionHead()+el("div", "sp-grid", b.String()))
}

// renderBlogPost passes "html" through unescaped; otherwise "content" is markdown.
func renderBlogPost(n *node) string {
	content := n.p.String("html")
	if content == "" {
		content = n.r.markdown(n.p.String("content"))
	}
	meta := textEl("span", "sp-post-author", n.p.String("author")) + textEl("time", "", n.p.String("date"))
	var tags strings.Builder
	for _, t := range n.p.List("tags") {
		tags.WriteString(textEl("li", "sp-tag", labelOf(t)))
	}
	header := textEl("h1", "sp-post-title", n.p.String("title")) + el("p", "sp-post-meta", meta)
	body := el("header", "", header) +
		img(n.p.String("image"), n.p.String("title"), "sp-post-cover", false) +
		el("div", "sp-post-content", content)
	if tags.Len() > 0 {
		body += el("ul", "sp-tags", tags.String())
	}
	return n.wrap("article", "sp-blog-post", body)
}

func renderAuthorBio(n *node) string {
	body := img(n.p.String("avatar"), n.p.String("name"), "sp-avatar", true) +
		el("div", "", textEl("h3", "", n.p.String("name"))+textEl("p", "sp-role", n.p.String("role"))+textEl("p", "", n.p.String("bio")))
	if links := n.p.Items("links"); len(links) > 0 {
		body += socialList(links)
	}
	return n.wrap("aside", "sp-author-bio", body)
}

func renderCategoryList(n *node) string {
	var b strings.Builder
	for _, c := range n.p.Items("categories") {
		label := esc(itemLabel(c))
		if count := c.String("count"); count != "" {
			label += ` <span class="sp-count">(` + esc(count) + ")</span>"
		}
		if href := n.href(c); href != "" {
			label = link(href, "", label, false)
		}
		b.WriteString("<li>" + label + "</li>")
	}
	return n.wrap("nav", "sp-category-list", textEl("h4", "", n.p.String("title"))+el("ul", "", b.String()))
}

func renderTagCloud(n *node) string {
	var b strings.Builder
	for _, t := range n.p.Items("tags") {
		label := esc(itemLabel(t))
		if href := n.href(t); href != "" {
			label = link(href, "", label, false)
		}
		b.WriteString(el("li", "sp-tag", label))
	}
	return n.wrap("div", "sp-tag-cloud", textEl("h4", "", n.p.String("title"))+el("ul", "", b.String()))
}
