package render

import (
	"net/url"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindImage, renderImage)
	register(site.KindGallery, renderGallery)
	register(site.KindVideo, renderVideo)
	register(site.KindAudio, renderAudio)
	register(site.KindEmbed, renderEmbed)
	register(site.KindMap, renderMap)
	register(site.KindIcon, renderIcon)
	register(site.KindCarousel, renderCarousel)
	register(site.KindLogoCloud, renderLogoCloud)
	register(site.KindBeforeAfter, renderBeforeAfter)
}

func renderImage(n *node) string {
	src := n.p.String("src")
	if src == "" {
		return ""
	}
	image := img(src, n.p.String("alt"), "sp-image", true)
	if target := n.href(site.Props{"page": n.p.String("page"), "href": n.p.String("link")}); target != "" {
		image = link(target, "sp-image-link", image, n.p.Bool("newTab"))
	}
	return n.wrap("figure", "sp-figure", image+textEl("figcaption", "", n.p.String("caption")))
}

func renderGallery(n *node) string {
	n.style("--sp-cols", strconv.Itoa(max(n.p.Int("columns", 3), 1)))
	var b strings.Builder
	for _, it := range n.p.Items("images") {
		src := it.StringOr("src", it.String("text"))
		if src == "" {
			continue
		}
		b.WriteString(el("figure", "sp-gallery-item", img(src, it.String("alt"), "", true)+textEl("figcaption", "", it.String("caption"))))
	}
	return n.wrap("div", "sp-gallery", b.String())
}

func renderVideo(n *node) string {
	src := n.p.StringOr("url", n.p.String("src"))
	if src == "" {
		return ""
	}
	if embed := videoEmbedURL(src, false); embed != "" {
		frame := `<iframe` + attr("src", embed) + attr("title", n.p.StringOr("title", "Video")) + ` allow="accelerometer; encrypted-media; picture-in-picture; fullscreen" allowfullscreen loading="lazy"></iframe>`
		return n.wrap("div", "sp-video sp-embed-responsive", frame)
	}
	video := `<video controls playsinline` + attr("src", safeURL(src)) + attr("poster", safeURL(n.p.String("poster"))) +
		flag("autoplay", n.p.Bool("autoplay")) + flag("muted", n.p.Bool("autoplay") || n.p.Bool("muted")) + flag("loop", n.p.Bool("loop")) + "></video>"
	return n.wrap("div", "sp-video", video)
}

func renderAudio(n *node) string {
	src := n.p.String("src")
	if src == "" {
		return ""
	}
	return n.wrap("figure", "sp-audio", textEl("figcaption", "", n.p.String("title"))+`<audio controls preload="none"`+attr("src", safeURL(src))+"></audio>")
}

// renderEmbed passes "html" through unescaped; a bare "url" becomes an iframe.
func renderEmbed(n *node) string {
	if raw := n.p.String("html"); raw != "" {
		return n.wrap("div", "sp-embed", raw)
	}
	src := n.p.String("url")
	if src == "" {
		return ""
	}
	n.style("height", px(n.p.StringOr("height", "400")))
	return n.wrap("div", "sp-embed", `<iframe`+attr("src", safeURL(src))+attr("title", n.p.StringOr("title", "Embedded content"))+` loading="lazy"></iframe>`)
}

func renderMap(n *node) string {
	query := n.p.StringOr("address", n.p.String("query"))
	if query == "" {
		return ""
	}
	zoom := n.p.Int("zoom", 14)
	src := "https://maps.google.com/maps?q=" + url.QueryEscape(query) + "&z=" + strconv.Itoa(zoom) + "&output=embed"
	n.style("height", px(n.p.StringOr("height", "360")))
	return n.wrap("div", "sp-map", `<iframe`+attr("src", src)+attr("title", query)+` loading="lazy" referrerpolicy="no-referrer-when-downgrade"></iframe>`)
}

var iconGlyphs = map[string]string{
	"check": "&#10003;", "star": "&#9733;", "heart": "&#9829;", "arrow-right": "&#8594;",
	"arrow-up": "&#8593;", "mail": "&#9993;", "phone": "&#9742;", "location": "&#9906;",
	"clock": "&#9719;", "info": "&#8505;", "close": "&#10005;", "plus": "&#43;",
}

func renderIcon(n *node) string {
	name := strings.ToLower(n.p.String("name"))
	glyph, ok := iconGlyphs[name]
	if !ok {
		glyph = n.text("text")
	}
	n.style("font-size", px(n.p.String("size")))
	n.style("color", cssValue(n.p.String("color")))
	return n.wrap("span", "sp-icon", glyph, attr("data-icon", name), attr("aria-hidden", "true"))
}

func renderCarousel(n *node) string {
	slides := n.p.Items("slides")
	if len(slides) == 0 {
		return ""
	}
	var b strings.Builder
	for i, s := range slides {
		cls := "sp-slide"
		if i == 0 {
			cls += " is-active"
		}
		body := img(s.StringOr("image", s.String("src")), s.String("alt"), "", i > 0) +
			el("div", "sp-slide-caption", textEl("h3", "", s.String("title"))+textEl("p", "", s.String("text")))
		b.WriteString(el("div", cls, body, attr("data-slide", strconv.Itoa(i))))
	}
	controls := `<button class="sp-carousel-prev" type="button" data-carousel-prev aria-label="Previous">&#8249;</button>` +
		`<button class="sp-carousel-next" type="button" data-carousel-next aria-label="Next">&#8250;</button>`
	attrs := []string{" data-carousel"}
	if n.p.Bool("autoplay") {
		attrs = append(attrs, attr("data-autoplay", strconv.Itoa(max(n.p.Int("interval", 5000), 1000))))
	}
	return n.wrap("div", "sp-carousel", el("div", "sp-carousel-track", b.String())+controls, attrs...)
}

func renderLogoCloud(n *node) string {
	var b strings.Builder
	for _, it := range n.p.Items("logos") {
		logo := img(it.StringOr("src", it.String("text")), it.String("alt"), "", true)
		if logo == "" {
			continue
		}
		if href := n.href(it); href != "" {
			logo = link(href, "", logo, true)
		}
		b.WriteString(el("li", "", logo))
	}
	return n.wrap("section", "sp-logo-cloud", textEl("p", "sp-logo-cloud-title", n.p.String("title"))+el("ul", "", b.String()))
}

func renderBeforeAfter(n *node) string {
	before, after := n.p.String("before"), n.p.String("after")
	if before == "" || after == "" {
		return ""
	}
	body := el("div", "sp-ba-before", img(before, n.p.StringOr("beforeLabel", "Before"), "", true)) +
		el("div", "sp-ba-after", img(after, n.p.StringOr("afterLabel", "After"), "", true)) +
		`<input class="sp-ba-range" type="range" min="0" max="100" value="50" data-before-after-range aria-label="Comparison slider">`
	return n.wrap("div", "sp-before-after", body, " data-before-after")
}
