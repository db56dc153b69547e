package render

import (
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindHero, renderHero)
	register(site.KindHeroSplit, renderHeroSplit)
	register(site.KindHeroVideo, renderHeroVideo)
	register(site.KindPageHeader, renderPageHeader)
}

// heroCopy renders the shared title/subtitle/buttons block.
func (n *node) heroCopy() string {
	level := "h1"
	if !n.ctx.IsHomePage && n.p.Bool("secondary") {
		level = "h2"
	}
	return textEl(level, "sp-hero-title", n.p.String("title")) +
		textEl("p", "sp-hero-subtitle", n.p.String("subtitle")) +
		n.buttons("buttons")
}

func renderHero(n *node) string {
	cls := "sp-hero"
	if align := n.p.String("align"); align != "" {
		cls += " sp-align-" + cssIdent(align)
	}
	if bg := n.p.StringOr("backgroundImage", n.p.String("image")); bg != "" {
		n.style("background-image", cssURL(bg))
		cls += " has-background"
	}
	overlay := ""
	if n.p.Bool("overlay") {
		overlay = `<div class="sp-hero-overlay" aria-hidden="true"></div>`
	}
	return n.wrap("section", cls, overlay+el("div", "sp-container sp-hero-content", n.heroCopy()))
}

func renderHeroSplit(n *node) string {
	cls := "sp-hero sp-hero-split"
	if n.p.Bool("reverse") {
		cls += " is-reversed"
	}
	media := img(n.p.String("image"), n.p.String("imageAlt"), "sp-hero-image", false)
	body := el("div", "sp-hero-content", n.heroCopy())
	if media != "" {
		body += el("div", "sp-hero-media", media)
	}
	return n.wrap("section", cls, el("div", "sp-container sp-split", body))
}

func renderHeroVideo(n *node) string {
	var media string
	if src := n.p.StringOr("video", n.p.String("url")); src != "" {
		if embed := videoEmbedURL(src, true); embed != "" {
			media = `<iframe class="sp-hero-video-frame"` + attr("src", embed) + ` title="Background video" allow="autoplay; fullscreen" loading="lazy"></iframe>`
		} else {
			media = `<video class="sp-hero-video-media" autoplay muted loop playsinline` + attr("poster", safeURL(n.p.String("poster"))) + attr("src", safeURL(src)) + "></video>"
		}
	}
	return n.wrap("section", "sp-hero sp-hero-video", media+`<div class="sp-hero-overlay" aria-hidden="true"></div>`+el("div", "sp-container sp-hero-content", n.heroCopy()))
}

func renderPageHeader(n *node) string {
	title := n.p.String("title")
	if title == "" {
		if cur := n.ctx.currentPage(); cur != nil {
			title, _, _ = cur.Localized(n.ctx.Language)
		}
	}
	body := textEl("h1", "sp-page-title", title) + textEl("p", "sp-page-subtitle", n.p.String("subtitle"))
	return n.wrap("header", "sp-page-header", el("div", "sp-container", body))
}

// videoEmbedURL maps YouTube and Vimeo page URLs to their embed form; other
// URLs return "".
func videoEmbedURL(u string, background bool) string {
	u = strings.TrimSpace(u)
	var id, base string
	switch {
	case strings.Contains(u, "youtube.com/watch"):
		if i := strings.Index(u, "v="); i >= 0 {
			id = u[i+2:]
		}
		base = "https://www.youtube.com/embed/"
	case strings.Contains(u, "youtu.be/"):
		id = u[strings.Index(u, "youtu.be/")+len("youtu.be/"):]
		base = "https://www.youtube.com/embed/"
	case strings.Contains(u, "youtube.com/embed/"):
		id = u[strings.Index(u, "youtube.com/embed/")+len("youtube.com/embed/"):]
		base = "https://www.youtube.com/embed/"
	case strings.Contains(u, "vimeo.com/"):
		id = u[strings.LastIndex(u, "/")+1:]
		base = "https://player.vimeo.com/video/"
	default:
		return ""
	}
	if i := strings.IndexAny(id, "&?#/"); i >= 0 {
		id = id[:i]
	}
	id = cssIdent(id)
	if id == "" {
		return ""
	}
	if background {
		if strings.Contains(base, "vimeo") {
			return base + id + "?background=1"
		}
		return base + id + "?autoplay=1&mute=1&loop=1&controls=0&playlist=" + id
	}
	return base + id
}
