package static

import (
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/site"
)

// relativeLinks resolves page links relative to a document depth levels
// below the output root. Directory routes end in a slash so they resolve to
// the index document on any static host.
type relativeLinks struct {
	site  *site.Site
	depth int
}

func (l relativeLinks) PageHref(slug, lang string) string {
	return relativeHref(export.RelativePrefix(l.depth), l.site.RouteFor(slug, lang))
}

func relativeHref(prefix, route string) string {
	dir := strings.Trim(route, "/")
	switch {
	case dir == "" && prefix == "":
		return "./"
	case dir == "":
		return prefix
	default:
		return prefix + dir + "/"
	}
}
