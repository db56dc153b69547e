package seo

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Head describes the metadata of one HTML document.
type Head struct {
	Lang        string
	Title       string
	SiteName    string
	Description string
	Keywords    []string
	Image       string
	NoIndex     bool
	Canonical   string // absolute URL; omitted when empty
	Favicon     string
	Alternates  []Alternate
	Fonts       []string // web font families to preconnect and load

	StylesheetHref string
	InlineCSS      string
	ScriptSrc      string
	InlineJS       string
}

var fontNameClean = regexp.MustCompile(`[^A-Za-z0-9 ]+`)

// FontsURL returns the Google Fonts stylesheet URL for families, or "" when
// there are none.
func FontsURL(families []string) string {
	var params []string
	for _, f := range families {
		f = strings.TrimSpace(fontNameClean.ReplaceAllString(f, ""))
		if f == "" {
			continue
		}
		params = append(params, "family="+strings.ReplaceAll(f, " ", "+")+":wght@400;600;700")
	}
	if len(params) == 0 {
		return ""
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(params, "&") + "&display=swap"
}

func meta(b *strings.Builder, attr, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(`<meta ` + attr + `="` + key + `" content="` + html.EscapeString(value) + "\">\n")
}

// Document wraps body in a complete HTML document carrying h.
func Document(h Head, body string) string {
	var b strings.Builder
	lang := h.Lang
	if lang == "" {
		lang = "en"
	}
	b.WriteString("<!DOCTYPE html>\n<html lang=\"" + html.EscapeString(lang) + "\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>" + html.EscapeString(h.Title) + "</title>\n")
	meta(&b, "name", "description", h.Description)
	meta(&b, "name", "keywords", strings.Join(h.Keywords, ", "))
	if h.NoIndex {
		meta(&b, "name", "robots", "noindex, nofollow")
	}
	meta(&b, "property", "og:type", "website")
	meta(&b, "property", "og:title", h.Title)
	meta(&b, "property", "og:description", h.Description)
	meta(&b, "property", "og:site_name", h.SiteName)
	meta(&b, "property", "og:image", h.Image)
	meta(&b, "property", "og:url", h.Canonical)
	card := "summary"
	if h.Image != "" {
		card = "summary_large_image"
	}
	meta(&b, "name", "twitter:card", card)
	meta(&b, "name", "twitter:title", h.Title)
	meta(&b, "name", "twitter:description", h.Description)
	meta(&b, "name", "twitter:image", h.Image)
	if h.Canonical != "" {
		b.WriteString(`<link rel="canonical" href="` + html.EscapeString(h.Canonical) + "\">\n")
	}
	if h.Favicon != "" {
		b.WriteString(`<link rel="icon" href="` + html.EscapeString(h.Favicon) + "\">\n")
	}
	for _, alt := range h.Alternates {
		b.WriteString(`<link rel="alternate" hreflang="` + html.EscapeString(alt.Lang) + `" href="` + html.EscapeString(alt.Href) + "\">\n")
	}
	if fonts := FontsURL(h.Fonts); fonts != "" {
		b.WriteString("<link rel=\"preconnect\" href=\"https://fonts.googleapis.com\">\n")
		b.WriteString("<link rel=\"preconnect\" href=\"https://fonts.gstatic.com\" crossorigin>\n")
		b.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(fonts) + "\">\n")
	}
	if h.StylesheetHref != "" {
		b.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(h.StylesheetHref) + "\">\n")
	}
	if h.InlineCSS != "" {
		b.WriteString("<style>\n" + h.InlineCSS + "\n</style>\n")
	}
	b.WriteString("</head>\n<body>\n<div id=\"top\" class=\"sp-page\">\n")
	b.WriteString(body)
	b.WriteString("\n</div>\n")
	if h.ScriptSrc != "" {
		b.WriteString(`<script src="` + html.EscapeString(h.ScriptSrc) + "\" defer></script>\n")
	}
	if h.InlineJS != "" {
		b.WriteString("<script>\n" + h.InlineJS + "\n</script>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
