// Package seo produces the search-engine artifacts shared by both export
// targets: the HTML document head, sitemap.xml and robots.txt.
package seo

import (
	"encoding/xml"
	"strings"
)

// DefaultBaseURL stands in for the site origin when none is configured.
const DefaultBaseURL = "https://example.com"

// Entry is one sitemap location.
type Entry struct {
	Route      string // root-absolute route, e.g. "/fr/about"
	Priority   string // "1.0" for the home page, "0.8" otherwise
	Alternates []Alternate
}

// Alternate links a route to its equivalent in another language.
type Alternate struct {
	Lang string `json:"lang"`
	Href string `json:"href"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Xhtml   string   `xml:"xmlns:xhtml,attr,omitempty"`
	URLs    []urlEntry
}

type urlEntry struct {
	XMLName    xml.Name   `xml:"url"`
	Loc        string     `xml:"loc"`
	ChangeFreq string     `xml:"changefreq"`
	Priority   string     `xml:"priority"`
	Links      []xhtmlRef `xml:"xhtml:link"`
}

type xhtmlRef struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// BaseURL trims base and substitutes DefaultBaseURL when it is empty.
func BaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

// AbsoluteURL joins route onto base.
func AbsoluteURL(base, route string) string {
	base = BaseURL(base)
	if route == "" || route == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(route, "/")
}

// Sitemap renders a sitemap.xml document for entries under base. Entries
// keep their order so identical inputs produce identical output.
func Sitemap(base string, entries []Entry) (string, error) {
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, e := range entries {
		u := urlEntry{
			Loc:        AbsoluteURL(base, e.Route),
			ChangeFreq: "weekly",
			Priority:   e.Priority,
		}
		if u.Priority == "" {
			u.Priority = "0.8"
		}
		for _, alt := range e.Alternates {
			set.Xhtml = "http://www.w3.org/1999/xhtml"
			u.Links = append(u.Links, xhtmlRef{Rel: "alternate", Hreflang: alt.Lang, Href: AbsoluteURL(base, alt.Href)})
		}
		set.URLs = append(set.URLs, u)
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(data) + "\n", nil
}

// Robots renders a robots.txt allowing everything except the disallowed
// routes. A non-empty sitemapURL is advertised to crawlers.
func Robots(sitemapURL string, disallow []string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if len(disallow) == 0 {
		b.WriteString("Allow: /\n")
	}
	for _, d := range disallow {
		b.WriteString("Disallow: " + d + "\n")
	}
	if sitemapURL != "" {
		b.WriteString("\nSitemap: " + sitemapURL + "\n")
	}
	return b.String()
}
