// Package linkcheck verifies that internal references in emitted HTML
// documents resolve to files of the same export.
package linkcheck

import (
	"bytes"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

// Link is a reference extracted from an HTML document.
type Link struct {
	URL       string
	Text      string
	Tag       string
	Attribute string
	Line      int // approximate element ordinal
}

// BrokenLink is an internal reference whose target is not part of the file set.
type BrokenLink struct {
	Source string // path of the referencing document
	Target string // resolved path that was looked up
	Link   *Link
}

// ExtractLinksFromReader parses an HTML document and returns its references.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").WithSeverity(errors.SeverityError).Build()
	}

	var links []*Link
	var line int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			line++
			if l := elementLink(n, line); l != nil {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node, line int) *Link {
	var attr string
	switch n.Data {
	case "a", "link":
		attr = "href"
	case "img", "script", "video", "audio", "source", "iframe":
		attr = "src"
	default:
		return nil
	}
	v := getAttr(n, attr)
	if v == "" {
		return nil
	}
	text := ""
	switch n.Data {
	case "a":
		text = extractText(n)
	case "img":
		text = getAttr(n, "alt")
	case "link":
		text = getAttr(n, "rel")
	}
	return &Link{URL: v, Text: text, Tag: n.Data, Attribute: attr, Line: line}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// Check verifies every internal reference of the HTML files in files and
// returns the broken ones ordered by source document.
func Check(files []export.ExportedFile) ([]BrokenLink, error) {
	exists := make(map[string]bool, len(files))
	for _, f := range files {
		exists[export.CleanPath(f.Path)] = true
	}

	var broken []BrokenLink
	for _, f := range files {
		if f.Binary || !strings.HasSuffix(f.Path, ".html") {
			continue
		}
		links, err := ExtractLinksFromReader(bytes.NewReader(f.Content))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "link check failed").WithContext("path", f.Path).Build()
		}
		for _, l := range links {
			target, ok := Resolve(f.Path, l.URL)
			if !ok || found(exists, target) {
				continue
			}
			broken = append(broken, BrokenLink{Source: f.Path, Target: target, Link: l})
		}
	}
	sort.SliceStable(broken, func(i, j int) bool { return broken[i].Source < broken[j].Source })
	return broken, nil
}

// Resolve maps ref, as seen from the document at source, to a path in the
// output tree. It reports false for external, fragment-only and scheme
// references.
func Resolve(source, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = path.Join(path.Dir("/"+export.CleanPath(source)), p)
		if strings.HasSuffix(u.Path, "/") {
			p += "/"
		}
	}
	clean := export.CleanPath(p)
	if strings.HasSuffix(p, "/") || clean == "" {
		return path.Join(clean, "index.html"), true
	}
	return clean, true
}

func found(exists map[string]bool, target string) bool {
	return exists[target] || exists[path.Join(target, "index.html")]
}
