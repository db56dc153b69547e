// Package preview renders a single page of a site into a self-contained HTML
// document for live preview. Stylesheet and behavior script are inlined and
// embedded images are replaced with transient /_blob/ handles served from
// memory.
package preview

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitepress/internal/assets"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/render"
	"git.home.luguber.info/inful/sitepress/internal/seo"
	"git.home.luguber.info/inful/sitepress/internal/site"
	"git.home.luguber.info/inful/sitepress/internal/theme"
)

// BlobPrefix is the URL path under which blob handles are served.
const BlobPrefix = "/_blob/"

// Options selects the previewed document.
type Options struct {
	// Route of the variant to render ("/", "/about", "/fr/about"); empty selects the home page.
	Route         string
	FormActionURL string
}

// Blob is an in-memory image referenced by a handle.
type Blob struct {
	MIME string
	Data []byte
}

// Document is a rendered preview page.
type Document struct {
	HTML     string
	Route    string
	Page     string
	Language string
	// Blobs maps handle URLs ("/_blob/<uuid>") to image bytes.
	Blobs map[string]Blob
	// Failures lists components whose handler failed.
	Failures []render.Failure
}

// Handles returns the blob handles in sorted order.
func (d *Document) Handles() []string {
	out := make([]string, 0, len(d.Blobs))
	for h := range d.Blobs {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Build renders the variant selected by opts.
func Build(ctx context.Context, in *site.Site, opts Options) (*Document, error) {
	s, _, err := site.Normalize(in)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.CanceledError("preview canceled").WithCause(err).WithContext("phase", "render").Build()
	}

	route := opts.Route
	if route == "" {
		route = "/"
	}
	v, ok := findVariant(s, route)
	if !ok {
		return nil, errors.NewError(errors.CategoryNotFound, "no page for route").WithContext("path", route).Build()
	}

	session := render.NewSession()
	body := render.New().RenderTree(v.Components(), render.Context{
		Theme:           s.Theme,
		Pages:           s.Pages,
		CurrentSlug:     v.Page.Slug,
		Language:        v.Language,
		DefaultLanguage: s.DefaultLanguage,
		IsHomePage:      v.Page.IsHomePage,
		Links:           render.RootLinks{Pages: s.Pages},
		FormActionURL:   opts.FormActionURL,
		Session:         session,
	})

	lang := v.Language
	if lang == "" {
		lang = s.DefaultLanguage
	}
	title := v.Title()
	if s.Name != "" && s.Name != title {
		title += " | " + s.Name
	}
	doc := seo.Document(seo.Head{
		Lang:      lang,
		Title:     title,
		SiteName:  s.Name,
		NoIndex:   true,
		Favicon:   s.Favicon,
		Fonts:     s.Theme.WebFonts(),
		InlineCSS: theme.Stylesheet(s.Theme),
		InlineJS:  theme.BehaviorScript(),
	}, body)

	blobs := map[string]Blob{}
	handles := map[string]string{}
	doc = assets.Pattern().ReplaceAllStringFunc(doc, func(uri string) string {
		if h, ok := handles[uri]; ok {
			return h
		}
		mime, data, err := assets.Decode(uri)
		if err != nil {
			return uri
		}
		h := BlobPrefix + uuid.NewString()
		handles[uri] = h
		blobs[h] = Blob{MIME: mime, Data: data}
		return h
	})

	return &Document{
		HTML:     doc,
		Route:    v.Route,
		Page:     v.Page.Slug,
		Language: v.Language,
		Blobs:    blobs,
		Failures: session.Failures(),
	}, nil
}

func findVariant(s *site.Site, route string) (site.Variant, bool) {
	if route != "/" {
		route = "/" + strings.Trim(route, "/")
	}
	for _, v := range s.Variants() {
		if v.Route == route {
			return v, true
		}
	}
	return site.Variant{}, false
}
