package render

import (
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

// LinkResolver turns a page slug into an href valid from the document being rendered.
type LinkResolver interface {
	PageHref(slug, lang string) string
}

// RootLinks resolves pages to root-absolute routes ("/", "/about", "/fr/about").
// Home pages map to the language root.
type RootLinks struct {
	Pages []site.Page
}

// PageHref implements LinkResolver.
func (l RootLinks) PageHref(slug, lang string) string {
	prefix := "/"
	if lang != "" {
		prefix = "/" + lang + "/"
	}
	for _, p := range l.Pages {
		if p.Slug == slug && p.IsHomePage {
			if lang != "" {
				return "/" + lang
			}
			return "/"
		}
	}
	return prefix + strings.Trim(slug, "/")
}

// Context carries everything a handler may consult besides the component itself.
type Context struct {
	Theme           site.Theme
	Pages           []site.Page
	CurrentSlug     string
	Language        string // "" selects the default language
	DefaultLanguage string
	IsHomePage      bool
	Links           LinkResolver
	FormActionURL   string
	Session         *Session
}

func (c *Context) links() LinkResolver {
	if c.Links == nil {
		return RootLinks{Pages: c.Pages}
	}
	return c.Links
}

func (c *Context) currentPage() *site.Page {
	for i := range c.Pages {
		if c.Pages[i].Slug == c.CurrentSlug {
			return &c.Pages[i]
		}
	}
	return nil
}

// Failure records a handler that panicked during rendering.
type Failure struct {
	Kind        site.Kind
	ComponentID string
	Page        string
	Reason      string
}

// Session holds the mutable state of one export invocation: the counters
// minting responsive class names and element ids, and recovered failures.
// A Session is not safe for concurrent use.
type Session struct {
	responsive int
	ids        int
	failures   []Failure
}

// NewSession returns a Session with zeroed counters.
func NewSession() *Session { return &Session{} }

func (s *Session) nextResponsiveClass() string {
	s.responsive++
	return "rs-" + itoa(s.responsive)
}

func (s *Session) nextID(prefix string) string {
	s.ids++
	return "sp-" + prefix + "-" + itoa(s.ids)
}

// Failures returns the handler failures recovered so far.
func (s *Session) Failures() []Failure {
	out := make([]Failure, len(s.failures))
	copy(out, s.failures)
	return out
}
