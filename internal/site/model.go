package site

// Site is the root of a website description.
type Site struct {
	Name            string `yaml:"name" json:"name"`
	Slug            string `yaml:"slug,omitempty" json:"slug,omitempty"`
	DefaultLanguage string `yaml:"default_language,omitempty" json:"defaultLanguage,omitempty"`
	Theme           Theme  `yaml:"theme" json:"theme"`
	Favicon         string `yaml:"favicon,omitempty" json:"favicon,omitempty"`
	Pages           []Page `yaml:"pages" json:"pages"`
}

// Page is one routed document of the site.
type Page struct {
	Slug         string                 `yaml:"slug" json:"slug"`
	Title        string                 `yaml:"title" json:"title"`
	IsHomePage   bool                   `yaml:"home,omitempty" json:"isHomePage,omitempty"`
	Components   []Component            `yaml:"components,omitempty" json:"components,omitempty"`
	SEO          *SEO                   `yaml:"seo,omitempty" json:"seo,omitempty"`
	Translations map[string]Translation `yaml:"translations,omitempty" json:"translations,omitempty"`
}

// Translation is a per-language variant of a page with its own component tree.
type Translation struct {
	Title      string      `yaml:"title,omitempty" json:"title,omitempty"`
	Components []Component `yaml:"components,omitempty" json:"components,omitempty"`
	SEO        *SEO        `yaml:"seo,omitempty" json:"seo,omitempty"`
}

// SEO carries document metadata for a page or translation.
type SEO struct {
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
	NoIndex     bool     `yaml:"noindex,omitempty" json:"noIndex,omitempty"`
}

// Component is a tagged visual building block.
type Component struct {
	ID        string      `yaml:"id,omitempty" json:"id,omitempty"`
	Kind      Kind        `yaml:"type" json:"type"`
	Props     Props       `yaml:"props,omitempty" json:"props,omitempty"`
	Children  []Component `yaml:"children,omitempty" json:"children,omitempty"`
	Styles    Styles      `yaml:"styles,omitempty" json:"styles,omitempty"`
	Hidden    Breakpoints `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Animation *Animation  `yaml:"animation,omitempty" json:"animation,omitempty"`
}

// Styles holds per-breakpoint CSS declarations (property -> value).
type Styles struct {
	Desktop map[string]string `yaml:"desktop,omitempty" json:"desktop,omitempty"`
	Tablet  map[string]string `yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Mobile  map[string]string `yaml:"mobile,omitempty" json:"mobile,omitempty"`
}

// Responsive reports whether tablet or mobile overrides exist.
func (s Styles) Responsive() bool { return len(s.Tablet) > 0 || len(s.Mobile) > 0 }

// Breakpoints flags a component as hidden on each breakpoint.
type Breakpoints struct {
	Desktop bool `yaml:"desktop,omitempty" json:"desktop,omitempty"`
	Tablet  bool `yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Mobile  bool `yaml:"mobile,omitempty" json:"mobile,omitempty"`
}

// All reports whether every breakpoint is flagged.
func (b Breakpoints) All() bool { return b.Desktop && b.Tablet && b.Mobile }

// Any reports whether at least one breakpoint is flagged.
func (b Breakpoints) Any() bool { return b.Desktop || b.Tablet || b.Mobile }

// Animation describes a client-side entrance animation.
type Animation struct {
	Kind  string `yaml:"type" json:"type"`
	Delay int    `yaml:"delay,omitempty" json:"delay,omitempty"` // milliseconds
	Speed string `yaml:"speed,omitempty" json:"speed,omitempty"` // slow|normal|fast
}

// HomePage returns the page flagged as home, or nil.
func (s *Site) HomePage() *Page {
	for i := range s.Pages {
		if s.Pages[i].IsHomePage {
			return &s.Pages[i]
		}
	}
	return nil
}

// PageBySlug looks a page up by slug.
func (s *Site) PageBySlug(slug string) *Page {
	for i := range s.Pages {
		if s.Pages[i].Slug == slug {
			return &s.Pages[i]
		}
	}
	return nil
}

// Languages returns the sorted set of translation language codes used by any page.
func (s *Site) Languages() []string {
	seen := map[string]struct{}{}
	for _, p := range s.Pages {
		for lang := range p.Translations {
			seen[lang] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// TranslationLanguages returns the page's translation codes in sorted order.
func (p *Page) TranslationLanguages() []string {
	seen := make(map[string]struct{}, len(p.Translations))
	for lang := range p.Translations {
		seen[lang] = struct{}{}
	}
	return sortedKeys(seen)
}

// Localized returns the title, components and SEO for lang; empty lang selects the default content.
func (p *Page) Localized(lang string) (string, []Component, *SEO) {
	if lang == "" {
		return p.Title, p.Components, p.SEO
	}
	tr, ok := p.Translations[lang]
	if !ok {
		return p.Title, p.Components, p.SEO
	}
	title := tr.Title
	if title == "" {
		title = p.Title
	}
	seo := p.SEO
	if tr.SEO != nil {
		merged := SEO{}
		if p.SEO != nil {
			merged = *p.SEO
		}
		if tr.SEO.Title != "" {
			merged.Title = tr.SEO.Title
		}
		if tr.SEO.Description != "" {
			merged.Description = tr.SEO.Description
		}
		if len(tr.SEO.Keywords) > 0 {
			merged.Keywords = tr.SEO.Keywords
		}
		if tr.SEO.Image != "" {
			merged.Image = tr.SEO.Image
		}
		merged.NoIndex = merged.NoIndex || tr.SEO.NoIndex
		seo = &merged
	}
	return title, tr.Components, seo
}
