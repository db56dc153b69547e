package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

func TestNormalize_RejectsEmptySite(t *testing.T) {
	_, _, err := Normalize(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, _, err = Normalize(&Site{Name: "x"})
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	phase, _ := ce.Context().GetString("phase")
	assert.Equal(t, "load", phase)
}

func TestNormalize_CoercesCollectionProps(t *testing.T) {
	in := &Site{Pages: []Page{{
		Slug: "home", Title: "Home", IsHomePage: true,
		Components: []Component{
			{Kind: KindGallery, Props: Props{"images": map[string]any{"src": "a.png"}}},
			{Kind: KindList, Props: Props{"items": "only"}},
			{Kind: KindFAQ, Props: Props{"items": nil}},
			{Kind: KindNavbar, Props: Props{"links": ""}},
		},
	}}}

	out, _, err := Normalize(in)
	require.NoError(t, err)

	comps := out.Pages[0].Components
	assert.Len(t, comps[0].Props["images"], 1)
	assert.Equal(t, []any{"only"}, comps[1].Props["items"])
	assert.Empty(t, comps[2].Props["items"])
	assert.Empty(t, comps[3].Props["links"])

	// input untouched
	_, isMap := in.Pages[0].Components[0].Props["images"].(map[string]any)
	assert.True(t, isMap)
}

func TestNormalize_SlugsAndHome(t *testing.T) {
	in := &Site{Pages: []Page{
		{Slug: "About Us!", Title: "About"},
		{Slug: "about-us", Title: "About 2"},
		{Slug: "", Title: "Café Menu", IsHomePage: true},
		{Slug: "x", Title: "X", IsHomePage: true},
	}}
	out, warnings, err := Normalize(in)
	require.NoError(t, err)

	slugs := []string{out.Pages[0].Slug, out.Pages[1].Slug, out.Pages[2].Slug, out.Pages[3].Slug}
	assert.Equal(t, []string{"about-us", "about-us-2", "cafe-menu", "x"}, slugs)
	assert.True(t, out.Pages[2].IsHomePage)
	assert.False(t, out.Pages[3].IsHomePage)
	assert.NotEmpty(t, warnings)
}

func TestNormalize_DefaultsHomeToFirstPage(t *testing.T) {
	out, _, err := Normalize(&Site{Pages: []Page{{Slug: "a"}, {Slug: "b"}}})
	require.NoError(t, err)
	assert.True(t, out.Pages[0].IsHomePage)
	assert.Equal(t, "en", out.DefaultLanguage)
	assert.Equal(t, DefaultTheme().Colors.Primary, out.Theme.Colors.Primary)
}

func TestNormalize_TranslationLanguages(t *testing.T) {
	in := &Site{DefaultLanguage: "en", Pages: []Page{{
		Slug: "about", Title: "About", IsHomePage: true,
		Translations: map[string]Translation{
			"fr":           {Title: "À propos"},
			"pt-br":        {Title: "Sobre"},
			"en":           {Title: "dup"},
			"not a lang!!": {Title: "bad"},
		},
	}}}
	out, _, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "pt-BR"}, out.Pages[0].TranslationLanguages())
}

func TestLocalized_MergesSEO(t *testing.T) {
	p := Page{
		Title: "About",
		SEO:   &SEO{Title: "About us", Description: "Who we are"},
		Translations: map[string]Translation{
			"fr": {SEO: &SEO{Title: "À propos"}},
		},
	}
	title, _, seo := p.Localized("fr")
	assert.Equal(t, "About", title)
	assert.Equal(t, "À propos", seo.Title)
	assert.Equal(t, "Who we are", seo.Description)
	assert.Equal(t, "About us", p.SEO.Title)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":    "hello-world",
		"  --Ünïcödé-- ": "unicode",
		"../../etc":      "etc",
		"2024 Plans":     "2024-plans",
		"日本":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestAllKindsClosedSet(t *testing.T) {
	all := AllKinds()
	assert.GreaterOrEqual(t, len(all), 80)
	assert.True(t, KindSection.Container())
	assert.False(t, KindHeading.Container())
	assert.False(t, Kind("marquee").Known())
}

func TestParse_JSONAndYAML(t *testing.T) {
	js := []byte(`{"name":"Demo","pages":[{"slug":"home","title":"Home","home":true,"components":[{"type":"heading","props":{"text":"Hi","level":2}}]}]}`)
	s, err := Parse(js)
	require.NoError(t, err)
	require.Len(t, s.Pages, 1)
	assert.Equal(t, KindHeading, s.Pages[0].Components[0].Kind)
	assert.Equal(t, 2, s.Pages[0].Components[0].Props.Int("level", 1))

	_, err = Parse([]byte("pages: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
