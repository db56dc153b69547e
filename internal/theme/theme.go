// Package theme derives the site-wide stylesheet and client behavior script.
//
// Both are functions of the theme alone and never depend on page content, so
// emitters produce them exactly once per export.
package theme

import (
	_ "embed"
	"strconv"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

//go:embed stylesheet.css.tmpl
var stylesheetSource string

//go:embed behavior.js
var behaviorCore string

var stylesheetTemplate = template.Must(template.New("stylesheet").Parse(stylesheetSource))

var shadows = map[string]string{
	"none":   "none",
	"soft":   "0 1px 3px rgba(15, 23, 42, .08), 0 1px 2px rgba(15, 23, 42, .04)",
	"medium": "0 4px 12px rgba(15, 23, 42, .12)",
	"hard":   "4px 4px 0 rgba(15, 23, 42, .9)",
}

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "system-ui": true, "cursive": true,
}

type stylesheetData struct {
	Colors             site.Colors
	HeadingStack       string
	BodyStack          string
	Radius             int
	Space              int
	Shadow             string
	ButtonRadius       string
	OutlineButtons     bool
	LinkDecoration     string
	LinkHoverUnderline bool
	TabletScale        string
	MobileScale        string
}

// Stylesheet renders the global CSS for t. Unset theme fields take their defaults.
func Stylesheet(t site.Theme) string {
	t = t.WithDefaults()
	data := stylesheetData{
		Colors:       sanitizeColors(t.Colors),
		HeadingStack: fontStack(t.HeadingFont),
		BodyStack:    fontStack(t.BodyFont),
		Radius:       t.BorderRadius,
		Space:        t.SpacingUnit,
		Shadow:       shadows["soft"],
		TabletScale:  strconv.FormatFloat(t.Scale.Tablet, 'f', -1, 64),
		MobileScale:  strconv.FormatFloat(t.Scale.Mobile, 'f', -1, 64),
	}
	if s, ok := shadows[t.ShadowStyle]; ok {
		data.Shadow = s
	}
	switch t.ButtonStyle {
	case "pill":
		data.ButtonRadius = "999px"
	case "square":
		data.ButtonRadius = "0"
	case "outline":
		data.ButtonRadius = strconv.Itoa(t.BorderRadius) + "px"
		data.OutlineButtons = true
	default:
		data.ButtonRadius = strconv.Itoa(t.BorderRadius) + "px"
	}
	switch t.LinkStyle {
	case "underline":
		data.LinkDecoration = "underline"
	case "none":
		data.LinkDecoration = "none"
	default:
		data.LinkDecoration = "none"
		data.LinkHoverUnderline = true
	}

	var b strings.Builder
	if err := stylesheetTemplate.Execute(&b, data); err != nil {
		// The template is embedded and its data is plain values.
		panic("theme: stylesheet template: " + err.Error())
	}
	return b.String()
}

// fontStack quotes a family name and appends a generic fallback.
func fontStack(family string) string {
	family = strings.Trim(cssSafe(family), `"' `)
	if family == "" || genericFamilies[strings.ToLower(family)] {
		return "system-ui, -apple-system, sans-serif"
	}
	return `"` + family + `", system-ui, -apple-system, sans-serif`
}

func sanitizeColors(c site.Colors) site.Colors {
	return site.Colors{
		Primary:    cssSafe(c.Primary),
		Secondary:  cssSafe(c.Secondary),
		Accent:     cssSafe(c.Accent),
		Background: cssSafe(c.Background),
		Surface:    cssSafe(c.Surface),
		Text:       cssSafe(c.Text),
		Muted:      cssSafe(c.Muted),
		Border:     cssSafe(c.Border),
	}
}

func cssSafe(v string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '<', '>', ';', '\n', '\r':
			return -1
		}
		return r
	}, v))
}

// BehaviorCore returns the target-agnostic behavior module body. It defines
// initSitepress(root), which wires every interactive component under root
// and returns a cleanup function.
func BehaviorCore() string { return behaviorCore }

// BehaviorScript returns the static-site adapter: the core wrapped in an
// immediately invoked function that initializes the document once loaded.
func BehaviorScript() string {
	var b strings.Builder
	b.WriteString("(function () {\n'use strict';\n")
	b.WriteString(behaviorCore)
	b.WriteString(`
if (document.readyState === 'loading') {
  document.addEventListener('DOMContentLoaded', function () { initSitepress(document); });
} else {
  initSitepress(document);
}
})();
`)
	return b.String()
}

// BehaviorModule returns the application-project adapter: an ES module
// exporting initSitepress so routed views can call it after each navigation.
func BehaviorModule() string {
	var b strings.Builder
	b.WriteString(behaviorCore)
	b.WriteString("\nexport { initSitepress };\nexport default initSitepress;\n")
	return b.String()
}
