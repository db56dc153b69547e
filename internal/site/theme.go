package site

import "strings"

// Theme is the site-wide visual configuration.
type Theme struct {
	Colors       Colors          `yaml:"colors" json:"colors"`
	HeadingFont  string          `yaml:"heading_font,omitempty" json:"headingFont,omitempty"`
	BodyFont     string          `yaml:"body_font,omitempty" json:"bodyFont,omitempty"`
	BorderRadius int             `yaml:"border_radius,omitempty" json:"borderRadius,omitempty"` // px
	SpacingUnit  int             `yaml:"spacing_unit,omitempty" json:"spacingUnit,omitempty"`   // px
	ShadowStyle  string          `yaml:"shadow_style,omitempty" json:"shadowStyle,omitempty"`   // none|soft|medium|hard
	ButtonStyle  string          `yaml:"button_style,omitempty" json:"buttonStyle,omitempty"`   // rounded|pill|square|outline
	LinkStyle    string          `yaml:"link_style,omitempty" json:"linkStyle,omitempty"`       // underline|hover|none
	Scale        ResponsiveScale `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Colors are the theme's color roles.
type Colors struct {
	Primary    string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary  string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Accent     string `yaml:"accent,omitempty" json:"accent,omitempty"`
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
	Surface    string `yaml:"surface,omitempty" json:"surface,omitempty"`
	Text       string `yaml:"text,omitempty" json:"text,omitempty"`
	Muted      string `yaml:"muted,omitempty" json:"muted,omitempty"`
	Border     string `yaml:"border,omitempty" json:"border,omitempty"`
}

// ResponsiveScale shrinks type and spacing on smaller breakpoints.
type ResponsiveScale struct {
	Tablet float64 `yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Mobile float64 `yaml:"mobile,omitempty" json:"mobile,omitempty"`
}

// DefaultTheme is applied to any zero-valued theme field.
func DefaultTheme() Theme {
	return Theme{
		Colors: Colors{
			Primary:    "#2563eb",
			Secondary:  "#7c3aed",
			Accent:     "#f59e0b",
			Background: "#ffffff",
			Surface:    "#f8fafc",
			Text:       "#0f172a",
			Muted:      "#64748b",
			Border:     "#e2e8f0",
		},
		HeadingFont:  "Inter",
		BodyFont:     "Inter",
		BorderRadius: 8,
		SpacingUnit:  8,
		ShadowStyle:  "soft",
		ButtonStyle:  "rounded",
		LinkStyle:    "hover",
		Scale:        ResponsiveScale{Tablet: 0.9, Mobile: 0.8},
	}
}

// WithDefaults returns a copy with every unset field filled from DefaultTheme.
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&t.Colors.Primary, d.Colors.Primary)
	fill(&t.Colors.Secondary, d.Colors.Secondary)
	fill(&t.Colors.Accent, d.Colors.Accent)
	fill(&t.Colors.Background, d.Colors.Background)
	fill(&t.Colors.Surface, d.Colors.Surface)
	fill(&t.Colors.Text, d.Colors.Text)
	fill(&t.Colors.Muted, d.Colors.Muted)
	fill(&t.Colors.Border, d.Colors.Border)
	fill(&t.HeadingFont, d.HeadingFont)
	fill(&t.BodyFont, d.BodyFont)
	fill(&t.ShadowStyle, d.ShadowStyle)
	fill(&t.ButtonStyle, d.ButtonStyle)
	fill(&t.LinkStyle, d.LinkStyle)
	if t.BorderRadius <= 0 {
		t.BorderRadius = d.BorderRadius
	}
	if t.SpacingUnit <= 0 {
		t.SpacingUnit = d.SpacingUnit
	}
	if t.Scale.Tablet <= 0 || t.Scale.Tablet > 1 {
		t.Scale.Tablet = d.Scale.Tablet
	}
	if t.Scale.Mobile <= 0 || t.Scale.Mobile > 1 {
		t.Scale.Mobile = d.Scale.Mobile
	}
	return t
}

var systemFonts = map[string]bool{
	"system-ui": true, "sans-serif": true, "serif": true, "monospace": true,
	"arial": true, "helvetica": true, "georgia": true, "times new roman": true,
	"verdana": true, "courier new": true, "-apple-system": true,
}

// WebFonts returns the distinct non-system font families in heading, body order.
func (t Theme) WebFonts() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range []string{t.HeadingFont, t.BodyFont} {
		if f == "" || systemFonts[strings.ToLower(f)] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

