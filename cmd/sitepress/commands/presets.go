package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/hosting"
)

// PresetsCmd lists hosting presets or describes one.
type PresetsCmd struct {
	ID string `arg:"" optional:"" help:"Preset to describe"`
}

func (p *PresetsCmd) Run(g *Global, _ *CLI) error {
	if p.ID != "" {
		preset, ok := hosting.Lookup(p.ID)
		if !ok {
			return errors.NewError(errors.CategoryNotFound, "unknown hosting platform").
				WithContext("platform", p.ID).
				WithContext("known", strings.Join(hosting.IDs(), ", ")).
				Build()
		}
		return describePreset(g, preset)
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tMAX WIDTH\tQUALITY\tCONVERT")
	for _, id := range hosting.IDs() {
		pr := hosting.Resolve(id)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\n", pr.ID, pr.Name, pr.Profile.MaxWidth, pr.Profile.Quality, pr.Profile.ConvertFormat)
	}
	return tw.Flush()
}

func describePreset(g *Global, p hosting.Preset) error {
	w := g.Out
	_, _ = fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	_, _ = fmt.Fprintf(w, "Images: max %dx%d, quality %d, convert %t\n",
		p.Profile.MaxWidth, p.Profile.MaxHeight, p.Profile.Quality, p.Profile.ConvertFormat)
	files := p.ConfigFiles(hosting.FileContext{Target: export.TargetStatic})
	if len(files) > 0 {
		_, _ = fmt.Fprintln(w, "Files:")
		for _, f := range files {
			_, _ = fmt.Fprintf(w, "  %s\n", f.Path)
		}
	}
	if len(p.DeploySteps) > 0 {
		_, _ = fmt.Fprintln(w, "Deploy:")
		for i, step := range p.DeploySteps {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	if p.DocsURL != "" {
		_, _ = fmt.Fprintf(w, "Docs: %s\n", p.DocsURL)
	}
	return nil
}
