package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitepress/internal/config"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

const exampleSite = `name: My Site
default_language: en
theme:
  colors:
    primary: "#2563eb"
pages:
  - slug: home
    title: Home
    home: true
    seo:
      description: Welcome to my site.
    components:
      - type: navbar
        props:
          brand: My Site
          links:
            - label: About
              page: about
      - type: hero
        props:
          title: Hello, world
          subtitle: Built with sitepress.
      - type: footer
        props:
          text: "© My Site"
  - slug: about
    title: About
    components:
      - type: heading
        props:
          text: About us
      - type: paragraph
        props:
          text: Tell visitors who you are.
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	_, _ = fmt.Fprintf(g.Out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}

	sitePath := filepath.Join(filepath.Dir(root.Config), "site.yaml")
	if _, err := os.Stat(sitePath); err == nil && !i.Force {
		_, _ = fmt.Fprintf(g.Out, "Keeping existing %s\n", sitePath)
		return nil
	}
	if err := os.WriteFile(sitePath, []byte(exampleSite), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write example site").WithContext("path", sitePath).Build()
	}
	_, _ = fmt.Fprintf(g.Out, "Writing example site to %s\n", sitePath)
	_, _ = fmt.Fprintln(g.Out, "Run 'sitepress preview' to view it or 'sitepress export' to build it.")
	return nil
}
