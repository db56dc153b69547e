package project

import (
	"embed"
	"encoding/json"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/sitepress/internal/export"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("project").
	Delims("[[", "]]").
	Funcs(template.FuncMap{
		"str": jsString,
		"inc": func(i int) int { return i + 1 },
	}).
	ParseFS(templateFS, "templates/*.tmpl"))

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name+".tmpl", data); err != nil {
		return "", err
	}
	return b.String(), nil
}

type packageJSON struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func packageManifest(name string) export.ExportedFile {
	return jsonFile("package.json", packageJSON{
		Name:    name,
		Private: true,
		Version: "0.1.0",
		Type:    "module",
		Scripts: map[string]string{
			"dev":     "vite",
			"build":   "tsc --noEmit && vite build",
			"preview": "vite preview",
		},
		Dependencies: map[string]string{
			"react":            "^18.3.1",
			"react-dom":        "^18.3.1",
			"react-router-dom": "^6.26.2",
		},
		DevDependencies: map[string]string{
			"@types/react":         "^18.3.5",
			"@types/react-dom":     "^18.3.0",
			"@vitejs/plugin-react": "^4.3.1",
			"typescript":           "^5.5.4",
			"vite":                 "^5.4.3",
		},
	})
}

type tsconfig struct {
	CompilerOptions map[string]any `json:"compilerOptions"`
	Include         []string       `json:"include"`
}

func tsconfigFile() export.ExportedFile {
	return jsonFile("tsconfig.json", tsconfig{
		CompilerOptions: map[string]any{
			"target":            "ES2020",
			"lib":               []string{"ES2020", "DOM", "DOM.Iterable"},
			"module":            "ESNext",
			"moduleResolution":  "bundler",
			"jsx":               "react-jsx",
			"strict":            true,
			"allowJs":           true,
			"skipLibCheck":      true,
			"isolatedModules":   true,
			"noEmit":            true,
			"resolveJsonModule": true,
		},
		Include: []string{"src"},
	})
}

func jsonFile(p string, v any) export.ExportedFile {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic("project: cannot encode " + p + ": " + err.Error())
	}
	return export.TextFile(p, string(data)+"\n")
}

// npmName turns a slug into a valid npm package name.
func npmName(slug string) string {
	name := strings.Trim(strings.ToLower(slug), "-._")
	if name == "" {
		return "sitepress-site"
	}
	if len(name) > 214 {
		name = name[:214]
	}
	return name
}
