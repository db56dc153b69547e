package hosting

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitepress/internal/export"
)

func init() {
	Register(Preset{
		ID:      GenericID,
		Name:    "Any static host",
		Profile: export.DefaultProfile(),
		DeploySteps: []string{
			"Upload the contents of the output directory to any static web server.",
			"Serve index.html as the directory index.",
		},
	})
	Register(Preset{
		ID:      "netlify",
		Name:    "Netlify",
		Profile: profile(1920, 82, false),
		Files:   netlifyFiles,
		DeploySteps: []string{
			"Push the exported files to a Git repository.",
			"Create a new site in Netlify and connect the repository.",
			"Netlify reads netlify.toml; no further build settings are needed.",
		},
		DocsURL: "https://docs.netlify.com/",
	})
	Register(Preset{
		ID:      "vercel",
		Name:    "Vercel",
		Profile: profile(1920, 80, true),
		Files:   vercelFiles,
		DeploySteps: []string{
			"Install the Vercel CLI with npm i -g vercel.",
			"Run vercel in the exported directory and follow the prompts.",
			"Run vercel --prod to promote the deployment.",
		},
		DocsURL: "https://vercel.com/docs",
	})
	Register(Preset{
		ID:      "github-pages",
		Name:    "GitHub Pages",
		Profile: profile(1600, 75, true),
		Files:   githubPagesFiles,
		DeploySteps: []string{
			"Push the exported files to the default branch of a GitHub repository.",
			"In Settings > Pages, select GitHub Actions as the source.",
			"The included workflow publishes the site on every push.",
		},
		DocsURL: "https://docs.github.com/pages",
	})
	Register(Preset{
		ID:      "cloudflare-pages",
		Name:    "Cloudflare Pages",
		Profile: profile(1920, 80, true),
		Files:   cloudflareFiles,
		DeploySteps: []string{
			"Push the exported files to a Git repository.",
			"Create a Pages project in the Cloudflare dashboard and connect the repository.",
			"Set the build output directory shown in this note.",
		},
		DocsURL: "https://developers.cloudflare.com/pages/",
	})
	Register(Preset{
		ID:      "firebase",
		Name:    "Firebase Hosting",
		Profile: profile(1920, 80, false),
		Files:   firebaseFiles,
		DeploySteps: []string{
			"Install the Firebase CLI with npm i -g firebase-tools.",
			"Run firebase login and firebase use --add to select a project.",
			"Run firebase deploy --only hosting.",
		},
		DocsURL: "https://firebase.google.com/docs/hosting",
	})
	Register(Preset{
		ID:      "render",
		Name:    "Render",
		Profile: profile(1920, 80, false),
		Files:   renderFiles,
		DeploySteps: []string{
			"Push the exported files to a Git repository.",
			"Create a new Blueprint in Render and select the repository.",
			"Render provisions the static site from render.yaml.",
		},
		DocsURL: "https://render.com/docs/static-sites",
	})
}

func profile(maxDim, quality int, convert bool) export.OptimizationProfile {
	p := export.DefaultProfile()
	p.MaxWidth = maxDim
	p.MaxHeight = maxDim
	p.Quality = quality
	p.ConvertFormat = convert
	return p
}

const assetCacheControl = "public, max-age=31536000, immutable"

func headersFile(ctx FileContext) export.ExportedFile {
	return export.TextFile(ctx.public("_headers"), strings.Join([]string{
		"/*",
		"  X-Content-Type-Options: nosniff",
		"  Referrer-Policy: strict-origin-when-cross-origin",
		"/assets/*",
		"  Cache-Control: " + assetCacheControl,
		"",
	}, "\n"))
}

func spaRedirects(ctx FileContext) export.ExportedFile {
	return export.TextFile(ctx.public("_redirects"), "/*    /index.html   200\n")
}

func netlifyFiles(ctx FileContext) []export.ExportedFile {
	var b strings.Builder
	b.WriteString("[build]\n")
	if ctx.Target == export.TargetProject {
		b.WriteString("  command = \"npm run build\"\n")
	}
	b.WriteString("  publish = \"" + ctx.OutputDir() + "\"\n\n")
	b.WriteString("[[headers]]\n  for = \"/assets/*\"\n  [headers.values]\n    Cache-Control = \"" + assetCacheControl + "\"\n")
	files := []export.ExportedFile{export.TextFile("netlify.toml", b.String()), headersFile(ctx)}
	if ctx.Target == export.TargetProject {
		files = append(files, spaRedirects(ctx))
	}
	return files
}

type vercelRewrite struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type vercelHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type vercelHeaderRule struct {
	Source  string         `json:"source"`
	Headers []vercelHeader `json:"headers"`
}

type vercelConfig struct {
	BuildCommand    string             `json:"buildCommand,omitempty"`
	OutputDirectory string             `json:"outputDirectory,omitempty"`
	Framework       string             `json:"framework,omitempty"`
	CleanURLs       bool               `json:"cleanUrls,omitempty"`
	TrailingSlash   *bool              `json:"trailingSlash,omitempty"`
	Rewrites        []vercelRewrite    `json:"rewrites,omitempty"`
	Headers         []vercelHeaderRule `json:"headers"`
}

func vercelFiles(ctx FileContext) []export.ExportedFile {
	cfg := vercelConfig{
		Headers: []vercelHeaderRule{{
			Source:  "/assets/(.*)",
			Headers: []vercelHeader{{Key: "Cache-Control", Value: assetCacheControl}},
		}},
	}
	if ctx.Target == export.TargetProject {
		cfg.Framework = "vite"
		cfg.BuildCommand = "npm run build"
		cfg.OutputDirectory = "dist"
		cfg.Rewrites = []vercelRewrite{{Source: "/(.*)", Destination: "/index.html"}}
	} else {
		slash := true
		cfg.CleanURLs = true
		cfg.TrailingSlash = &slash
	}
	return []export.ExportedFile{export.TextFile("vercel.json", mustJSON(cfg))}
}

type workflow struct {
	Name        string            `yaml:"name"`
	On          map[string]any    `yaml:"on"`
	Permissions map[string]string `yaml:"permissions"`
	Concurrency map[string]any    `yaml:"concurrency"`
	Jobs        map[string]job    `yaml:"jobs"`
}

type job struct {
	RunsOn      string            `yaml:"runs-on"`
	Needs       string            `yaml:"needs,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Steps       []step            `yaml:"steps"`
}

type step struct {
	Name string            `yaml:"name,omitempty"`
	ID   string            `yaml:"id,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
}

func githubPagesFiles(ctx FileContext) []export.ExportedFile {
	steps := []step{{Uses: "actions/checkout@v4"}}
	if ctx.Target == export.TargetProject {
		steps = append(steps,
			step{Uses: "actions/setup-node@v4", With: map[string]string{"node-version": "20", "cache": "npm"}},
			step{Run: "npm ci"},
			step{Run: "npm run build"},
			step{Run: "cp dist/index.html dist/404.html"},
		)
	}
	steps = append(steps,
		step{Uses: "actions/configure-pages@v5"},
		step{Uses: "actions/upload-pages-artifact@v3", With: map[string]string{"path": ctx.OutputDir()}},
	)
	wf := workflow{
		Name: "Deploy to GitHub Pages",
		On: map[string]any{
			"push":              map[string]any{"branches": []string{"main"}},
			"workflow_dispatch": map[string]any{},
		},
		Permissions: map[string]string{"contents": "read", "pages": "write", "id-token": "write"},
		Concurrency: map[string]any{"group": "pages", "cancel-in-progress": true},
		Jobs: map[string]job{
			"build": {RunsOn: "ubuntu-latest", Steps: steps},
			"deploy": {
				RunsOn:      "ubuntu-latest",
				Needs:       "build",
				Environment: map[string]string{"name": "github-pages", "url": "${{ steps.deployment.outputs.page_url }}"},
				Steps:       []step{{Name: "Deploy", ID: "deployment", Uses: "actions/deploy-pages@v4"}},
			},
		},
	}
	return []export.ExportedFile{
		export.TextFile(ctx.public(".nojekyll"), ""),
		export.TextFile(".github/workflows/deploy.yml", mustYAML(wf)),
	}
}

func cloudflareFiles(ctx FileContext) []export.ExportedFile {
	files := []export.ExportedFile{headersFile(ctx)}
	if ctx.Target == export.TargetProject {
		files = append(files, spaRedirects(ctx))
	}
	return files
}

type firebaseConfig struct {
	Hosting firebaseHosting `json:"hosting"`
}

type firebaseHosting struct {
	Public        string            `json:"public"`
	Ignore        []string          `json:"ignore"`
	CleanURLs     bool              `json:"cleanUrls"`
	TrailingSlash bool              `json:"trailingSlash"`
	Rewrites      []firebaseRewrite `json:"rewrites,omitempty"`
	Headers       []firebaseHeaders `json:"headers"`
}

type firebaseRewrite struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type firebaseHeaders struct {
	Source  string         `json:"source"`
	Headers []vercelHeader `json:"headers"`
}

func firebaseFiles(ctx FileContext) []export.ExportedFile {
	h := firebaseHosting{
		Public:        ctx.OutputDir(),
		Ignore:        []string{"firebase.json", "**/.*", "**/node_modules/**"},
		CleanURLs:     true,
		TrailingSlash: ctx.Target != export.TargetProject,
		Headers: []firebaseHeaders{{
			Source:  "/assets/**",
			Headers: []vercelHeader{{Key: "Cache-Control", Value: assetCacheControl}},
		}},
	}
	if ctx.Target == export.TargetProject {
		h.Rewrites = []firebaseRewrite{{Source: "**", Destination: "/index.html"}}
	}
	return []export.ExportedFile{export.TextFile("firebase.json", mustJSON(firebaseConfig{Hosting: h}))}
}

type renderBlueprint struct {
	Services []renderService `yaml:"services"`
}

type renderService struct {
	Type              string        `yaml:"type"`
	Name              string        `yaml:"name"`
	Runtime           string        `yaml:"runtime"`
	BuildCommand      string        `yaml:"buildCommand"`
	StaticPublishPath string        `yaml:"staticPublishPath"`
	Routes            []renderRoute `yaml:"routes,omitempty"`
	Headers           []renderHdr   `yaml:"headers,omitempty"`
}

type renderRoute struct {
	Type        string `yaml:"type"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

type renderHdr struct {
	Path  string `yaml:"path"`
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func renderFiles(ctx FileContext) []export.ExportedFile {
	name := ctx.SiteSlug
	if name == "" {
		name = "site"
	}
	svc := renderService{
		Type:              "web",
		Name:              name,
		Runtime:           "static",
		BuildCommand:      "echo 'no build step'",
		StaticPublishPath: ctx.OutputDir(),
		Headers:           []renderHdr{{Path: "/assets/*", Name: "Cache-Control", Value: assetCacheControl}},
	}
	if ctx.Target == export.TargetProject {
		svc.BuildCommand = "npm ci && npm run build"
		svc.Routes = []renderRoute{{Type: "rewrite", Source: "/*", Destination: "/index.html"}}
	}
	return []export.ExportedFile{export.TextFile("render.yaml", mustYAML(renderBlueprint{Services: []renderService{svc}}))}
}

// mustJSON and mustYAML marshal package-owned structs that cannot fail to encode.
func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data) + "\n"
}

func mustYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
