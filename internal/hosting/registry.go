// Package hosting holds the registry of hosting platform presets: default
// image optimization profiles, platform configuration files and deploy
// instructions. Built-in presets register from init; lookups never fail and
// unknown identifiers resolve to the generic preset.
package hosting

import (
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitepress/internal/export"
)

// GenericID identifies the fallback preset.
const GenericID = "generic"

// FileContext is what a preset needs to know to produce its files.
type FileContext struct {
	Target   export.Target
	SiteSlug string
	// PublicDir is the directory copied verbatim into the deployed output
	// ("" for the static target, "public" for the project target).
	PublicDir string
}

// OutputDir is the directory a platform should publish.
func (c FileContext) OutputDir() string {
	if c.Target == export.TargetProject {
		return "dist"
	}
	return "."
}

// public joins name onto the public directory.
func (c FileContext) public(name string) string {
	if c.PublicDir == "" {
		return name
	}
	return c.PublicDir + "/" + name
}

// Preset describes one hosting platform.
type Preset struct {
	ID          string
	Name        string
	Profile     export.OptimizationProfile
	Files       func(FileContext) []export.ExportedFile
	DeploySteps []string
	DocsURL     string
}

// ConfigFiles returns the preset's files for ctx; presets without files return nil.
func (p Preset) ConfigFiles(ctx FileContext) []export.ExportedFile {
	if p.Files == nil {
		return nil
	}
	return p.Files(ctx)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Preset{}
)

// Register adds a preset. Duplicate identifiers are ignored.
func Register(p Preset) {
	id := normalizeID(p.ID)
	if id == "" {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		return
	}
	p.ID = id
	registry[id] = p
}

// Resolve returns the preset for id, or the generic preset when id is empty or unknown.
func Resolve(id string) Preset {
	p, _ := Lookup(id)
	return p
}

// Lookup is Resolve that also reports whether id was known.
func Lookup(id string) (Preset, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if p, ok := registry[normalizeID(id)]; ok {
		return p, true
	}
	return registry[GenericID], false
}

// IDs returns the registered identifiers in sorted order.
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MergeProfile overlays override onto base field by field; the override wins
// wherever it sets a field.
func MergeProfile(base export.OptimizationProfile, override *export.ProfileOverride) export.OptimizationProfile {
	return base.Apply(override)
}

var aliases = map[string]string{
	"gh-pages":   "github-pages",
	"github":     "github-pages",
	"cloudflare": "cloudflare-pages",
	"pages":      "cloudflare-pages",
	"":           GenericID,
}

func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.ReplaceAll(id, "_", "-")
	id = strings.ReplaceAll(id, " ", "-")
	if alias, ok := aliases[id]; ok {
		return alias
	}
	return id
}
