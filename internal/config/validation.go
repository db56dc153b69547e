package config

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/hosting"
)

// Validate checks a configuration with defaults applied.
func Validate(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return configError("unsupported configuration version", "version", cfg.Version)
	}
	if export.ParseTarget(cfg.Export.Target) == "" {
		return configError("unknown export target", "export.target", cfg.Export.Target)
	}
	switch cfg.Export.Format {
	case "dir", "zip":
	default:
		return configError("unknown export format (want dir or zip)", "export.format", cfg.Export.Format)
	}
	if p := cfg.Export.HostingPlatform; p != "" {
		if _, ok := hosting.Lookup(p); !ok {
			return configError("unknown hosting platform (known: "+strings.Join(hosting.IDs(), ", ")+")", "export.hosting_platform", p)
		}
	}
	if u := cfg.Export.SiteURL; u != "" {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return configError("site_url must be an absolute http(s) URL", "export.site_url", u)
		}
	}
	if cfg.Export.Workers < 0 {
		return configError("workers must not be negative", "export.workers", cfg.Export.Workers)
	}
	if o := cfg.Export.ImageOptimization; o != nil {
		if o.Quality != nil && (*o.Quality < 1 || *o.Quality > 100) {
			return configError("quality must be between 1 and 100", "export.image_optimization.quality", *o.Quality)
		}
		for field, v := range map[string]*int{"max_width": o.MaxWidth, "max_height": o.MaxHeight, "min_size_bytes": o.MinSizeBytes} {
			if v != nil && *v < 0 {
				return configError("value must not be negative", "export.image_optimization."+field, *v)
			}
		}
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		return configError("history path is required when history is enabled", "history.path", "")
	}
	return nil
}

func configError(msg, field string, value any) error {
	return errors.ConfigError(msg).WithContext("field", field).WithContext("value", value).Build()
}
