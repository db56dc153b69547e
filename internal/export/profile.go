package export

// OptimizationProfile controls asset transcoding.
type OptimizationProfile struct {
	Enabled       bool `yaml:"enabled" json:"enabled"`
	MaxWidth      int  `yaml:"max_width" json:"maxWidth"`   // 0 = unbounded
	MaxHeight     int  `yaml:"max_height" json:"maxHeight"` // 0 = unbounded
	Quality       int  `yaml:"quality" json:"quality"`      // 1-100
	ConvertFormat bool `yaml:"convert_format" json:"convertFormat"`
	MinSizeBytes  int  `yaml:"min_size_bytes" json:"minSizeBytes"`
}

// DefaultProfile is used when neither caller nor hosting preset supplies one.
func DefaultProfile() OptimizationProfile {
	return OptimizationProfile{
		Enabled:      true,
		MaxWidth:     1920,
		MaxHeight:    1920,
		Quality:      80,
		MinSizeBytes: 10 * 1024,
	}
}

// ProfileOverride carries caller-supplied profile fields; nil fields are left untouched.
type ProfileOverride struct {
	Enabled       *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	MaxWidth      *int  `yaml:"max_width,omitempty" json:"maxWidth,omitempty"`
	MaxHeight     *int  `yaml:"max_height,omitempty" json:"maxHeight,omitempty"`
	Quality       *int  `yaml:"quality,omitempty" json:"quality,omitempty"`
	ConvertFormat *bool `yaml:"convert_format,omitempty" json:"convertFormat,omitempty"`
	MinSizeBytes  *int  `yaml:"min_size_bytes,omitempty" json:"minSizeBytes,omitempty"`
}

// Apply merges o over p field by field; o wins where set.
func (p OptimizationProfile) Apply(o *ProfileOverride) OptimizationProfile {
	if o == nil {
		return p.Clamp()
	}
	if o.Enabled != nil {
		p.Enabled = *o.Enabled
	}
	if o.MaxWidth != nil {
		p.MaxWidth = *o.MaxWidth
	}
	if o.MaxHeight != nil {
		p.MaxHeight = *o.MaxHeight
	}
	if o.Quality != nil {
		p.Quality = *o.Quality
	}
	if o.ConvertFormat != nil {
		p.ConvertFormat = *o.ConvertFormat
	}
	if o.MinSizeBytes != nil {
		p.MinSizeBytes = *o.MinSizeBytes
	}
	return p.Clamp()
}

// Clamp forces numeric fields into their valid ranges.
func (p OptimizationProfile) Clamp() OptimizationProfile {
	if p.Quality <= 0 || p.Quality > 100 {
		p.Quality = 80
	}
	if p.MaxWidth < 0 {
		p.MaxWidth = 0
	}
	if p.MaxHeight < 0 {
		p.MaxHeight = 0
	}
	if p.MinSizeBytes < 0 {
		p.MinSizeBytes = 0
	}
	return p
}

// Options are the caller-facing knobs of Generate.
type Options struct {
	ImageOptimization *ProfileOverride
	HostingPlatform   string
	FormActionURL     string
	SiteURL           string // absolute origin used for canonical links and the sitemap
	Workers           int    // asset optimization concurrency; <=0 selects one per CPU
}
