package site

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

// Load reads a site description from a YAML or JSON file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "site description not found").
				Fatal().
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read site description").
			Fatal().
			WithContext("path", path).
			Build()
	}
	s, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return s, nil
}

// Parse decodes a site description. JSON input is accepted as a YAML subset.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "decode site description").
			Fatal().
			WithContext("phase", "load").
			Build()
	}
	return &s, nil
}
