// Package site holds the declarative website description consumed by the
// export pipeline: sites, pages, translations, the closed set of component
// kinds and the theme.
//
// Values are loaded from YAML or JSON (Load, Parse) and normalized once at
// ingestion (Normalize). Normalization coerces loosely-typed collection
// properties per component kind, canonicalizes translation language tags,
// sanitizes slugs and settles the home page. It always returns a fresh copy;
// renderers and emitters treat the result as immutable.
package site
