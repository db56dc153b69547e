// Package static emits a ready-to-serve document bundle: one HTML document
// per page and translation, a site-wide stylesheet and behavior script,
// extracted image assets, SEO artifacts and hosting platform files.
//
// Emission runs as an ordered list of export stages sharing one Emitter;
// every stage produces new files and never edits the site description.
package static
