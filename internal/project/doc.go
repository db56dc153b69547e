// Package project emits a buildable Vite + React + TypeScript application:
// tooling manifests, an entry document, a router shell with one lazily
// loaded view per page and translation, a persisted light/dark toggle, SEO
// artifacts and a deployment note.
//
// Every view embeds the renderer output for its page as a trusted markup
// string. Inline images are extracted page by page against one shared
// extractor so numbering and deduplication hold across the whole project.
package project
