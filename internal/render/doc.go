// Package render maps site components to HTML markup.
//
// Every kind in the closed site.Kind set has exactly one handler, registered
// in the family files (nav.go, hero.go, layout.go, ...). Cross-cutting
// concerns are applied by the Renderer before a handler runs: breakpoint
// visibility, responsive style overrides, entrance animation attributes and
// panic recovery. Handlers only describe the markup of their own kind.
//
// Output is deterministic: the same component and Context always produce the
// same bytes. Counters that mint class names and element ids live in a
// Session, which callers create once per export so repeated or concurrent
// exports never share state.
package render
