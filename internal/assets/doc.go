// Package assets extracts inline base64 images from generated text files
// into standalone, deduplicated and optionally optimized asset files, and
// rewrites every reference to point at them.
//
// An Extractor holds the state of one export: the content-addressed index,
// the name counter and the collected assets. Process may be called several
// times (the project emitter calls it once per page); numbering and dedup
// hold across calls. Names are assigned sequentially in discovery order
// before any optimization work starts, so the result is independent of
// worker scheduling.
package assets
