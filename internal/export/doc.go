// Package export defines the types shared by both export targets: the
// universal output unit (ExportedFile), options and optimization profiles,
// progress events, statistics, and the staged pipeline runner with its
// report.
//
// # Architecture
//
// An emitter composes a series of stages (render, synthesize, extract,
// hosting, verify, package). Each stage operates on the emitter's own state
// and is timed and classified by RunStages; timings and issues are exported
// through Report. Cancellation is checked before every stage and, inside
// stages, between pages and assets. A fatal stage error aborts the run and
// no files are returned.
package export
