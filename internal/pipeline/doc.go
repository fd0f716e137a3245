// Package pipeline runs a conversion request through the fixed stage chain
// validate, import, geometry, material, physics, build, export.
//
// Runner.Run is synchronous: every stage executes on the calling goroutine,
// in order, and the first stage error aborts the run. Progress is reported
// through a ProgressFunc invoked before each stage, ending with (1.0, "done")
// on success or (ErrorProgress, message) on failure. The context carries the
// run id, logging fields, and tracing spans; it does not cancel a run.
//
// Concurrent runs sharing a project name and output directory write the same
// package and key paths. Callers must give concurrent runs distinct names or
// directories.
package pipeline
