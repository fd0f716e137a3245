// Package services defines shared utilities consumed by the conversion stages
// and the surfaces that drive them.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and project names for
//     logging and tracing.
//   - The error taxonomy (source not found, unsupported format, malformed
//     scene graph, invalid key, IO failure) plus the Wrap helper that keeps
//     the original cause inspectable.
//
// Use these helpers when wiring new stage logic so failures surface with the
// same shape no matter which stage produced them.
package services
