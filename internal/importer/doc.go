// Package importer selects a format importer by file extension and produces
// the initial scene graph.
//
// Importers are small variant records (one per format) behind the Loader
// interface; the Registry is an ordered dispatch table searched first-match
// by lower-cased extension. Only the extension is consulted today, so a real
// parser can replace a FormatImporter without touching any other stage.
package importer
