package textutil

import (
	"path/filepath"
	"strings"
)

// fileNameReplacer maps path separators and shell-hostile characters to safe
// stand-ins.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces characters that cannot appear in a file stem.
// Surrounding whitespace and dots are trimmed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	return strings.Trim(name, ". ")
}

// ProjectNameFromPath derives a project name from the stem of path.
func ProjectNameFromPath(path string) string {
	base := filepath.Base(path)
	return SanitizeFileName(strings.TrimSuffix(base, filepath.Ext(base)))
}
