package importer

import (
	"fmt"
	"slices"
	"strings"

	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

// Registry dispatches source files to importers by extension.
type Registry struct {
	loaders []Loader
}

// NewRegistry builds a registry over the given loaders, searched in order.
// With no loaders the built-in set is used.
func NewRegistry(loaders ...Loader) *Registry {
	if len(loaders) == 0 {
		loaders = Defaults()
	}
	return &Registry{loaders: slices.Clone(loaders)}
}

// Select returns the first loader whose extensions contain the path's
// lower-cased extension.
func (r *Registry) Select(path string) (Loader, error) {
	ext := extension(path)
	if ext == "" {
		return nil, services.Wrap(services.ErrUnsupportedFormat, "validate", "select importer",
			fmt.Sprintf("source file %q must have an extension identifying its format (supported extensions: %s)",
				path, strings.Join(r.SupportedExtensions(), ", ")), nil)
	}
	for _, loader := range r.loaders {
		for _, candidate := range loader.Extensions() {
			if strings.ToLower(candidate) == ext {
				return loader, nil
			}
		}
	}
	return nil, services.Wrap(services.ErrUnsupportedFormat, "validate", "select importer",
		fmt.Sprintf("unsupported file type %s (supported extensions: %s)",
			ext, strings.Join(r.SupportedExtensions(), ", ")), nil)
}

// Validate fails fast when no importer can handle path. It does not touch
// the filesystem.
func (r *Registry) Validate(path string) error {
	_, err := r.Select(path)
	return err
}

// Load selects the importer for the specification's source and runs it.
func (r *Registry) Load(spec scene.Specification) (scene.Graph, error) {
	loader, err := r.Select(spec.SourceFile)
	if err != nil {
		return nil, err
	}
	graph, err := loader.Load(spec)
	if err != nil {
		return nil, err
	}
	if !graph.HasRoot() {
		return nil, services.Wrap(services.ErrMalformedSceneGraph, stageName, loader.Format(),
			"importer produced a graph without a root node", nil)
	}
	return graph, nil
}

// SupportedExtensions returns every registered extension, lower-cased,
// de-duplicated, and sorted.
func (r *Registry) SupportedExtensions() []string {
	var out []string
	for _, loader := range r.loaders {
		for _, ext := range loader.Extensions() {
			out = append(out, strings.ToLower(ext))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Format describes one registered importer for listings.
type Format struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// Formats lists registered importers in lookup order.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.loaders))
	for _, loader := range r.loaders {
		out = append(out, Format{Name: loader.Format(), Extensions: loader.Extensions()})
	}
	return out
}

// Validate checks path against the built-in importers.
func Validate(path string) error {
	return NewRegistry().Validate(path)
}
