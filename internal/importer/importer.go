package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

const stageName = "import"

// Loader is the capability every format importer provides.
type Loader interface {
	Format() string
	Extensions() []string
	Load(spec scene.Specification) (scene.Graph, error)
}

// FormatImporter is a placeholder importer that derives the scene graph from
// the source path alone.
type FormatImporter struct {
	Name     string
	Suffixes []string
}

// Format returns the declared format name.
func (f FormatImporter) Format() string { return f.Name }

// Extensions returns a copy of the supported extensions.
func (f FormatImporter) Extensions() []string { return slices.Clone(f.Suffixes) }

// Load verifies the source exists and returns a graph holding only the root node.
func (f FormatImporter) Load(spec scene.Specification) (scene.Graph, error) {
	info, err := os.Stat(spec.SourceFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrSourceNotFound, stageName, "stat source",
				fmt.Sprintf("source file not found: %s", spec.SourceFile), err)
		}
		return nil, services.Wrap(services.ErrIOFailure, stageName, "stat source", spec.SourceFile, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrSourceNotFound, stageName, "stat source",
			fmt.Sprintf("source path is a directory: %s", spec.SourceFile), nil)
	}

	return scene.Graph{
		scene.RootNodeID: scene.Node{
			scene.AttrType:           "scene",
			scene.AttrOriginFile:     spec.SourceFile,
			scene.AttrFormat:         f.Name,
			scene.AttrRequiredAssets: scene.JoinList(RequiredAssets(spec.SourceFile)),
		},
	}, nil
}

var requiredAssetsByExtension = map[string][]string{
	".gltf": {"gltf-binary", "pbr-textures"},
	".glb":  {"embedded-binary", "compressed-textures"},
	".fbx":  {"fbx-materials", "animation-curves"},
	".obj":  {"mtl-materials", "uv-coordinates"},
	".ifc":  {"ifc-structure", "bim-properties"},
	".rvt":  {"revit-metadata", "autodesk-materials"},
}

var genericAssets = []string{"generic-assets"}

// RequiredAssets infers the placeholder asset list for a source path from its
// extension. Unknown extensions yield the generic list.
func RequiredAssets(path string) []string {
	if assets, ok := requiredAssetsByExtension[extension(path)]; ok {
		return slices.Clone(assets)
	}
	return slices.Clone(genericAssets)
}

// Defaults returns the built-in importers in lookup order.
func Defaults() []Loader {
	return []Loader{
		FormatImporter{Name: "ifc", Suffixes: []string{".ifc"}},
		FormatImporter{Name: "fbx", Suffixes: []string{".fbx"}},
		FormatImporter{Name: "obj", Suffixes: []string{".obj"}},
		FormatImporter{Name: "gltf", Suffixes: []string{".gltf", ".glb"}},
		FormatImporter{Name: "revit", Suffixes: []string{".rvt"}},
	}
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
