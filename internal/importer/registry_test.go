package importer_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vrhouse/internal/importer"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestSelectMatchesExactlyOneImporter(t *testing.T) {
	reg := importer.NewRegistry()
	for _, ext := range reg.SupportedExtensions() {
		loader, err := reg.Select("plan" + strings.ToUpper(ext))
		if err != nil {
			t.Fatalf("Select(%s) returned error: %v", ext, err)
		}
		if !slices.Contains(loader.Extensions(), ext) {
			t.Fatalf("importer %s does not declare %s", loader.Format(), ext)
		}

		matches := 0
		for _, f := range reg.Formats() {
			if slices.Contains(f.Extensions, ext) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("expected exactly one importer for %s, got %d", ext, matches)
		}
	}
}

func TestValidateRejectsUnknownAndEmptyExtensions(t *testing.T) {
	reg := importer.NewRegistry()
	for _, path := range []string{"plan.dwg", "plan", "archive.tar.gz", "dir.obj/plan.skp"} {
		err := reg.Validate(path)
		if !errors.Is(err, services.ErrUnsupportedFormat) {
			t.Fatalf("Validate(%q) = %v, want unsupported format", path, err)
		}
	}
}

func TestUnsupportedFormatListsSortedExtensions(t *testing.T) {
	err := importer.Validate("plan.dwg")
	if err == nil {
		t.Fatal("expected error")
	}
	want := ".fbx, .glb, .gltf, .ifc, .obj, .rvt"
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %q", want, err.Error())
	}
}

func TestLoadBuildsRootNode(t *testing.T) {
	source := writeSource(t, "house.OBJ")
	spec := scene.NewSpecification("demo", source)

	graph, err := importer.NewRegistry().Load(spec)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	root := graph[scene.RootNodeID]
	if root == nil {
		t.Fatalf("expected root node, got %v", graph)
	}
	if root[scene.AttrType] != "scene" {
		t.Fatalf("unexpected type %q", root[scene.AttrType])
	}
	if root[scene.AttrOriginFile] != source {
		t.Fatalf("unexpected origin %q", root[scene.AttrOriginFile])
	}
	if root[scene.AttrFormat] != "obj" {
		t.Fatalf("unexpected format %q", root[scene.AttrFormat])
	}
	if root[scene.AttrRequiredAssets] != "mtl-materials,uv-coordinates" {
		t.Fatalf("unexpected assets %q", root[scene.AttrRequiredAssets])
	}
}

func TestLoadGLBUsesGLTFImporter(t *testing.T) {
	source := writeSource(t, "house.glb")
	graph, err := importer.NewRegistry().Load(scene.NewSpecification("demo", source))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	root := graph[scene.RootNodeID]
	if root[scene.AttrFormat] != "gltf" {
		t.Fatalf("unexpected format %q", root[scene.AttrFormat])
	}
	if root[scene.AttrRequiredAssets] != "embedded-binary,compressed-textures" {
		t.Fatalf("unexpected assets %q", root[scene.AttrRequiredAssets])
	}
}

func TestLoadMissingSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.ifc")
	_, err := importer.NewRegistry().Load(scene.NewSpecification("demo", missing))
	if !errors.Is(err, services.ErrSourceNotFound) {
		t.Fatalf("expected source not found, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying cause to remain inspectable, got %v", err)
	}
}

func TestCustomRegistryFallsBackToGenericAssets(t *testing.T) {
	reg := importer.NewRegistry(importer.FormatImporter{Name: "sketchup", Suffixes: []string{".SKP"}})
	source := writeSource(t, "cabin.skp")

	graph, err := reg.Load(scene.NewSpecification("cabin", source))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := graph[scene.RootNodeID][scene.AttrRequiredAssets]; got != "generic-assets" {
		t.Fatalf("unexpected assets %q", got)
	}
	if err := reg.Validate("house.obj"); !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("custom registry should not know .obj, got %v", err)
	}
	if got := reg.SupportedExtensions(); !slices.Equal(got, []string{".skp"}) {
		t.Fatalf("unexpected extensions %v", got)
	}
}

type rootlessLoader struct{}

func (rootlessLoader) Format() string       { return "broken" }
func (rootlessLoader) Extensions() []string { return []string{".brk"} }
func (rootlessLoader) Load(scene.Specification) (scene.Graph, error) {
	return scene.Graph{"wall": {}}, nil
}

func TestLoadRejectsRootlessGraph(t *testing.T) {
	reg := importer.NewRegistry(rootlessLoader{})
	_, err := reg.Load(scene.NewSpecification("demo", "x.brk"))
	if !errors.Is(err, services.ErrMalformedSceneGraph) {
		t.Fatalf("expected malformed scene graph, got %v", err)
	}
}

func TestFirstMatchWins(t *testing.T) {
	reg := importer.NewRegistry(
		importer.FormatImporter{Name: "first", Suffixes: []string{".obj"}},
		importer.FormatImporter{Name: "second", Suffixes: []string{".obj"}},
	)
	loader, err := reg.Select("house.obj")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if loader.Format() != "first" {
		t.Fatalf("expected first registered importer, got %s", loader.Format())
	}
}
