package packaging_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vrhouse/internal/packaging"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

func sampleScene(spec scene.Specification, profile scene.PhysicsProfile) scene.VRScene {
	graph := scene.Graph{
		scene.RootNodeID:     {"type": "scene", "geometry_optimized": "true"},
		scene.MetadataNodeID: {"materials": "generated"},
	}
	return packaging.NewBuilder().Build(spec, graph, profile)
}

func TestBuildStampsMetadata(t *testing.T) {
	spec := scene.NewSpecification("demo", "house.obj", scene.WithPlatforms("pimax", "meta-quest"))
	s := sampleScene(spec, nil)
	if s.AIMetadata[packaging.MetaExporter] != packaging.BuilderID {
		t.Fatalf("unexpected exporter %q", s.AIMetadata[packaging.MetaExporter])
	}
	if s.AIMetadata[packaging.MetaProject] != "demo" {
		t.Fatalf("unexpected project %q", s.AIMetadata[packaging.MetaProject])
	}
	if s.AIMetadata[packaging.MetaTargetPlatforms] != "meta-quest,pimax" {
		t.Fatalf("unexpected platforms %q", s.AIMetadata[packaging.MetaTargetPlatforms])
	}
	if s.PhysicsProfile == nil || len(s.PhysicsProfile) != 0 {
		t.Fatalf("expected empty profile, got %#v", s.PhysicsProfile)
	}
}

func TestExportGeneratedKeyWritesKeyFile(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	spec := scene.NewSpecification("demo", "house.obj")
	s := sampleScene(spec, scene.PhysicsProfile{"gravity_scale": 1})

	pkgPath, key, err := packaging.NewExporter().Export(s, outDir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if pkgPath != filepath.Join(outDir, "demo.vrpkg") {
		t.Fatalf("unexpected package path %q", pkgPath)
	}
	keyData, err := os.ReadFile(filepath.Join(outDir, "demo.key"))
	if err != nil {
		t.Fatalf("read key file: %v", err)
	}
	if string(keyData) != key {
		t.Fatalf("key file %q does not match returned key %q", keyData, key)
	}

	payload, err := packaging.Decrypt(pkgPath, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	want := packaging.PayloadFromScene(s)
	if !reflect.DeepEqual(payload, want) {
		t.Fatalf("payload mismatch:\n got %#v\nwant %#v", payload, want)
	}
}

func TestExportSuppliedKeySkipsKeyFile(t *testing.T) {
	outDir := t.TempDir()
	key, err := packaging.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	spec := scene.NewSpecification("supplied", "house.ifc", scene.WithEncryptionKey(key))

	pkgPath, returned, err := packaging.NewExporter().Export(sampleScene(spec, nil), outDir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if returned != key {
		t.Fatalf("returned key %q differs from supplied %q", returned, key)
	}
	if _, err := os.Stat(filepath.Join(outDir, "supplied.key")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no key file, stat err = %v", err)
	}
	payload, err := packaging.Decrypt(pkgPath, returned)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if payload.Project != "supplied" {
		t.Fatalf("unexpected project %q", payload.Project)
	}
	if payload.PhysicsProfile == nil || len(payload.PhysicsProfile) != 0 {
		t.Fatalf("expected empty physics profile, got %#v", payload.PhysicsProfile)
	}
}

func TestExportRejectsMalformedSuppliedKey(t *testing.T) {
	outDir := t.TempDir()
	spec := scene.NewSpecification("bad", "house.obj", scene.WithEncryptionKey("definitely-not-a-key"))
	_, _, err := packaging.NewExporter().Export(sampleScene(spec, nil), outDir)
	if !errors.Is(err, services.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "bad.vrpkg")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no package written, stat err = %v", statErr)
	}
}

func TestExportKeyFactoryFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	exp := packaging.NewExporter(packaging.WithKeyFactory(func() (string, error) { return "", boom }))
	_, _, err := exp.Export(sampleScene(scene.NewSpecification("demo", "house.obj"), nil), t.TempDir())
	if !errors.Is(err, services.ErrIOFailure) || !errors.Is(err, boom) {
		t.Fatalf("expected io failure wrapping cause, got %v", err)
	}
}

func TestExportOutputDirectoryBlockedByFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	_, _, err := packaging.NewExporter().Export(sampleScene(scene.NewSpecification("demo", "house.obj"), nil), filepath.Join(blocker, "out"))
	if !errors.Is(err, services.ErrIOFailure) {
		t.Fatalf("expected io failure, got %v", err)
	}
}

func TestExportKeyWriteFailureLeavesNoPackage(t *testing.T) {
	outDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(outDir, "demo.key", "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, _, err := packaging.NewExporter().Export(sampleScene(scene.NewSpecification("demo", "house.obj"), nil), outDir)
	if !errors.Is(err, services.ErrIOFailure) {
		t.Fatalf("expected io failure, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "demo.vrpkg")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no package after key write failure, stat err = %v", statErr)
	}
}

func TestExportPackageWriteFailureRemovesGeneratedKey(t *testing.T) {
	outDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(outDir, "demo.vrpkg", "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, _, err := packaging.NewExporter().Export(sampleScene(scene.NewSpecification("demo", "house.obj"), nil), outDir)
	if !errors.Is(err, services.ErrIOFailure) {
		t.Fatalf("expected io failure, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "demo.key")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected generated key removed after package write failure, stat err = %v", statErr)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	outDir := t.TempDir()
	pkgPath, _, err := packaging.NewExporter().Export(sampleScene(scene.NewSpecification("demo", "house.obj"), nil), outDir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	other, _ := packaging.GenerateKey()
	if _, err := packaging.Decrypt(pkgPath, other); !errors.Is(err, services.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
	if _, err := packaging.Decrypt(filepath.Join(outDir, "missing.vrpkg"), other); !errors.Is(err, services.ErrIOFailure) {
		t.Fatalf("expected io failure for missing package, got %v", err)
	}
}

func TestPayloadEncodeDeterministic(t *testing.T) {
	p := packaging.Payload{
		Project:        "demo",
		SceneGraph:     scene.Graph{"b": {"y": "1", "x": "2"}, scene.RootNodeID: {"type": "scene"}},
		PhysicsProfile: scene.PhysicsProfile{"mass_distribution": 0.5, "gravity_scale": 1},
		AIMetadata:     map[string]string{"project": "demo", "exporter": "vr-scene-builder"},
	}
	first, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := p.Encode()
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("encoding not deterministic:\n%s\n%s", first, again)
		}
	}
	empty, err := packaging.Payload{Project: "x"}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := packaging.DecodePayload(empty)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if decoded.PhysicsProfile == nil || decoded.SceneGraph == nil {
		t.Fatalf("expected empty maps after decode, got %#v", decoded)
	}
}
