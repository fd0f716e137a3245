package scene_test

import (
	"slices"
	"testing"

	"vrhouse/internal/scene"
)

func TestNewSpecificationDefaults(t *testing.T) {
	spec := scene.NewSpecification("demo", "house.obj")
	if !spec.EnablePhysics || !spec.EnableAIRealism {
		t.Fatalf("expected physics and ai realism enabled by default: %+v", spec)
	}
	want := []string{"htc-vive", "meta-quest", "pimax"}
	if got := spec.Platforms(); !slices.Equal(got, want) {
		t.Fatalf("unexpected platforms: got %v want %v", got, want)
	}
	if spec.HasEncryptionKey() {
		t.Fatal("expected no encryption key by default")
	}
}

func TestNewSpecificationDoesNotAliasDefaultPlatforms(t *testing.T) {
	first := scene.NewSpecification("a", "a.obj")
	second := scene.NewSpecification("b", "b.obj")
	first.TargetPlatforms[0] = "mutated"

	if second.TargetPlatforms[0] == "mutated" {
		t.Fatal("specifications share the default platform slice")
	}
	if scene.DefaultPlatforms()[0] == "mutated" {
		t.Fatal("default platform list was mutated through a specification")
	}
}

func TestWithPlatformsNormalizes(t *testing.T) {
	spec := scene.NewSpecification("demo", "house.obj", scene.WithPlatforms(" Pimax", "pimax", "", "META-QUEST"))
	if got := spec.Platforms(); !slices.Equal(got, []string{"meta-quest", "pimax"}) {
		t.Fatalf("unexpected platforms: %v", got)
	}

	empty := scene.NewSpecification("demo", "house.obj", scene.WithPlatforms())
	if len(empty.TargetPlatforms) != 3 {
		t.Fatalf("expected empty platform option to fall back to defaults, got %v", empty.TargetPlatforms)
	}
}

func TestWithAssetsCopiesMetadata(t *testing.T) {
	meta := map[string]string{"kind": "texture"}
	spec := scene.NewSpecification("demo", "house.obj", scene.WithAssets(scene.AssetReference{Name: "wood", Path: "wood.png", Metadata: meta}))
	meta["kind"] = "changed"
	if spec.Assets[0].Metadata["kind"] != "texture" {
		t.Fatalf("asset metadata aliased caller map: %v", spec.Assets[0].Metadata)
	}
}
