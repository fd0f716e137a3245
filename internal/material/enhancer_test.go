package material_test

import (
	"testing"

	"vrhouse/internal/material"
	"vrhouse/internal/scene"
)

func TestEnhanceKeepsExistingMaterials(t *testing.T) {
	input := scene.Graph{
		scene.RootNodeID: {"type": "scene"},
		"wall":           {"material": "brick"},
		"floor":          {},
		"empty":          {"material": ""},
	}
	out := material.NewEnhancer().Enhance(input)

	if out["wall"][scene.AttrMaterial] != "brick" {
		t.Fatalf("existing material overwritten: %v", out["wall"])
	}
	if out["empty"][scene.AttrMaterial] != "" {
		t.Fatalf("declared empty material overwritten: %v", out["empty"])
	}
	if out["floor"][scene.AttrMaterial] != material.GeneratedMaterial {
		t.Fatalf("expected generated material, got %v", out["floor"])
	}
	if _, ok := out[scene.RootNodeID][scene.AttrMaterial]; ok {
		t.Fatalf("root should not receive a material: %v", out[scene.RootNodeID])
	}
	if out[scene.MetadataNodeID][scene.AttrMaterials] != "generated" {
		t.Fatalf("expected metadata marker, got %v", out[scene.MetadataNodeID])
	}
	if _, ok := input["floor"][scene.AttrMaterial]; ok {
		t.Fatal("input graph was mutated")
	}
	if _, ok := input[scene.MetadataNodeID]; ok {
		t.Fatal("input graph gained a metadata node")
	}
}

func TestEnhanceRootOnlyGraph(t *testing.T) {
	out := material.NewEnhancer().Enhance(scene.Graph{scene.RootNodeID: {}})
	if len(out) != 2 {
		t.Fatalf("expected root plus metadata, got %v", out)
	}
	if out[scene.MetadataNodeID][scene.AttrMaterials] != "generated" {
		t.Fatalf("expected metadata marker, got %v", out)
	}
}

func TestEnhanceIsStableOnRerun(t *testing.T) {
	enh := material.NewEnhancer()
	once := enh.Enhance(scene.Graph{scene.RootNodeID: {}, "door": {}})
	twice := enh.Enhance(once)
	if !once.Equal(twice) {
		t.Fatalf("expected rerun to be a no-op: %v vs %v", once, twice)
	}
	if _, ok := twice[scene.MetadataNodeID][scene.AttrMaterial]; ok {
		t.Fatal("metadata node should not receive a material")
	}
}
