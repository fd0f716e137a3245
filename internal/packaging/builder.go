package packaging

import (
	"strings"

	"vrhouse/internal/scene"
)

// BuilderID identifies this exporter in package provenance metadata.
const BuilderID = "vr-scene-builder"

// Metadata keys stamped by Build.
const (
	MetaExporter        = "exporter"
	MetaProject         = "project"
	MetaTargetPlatforms = "target_platforms"
)

// Builder aggregates stage outputs into a VRScene.
type Builder struct {
	id string
}

// NewBuilder constructs a Builder using BuilderID.
func NewBuilder() *Builder {
	return &Builder{id: BuilderID}
}

// Build aggregates the specification, graph, and physics profile. Inputs are
// copied so the scene does not alias stage state.
func (b *Builder) Build(spec scene.Specification, graph scene.Graph, profile scene.PhysicsProfile) scene.VRScene {
	return scene.VRScene{
		Specification:  spec,
		SceneGraph:     graph.Clone(),
		PhysicsProfile: profile.Clone(),
		AIMetadata: map[string]string{
			MetaExporter:        b.id,
			MetaProject:         spec.ProjectName,
			MetaTargetPlatforms: strings.Join(spec.Platforms(), ","),
		},
	}
}
