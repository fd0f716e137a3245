// Package material fills in default material annotations on scene nodes.
package material

import "vrhouse/internal/scene"

// GeneratedMaterial is the default assigned to nodes without a material.
const GeneratedMaterial = "ai-generated"

// Enhancer applies AI-assisted material defaults.
type Enhancer struct{}

// NewEnhancer constructs an Enhancer.
func NewEnhancer() *Enhancer {
	return &Enhancer{}
}

// Enhance returns a copy of graph where every content node lacking a material
// gets GeneratedMaterial, and the metadata node records materials=generated.
// Existing materials are kept.
func (e *Enhancer) Enhance(graph scene.Graph) scene.Graph {
	enhanced := graph.Clone()
	for id, node := range enhanced {
		if id == scene.RootNodeID || id == scene.MetadataNodeID {
			continue
		}
		if _, ok := node[scene.AttrMaterial]; !ok {
			node[scene.AttrMaterial] = GeneratedMaterial
		}
	}
	meta, ok := enhanced[scene.MetadataNodeID]
	if !ok {
		meta = scene.Node{}
		enhanced[scene.MetadataNodeID] = meta
	}
	meta[scene.AttrMaterials] = "generated"
	return enhanced
}
