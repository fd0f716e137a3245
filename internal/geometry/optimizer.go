// Package geometry normalizes the imported scene graph for VR rendering.
package geometry

import (
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

// Optimizer runs the mandatory geometry normalization pass.
type Optimizer struct{}

// NewOptimizer constructs an Optimizer.
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// Optimize returns a copy of graph whose root carries geometry_optimized=true.
// The input is never modified and re-running on the output is a no-op.
func (o *Optimizer) Optimize(graph scene.Graph) (scene.Graph, error) {
	if !graph.HasRoot() {
		return nil, services.Wrap(services.ErrMalformedSceneGraph, "geometry", "optimize",
			"scene graph missing root node", nil)
	}
	optimized := graph.Clone()
	optimized[scene.RootNodeID][scene.AttrGeometryOptimized] = "true"
	return optimized, nil
}
