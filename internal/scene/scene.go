package scene

import "maps"

// PhysicsProfile maps physics parameter names to scalar values. It is empty
// when physics inference is disabled.
type PhysicsProfile map[string]float64

// Clone returns an independent copy; a nil profile clones to an empty one.
func (p PhysicsProfile) Clone() PhysicsProfile {
	if p == nil {
		return PhysicsProfile{}
	}
	return maps.Clone(p)
}

// VRScene is the aggregate produced by the builder and consumed by the exporter.
type VRScene struct {
	Specification  Specification
	SceneGraph     Graph
	PhysicsProfile PhysicsProfile
	AIMetadata     map[string]string
}

// ConversionResult is returned to the caller of a successful conversion.
type ConversionResult struct {
	Scene         VRScene
	PackagePath   string
	EncryptionKey string
}
