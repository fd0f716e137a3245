// Package scene defines the data contract passed between conversion stages.
//
// A Specification describes one conversion request and is built once by the
// caller. The importer turns it into a Graph, the geometry and material stages
// return transformed copies of that Graph, the physics stage produces a
// PhysicsProfile, and the builder aggregates everything into a VRScene that
// the exporter consumes exactly once.
//
// Stages must treat every value from this package as read-only and return
// copies; Graph.Clone exists for that purpose. The only node every stage can
// rely on is RootNodeID.
package scene
