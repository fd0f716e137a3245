// Package physics infers physics parameters for the converted scene.
//
// BaselineModel is a placeholder returning fixed values. A trained model can
// be dropped in behind Predictor without changing the pipeline.
package physics

import (
	"maps"

	"vrhouse/internal/scene"
)

// Parameter names produced by the baseline model.
const (
	GravityScale        = "gravity_scale"
	FrictionCoefficient = "friction_coefficient"
	MassDistribution    = "mass_distribution"
)

// Predictor produces a physics profile from a specification. Implementations
// must be deterministic and free of side effects.
type Predictor interface {
	Predict(spec scene.Specification) scene.PhysicsProfile
}

// Range is the closed interval a parameter is allowed to take.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var parameterRanges = map[string]Range{
	GravityScale:        {Min: 0, Max: 10},
	FrictionCoefficient: {Min: 0, Max: 1},
	MassDistribution:    {Min: 0, Max: 1},
}

// Ranges returns the allowed interval for every known parameter.
func Ranges() map[string]Range {
	return maps.Clone(parameterRanges)
}

// BaselineModel returns constant parameters.
type BaselineModel struct{}

// Predict implements Predictor.
func (BaselineModel) Predict(scene.Specification) scene.PhysicsProfile {
	return scene.PhysicsProfile{
		GravityScale:        1.0,
		FrictionCoefficient: 0.8,
		MassDistribution:    0.5,
	}
}
