package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"vrhouse/internal/packaging"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

// Stage names as they appear in logs, spans, and wrapped errors.
const (
	StageValidate = "validate"
	StageImport   = "import"
	StageGeometry = "geometry"
	StageMaterial = "material"
	StagePhysics  = "physics"
	StageBuild    = "build"
	StageExport   = "export"
)

// runState threads intermediate values between stages of one run.
type runState struct {
	spec      scene.Specification
	outputDir string
	graph     scene.Graph
	profile   scene.PhysicsProfile
	built     scene.VRScene
	pkgPath   string
	key       string
}

type stage struct {
	name     string
	progress float64
	message  string
	enabled  func(scene.Specification) bool
	run      func(context.Context, *runState) error
}

// stages returns the ordered stage table bound to r's collaborators.
func (r *Runner) stages() []stage {
	return []stage{
		{
			name:     StageValidate,
			progress: ProgressValidate,
			message:  "Validating source file",
			run:      r.validate,
		},
		{
			name:     StageImport,
			progress: ProgressImport,
			message:  "Loading base geometry",
			run: func(_ context.Context, st *runState) error {
				graph, err := r.registry.Load(st.spec)
				if err != nil {
					return err
				}
				st.graph = graph
				return nil
			},
		},
		{
			name:     StageGeometry,
			progress: ProgressGeometry,
			message:  "Optimizing geometry and meshes",
			run: func(_ context.Context, st *runState) error {
				graph, err := r.optimizer.Optimize(st.graph)
				if err != nil {
					return err
				}
				st.graph = graph
				return nil
			},
		},
		{
			name:     StageMaterial,
			progress: ProgressMaterial,
			message:  "Applying AI material realism",
			enabled:  func(s scene.Specification) bool { return s.EnableAIRealism },
			run: func(_ context.Context, st *runState) error {
				st.graph = r.enhancer.Enhance(st.graph)
				return nil
			},
		},
		{
			name:     StagePhysics,
			progress: ProgressPhysics,
			message:  "Generating physics profile",
			enabled:  func(s scene.Specification) bool { return s.EnablePhysics },
			run: func(_ context.Context, st *runState) error {
				st.profile = r.predictor.Predict(st.spec)
				return nil
			},
		},
		{
			name:     StageBuild,
			progress: ProgressBuild,
			message:  "Composing encrypted VR scene",
			run: func(_ context.Context, st *runState) error {
				st.built = r.builder.Build(st.spec, st.graph, st.profile)
				return nil
			},
		},
		{
			name:     StageExport,
			progress: ProgressExport,
			message:  "Exporting protected package",
			run: func(_ context.Context, st *runState) error {
				pkgPath, key, err := r.exporter.Export(st.built, st.outputDir)
				if err != nil {
					return err
				}
				st.pkgPath, st.key = pkgPath, key
				return nil
			},
		},
	}
}

// validate fails fast before any file is touched: project name, source
// extension, and any caller-supplied key.
// plainFileName reports whether name stays inside the directory it is joined to.
func plainFileName(name string) bool {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

func (r *Runner) validate(_ context.Context, st *runState) error {
	if strings.TrimSpace(st.spec.ProjectName) == "" {
		return services.Wrap(services.ErrInvalidSpecification, StageValidate, "check project", "project name is required", nil)
	}
	if !plainFileName(st.spec.ProjectName) {
		return services.Wrap(services.ErrInvalidSpecification, StageValidate, "check project", "project name must be a plain file name: "+st.spec.ProjectName, nil)
	}
	if err := r.registry.Validate(st.spec.SourceFile); err != nil {
		return err
	}
	if st.spec.HasEncryptionKey() {
		if _, err := packaging.ParseKey(st.spec.OutputEncryptionKey); err != nil {
			return err
		}
	}
	return nil
}
