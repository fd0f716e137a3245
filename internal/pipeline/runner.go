package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vrhouse/internal/geometry"
	"vrhouse/internal/importer"
	"vrhouse/internal/logging"
	"vrhouse/internal/material"
	"vrhouse/internal/packaging"
	"vrhouse/internal/physics"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

const tracerName = "vrhouse/internal/pipeline"

// Optimizer is the geometry stage contract.
type Optimizer interface {
	Optimize(scene.Graph) (scene.Graph, error)
}

// Runner executes conversions. A Runner holds no per-run state and may be
// shared across goroutines.
type Runner struct {
	registry  *importer.Registry
	optimizer Optimizer
	enhancer  *material.Enhancer
	predictor physics.Predictor
	builder   *packaging.Builder
	exporter  *packaging.Exporter
	logger    *slog.Logger
	tracer    trace.Tracer
	newRunID  func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry swaps the importer registry, e.g. for a custom format list.
func WithRegistry(registry *importer.Registry) Option {
	return func(r *Runner) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithOptimizer swaps the geometry stage.
func WithOptimizer(o Optimizer) Option {
	return func(r *Runner) {
		if o != nil {
			r.optimizer = o
		}
	}
}

// WithPredictor swaps the physics model.
func WithPredictor(p physics.Predictor) Option {
	return func(r *Runner) {
		if p != nil {
			r.predictor = p
		}
	}
}

// WithExporter swaps the package exporter.
func WithExporter(e *packaging.Exporter) Option {
	return func(r *Runner) {
		if e != nil {
			r.exporter = e
		}
	}
}

// WithLogger sets the logger used for stage lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracerProvider sets the provider for run and stage spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// New constructs a Runner with the default registry, stages, and exporter.
func New(opts ...Option) *Runner {
	r := &Runner{
		registry:  importer.NewRegistry(),
		optimizer: geometry.NewOptimizer(),
		enhancer:  material.NewEnhancer(),
		predictor: physics.BaselineModel{},
		builder:   packaging.NewBuilder(),
		logger:    logging.NewNop(),
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "pipeline")
	if r.tracer == nil {
		r.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	if r.exporter == nil {
		r.exporter = packaging.NewExporter(packaging.WithLogger(r.logger))
	}
	return r
}

// Registry exposes the importer registry the runner validates against.
func (r *Runner) Registry() *importer.Registry {
	return r.registry
}

// Run converts spec into an encrypted package under outputDir. progress may
// be nil. The returned error is the failing stage's error, unmodified.
func (r *Runner) Run(ctx context.Context, spec scene.Specification, outputDir string, progress ProgressFunc) (scene.ConversionResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = r.newRunID()
		ctx = services.WithRunID(ctx, runID)
	}
	ctx = services.WithProject(ctx, spec.ProjectName)

	ctx, span := r.tracer.Start(ctx, "conversion", trace.WithAttributes(
		attribute.String("vrhouse.run_id", runID),
		attribute.String("vrhouse.project", spec.ProjectName),
		attribute.String("vrhouse.source_file", spec.SourceFile),
		attribute.Bool("vrhouse.enable_physics", spec.EnablePhysics),
		attribute.Bool("vrhouse.enable_ai_realism", spec.EnableAIRealism),
	))
	defer span.End()

	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()
	state := &runState{
		spec:      spec,
		outputDir: outputDir,
		profile:   scene.PhysicsProfile{},
	}

	for _, st := range r.stages() {
		if st.enabled != nil && !st.enabled(spec) {
			logger.Debug("stage skipped", logging.String(logging.FieldStage, st.name))
			continue
		}
		progress.emit(st.progress, st.message)
		if err := r.runStage(ctx, st, state); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, services.Kind(err))
			progress.emit(ErrorProgress, err.Error())
			return scene.ConversionResult{}, err
		}
	}

	progress.emit(ProgressDone, DoneMessage)
	span.SetStatus(codes.Ok, "")
	logger.Info(
		"conversion completed",
		logging.String(logging.FieldEventType, "conversion_complete"),
		logging.String("package_path", state.pkgPath),
		logging.Int("physics_parameters", len(state.profile)),
		logging.Duration("duration", time.Since(started)),
	)

	return scene.ConversionResult{
		Scene:         state.built,
		PackagePath:   state.pkgPath,
		EncryptionKey: state.key,
	}, nil
}

func (r *Runner) runStage(ctx context.Context, st stage, state *runState) error {
	stageCtx := services.WithStage(ctx, st.name)
	stageCtx, span := r.tracer.Start(stageCtx, "stage."+st.name, trace.WithAttributes(
		attribute.String("vrhouse.stage", st.name),
		attribute.Float64("vrhouse.progress", st.progress),
	))
	defer span.End()

	stageLogger := logging.WithContext(stageCtx, r.logger)
	stageLogger.Debug(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.Float64("progress", st.progress),
	)

	started := time.Now()
	if err := st.run(stageCtx, state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, services.Kind(err))
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure", services.Kind(err),
			logging.Error(err),
		)
		return err
	}

	stageLogger.Debug(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", time.Since(started)),
	)
	return nil
}
