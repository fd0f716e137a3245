package services_test

import (
	"context"
	"testing"

	"vrhouse/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithStage(ctx, "geometry")
	ctx = services.WithProject(ctx, "demo")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "geometry" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if project, ok := services.ProjectFromContext(ctx); !ok || project != "demo" {
		t.Fatalf("unexpected project: %v %v", project, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
