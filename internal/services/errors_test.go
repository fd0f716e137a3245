package services_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"vrhouse/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := fs.ErrPermission
	err := services.Wrap(services.ErrIOFailure, "export", "write package", "cannot write", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrIOFailure) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"export", "write package", "cannot write"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(services.ErrInvalidKey, "", "", "", nil)
	if err.Error() != "invalid key: conversion failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKindMapping(t *testing.T) {
	cases := map[string]error{
		"SourceNotFound":       services.Wrap(services.ErrSourceNotFound, "import", "", "", nil),
		"UnsupportedFormat":    services.Wrap(services.ErrUnsupportedFormat, "validate", "", "", nil),
		"MalformedSceneGraph":  services.Wrap(services.ErrMalformedSceneGraph, "geometry", "", "", nil),
		"InvalidKey":           services.Wrap(services.ErrInvalidKey, "export", "", "", nil),
		"IOFailure":            services.Wrap(services.ErrIOFailure, "export", "", "", errors.New("disk full")),
		"InvalidSpecification": services.Wrap(services.ErrInvalidSpecification, "validate", "", "", nil),
		"Unknown":              errors.New("plain"),
	}
	for want, err := range cases {
		if got := services.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
	if services.Kind(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
}

func TestDescribe(t *testing.T) {
	err := services.Wrap(services.ErrSourceNotFound, "import", "stat source", "missing", nil)
	details := services.Describe(err)
	if details.Kind != "SourceNotFound" {
		t.Fatalf("unexpected kind %q", details.Kind)
	}
	if !strings.Contains(details.Message, "stat source") {
		t.Fatalf("unexpected message %q", details.Message)
	}
}
