package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceNotFound       = errors.New("source not found")
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrMalformedSceneGraph  = errors.New("malformed scene graph")
	ErrInvalidKey           = errors.New("invalid key")
	ErrIOFailure            = errors.New("io failure")
	ErrInvalidSpecification = errors.New("invalid specification")
)

var kinds = []struct {
	marker error
	name   string
}{
	{ErrSourceNotFound, "SourceNotFound"},
	{ErrUnsupportedFormat, "UnsupportedFormat"},
	{ErrMalformedSceneGraph, "MalformedSceneGraph"},
	{ErrInvalidKey, "InvalidKey"},
	{ErrIOFailure, "IOFailure"},
	{ErrInvalidSpecification, "InvalidSpecification"},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. The cause, when present, stays reachable through
// errors.Is and errors.As.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIOFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the taxonomy name of the first marker found in err, or
// "Unknown" when err carries none.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "Unknown"
}

// Details summarizes an error for display and persistence.
type Details struct {
	Kind    string
	Message string
}

// Describe extracts the kind and message from err.
func Describe(err error) Details {
	if err == nil {
		return Details{}
	}
	return Details{Kind: Kind(err), Message: strings.TrimSpace(err.Error())}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
