package packaging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vrhouse/internal/fileutil"
	"vrhouse/internal/logging"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

const (
	stageName = "export"

	PackageExtension = ".vrpkg"
	KeyExtension     = ".key"
)

// Exporter writes encrypted packages.
type Exporter struct {
	logger      *slog.Logger
	generateKey func() (string, error)
}

// ExporterOption customizes an Exporter.
type ExporterOption func(*Exporter)

// WithLogger routes export diagnostics to logger.
func WithLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = logger }
}

// WithKeyFactory overrides key generation.
func WithKeyFactory(fn func() (string, error)) ExporterOption {
	return func(e *Exporter) {
		if fn != nil {
			e.generateKey = fn
		}
	}
}

// NewExporter constructs an Exporter.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{generateKey: GenerateKey}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "exporter")
	return e
}

// PackagePath returns where a project's package is written.
func PackagePath(outputDir, project string) string {
	return filepath.Join(outputDir, project+PackageExtension)
}

// KeyPath returns where a project's generated key is written.
func KeyPath(outputDir, project string) string {
	return filepath.Join(outputDir, project+KeyExtension)
}

// Export writes the encrypted package for s into outputDir and returns the
// package path and the key that decrypts it. A caller-supplied key is used
// verbatim and never written to disk; a generated key is written next to the
// package as <project>.key.
func (e *Exporter) Export(s scene.VRScene, outputDir string) (string, string, error) {
	spec := s.Specification

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", services.Wrap(services.ErrIOFailure, stageName, "create output directory", outputDir, err)
	}

	key := spec.OutputEncryptionKey
	generated := !spec.HasEncryptionKey()
	if generated {
		var err error
		if key, err = e.generateKey(); err != nil {
			return "", "", services.Wrap(services.ErrIOFailure, stageName, "generate key", "", err)
		}
	}

	sealer, err := NewSealer(key)
	if err != nil {
		return "", "", err
	}

	plaintext, err := PayloadFromScene(s).Encode()
	if err != nil {
		return "", "", services.Wrap(services.ErrIOFailure, stageName, "serialize payload", "", err)
	}
	token, err := sealer.Seal(plaintext)
	if err != nil {
		return "", "", services.Wrap(services.ErrIOFailure, stageName, "encrypt payload", "", err)
	}

	// A package never exists without its generated key.
	keyPath := ""
	if generated {
		keyPath = KeyPath(outputDir, spec.ProjectName)
		if err := fileutil.WriteFileAtomic(keyPath, []byte(key), 0o600); err != nil {
			return "", "", services.Wrap(services.ErrIOFailure, stageName, "write key file", keyPath, err)
		}
		e.logger.Debug("wrote generated key", logging.String("key_file", keyPath))
	}

	packagePath := PackagePath(outputDir, spec.ProjectName)
	if err := fileutil.WriteFileAtomic(packagePath, token, 0o644); err != nil {
		if keyPath != "" {
			_ = os.Remove(keyPath)
		}
		return "", "", services.Wrap(services.ErrIOFailure, stageName, "write package", packagePath, err)
	}

	e.logger.Debug(
		"package written",
		logging.String("package_path", packagePath),
		logging.Int("payload_bytes", len(plaintext)),
		logging.Bool("generated_key", generated),
	)
	return packagePath, key, nil
}

// DecryptOptions tunes Decrypt.
type DecryptOptions = OpenOptions

// Decrypt reads the package at path and returns its payload. Authentication
// failures surface as services.ErrInvalidKey.
func Decrypt(path, key string, opts ...DecryptOptions) (Payload, error) {
	token, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, services.Wrap(services.ErrIOFailure, "decrypt", "read package", path, err)
	}
	sealer, err := NewSealer(key)
	if err != nil {
		return Payload{}, err
	}
	var o OpenOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	plaintext, _, err := sealer.Open(token, o)
	if err != nil {
		return Payload{}, err
	}
	payload, err := DecodePayload(plaintext)
	if err != nil {
		return Payload{}, services.Wrap(services.ErrIOFailure, "decrypt", "decode payload", fmt.Sprintf("package %s", path), err)
	}
	return payload, nil
}
