package scene

import (
	"maps"
	"slices"
	"strings"
)

// Platform identifiers recognised for target_platforms.
const (
	PlatformMetaQuest = "meta-quest"
	PlatformHTCVive   = "htc-vive"
	PlatformPimax     = "pimax"
)

// DefaultPlatforms returns a fresh copy of the default platform set.
func DefaultPlatforms() []string {
	return []string{PlatformMetaQuest, PlatformHTCVive, PlatformPimax}
}

// KnownPlatform reports whether the identifier names a supported headset family.
func KnownPlatform(id string) bool {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case PlatformMetaQuest, PlatformHTCVive, PlatformPimax:
		return true
	default:
		return false
	}
}

// AssetReference points at an external asset used by the VR experience.
type AssetReference struct {
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewAssetReference copies metadata so later edits by the caller are not observed.
func NewAssetReference(name, path string, metadata map[string]string) AssetReference {
	return AssetReference{Name: name, Path: path, Metadata: maps.Clone(metadata)}
}

// Specification describes a single conversion request.
//
// Values are constructed with NewSpecification and treated as read-only by
// every stage. Slices are copied on construction so two specifications never
// alias each other's platform or asset lists.
type Specification struct {
	ProjectName     string
	SourceFile      string
	Assets          []AssetReference
	TargetPlatforms []string
	EnablePhysics   bool
	EnableAIRealism bool
	Notes           string
	// OutputEncryptionKey, when non-empty, is used verbatim instead of a
	// generated key and suppresses the key file.
	OutputEncryptionKey string
}

// Option customizes a Specification during construction.
type Option func(*Specification)

// WithAssets attaches asset references in order.
func WithAssets(assets ...AssetReference) Option {
	return func(s *Specification) {
		s.Assets = make([]AssetReference, 0, len(assets))
		for _, a := range assets {
			s.Assets = append(s.Assets, NewAssetReference(a.Name, a.Path, a.Metadata))
		}
	}
}

// WithPlatforms replaces the default platform set. Duplicates collapse and
// identifiers are lower-cased.
func WithPlatforms(platforms ...string) Option {
	return func(s *Specification) {
		s.TargetPlatforms = normalizePlatforms(platforms)
	}
}

// WithPhysics toggles the physics inference stage.
func WithPhysics(enabled bool) Option {
	return func(s *Specification) { s.EnablePhysics = enabled }
}

// WithAIRealism toggles the material enhancement stage.
func WithAIRealism(enabled bool) Option {
	return func(s *Specification) { s.EnableAIRealism = enabled }
}

// WithNotes attaches free-form notes.
func WithNotes(notes string) Option {
	return func(s *Specification) { s.Notes = notes }
}

// WithEncryptionKey supplies the package key instead of generating one.
func WithEncryptionKey(key string) Option {
	return func(s *Specification) { s.OutputEncryptionKey = key }
}

// NewSpecification builds a specification with physics and AI realism enabled
// and the default platform set, then applies opts in order.
func NewSpecification(projectName, sourceFile string, opts ...Option) Specification {
	spec := Specification{
		ProjectName:     projectName,
		SourceFile:      sourceFile,
		TargetPlatforms: DefaultPlatforms(),
		EnablePhysics:   true,
		EnableAIRealism: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}
	if len(spec.TargetPlatforms) == 0 {
		spec.TargetPlatforms = DefaultPlatforms()
	}
	return spec
}

// HasEncryptionKey reports whether the caller supplied a package key.
func (s Specification) HasEncryptionKey() bool {
	return s.OutputEncryptionKey != ""
}

// Platforms returns a sorted copy of the target platform set.
func (s Specification) Platforms() []string {
	out := slices.Clone(s.TargetPlatforms)
	slices.Sort(out)
	return out
}

func normalizePlatforms(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		id := strings.ToLower(strings.TrimSpace(v))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
