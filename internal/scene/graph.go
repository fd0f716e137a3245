package scene

import (
	"maps"
	"slices"
	"strings"
)

const (
	// RootNodeID identifies the node every stage after import relies on.
	RootNodeID = "root"
	// MetadataNodeID holds graph-level annotations rather than scene content.
	MetadataNodeID = "metadata"
)

// Node attribute keys written by the built-in stages.
const (
	AttrType              = "type"
	AttrOriginFile        = "origin_file"
	AttrFormat            = "format"
	AttrRequiredAssets    = "required_assets"
	AttrGeometryOptimized = "geometry_optimized"
	AttrMaterial          = "material"
	AttrMaterials         = "materials"
)

// Node is the attribute set of one scene graph node.
type Node map[string]string

// Graph maps node identifiers to their attributes.
type Graph map[string]Node

// HasRoot reports whether the root node is present.
func (g Graph) HasRoot() bool {
	_, ok := g[RootNodeID]
	return ok
}

// Clone returns a deep copy so stages can annotate without touching their input.
func (g Graph) Clone() Graph {
	if g == nil {
		return Graph{}
	}
	out := make(Graph, len(g))
	for id, node := range g {
		out[id] = maps.Clone(node)
		if out[id] == nil {
			out[id] = Node{}
		}
	}
	return out
}

// NodeIDs returns node identifiers in sorted order.
func (g Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g))
}

// Equal reports whether two graphs carry identical nodes and attributes.
func (g Graph) Equal(other Graph) bool {
	return maps.EqualFunc(g, other, func(a, b Node) bool { return maps.Equal(a, b) })
}

// JoinList encodes a list attribute value.
func JoinList(values []string) string {
	return strings.Join(values, ",")
}

// SplitList decodes a list attribute value written by JoinList.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
