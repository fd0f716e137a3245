package packaging

import (
	"encoding/json"
	"fmt"

	"vrhouse/internal/scene"
)

// Payload is the plaintext content of a package.
type Payload struct {
	Project        string               `json:"project"`
	SceneGraph     scene.Graph          `json:"scene_graph"`
	PhysicsProfile scene.PhysicsProfile `json:"physics_profile"`
	AIMetadata     map[string]string    `json:"ai_metadata"`
}

// PayloadFromScene extracts the packaged fields from a scene.
func PayloadFromScene(s scene.VRScene) Payload {
	meta := make(map[string]string, len(s.AIMetadata))
	for k, v := range s.AIMetadata {
		meta[k] = v
	}
	return Payload{
		Project:        s.Specification.ProjectName,
		SceneGraph:     s.SceneGraph.Clone(),
		PhysicsProfile: s.PhysicsProfile.Clone(),
		AIMetadata:     meta,
	}
}

// Encode serializes the payload as indented JSON. Map keys are emitted in
// sorted order so equal payloads encode to identical bytes.
func (p Payload) Encode() ([]byte, error) {
	if p.SceneGraph == nil {
		p.SceneGraph = scene.Graph{}
	}
	if p.PhysicsProfile == nil {
		p.PhysicsProfile = scene.PhysicsProfile{}
	}
	if p.AIMetadata == nil {
		p.AIMetadata = map[string]string{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses JSON produced by Encode.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	if p.PhysicsProfile == nil {
		p.PhysicsProfile = scene.PhysicsProfile{}
	}
	return p, nil
}
