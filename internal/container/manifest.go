package container

import (
	"encoding/json"
	"fmt"
)

// ManifestInitial names the animation and state machine to activate when
// the container is opened.
type ManifestInitial struct {
	Animation    string `json:"animation,omitempty"`
	StateMachine string `json:"stateMachine,omitempty"`
}

// ManifestAnimation describes one animation entry.
type ManifestAnimation struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	Themes       []string `json:"themes,omitempty"`
	Background   string   `json:"background,omitempty"`
	InitialTheme string   `json:"initialTheme,omitempty"`
}

// ManifestTheme describes one theme entry.
type ManifestTheme struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ManifestStateMachine describes one state machine entry.
type ManifestStateMachine struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Manifest is the parsed manifest.json of a .lottie container.
type Manifest struct {
	Version       string                 `json:"version,omitempty"`
	Generator     string                 `json:"generator,omitempty"`
	Initial       *ManifestInitial       `json:"initial,omitempty"`
	Animations    []ManifestAnimation    `json:"animations"`
	Themes        []ManifestTheme        `json:"themes,omitempty"`
	StateMachines []ManifestStateMachine `json:"stateMachines,omitempty"`
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("manifest parse: %w", err)
	}
	return &manifest, nil
}

// Animation finds an animation entry by id.
func (m *Manifest) Animation(id string) *ManifestAnimation {
	for i := range m.Animations {
		if m.Animations[i].ID == id {
			return &m.Animations[i]
		}
	}
	return nil
}
