package player

import (
	"encoding/json"
	"strings"
)

// Marker is a named frame range authored into the animation.
type Marker struct {
	Name     string
	Time     float32
	Duration float32
}

// Markers indexes markers by trimmed, non-empty name.
type Markers map[string]Marker

// ExtractMarkers reads the markers array of an animation document
// (cm = name, tm = time, dr = duration). Unnamed markers are skipped;
// duplicate names keep the last occurrence.
func ExtractMarkers(animationData string) Markers {
	var doc struct {
		Markers []struct {
			Name     string  `json:"cm"`
			Duration float32 `json:"dr"`
			Time     float32 `json:"tm"`
		} `json:"markers"`
	}

	markers := make(Markers)
	if err := json.Unmarshal([]byte(animationData), &doc); err != nil {
		return markers
	}

	for _, m := range doc.Markers {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		markers[name] = Marker{Name: name, Time: m.Time, Duration: m.Duration}
	}
	return markers
}

// List returns the markers in undefined order.
func (m Markers) List() []Marker {
	out := make([]Marker, 0, len(m))
	for _, marker := range m {
		out = append(out, marker)
	}
	return out
}
