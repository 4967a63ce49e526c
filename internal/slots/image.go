package slots

import "strings"

// ImageValue is the payload of an image slot: the asset reference fields
// of a Lottie image asset (w, h, u, p, e).
type ImageValue struct {
	Width     uint32 `json:"w,omitempty"`
	Height    uint32 `json:"h,omitempty"`
	Directory string `json:"u,omitempty"`
	Path      string `json:"p,omitempty"`
	Embedded  uint8  `json:"e"`
}

// NewImageFromPath creates an image slot referencing an external file.
// The path is split into directory and filename.
func NewImageFromPath(path string) *Slot {
	img := &ImageValue{}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		img.Directory = path[:idx] + "/"
		img.Path = path[idx+1:]
	} else {
		img.Path = path
	}
	return &Slot{Kind: KindImage, Image: img}
}

// NewImageFromDataURL creates an embedded image slot from a data URL.
func NewImageFromDataURL(dataURL string) *Slot {
	return &Slot{Kind: KindImage, Image: &ImageValue{Path: dataURL, Embedded: 1}}
}

// WithDimensions sets the intrinsic size on an image slot and returns it.
func (s *Slot) WithDimensions(width, height uint32) *Slot {
	if s.Image != nil {
		s.Image.Width = width
		s.Image.Height = height
	}
	return s
}
