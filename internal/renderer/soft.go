package renderer

import (
	"encoding/json"
	"strings"
)

// softCanvas is the built-in software reference canvas. It implements the
// full Canvas capability against a plain pixel buffer: it parses the
// animation header for timing and geometry, tracks frame and slot state,
// and fills the picture's transformed extent so frontends and tests can
// observe real output without a native rasterizer linked in.
type softCanvas struct {
	loaded      bool
	totalFrames float32
	duration    float32
	frameRate   float32
	pictureW    float32
	pictureH    float32
	frame       float32
	buffer      []uint32
	stride      uint32
	width       uint32
	height      uint32
	colorspace  Colorspace
	viewport    [4]int32
	transform   [9]float32
	slotsJSON   string
	fonts       map[string][]byte
	layers      map[string][4]float32
	needsUpdate bool
}

// animationHeader is the subset of the Lottie document the soft canvas
// needs: timing, geometry, and named layers for hit testing.
type animationHeader struct {
	Width     float32 `json:"w"`
	Height    float32 `json:"h"`
	FrameRate float32 `json:"fr"`
	InPoint   float32 `json:"ip"`
	OutPoint  float32 `json:"op"`
	Layers    []struct {
		Name string `json:"nm"`
	} `json:"layers"`
}

func newSoftCanvas() *softCanvas {
	return &softCanvas{
		transform: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		fonts:     make(map[string][]byte),
		layers:    make(map[string][4]float32),
	}
}

func (c *softCanvas) LoadData(data string, copy bool) error {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return errf(ErrInvalidArgument, "animation data is not a JSON object")
	}

	var header animationHeader
	if err := json.Unmarshal([]byte(data), &header); err != nil {
		return errf(ErrInvalidArgument, "animation parse: %v", err)
	}
	if header.FrameRate <= 0 {
		header.FrameRate = 60
	}

	c.totalFrames = header.OutPoint - header.InPoint
	if c.totalFrames <= 0 {
		c.totalFrames = 1
	}
	c.duration = c.totalFrames / header.FrameRate
	c.frameRate = header.FrameRate
	c.pictureW = header.Width
	c.pictureH = header.Height

	// Layers stack full-frame; a real rasterizer reports exact bounds.
	c.layers = make(map[string][4]float32, len(header.Layers))
	for _, layer := range header.Layers {
		if layer.Name != "" {
			c.layers[layer.Name] = [4]float32{0, 0, header.Width, header.Height}
		}
	}

	c.frame = 0
	c.loaded = true
	c.needsUpdate = true
	return nil
}

func (c *softCanvas) TotalFrames() (float32, error) {
	if !c.loaded {
		return 0, errf(ErrInsufficientCondition, "no animation loaded")
	}
	return c.totalFrames, nil
}

func (c *softCanvas) Duration() (float32, error) {
	if !c.loaded {
		return 0, errf(ErrInsufficientCondition, "no animation loaded")
	}
	return c.duration, nil
}

func (c *softCanvas) SetFrame(frame float32) error {
	if !c.loaded {
		return errf(ErrInsufficientCondition, "no animation loaded")
	}
	if frame < 0 || frame > c.totalFrames {
		return errf(ErrInvalidArgument, "frame %v outside [0, %v]", frame, c.totalFrames)
	}
	c.frame = frame
	c.needsUpdate = true
	return nil
}

func (c *softCanvas) CurrentFrame() (float32, error) {
	return c.frame, nil
}

func (c *softCanvas) PictureSize() (float32, float32, error) {
	if !c.loaded {
		return 0, 0, errf(ErrInsufficientCondition, "no animation loaded")
	}
	return c.pictureW, c.pictureH, nil
}

func (c *softCanvas) SetTarget(buffer []uint32, stride, width, height uint32, cs Colorspace) error {
	if stride < width {
		return errf(ErrInvalidArgument, "stride %d smaller than width %d", stride, width)
	}
	if uint32(len(buffer)) < stride*height {
		return errf(ErrInvalidArgument, "buffer too small: %d < %d", len(buffer), stride*height)
	}
	c.buffer = buffer
	c.stride = stride
	c.width = width
	c.height = height
	c.colorspace = cs
	c.viewport = [4]int32{0, 0, int32(width), int32(height)}
	return nil
}

func (c *softCanvas) SetViewport(x, y, w, h int32) error {
	if w < 0 || h < 0 {
		return errf(ErrInvalidArgument, "negative viewport %dx%d", w, h)
	}
	c.viewport = [4]int32{x, y, w, h}
	return nil
}

func (c *softCanvas) SetTransform(matrix [9]float32) error {
	c.transform = matrix
	return nil
}

func (c *softCanvas) SetSlots(slotsJSON string) error {
	if slotsJSON != "" && !json.Valid([]byte(slotsJSON)) {
		return errf(ErrInvalidArgument, "slot document is not valid JSON")
	}
	c.slotsJSON = slotsJSON
	c.needsUpdate = true
	return nil
}

func (c *softCanvas) RegisterFont(name string, data []byte) error {
	if name == "" || len(data) == 0 {
		return errf(ErrInvalidArgument, "font needs a name and data")
	}
	c.fonts[name] = data
	return nil
}

func (c *softCanvas) HitCheck(layerName string, x, y float32) bool {
	bounds, ok := c.layers[layerName]
	if !ok {
		return false
	}
	return x >= bounds[0] && x < bounds[0]+bounds[2] &&
		y >= bounds[1] && y < bounds[1]+bounds[3]
}

func (c *softCanvas) LayerBounds(layerName string) ([4]float32, error) {
	bounds, ok := c.layers[layerName]
	if !ok {
		return [4]float32{}, errf(ErrInvalidArgument, "no layer named %q", layerName)
	}
	return bounds, nil
}

func (c *softCanvas) Update() error {
	if !c.loaded {
		return errf(ErrInsufficientCondition, "no animation loaded")
	}
	c.needsUpdate = false
	return nil
}

// Render fills the picture's transformed extent with an opaque gray whose
// intensity tracks the current frame, so frame stepping is observable in
// the buffer.
func (c *softCanvas) Render() error {
	if !c.loaded {
		return errf(ErrInsufficientCondition, "no animation loaded")
	}
	if c.buffer == nil {
		return errf(ErrInsufficientCondition, "no target buffer")
	}

	shade := uint32(0)
	if c.totalFrames > 0 {
		shade = uint32(c.frame / c.totalFrames * 255)
	}
	if shade > 255 {
		shade = 255
	}
	pixel := 0xFF000000 | shade<<16 | shade<<8 | shade

	w := c.pictureW * c.transform[0]
	h := c.pictureH * c.transform[4]
	offsetX := int32(c.transform[2])
	offsetY := int32(c.transform[5])

	for y := int32(0); y < int32(h); y++ {
		py := y + offsetY
		if py < c.viewport[1] || py >= c.viewport[1]+c.viewport[3] || py < 0 || py >= int32(c.height) {
			continue
		}
		for x := int32(0); x < int32(w); x++ {
			px := x + offsetX
			if px < c.viewport[0] || px >= c.viewport[0]+c.viewport[2] || px < 0 || px >= int32(c.width) {
				continue
			}
			c.buffer[uint32(py)*c.stride+uint32(px)] = pixel
		}
	}
	return nil
}

func (c *softCanvas) Sync() error {
	return nil
}

func (c *softCanvas) Clear(free bool) error {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	if free {
		c.buffer = nil
	}
	return nil
}

func (c *softCanvas) Destroy() error {
	c.loaded = false
	c.buffer = nil
	return nil
}
