// Package renderer wraps the external vector rasterizer behind a thin
// facade: animation loading, frame stepping, slot overlays, viewport and
// layout, tween blending, and pixel-buffer output.
package renderer

import "sync"

// Colorspace enumerates the pixel layouts a target buffer may use.
type Colorspace int

const (
	ColorspaceABGR8888 Colorspace = iota
	ColorspaceABGR8888S
	ColorspaceARGB8888
	ColorspaceARGB8888S
)

// Backend selects the rasterizer engine.
type Backend int

const (
	BackendSoftware Backend = iota
	BackendOpenGL
	BackendWebGPU
)

// Canvas is the capability set the external rasterizer exposes. One canvas
// carries one animation picture; the facade owns exactly one canvas.
//
// Implementations are not safe for concurrent use; the facade serializes
// all access.
type Canvas interface {
	// LoadData hands an animation document to the rasterizer. copy
	// indicates whether the rasterizer must keep its own copy of data.
	LoadData(data string, copy bool) error
	// TotalFrames reports the frame count of the loaded animation.
	TotalFrames() (float32, error)
	// Duration reports the animation length in seconds.
	Duration() (float32, error)
	// SetFrame positions the animation; CurrentFrame reads back.
	SetFrame(frame float32) error
	CurrentFrame() (float32, error)
	// PictureSize reports the intrinsic width/height of the picture.
	PictureSize() (float32, float32, error)
	// SetTarget points the canvas at a pixel buffer. Stride is in pixels.
	SetTarget(buffer []uint32, stride, width, height uint32, cs Colorspace) error
	// SetViewport restricts rendering to a sub-rectangle.
	SetViewport(x, y, w, h int32) error
	// SetTransform applies a row-major 3x3 matrix to the picture.
	SetTransform(matrix [9]float32) error
	// SetSlots replaces the slot overlay document; "" unloads it.
	SetSlots(slotsJSON string) error
	// RegisterFont makes font bytes available under a family name.
	RegisterFont(name string, data []byte) error
	// HitCheck reports whether (x, y) hits the named layer.
	HitCheck(layerName string, x, y float32) bool
	// LayerBounds reports [x, y, w, h] of the named layer.
	LayerBounds(layerName string) ([4]float32, error)
	// Update re-evaluates the scene after frame/slot changes.
	Update() error
	// Render draws the scene into the target buffer; Sync completes any
	// asynchronous work.
	Render() error
	Sync() error
	// Clear erases the canvas; free releases retained buffers too.
	Clear(free bool) error
	// Destroy releases the canvas.
	Destroy() error
}

// CanvasFactory creates a canvas for an initialized backend.
type CanvasFactory func() (Canvas, error)

// Engine initialization is reference-counted process-wide: the first
// facade requesting a backend initializes it, the last one dropping it
// terminates it. The counter is the only shared mutable state in the core.
var engine struct {
	mu        sync.Mutex
	refs      map[Backend]int
	factories map[Backend]CanvasFactory
}

// RegisterBackend installs the canvas factory for a backend. The software
// backend is registered by default; GL/WG backends are registered by the
// embedding host.
func RegisterBackend(backend Backend, factory CanvasFactory) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.factories == nil {
		engine.factories = make(map[Backend]CanvasFactory)
	}
	engine.factories[backend] = factory
}

// acquireBackend bumps the backend refcount and returns a fresh canvas.
func acquireBackend(backend Backend) (Canvas, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	factory, ok := engine.factories[backend]
	if !ok {
		return nil, errf(ErrNotSupported, "backend %d not registered", backend)
	}
	canvas, err := factory()
	if err != nil {
		return nil, err
	}
	if engine.refs == nil {
		engine.refs = make(map[Backend]int)
	}
	engine.refs[backend]++
	return canvas, nil
}

// releaseBackend drops one reference; the backend terminates at zero.
func releaseBackend(backend Backend) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.refs == nil {
		return
	}
	if engine.refs[backend] > 0 {
		engine.refs[backend]--
	}
	if engine.refs[backend] == 0 {
		delete(engine.refs, backend)
	}
}

// BackendRefCount reports the live reference count for a backend.
func BackendRefCount(backend Backend) int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.refs[backend]
}

func init() {
	RegisterBackend(BackendSoftware, func() (Canvas, error) {
		return newSoftCanvas(), nil
	})
}
