package renderer

// Renderer is the facade the player drives: one canvas, one pixel buffer,
// the layout transform, the slot overlay, and the tween machine. It is not
// safe for concurrent use; the player serializes all access.
type Renderer struct {
	backend    Backend
	canvas     Canvas
	buffer     []uint32
	width      uint32
	height     uint32
	colorspace Colorspace
	background uint32
	layout     Layout
	tween      Tween
	slotsJSON  string
	loaded     bool
}

// New acquires a backend reference and creates an empty facade.
func New(backend Backend) (*Renderer, error) {
	canvas, err := acquireBackend(backend)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		backend:    backend,
		canvas:     canvas,
		colorspace: ColorspaceARGB8888,
		layout:     DefaultLayout(),
	}, nil
}

// Destroy releases the canvas and drops the backend reference.
func (r *Renderer) Destroy() {
	if r.canvas != nil {
		_ = r.canvas.Destroy()
		r.canvas = nil
		releaseBackend(r.backend)
	}
	r.buffer = nil
	r.loaded = false
}

// LoadData pushes an animation document into the canvas and sizes the
// target buffer. The initial frame is zero and the layout transform is
// recomputed from the picture size.
func (r *Renderer) LoadData(data string, width, height uint32, copy bool) error {
	if width == 0 || height == 0 {
		return errf(ErrInvalidArgument, "zero canvas size %dx%d", width, height)
	}

	if err := r.canvas.LoadData(data, copy); err != nil {
		return err
	}

	r.width = width
	r.height = height
	r.buffer = make([]uint32, width*height)
	if err := r.canvas.SetTarget(r.buffer, width, width, height, r.colorspace); err != nil {
		return err
	}

	if err := r.applyLayout(); err != nil {
		return err
	}
	if err := r.canvas.SetFrame(0); err != nil {
		return err
	}

	r.tween = Tween{}
	r.slotsJSON = ""
	r.loaded = true
	return r.canvas.Update()
}

// IsLoaded reports whether an animation is loaded.
func (r *Renderer) IsLoaded() bool {
	return r.loaded
}

// Resize reallocates the target buffer for a new canvas size and reapplies
// the layout.
func (r *Renderer) Resize(width, height uint32) error {
	if !r.loaded {
		return errf(ErrInsufficientCondition, "no animation loaded")
	}
	if width == 0 || height == 0 {
		return errf(ErrInvalidArgument, "zero canvas size %dx%d", width, height)
	}
	r.width = width
	r.height = height
	r.buffer = make([]uint32, width*height)
	if err := r.canvas.SetTarget(r.buffer, width, width, height, r.colorspace); err != nil {
		return err
	}
	return r.applyLayout()
}

// SetColorspace selects the buffer pixel layout for subsequent loads.
func (r *Renderer) SetColorspace(cs Colorspace) {
	r.colorspace = cs
}

// SetViewport restricts rendering to a sub-rectangle of the buffer.
func (r *Renderer) SetViewport(x, y, w, h int32) error {
	return r.canvas.SetViewport(x, y, w, h)
}

// SetBackground sets the ARGB clear color applied before each render.
func (r *Renderer) SetBackground(argb uint32) {
	r.background = argb
}

// SetLayout replaces the layout and reapplies the transform.
func (r *Renderer) SetLayout(layout Layout) error {
	r.layout = layout
	if !r.loaded {
		return nil
	}
	return r.applyLayout()
}

func (r *Renderer) applyLayout() error {
	pw, ph, err := r.canvas.PictureSize()
	if err != nil {
		return err
	}
	matrix := r.layout.TransformMatrix(float32(r.width), float32(r.height), pw, ph)
	return r.canvas.SetTransform(matrix)
}

// SetSlots replaces the slot overlay document atomically; "" unloads it.
func (r *Renderer) SetSlots(slotsJSON string) error {
	if err := r.canvas.SetSlots(slotsJSON); err != nil {
		return err
	}
	r.slotsJSON = slotsJSON
	return nil
}

// Slots returns the active slot overlay document.
func (r *Renderer) Slots() string {
	return r.slotsJSON
}

// SetFrame positions the animation and re-evaluates the scene.
func (r *Renderer) SetFrame(frame float32) error {
	if err := r.canvas.SetFrame(frame); err != nil {
		return err
	}
	return r.canvas.Update()
}

// CurrentFrame reads the canvas frame position.
func (r *Renderer) CurrentFrame() float32 {
	frame, err := r.canvas.CurrentFrame()
	if err != nil {
		return 0
	}
	return frame
}

// TotalFrames reports the loaded animation's frame count, zero when
// nothing is loaded.
func (r *Renderer) TotalFrames() float32 {
	total, err := r.canvas.TotalFrames()
	if err != nil {
		return 0
	}
	return total
}

// Duration reports the loaded animation's length in seconds.
func (r *Renderer) Duration() float32 {
	duration, err := r.canvas.Duration()
	if err != nil {
		return 0
	}
	return duration
}

// TweenTo starts a blend from the current frame. A nil easing uses the
// default ease-in-out curve.
func (r *Renderer) TweenTo(toFrame, durationS float32, easing *[4]float32) error {
	if !r.loaded {
		return errf(ErrInsufficientCondition, "no animation loaded")
	}
	curve := DefaultEasing
	if easing != nil {
		curve = *easing
	}
	r.tween = NewTween(r.CurrentFrame(), toFrame, durationS, curve)
	return nil
}

// TweenUpdate advances the tween: with a progress value it jumps there,
// otherwise it advances by dt seconds. The interpolated frame is pushed to
// the canvas. Returns whether the tween is still active.
func (r *Renderer) TweenUpdate(progress *float32, dtSeconds float32) (bool, error) {
	if !r.tween.Active {
		return false, nil
	}
	var frame float32
	if progress != nil {
		frame = r.tween.At(*progress)
	} else {
		frame = r.tween.Advance(dtSeconds)
	}
	if err := r.SetFrame(frame); err != nil {
		return r.tween.Active, err
	}
	return r.tween.Active, nil
}

// TweenStop cancels an in-flight tween; the next render resumes normal
// scheduling at the current frame.
func (r *Renderer) TweenStop() {
	r.tween = Tween{}
}

// IsTweening reports whether a tween is active.
func (r *Renderer) IsTweening() bool {
	return r.tween.Active
}

// TweenState returns a copy of the tween for inspection.
func (r *Renderer) TweenState() Tween {
	return r.tween
}

// Render clears the buffer to the background color and draws the scene.
func (r *Renderer) Render() error {
	if !r.loaded {
		return errf(ErrInsufficientCondition, "no animation loaded")
	}
	for i := range r.buffer {
		r.buffer[i] = r.background
	}
	if err := r.canvas.Render(); err != nil {
		return err
	}
	return r.canvas.Sync()
}

// Update re-evaluates the scene without drawing.
func (r *Renderer) Update() error {
	return r.canvas.Update()
}

// Clear erases the canvas; free releases the buffer too.
func (r *Renderer) Clear(free bool) error {
	if err := r.canvas.Clear(free); err != nil {
		return err
	}
	if free {
		r.buffer = nil
		r.loaded = false
	}
	return nil
}

// Buffer exposes the pixel buffer. Callers may read between renders but
// must not write.
func (r *Renderer) Buffer() []uint32 {
	return r.buffer
}

// Width and Height report the buffer dimensions in pixels.
func (r *Renderer) Width() uint32  { return r.width }
func (r *Renderer) Height() uint32 { return r.height }

// HitCheck reports whether the point hits the named layer.
func (r *Renderer) HitCheck(layerName string, x, y float32) bool {
	return r.canvas.HitCheck(layerName, x, y)
}

// LayerBounds reports [x, y, w, h] of the named layer.
func (r *Renderer) LayerBounds(layerName string) ([4]float32, error) {
	return r.canvas.LayerBounds(layerName)
}

// RegisterFont hands font bytes to the canvas under a family name.
func (r *Renderer) RegisterFont(name string, data []byte) error {
	return r.canvas.RegisterFont(name, data)
}
