package renderer

// Fit controls how the picture scales into the canvas.
type Fit int

const (
	FitContain Fit = iota
	FitFill
	FitCover
	FitWidth
	FitHeight
	FitNone
)

// Layout pairs a fit mode with a normalized alignment. Align {0.5, 0.5}
// centers the picture.
type Layout struct {
	Fit   Fit
	Align [2]float32
}

// DefaultLayout centers with Contain fit.
func DefaultLayout() Layout {
	return Layout{Fit: FitContain, Align: [2]float32{0.5, 0.5}}
}

// NewLayout validates and normalizes an alignment pair.
func NewLayout(fit Fit, align [2]float32) Layout {
	for i := range align {
		if align[i] < 0 {
			align[i] = 0
		}
		if align[i] > 1 {
			align[i] = 1
		}
	}
	return Layout{Fit: fit, Align: align}
}

// TransformMatrix computes the row-major 3x3 transform that places the
// picture on the canvas under this layout.
func (l Layout) TransformMatrix(canvasW, canvasH, pictureW, pictureH float32) [9]float32 {
	scaleX, scaleY := float32(1), float32(1)

	if pictureW > 0 && pictureH > 0 {
		switch l.Fit {
		case FitContain:
			scaleX = canvasW / pictureW
			scaleY = canvasH / pictureH
			if scaleY < scaleX {
				scaleX = scaleY
			}
			scaleY = scaleX
		case FitFill:
			scaleX = canvasW / pictureW
			scaleY = canvasH / pictureH
		case FitCover:
			scaleX = canvasW / pictureW
			scaleY = canvasH / pictureH
			if scaleY > scaleX {
				scaleX = scaleY
			}
			scaleY = scaleX
		case FitWidth:
			scaleX = canvasW / pictureW
			scaleY = scaleX
		case FitHeight:
			scaleY = canvasH / pictureH
			scaleX = scaleY
		case FitNone:
		}
	}

	shiftX := (canvasW - pictureW*scaleX) * l.Align[0]
	shiftY := (canvasH - pictureH*scaleY) * l.Align[1]

	return [9]float32{scaleX, 0, shiftX, 0, scaleY, shiftY, 0, 0, 1}
}
