package studio

// zoom bounds for the crop control. 4.0 is the practical ceiling before the
// 2400px working image runs out of pixels on a 1500px print render
const (
	ZoomMin     = 0.5
	ZoomMax     = 4.0
	DefaultZoom = 1.0

	// RotationStep is the only rotation increment the controls expose
	RotationStep = 90
)

// Transform is the per-photo crop state: pan offset in interaction-space
// units, a bounded uniform zoom, and an accumulated rotation in degrees.
// it only affects presentation until finalization, when the print renderer
// consumes it.
type Transform struct {
	PanX     float64 `json:"pan_x"`
	PanY     float64 `json:"pan_y"`
	Zoom     float64 `json:"zoom"`
	Rotation int     `json:"rotation"`
}

// DefaultTransform is the no-op crop state
func DefaultTransform() Transform {
	return Transform{Zoom: DefaultZoom}
}

// SetZoom clamps and applies a zoom value from a range control
func (t *Transform) SetZoom(zoom float64) {
	if zoom < ZoomMin {
		zoom = ZoomMin
	}
	if zoom > ZoomMax {
		zoom = ZoomMax
	}
	t.Zoom = zoom
}

// RotateCW accumulates a quarter turn clockwise. rotation does not wrap;
// RotationDegrees folds it for rendering, so 360 looks like 0
func (t *Transform) RotateCW() { t.Rotation += RotationStep }

// RotateCCW accumulates a quarter turn counter-clockwise
func (t *Transform) RotateCCW() { t.Rotation -= RotationStep }

// RotationDegrees returns the accumulated rotation folded into [0,360)
func (t Transform) RotationDegrees() int {
	return ((t.Rotation % 360) + 360) % 360
}

// Normalized returns a copy with the zoom forced into bounds and a zero zoom
// (an unset persisted row) replaced by the default
func (t Transform) Normalized() Transform {
	if t.Zoom == 0 {
		t.Zoom = DefaultZoom
	}
	if t.Zoom < ZoomMin {
		t.Zoom = ZoomMin
	}
	if t.Zoom > ZoomMax {
		t.Zoom = ZoomMax
	}
	return t
}

// DragSession makes pan updates relative: Begin anchors to the pointer minus
// the current pan, so the image follows the drag continuously instead of
// jumping to the pointer position.
type DragSession struct {
	anchorX float64
	anchorY float64
	active  bool
}

// Begin starts a drag at the given pointer position against the current pan
func (d *DragSession) Begin(t Transform, pointerX, pointerY float64) {
	d.anchorX = pointerX - t.PanX
	d.anchorY = pointerY - t.PanY
	d.active = true
}

// Move updates the pan from the current pointer position. no-op when no drag
// is active
func (d *DragSession) Move(t *Transform, pointerX, pointerY float64) {
	if !d.active {
		return
	}
	t.PanX = pointerX - d.anchorX
	t.PanY = pointerY - d.anchorY
}

// End finishes the drag gesture
func (d *DragSession) End() { d.active = false }

// Active reports whether a drag gesture is in progress
func (d *DragSession) Active() bool { return d.active }
