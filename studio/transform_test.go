package studio

import "testing"

func TestSetZoomClamps(t *testing.T) {
	t.Parallel()
	tr := DefaultTransform()

	tr.SetZoom(10)
	if tr.Zoom != ZoomMax {
		t.Errorf("zoom = %v, want clamp to %v", tr.Zoom, ZoomMax)
	}
	tr.SetZoom(0.1)
	if tr.Zoom != ZoomMin {
		t.Errorf("zoom = %v, want clamp to %v", tr.Zoom, ZoomMin)
	}
	tr.SetZoom(2.5)
	if tr.Zoom != 2.5 {
		t.Errorf("zoom = %v, want 2.5", tr.Zoom)
	}
}

func TestRotationAccumulatesAndFolds(t *testing.T) {
	t.Parallel()
	tr := DefaultTransform()

	tr.RotateCW()
	if tr.Rotation != 90 || tr.RotationDegrees() != 90 {
		t.Errorf("after one CW turn: rotation=%d degrees=%d", tr.Rotation, tr.RotationDegrees())
	}

	for i := 0; i < 3; i++ {
		tr.RotateCW()
	}
	// accumulated value keeps counting, the folded value wraps
	if tr.Rotation != 360 {
		t.Errorf("rotation = %d, want 360", tr.Rotation)
	}
	if tr.RotationDegrees() != 0 {
		t.Errorf("RotationDegrees = %d, want 0", tr.RotationDegrees())
	}

	tr = DefaultTransform()
	tr.RotateCCW()
	if tr.RotationDegrees() != 270 {
		t.Errorf("one CCW turn folds to %d, want 270", tr.RotationDegrees())
	}
}

func TestNormalizedFillsZeroZoom(t *testing.T) {
	t.Parallel()
	// a persisted row that predates the zoom column comes back with zero
	tr := Transform{PanX: 3, PanY: -4}
	n := tr.Normalized()
	if n.Zoom != DefaultZoom {
		t.Errorf("normalized zoom = %v, want %v", n.Zoom, DefaultZoom)
	}
	if n.PanX != 3 || n.PanY != -4 {
		t.Error("Normalized touched the pan offsets")
	}

	tr = Transform{Zoom: 99}
	if got := tr.Normalized().Zoom; got != ZoomMax {
		t.Errorf("normalized zoom = %v, want %v", got, ZoomMax)
	}
}

func TestDragFollowsPointerRelative(t *testing.T) {
	t.Parallel()
	tr := DefaultTransform()
	tr.PanX, tr.PanY = 5, 5

	var drag DragSession
	drag.Begin(tr, 10, 10)
	if !drag.Active() {
		t.Fatal("drag not active after Begin")
	}

	// the image moves with the pointer delta, it does not jump to the pointer
	drag.Move(&tr, 20, 25)
	if tr.PanX != 15 || tr.PanY != 20 {
		t.Errorf("pan = (%v, %v), want (15, 20)", tr.PanX, tr.PanY)
	}

	drag.Move(&tr, 12, 8)
	if tr.PanX != 7 || tr.PanY != 3 {
		t.Errorf("pan = (%v, %v), want (7, 3)", tr.PanX, tr.PanY)
	}

	drag.End()
	if drag.Active() {
		t.Error("drag still active after End")
	}
}

func TestDragMoveWithoutBeginIsNoop(t *testing.T) {
	t.Parallel()
	tr := DefaultTransform()
	tr.PanX, tr.PanY = 1, 2

	var drag DragSession
	drag.Move(&tr, 100, 100)
	if tr.PanX != 1 || tr.PanY != 2 {
		t.Errorf("pan = (%v, %v), inactive drag must not move the image", tr.PanX, tr.PanY)
	}
}
