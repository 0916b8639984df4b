package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/snapmag/studio-backend/filter"
)

// Params describes one composited square render: the crop state captured in
// the editor, the composite filter, and the output geometry.
type Params struct {
	// pan offset in interaction-space units, scaled to output space by
	// OutputSize / PreviewSize so a given drag distance crops identically at
	// every output resolution
	PanX float64
	PanY float64

	Zoom     float64 // uniform scale, already clamped by the transform state
	Rotation int     // accumulated degrees, quarter-turn increments

	Filter filter.Filter

	OutputSize  int // side of the square output surface
	PreviewSize int // reference side of the interactive preview
}

// Rasterizer draws one composited image onto a fixed-size square surface from
// a decoded source, transform and filter. keeping this a capability interface
// lets the print renderer target other backends (GPU canvas, headless raster)
// without change.
type Rasterizer interface {
	Rasterize(src image.Image, p Params) (*image.NRGBA, error)
}

// Software rasterizes on the CPU. output is deterministic: identical source,
// transform and filter always produce pixel-identical results.
type Software struct{}

// NewSoftware returns the default CPU rasterizer
func NewSoftware() *Software { return &Software{} }

var transparent = color.NRGBA{0, 0, 0, 0}

// Rasterize composites src onto a white square of side p.OutputSize using
// canvas semantics: the filter applies to the source, the source cover-fits
// the square, the pan offset applies in the source frame, then rotation about
// the surface center, then uniform zoom, then a center crop.
func (s *Software) Rasterize(src image.Image, p Params) (*image.NRGBA, error) {
	if p.OutputSize <= 0 {
		return nil, fmt.Errorf("invalid output size %d", p.OutputSize)
	}
	bounds := src.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	if srcWidth <= 0 || srcHeight <= 0 {
		return nil, fmt.Errorf("invalid source dimensions: %dx%d", srcWidth, srcHeight)
	}

	filtered := p.Filter.Apply(src)

	// cover-fit: the shorter side matches the square so the image always
	// overflows it. landscape sources match height, portrait match width
	var fitWidth, fitHeight int
	if srcWidth >= srcHeight {
		fitHeight = p.OutputSize
		fitWidth = int(math.Round(float64(srcWidth) * float64(p.OutputSize) / float64(srcHeight)))
	} else {
		fitWidth = p.OutputSize
		fitHeight = int(math.Round(float64(srcHeight) * float64(p.OutputSize) / float64(srcWidth)))
	}
	resized := imaging.Resize(filtered, fitWidth, fitHeight, imaging.Lanczos)

	previewSize := p.PreviewSize
	if previewSize <= 0 {
		previewSize = p.OutputSize
	}
	panScale := float64(p.OutputSize) / float64(previewSize)
	panX := p.PanX * panScale
	panY := p.PanY * panScale

	// working layer large enough to hold the panned source; rotation expands
	// it further but keeps the center fixed
	margin := int(math.Ceil(math.Max(math.Abs(panX), math.Abs(panY)))) + 1
	side := maxInt(fitWidth, fitHeight) + 2*margin
	layer := imaging.New(side, side, transparent)
	pasteX := (side-fitWidth)/2 + int(math.Round(panX))
	pasteY := (side-fitHeight)/2 + int(math.Round(panY))
	layer = imaging.Paste(layer, resized, image.Pt(pasteX, pasteY))

	// imaging rotates counter-clockwise; the editor's rotation is clockwise
	if deg := ((p.Rotation % 360) + 360) % 360; deg != 0 {
		layer = imaging.Rotate(layer, -float64(deg), transparent)
	}

	zoom := p.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if zoom != 1 {
		zb := layer.Bounds()
		layer = imaging.Resize(layer,
			maxInt(1, int(math.Round(float64(zb.Dx())*zoom))),
			maxInt(1, int(math.Round(float64(zb.Dy())*zoom))),
			imaging.Lanczos)
	}

	// a zoomed-out layer can be smaller than the surface; center it so the
	// white border grows evenly
	cropped := imaging.CropCenter(layer, p.OutputSize, p.OutputSize)
	cb := cropped.Bounds()

	// flatten onto white; magnets print on opaque stock
	surface := imaging.New(p.OutputSize, p.OutputSize, color.NRGBA{255, 255, 255, 255})
	return imaging.Overlay(surface, cropped, image.Pt((p.OutputSize-cb.Dx())/2, (p.OutputSize-cb.Dy())/2), 1.0), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
