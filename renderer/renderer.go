package renderer

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/snapmag/studio-backend/media"
)

// output geometry and quality for the two renders produced per photo at
// finalize time. the print master targets a 50mm physical magnet at 1500px.
const (
	DisplaySize    = 600
	DisplayQuality = 82

	PrintSize    = 1500
	PrintQuality = 95
)

// Renderer turns a photo's source bytes plus crop and filter state into
// encoded JPEG outputs. it owns decoding and encoding; all compositing goes
// through the Rasterizer.
type Renderer struct {
	ras Rasterizer
}

// New returns a Renderer on the given rasterizer backend
func New(ras Rasterizer) *Renderer {
	if ras == nil {
		ras = NewSoftware()
	}
	return &Renderer{ras: ras}
}

// Render decodes src, composites it per params and encodes the square surface
// as JPEG at the given quality. rendering the same (bytes, params, quality)
// twice produces byte-identical output.
func (r *Renderer) Render(src []byte, p Params, quality int) ([]byte, error) {
	img, _, err := media.DecodeUpright(src)
	if err != nil {
		return nil, fmt.Errorf("render decode failed: %w", err)
	}

	surface, err := r.ras.Rasterize(img, p)
	if err != nil {
		return nil, fmt.Errorf("rasterize failed: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, surface, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("render encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
