package media

import (
	"bytes"
	"fmt"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"

	"github.com/snapmag/studio-backend/utils"
)

const (
	// WorkingMaxSize bounds the longer side of the working-resolution image.
	// 2400 leaves headroom over the 1500px print master so the user can zoom
	// and crop without visible pixelation, while keeping per-photo memory and
	// encode time bounded during interactive editing.
	WorkingMaxSize = 2400

	// WorkingJpegQuality is the re-encode quality for working-resolution bytes
	WorkingJpegQuality = 90
)

// WorkingImage is the output of the working-resolution compression step
type WorkingImage struct {
	Data   []byte
	Width  int
	Height int
	Format string // the source format the bytes were decoded from
}

// DecodeUpright decodes encoded image bytes and applies the EXIF orientation so
// callers never see a sideways bitmap. returns the decoded format name.
func DecodeUpright(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	switch utils.Orientation(data) {
	case 2:
		img = imaging.FlipH(img)
	case 3:
		img = imaging.Rotate180(img)
	case 4:
		img = imaging.FlipV(img)
	case 5:
		img = imaging.Transpose(img)
	case 6:
		img = imaging.Rotate270(img)
	case 7:
		img = imaging.Transverse(img)
	case 8:
		img = imaging.Rotate90(img)
	}
	return img, format, nil
}

// fitWithin scales (width, height) down so the longer side does not exceed
// maxSize, preserving aspect ratio. dimensions already inside the bound are
// returned unchanged; this never upscales
func fitWithin(width, height, maxSize int) (int, int) {
	var newWidth, newHeight int
	if width > height {
		if width <= maxSize {
			newWidth, newHeight = width, height
		} else {
			newWidth = maxSize
			newHeight = int(math.Round(float64(height) * (float64(maxSize) / float64(width))))
		}
	} else {
		if height <= maxSize {
			newWidth, newHeight = width, height
		} else {
			newHeight = maxSize
			newWidth = int(math.Round(float64(width) * (float64(maxSize) / float64(height))))
		}
	}
	return maxInt(1, newWidth), maxInt(1, newHeight)
}

// CompressToWorking decodes a normalized image file, constrains its longer side
// to maxSize and re-encodes it as JPEG at the given quality. a failed decode is
// a per-file error the batch caller can skip without aborting the batch.
func CompressToWorking(data []byte, maxSize, quality int) (*WorkingImage, error) {
	if maxSize <= 0 {
		maxSize = WorkingMaxSize
	}
	if quality <= 0 {
		quality = WorkingJpegQuality
	}

	img, format, err := DecodeUpright(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()
	if origWidth <= 0 || origHeight <= 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", origWidth, origHeight)
	}

	newWidth, newHeight := fitWithin(origWidth, origHeight, maxSize)
	if newWidth != origWidth || newHeight != origHeight {
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode working image: %w", err)
	}

	return &WorkingImage{
		Data:   buf.Bytes(),
		Width:  newWidth,
		Height: newHeight,
		Format: format,
	}, nil
}
