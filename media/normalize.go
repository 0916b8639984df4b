package media

import (
	"log"
	"path/filepath"
	"strings"

	govips "github.com/davidbyttow/govips/v2/vips"
)

// ConversionQuality is the JPEG quality used when transcoding a camera format.
// high on purpose: the working-resolution re-encode happens right after, and a
// low-quality intermediate would compound the loss.
const ConversionQuality = 92

// formats that common decoders cannot be relied on to read. files matching one
// of these are transcoded to JPEG before any decode attempt
var conversionExtensions = map[string]bool{
	".heic": true,
	".heif": true,
	".avif": true,
}

var conversionMimeTypes = map[string]bool{
	"image/heic":          true,
	"image/heif":          true,
	"image/avif":          true,
	"image/heic-sequence": true,
	"image/heif-sequence": true,
}

// NeedsConversion reports whether a file's name or declared MIME type indicates
// a camera format that must be normalized before decoding
func NeedsConversion(filename, mimeType string) bool {
	if conversionMimeTypes[strings.ToLower(mimeType)] {
		return true
	}
	return conversionExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Normalizer converts non-universally-decodable camera formats to JPEG.
// implementations must never fail a file outright: on conversion trouble the
// original bytes pass through so the native decoder can still try.
type Normalizer interface {
	Normalize(filename, mimeType string, data []byte) (out []byte, outName string)
}

// VipsNormalizer is a libvips-backed Normalizer. libvips reads HEIC/HEIF/AVIF
// where the pure-Go decoders do not. safe for concurrent use.
type VipsNormalizer struct {
	quality int
}

// NewVipsNormalizer starts libvips and returns a ready normalizer.
// call Shutdown() when the process exits.
func NewVipsNormalizer(quality int) *VipsNormalizer {
	if quality <= 0 {
		quality = ConversionQuality
	}
	govips.Startup(&govips.Config{
		// vips logs a lot at info level; keep our log readable
		ReportLeaks: false,
	})
	govips.LoggingSettings(nil, govips.LogLevelError)
	return &VipsNormalizer{quality: quality}
}

// Shutdown releases libvips resources. call once at process exit
func (n *VipsNormalizer) Shutdown() {
	govips.Shutdown()
}

// Normalize transcodes data to JPEG when its format requires it; otherwise the
// input passes through untouched. conversion failures are logged and the
// original bytes are returned so the pipeline can attempt a native decode.
func (n *VipsNormalizer) Normalize(filename, mimeType string, data []byte) ([]byte, string) {
	if !NeedsConversion(filename, mimeType) {
		return data, filename
	}

	ref, err := govips.NewImageFromBuffer(data)
	if err != nil {
		log.Printf("media: normalize failed to read %s (%s), passing original through: %v", filename, mimeType, err)
		return data, filename
	}
	defer ref.Close()

	params := govips.NewJpegExportParams()
	params.Quality = n.quality
	out, _, err := ref.ExportJpeg(params)
	if err != nil {
		log.Printf("media: normalize failed to transcode %s, passing original through: %v", filename, err)
		return data, filename
	}

	converted := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	log.Printf("media: normalized %s -> %s (%d -> %d bytes)", filename, converted, len(data), len(out))
	return out, converted
}
