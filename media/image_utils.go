package media

import (
	"path/filepath"
	"strings"
)

var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true,
	// camera formats accepted for upload; these go through the normalizer
	".heic": true, ".heif": true, ".avif": true,
}

// IsSupportedUpload checks if the filename has an image extension the studio
// can ingest, either natively or through the format normalizer
func IsSupportedUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}
