package utils

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata carries the capture information the studio keeps alongside a photo
// item. everything is optional; most phone exports carry all three.
type Metadata struct {
	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"` // unix timestamp
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), "\"")
	if val == "" {
		return nil
	}
	return &val
}

// Orientation returns the EXIF orientation value (1-8) for encoded image
// bytes, or 1 (upright) when no EXIF block or tag is present
func Orientation(data []byte) int {
	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := exifData.Get(exif.Orientation)
	if err != nil || tag == nil {
		return 1
	}
	val, err := tag.Int(0)
	if err != nil || val < 1 || val > 8 {
		return 1
	}
	return val
}

// ExtractMetadata pulls capture metadata out of encoded image bytes. files
// without EXIF (screenshots, exports) return an empty Metadata, not an error
func ExtractMetadata(data []byte) Metadata {
	var meta Metadata
	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return meta
	}

	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	if dt, err := exifData.DateTime(); err == nil {
		unix := dt.Unix()
		meta.TakenAt = &unix
	}
	return meta
}
