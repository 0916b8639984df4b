package models

import (
	"time"

	"github.com/snapmag/studio-backend/filter"
	"github.com/snapmag/studio-backend/studio"
)

// PhotoItem is the persisted row for one studio photo. large payloads live in
// the binary object store; this row carries at most a low-fidelity inline
// copy (OriginalData) and the finalized display proxy (ProxyData) so the
// text-oriented persistence layer never holds print-resolution bytes.
type PhotoItem struct {
	ID    string  `gorm:"primaryKey" json:"id"`
	KitID *string `gorm:"index" json:"kit_id,omitempty"`

	// Position is the item's display order inside its kit; it is also the
	// render order at finalize
	Position int `gorm:"not null;default:0" json:"position"`

	// source references. OriginalKey points into the object store; when it is
	// empty and OriginalData is set, the row was persisted low-fidelity and
	// rehydration applies on resume
	OriginalKey  *string `json:"original_key,omitempty"`
	OriginalData []byte  `json:"-"`
	ProxyData    []byte  `json:"-"`

	// crop state
	PanX     float64 `gorm:"not null;default:0" json:"pan_x"`
	PanY     float64 `gorm:"not null;default:0" json:"pan_y"`
	Zoom     float64 `gorm:"not null;default:1" json:"zoom"`
	Rotation int     `gorm:"not null;default:0" json:"rotation"`

	// tonal sliders, integer percentages centered at 100
	Brightness int `gorm:"not null;default:100" json:"brightness"`
	Exposure   int `gorm:"not null;default:100" json:"exposure"`
	Contrast   int `gorm:"not null;default:100" json:"contrast"`
	Saturation int `gorm:"not null;default:100" json:"saturation"`
	Warmth     int `gorm:"not null;default:100" json:"warmth"`

	Preset string `gorm:"not null;default:none" json:"preset"`

	Consent  bool   `gorm:"not null;default:false" json:"consent"`
	FileName string `json:"file_name,omitempty"`

	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (PhotoItem) TableName() string {
	return "photo_items"
}

// ToDomain rebuilds the in-memory studio item from a persisted row
func (m *PhotoItem) ToDomain() *studio.PhotoItem {
	preset, err := filter.ParsePreset(m.Preset)
	if err != nil {
		preset = filter.PresetNone
	}

	item := &studio.PhotoItem{
		ID: m.ID,
		Transform: studio.Transform{
			PanX:     m.PanX,
			PanY:     m.PanY,
			Zoom:     m.Zoom,
			Rotation: m.Rotation,
		},
		Adjustments: filter.Adjustments{
			Brightness: m.Brightness,
			Exposure:   m.Exposure,
			Contrast:   m.Contrast,
			Saturation: m.Saturation,
			Warmth:     m.Warmth,
		},
		Preset:   preset,
		Consent:  m.Consent,
		FileName: m.FileName,
	}
	item.Transform = item.Transform.Normalized()
	item.Adjustments = item.Adjustments.Clamped()
	item.Capture.CameraMake = m.CameraMake
	item.Capture.CameraModel = m.CameraModel
	item.Capture.TakenAt = m.TakenAt

	if m.KitID != nil {
		item.KitID = *m.KitID
	}
	switch {
	case m.OriginalKey != nil && *m.OriginalKey != "":
		item.Original = studio.BlobRef(*m.OriginalKey)
	case len(m.OriginalData) > 0:
		// low-fidelity marker; the rehydrator will try to upgrade this
		item.Original = studio.InlineRef(m.OriginalData)
	}
	if len(m.ProxyData) > 0 {
		item.Proxy = studio.InlineRef(m.ProxyData)
	}
	return item
}

// PhotoItemFromDomain flattens a studio item into its persisted row.
// inline original bytes are only kept when there is no object-store key,
// matching the low-fidelity persistence contract.
func PhotoItemFromDomain(item *studio.PhotoItem, position int) *PhotoItem {
	m := &PhotoItem{
		ID:          item.ID,
		Position:    position,
		PanX:        item.Transform.PanX,
		PanY:        item.Transform.PanY,
		Zoom:        item.Transform.Zoom,
		Rotation:    item.Transform.Rotation,
		Brightness:  item.Adjustments.Brightness,
		Exposure:    item.Adjustments.Exposure,
		Contrast:    item.Adjustments.Contrast,
		Saturation:  item.Adjustments.Saturation,
		Warmth:      item.Adjustments.Warmth,
		Preset:      string(item.Preset),
		Consent:     item.Consent,
		FileName:    item.FileName,
		CameraMake:  item.Capture.CameraMake,
		CameraModel: item.Capture.CameraModel,
		TakenAt:     item.Capture.TakenAt,
	}
	if m.Preset == "" {
		m.Preset = string(filter.PresetNone)
	}
	if item.KitID != "" {
		kitID := item.KitID
		m.KitID = &kitID
	}
	switch item.Original.Kind {
	case studio.RefBlob:
		key := item.Original.Key
		m.OriginalKey = &key
	case studio.RefInline:
		m.OriginalData = item.Original.Data
	}
	if item.Proxy.Kind == studio.RefInline {
		m.ProxyData = item.Proxy.Data
	}
	return m
}
