package studio

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/snapmag/studio-backend/blobstore"
	"github.com/snapmag/studio-backend/media"
	"github.com/snapmag/studio-backend/renderer"
	"github.com/snapmag/studio-backend/utils"
)

// PreviewReferenceSize is the side of the interactive preview that pan
// offsets are measured against. render-time pan scaling divides by this, so
// any preview surface that is not this size must scale its pointer deltas
// accordingly or crops will drift between preview and print.
const PreviewReferenceSize = 360

// ProgressFunc observes batch progress during ingestion and finalize
// rendering. current only advances after an item's full pipeline succeeds.
type ProgressFunc func(current, total int, message string)

func nopProgress(int, int, string) {}

// Config carries the studio's processing geometry. zero values fall back to
// the package defaults.
type Config struct {
	WorkingMaxSize int
	WorkingQuality int

	DisplaySize    int
	DisplayQuality int
	PrintSize      int
	PrintQuality   int

	PreviewReferenceSize int
}

func (c Config) withDefaults() Config {
	if c.WorkingMaxSize <= 0 {
		c.WorkingMaxSize = media.WorkingMaxSize
	}
	if c.WorkingQuality <= 0 {
		c.WorkingQuality = media.WorkingJpegQuality
	}
	if c.DisplaySize <= 0 {
		c.DisplaySize = renderer.DisplaySize
	}
	if c.DisplayQuality <= 0 {
		c.DisplayQuality = renderer.DisplayQuality
	}
	if c.PrintSize <= 0 {
		c.PrintSize = renderer.PrintSize
	}
	if c.PrintQuality <= 0 {
		c.PrintQuality = renderer.PrintQuality
	}
	if c.PreviewReferenceSize <= 0 {
		c.PreviewReferenceSize = PreviewReferenceSize
	}
	return c
}

// Service runs the studio pipeline: ingest uploads into a kit, finalize a kit
// into rendered outputs, rehydrate resumed sessions. batch work is strictly
// sequential so progress is monotonic and only one decoded bitmap is resident
// at a time.
type Service struct {
	store      blobstore.Store
	normalizer media.Normalizer
	renderer   *renderer.Renderer
	cfg        Config
}

// NewService wires the studio pipeline. normalizer may be nil when no camera
// format support is available; affected files then fall through to the native
// decoder.
func NewService(store blobstore.Store, normalizer media.Normalizer, rend *renderer.Renderer, cfg Config) *Service {
	if rend == nil {
		rend = renderer.New(nil)
	}
	return &Service{
		store:      store,
		normalizer: normalizer,
		renderer:   rend,
		cfg:        cfg.withDefaults(),
	}
}

// IngestResult reports the outcome of one upload batch
type IngestResult struct {
	Items []*PhotoItem `json:"items"`
	// SkippedCapacity counts files rejected up front because the kit only had
	// room for the first N of the selection
	SkippedCapacity int `json:"skipped_capacity"`
	// FailedFiles lists files whose decode failed; the batch continued past
	// them
	FailedFiles []string `json:"failed_files,omitempty"`
}

// Ingest runs the normalize -> compress -> store pipeline for each accepted
// file in order, appending one photo item per success. files are processed
// strictly sequentially; a failed file does not advance the progress counter
// and does not block the rest of the batch.
func (s *Service) Ingest(ctx context.Context, kit *Kit, files []media.File, progress ProgressFunc) (*IngestResult, error) {
	if progress == nil {
		progress = nopProgress
	}
	if len(files) > 0 && kit.Remaining() == 0 {
		return nil, &KitFullError{Count: kit.Count(), Target: kit.TargetSize}
	}

	accepted, skipped := kit.Accept(len(files))
	if skipped > 0 {
		log.Printf("studio: kit has room for %d of %d selected files, skipping %d", accepted, len(files), skipped)
	}

	result := &IngestResult{SkippedCapacity: skipped}
	total := accepted
	current := 0

	for _, file := range files[:accepted] {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item, err := s.ingestOne(file)
		if err != nil {
			log.Printf("studio: skipping file %s: %v", file.Name, err)
			result.FailedFiles = append(result.FailedFiles, file.Name)
			continue
		}
		if err := kit.Add(item); err != nil {
			// capacity was pre-clamped, so this only fires on a finalized kit
			return result, err
		}
		result.Items = append(result.Items, item)
		current++
		progress(current, total, fmt.Sprintf("Added %s", file.Name))
	}
	return result, nil
}

// ingestOne runs a single file through normalize, compress and the object
// store. a storage-write failure degrades to an inline original so the item
// stays editable, it does not fail the file.
func (s *Service) ingestOne(file media.File) (*PhotoItem, error) {
	if !media.IsSupportedUpload(file.Name) {
		return nil, fmt.Errorf("unsupported file type '%s'", file.Name)
	}

	data := file.Data
	name := file.Name
	if s.normalizer != nil {
		data, name = s.normalizer.Normalize(file.Name, file.MimeType, file.Data)
	}

	working, err := media.CompressToWorking(data, s.cfg.WorkingMaxSize, s.cfg.WorkingQuality)
	if err != nil {
		return nil, err
	}

	item := NewPhotoItem()
	item.FileName = name
	item.Capture = utils.ExtractMetadata(file.Data)

	if err := s.store.Put(item.ID, bytes.NewReader(working.Data)); err != nil {
		// the item remains usable in memory; a later finalize may fail at the
		// print step if these bytes are gone by then
		log.Printf("studio: object store write failed for %s, keeping bytes inline: %v", item.ID, err)
		item.Original = InlineRef(working.Data)
	} else {
		item.Original = BlobRef(item.ID)
		item.Fallback = InlineRef(working.Data)
	}
	return item, nil
}

// Bundle is the finalized kit handed to the cart or order collaborator
type Bundle struct {
	KitID      string       `json:"kit_id"`
	TargetSize int          `json:"target_size"`
	Consent    bool         `json:"consent"`
	Items      []*PhotoItem `json:"items"`
}

// Finalize gates on an exact quantity match, renders the display proxy and
// print master for every item in display order, assigns one shared kit id and
// hands back the bundle. per-item render failures fall back to the item's
// prior display reference; only a kit with no renderable output at all fails.
func (s *Service) Finalize(ctx context.Context, kit *Kit, consent bool, progress ProgressFunc) (*Bundle, error) {
	if progress == nil {
		progress = nopProgress
	}
	if err := kit.CheckFinalize(); err != nil {
		return nil, err
	}

	kit.beginFinalize()
	kitID := uuid.NewString()
	total := len(kit.Items)
	rendered := 0

	for i, item := range kit.Items {
		if err := ctx.Err(); err != nil {
			// already-persisted print masters stay valid; only in-memory
			// state is abandoned
			return nil, err
		}

		item.KitID = kitID
		item.Consent = consent

		if err := s.renderItem(item); err != nil {
			log.Printf("studio: item %s kept its previous display reference: %v", item.ID, err)
			continue
		}
		rendered++
		progress(i+1, total, fmt.Sprintf("Rendered photo %d of %d", i+1, total))
	}

	if rendered == 0 && !anyDisplayable(kit.Items) {
		return nil, fmt.Errorf("could not process kit: no photo produced a usable output")
	}

	kit.completeFinalize()
	bundle := &Bundle{
		KitID:      kitID,
		TargetSize: kit.TargetSize,
		Consent:    consent,
		Items:      kit.Items,
	}
	kit.Clear()
	return bundle, nil
}

// renderItem produces the display/print pair for one item. the pair is
// atomic: the new display proxy is only installed after the print master is
// rendered and stored, so a partial failure leaves the item in its prior
// state.
func (s *Service) renderItem(item *PhotoItem) error {
	src, err := item.ResolveSource(s.store)
	if err != nil {
		return fmt.Errorf("no resolvable source: %w", err)
	}

	params := renderer.Params{
		PanX:        item.Transform.PanX,
		PanY:        item.Transform.PanY,
		Zoom:        item.Transform.Normalized().Zoom,
		Rotation:    item.Transform.Rotation,
		Filter:      item.Filter(),
		PreviewSize: s.cfg.PreviewReferenceSize,
	}

	params.OutputSize = s.cfg.DisplaySize
	displayBytes, err := s.renderer.Render(src, params, s.cfg.DisplayQuality)
	if err != nil {
		return fmt.Errorf("display render failed: %w", err)
	}

	params.OutputSize = s.cfg.PrintSize
	printBytes, err := s.renderer.Render(src, params, s.cfg.PrintQuality)
	if err != nil {
		return fmt.Errorf("print render failed: %w", err)
	}

	printKey := blobstore.PrintKey(item.ID)
	if err := s.store.Put(printKey, bytes.NewReader(printBytes)); err != nil {
		return fmt.Errorf("print master write failed for %s: %w", printKey, err)
	}

	item.Proxy = InlineRef(displayBytes)
	return nil
}

func anyDisplayable(items []*PhotoItem) bool {
	for _, item := range items {
		if !item.Proxy.IsZero() {
			return true
		}
	}
	return false
}
