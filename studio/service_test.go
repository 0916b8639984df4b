package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/snapmag/studio-backend/blobstore"
	"github.com/snapmag/studio-backend/media"
)

// small geometry keeps the render pipeline fast under test; the pipeline code
// paths are identical at any size
func testService(t *testing.T) (*Service, blobstore.Store) {
	t.Helper()
	store, err := blobstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	svc := NewService(store, nil, nil, Config{
		WorkingMaxSize: 64,
		WorkingQuality: 85,
		DisplaySize:    24,
		DisplayQuality: 80,
		PrintSize:      40,
		PrintQuality:   90,
	})
	return svc, store
}

func jpegFile(t *testing.T, name string, width, height int) media.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(37 * x), uint8(53 * y), uint8(29 * (x + y)), 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode fixture %s: %v", name, err)
	}
	return media.File{Name: name, MimeType: "image/jpeg", Data: buf.Bytes()}
}

func jpegBatch(t *testing.T, n int) []media.File {
	t.Helper()
	files := make([]media.File, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, jpegFile(t, fmt.Sprintf("photo%d.jpg", i), 80+i, 60))
	}
	return files
}

func TestIngestStoresWorkingCopies(t *testing.T) {
	t.Parallel()
	svc, store := testService(t)
	kit, _ := NewKit(3)

	var progressCalls int
	result, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 3), func(current, total int, message string) {
		progressCalls++
		if current != progressCalls || total != 3 {
			t.Errorf("progress reported %d/%d at call %d", current, total, progressCalls)
		}
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(result.Items) != 3 || result.SkippedCapacity != 0 || len(result.FailedFiles) != 0 {
		t.Fatalf("result = %d items, %d skipped, %d failed", len(result.Items), result.SkippedCapacity, len(result.FailedFiles))
	}
	if progressCalls != 3 {
		t.Errorf("progress fired %d times, want 3", progressCalls)
	}
	if kit.State() != KitStateComplete {
		t.Errorf("kit state = %q, want complete", kit.State())
	}

	for _, item := range result.Items {
		if item.Original.Kind != RefBlob || item.Original.Key != item.ID {
			t.Errorf("item %s original = %+v, want blob ref under the item id", item.ID, item.Original)
		}
		if !store.Has(item.ID) {
			t.Errorf("no working copy stored for item %s", item.ID)
		}
		if item.Fallback.Kind != RefInline || len(item.Fallback.Data) == 0 {
			t.Errorf("item %s has no inline fallback", item.ID)
		}
		if item.Transform.Zoom != DefaultZoom {
			t.Errorf("item %s zoom = %v, want the default", item.ID, item.Transform.Zoom)
		}
	}
}

func TestIngestClampsToRemainingCapacity(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	kit, _ := NewKit(3)

	if _, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 2), nil); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	result, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 5), nil)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if len(result.Items) != 1 || result.SkippedCapacity != 4 {
		t.Errorf("result = %d items, %d skipped; want 1 accepted, 4 skipped", len(result.Items), result.SkippedCapacity)
	}
	if kit.Count() != 3 {
		t.Errorf("kit count = %d, want 3", kit.Count())
	}
}

func TestIngestIntoFullKit(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	kit, _ := NewKit(1)
	if _, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 1), nil); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	_, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 1), nil)
	var full *KitFullError
	if !errors.As(err, &full) {
		t.Fatalf("Ingest into full kit = %v, want KitFullError", err)
	}
}

func TestIngestSkipsCorruptFileAndContinues(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	kit, _ := NewKit(3)

	files := []media.File{
		jpegFile(t, "good1.jpg", 80, 60),
		{Name: "broken.jpg", MimeType: "image/jpeg", Data: []byte("not an image")},
		jpegFile(t, "good2.jpg", 80, 60),
	}

	result, err := svc.Ingest(context.Background(), kit, files, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(result.Items) != 2 {
		t.Errorf("accepted %d items, want 2", len(result.Items))
	}
	if len(result.FailedFiles) != 1 || result.FailedFiles[0] != "broken.jpg" {
		t.Errorf("failed files = %v, want [broken.jpg]", result.FailedFiles)
	}
	if kit.Count() != 2 {
		t.Errorf("kit count = %d, want 2", kit.Count())
	}
}

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	kit, _ := NewKit(2)

	files := []media.File{
		{Name: "document.pdf", Data: []byte("%PDF-")},
		jpegFile(t, "good.jpg", 80, 60),
	}
	result, err := svc.Ingest(context.Background(), kit, files, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(result.Items) != 1 || len(result.FailedFiles) != 1 {
		t.Errorf("result = %d items, failed %v", len(result.Items), result.FailedFiles)
	}
}

func TestFinalizeRendersKit(t *testing.T) {
	t.Parallel()
	svc, store := testService(t)
	kit, _ := NewKit(3)

	if _, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 3), nil); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	bundle, err := svc.Finalize(context.Background(), kit, true, nil)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if bundle.KitID == "" {
		t.Fatal("bundle has no kit id")
	}
	if bundle.TargetSize != 3 || len(bundle.Items) != 3 {
		t.Fatalf("bundle = target %d with %d items", bundle.TargetSize, len(bundle.Items))
	}
	for _, item := range bundle.Items {
		if item.KitID != bundle.KitID {
			t.Errorf("item %s kit id %q, want shared id %q", item.ID, item.KitID, bundle.KitID)
		}
		if !item.Consent {
			t.Errorf("item %s did not receive the kit consent flag", item.ID)
		}
		if item.Proxy.Kind != RefInline || len(item.Proxy.Data) == 0 {
			t.Errorf("item %s has no display proxy", item.ID)
		}
		if !store.Has(blobstore.PrintKey(item.ID)) {
			t.Errorf("no print master stored for item %s", item.ID)
		}
	}

	if kit.State() != KitStateFinalized {
		t.Errorf("kit state = %q, want finalized", kit.State())
	}
	if kit.Count() != 0 {
		t.Errorf("kit still holds %d items after bundle handoff", kit.Count())
	}
}

func TestFinalizeBelowTarget(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	kit, _ := NewKit(3)
	if _, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 2), nil); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	_, err := svc.Finalize(context.Background(), kit, false, nil)
	var need *NeedMorePhotosError
	if !errors.As(err, &need) {
		t.Fatalf("Finalize below target = %v, want NeedMorePhotosError", err)
	}
	if need.Missing != 1 {
		t.Errorf("missing = %d, want 1", need.Missing)
	}
	// the failed gate must leave the kit editable
	if kit.State() != KitStateFilling {
		t.Errorf("kit state = %q after rejected finalize, want filling", kit.State())
	}
}

func TestFinalizeSurvivesUnrenderableItem(t *testing.T) {
	t.Parallel()
	svc, store := testService(t)
	kit, _ := NewKit(2)

	if _, err := svc.Ingest(context.Background(), kit, jpegBatch(t, 1), nil); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// an item whose references all dangle: render fails, finalize continues
	ghost := NewPhotoItem()
	ghost.Original = BlobRef("gone")
	if err := kit.Add(ghost); err != nil {
		t.Fatalf("Add: %v", err)
	}

	bundle, err := svc.Finalize(context.Background(), kit, false, nil)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(bundle.Items) != 2 {
		t.Fatalf("bundle has %d items, want 2", len(bundle.Items))
	}
	// both items still carry the shared kit id, even the failed one
	for _, item := range bundle.Items {
		if item.KitID != bundle.KitID {
			t.Errorf("item %s missing the shared kit id", item.ID)
		}
	}
	if store.Has(blobstore.PrintKey(ghost.ID)) {
		t.Error("a print master appeared for the unrenderable item")
	}
	if !ghost.Proxy.IsZero() {
		t.Error("the unrenderable item gained a display proxy")
	}
}

func TestFinalizeAllUnrenderableFails(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)
	kit, _ := NewKit(1)
	ghost := NewPhotoItem()
	ghost.Original = BlobRef("gone")
	kit.Add(ghost)

	if _, err := svc.Finalize(context.Background(), kit, false, nil); err == nil {
		t.Fatal("Finalize succeeded with no renderable output at all")
	}
}

func TestRehydrateFromWorkingEntry(t *testing.T) {
	t.Parallel()
	svc, store := testService(t)

	item := NewPhotoItem()
	item.Original = InlineRef([]byte("low fidelity"))
	if err := store.Put(item.ID, bytes.NewReader([]byte("full fidelity"))); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !NeedsRehydration(item) {
		t.Fatal("inline original not flagged for rehydration")
	}
	if !svc.Rehydrate(item) {
		t.Fatal("Rehydrate reported no substitution")
	}
	if item.Original.Kind != RefBlob || item.Original.Key != item.ID {
		t.Errorf("original = %+v, want blob ref to the working entry", item.Original)
	}
	if NeedsRehydration(item) {
		t.Error("item still flagged after rehydration")
	}
}

func TestRehydrateFallsBackToPrintEntry(t *testing.T) {
	t.Parallel()
	svc, store := testService(t)

	item := NewPhotoItem()
	item.Original = InlineRef([]byte("low fidelity"))
	printKey := blobstore.PrintKey(item.ID)
	if err := store.Put(printKey, bytes.NewReader([]byte("print master"))); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !svc.Rehydrate(item) {
		t.Fatal("Rehydrate reported no substitution")
	}
	if item.Original.Key != printKey {
		t.Errorf("original key = %q, want print key %q", item.Original.Key, printKey)
	}
}

func TestRehydrateMissSilentlyKeepsInline(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t)

	item := NewPhotoItem()
	item.Original = InlineRef([]byte("low fidelity"))
	if svc.Rehydrate(item) {
		t.Fatal("Rehydrate reported a substitution with an empty store")
	}
	if item.Original.Kind != RefInline {
		t.Errorf("original = %+v, want untouched inline ref", item.Original)
	}

	// blob-backed originals are never rehydration candidates
	fresh := NewPhotoItem()
	fresh.Original = BlobRef(fresh.ID)
	if svc.Rehydrate(fresh) {
		t.Error("Rehydrate touched a blob-backed original")
	}
}

func TestResolveSourcePrefersOriginal(t *testing.T) {
	t.Parallel()
	_, store := testService(t)

	item := NewPhotoItem()
	item.Original = BlobRef("missing-key")
	item.Fallback = InlineRef([]byte("fallback bytes"))

	// the dangling blob ref falls through to the inline fallback
	data, err := item.ResolveSource(store)
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	if string(data) != "fallback bytes" {
		t.Errorf("resolved %q, want the fallback bytes", data)
	}

	if err := store.Put("present", bytes.NewReader([]byte("original bytes"))); err != nil {
		t.Fatalf("Put: %v", err)
	}
	item.Original = BlobRef("present")
	data, err = item.ResolveSource(store)
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	if string(data) != "original bytes" {
		t.Errorf("resolved %q, want the original bytes", data)
	}
}

func TestResolveSourceNoRefs(t *testing.T) {
	t.Parallel()
	_, store := testService(t)
	item := NewPhotoItem()
	if item.Resolvable() {
		t.Error("fresh item with no refs reported resolvable")
	}
	if _, err := item.ResolveSource(store); err == nil {
		t.Error("ResolveSource succeeded with no references")
	}
}
