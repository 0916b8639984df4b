package studio

import (
	"errors"
	"testing"
)

func TestNewKitRejectsNonPositiveTarget(t *testing.T) {
	t.Parallel()
	if _, err := NewKit(0); err == nil {
		t.Error("NewKit(0) did not return an error")
	}
	if _, err := NewKit(-3); err == nil {
		t.Error("NewKit(-3) did not return an error")
	}
}

func TestKitStates(t *testing.T) {
	t.Parallel()
	kit, err := NewKit(2)
	if err != nil {
		t.Fatalf("NewKit: %v", err)
	}
	if kit.State() != KitStateEmpty {
		t.Errorf("state = %q, want empty", kit.State())
	}

	if err := kit.Add(NewPhotoItem()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if kit.State() != KitStateFilling {
		t.Errorf("state = %q, want filling", kit.State())
	}

	if err := kit.Add(NewPhotoItem()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if kit.State() != KitStateComplete {
		t.Errorf("state = %q, want complete", kit.State())
	}

	// removing from a complete kit returns it to filling
	if err := kit.Remove(kit.Items[0].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if kit.State() != KitStateFilling {
		t.Errorf("state after remove = %q, want filling", kit.State())
	}
}

func TestKitCountNeverExceedsTarget(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(3)
	for i := 0; i < 3; i++ {
		if err := kit.Add(NewPhotoItem()); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	err := kit.Add(NewPhotoItem())
	var full *KitFullError
	if !errors.As(err, &full) {
		t.Fatalf("Add past target returned %v, want KitFullError", err)
	}
	if full.Count != 3 || full.Target != 3 {
		t.Errorf("KitFullError = %d/%d, want 3/3", full.Count, full.Target)
	}
	if kit.Count() != 3 {
		t.Errorf("count = %d after rejected add, want 3", kit.Count())
	}
}

func TestKitAcceptClampsSelection(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(3)
	kit.Add(NewPhotoItem())
	kit.Add(NewPhotoItem())

	accepted, skipped := kit.Accept(5)
	if accepted != 1 || skipped != 4 {
		t.Errorf("Accept(5) = (%d, %d), want (1, 4)", accepted, skipped)
	}

	accepted, skipped = kit.Accept(1)
	if accepted != 1 || skipped != 0 {
		t.Errorf("Accept(1) = (%d, %d), want (1, 0)", accepted, skipped)
	}
}

func TestKitDuplicate(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(3)
	src := NewPhotoItem()
	src.Transform.PanX = 12
	src.Adjustments.Contrast = 130
	src.Original = InlineRef([]byte{1, 2, 3})
	kit.Add(src)

	dup, err := kit.Duplicate(src.ID)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if dup.ID == src.ID {
		t.Error("duplicate shares the source id")
	}
	if dup.Transform.PanX != 12 || dup.Adjustments.Contrast != 130 {
		t.Error("duplicate did not copy edit state")
	}

	// the copies share no bytes
	dup.Original.Data[0] = 99
	if src.Original.Data[0] == 99 {
		t.Error("duplicate shares the source's inline bytes")
	}

	kit.Add(NewPhotoItem())
	if _, err := kit.Duplicate(src.ID); err == nil {
		t.Error("Duplicate succeeded on a kit at target size")
	}
}

func TestKitDuplicateUnknownID(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(2)
	kit.Add(NewPhotoItem())
	if _, err := kit.Duplicate("nope"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Duplicate(nope) = %v, want ErrItemNotFound", err)
	}
}

func TestKitMove(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(3)
	a, b, c := NewPhotoItem(), NewPhotoItem(), NewPhotoItem()
	kit.Add(a)
	kit.Add(b)
	kit.Add(c)

	if err := kit.Move(c.ID, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if kit.Items[0].ID != c.ID || kit.Items[1].ID != a.ID || kit.Items[2].ID != b.ID {
		t.Error("Move(c, 0) produced wrong order")
	}

	// out-of-range targets clamp instead of failing
	if err := kit.Move(c.ID, 99); err != nil {
		t.Fatalf("Move clamp: %v", err)
	}
	if kit.Items[2].ID != c.ID {
		t.Error("Move(c, 99) did not land at the end")
	}

	if err := kit.Move("nope", 0); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Move(nope) = %v, want ErrItemNotFound", err)
	}
}

func TestCheckFinalizeExactCountGate(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(2)
	kit.Add(NewPhotoItem())

	var need *NeedMorePhotosError
	if err := kit.CheckFinalize(); !errors.As(err, &need) {
		t.Fatalf("CheckFinalize below target = %v, want NeedMorePhotosError", err)
	}
	if need.Missing != 1 || need.Target != 2 {
		t.Errorf("NeedMorePhotosError = missing %d target %d, want 1/2", need.Missing, need.Target)
	}

	kit.Add(NewPhotoItem())
	if err := kit.CheckFinalize(); err != nil {
		t.Errorf("CheckFinalize at target = %v, want nil", err)
	}

	// over-full kits are unreachable through Add, but finalize still guards
	kit.Items = append(kit.Items, NewPhotoItem())
	var many *TooManyPhotosError
	if err := kit.CheckFinalize(); !errors.As(err, &many) {
		t.Fatalf("CheckFinalize above target = %v, want TooManyPhotosError", err)
	}
	if many.Excess != 1 {
		t.Errorf("TooManyPhotosError.Excess = %d, want 1", many.Excess)
	}
}

func TestFinalizedKitRejectsMutation(t *testing.T) {
	t.Parallel()
	kit, _ := NewKit(1)
	item := NewPhotoItem()
	kit.Add(item)
	kit.beginFinalize()
	if kit.State() != KitStateFinalizing {
		t.Errorf("state = %q, want finalizing", kit.State())
	}
	kit.completeFinalize()
	if kit.State() != KitStateFinalized {
		t.Errorf("state = %q, want finalized", kit.State())
	}

	if err := kit.Add(NewPhotoItem()); !errors.Is(err, ErrKitFinalized) {
		t.Errorf("Add after finalize = %v, want ErrKitFinalized", err)
	}
	if err := kit.Remove(item.ID); !errors.Is(err, ErrKitFinalized) {
		t.Errorf("Remove after finalize = %v, want ErrKitFinalized", err)
	}
	if err := kit.CheckFinalize(); !errors.Is(err, ErrKitFinalized) {
		t.Errorf("CheckFinalize after finalize = %v, want ErrKitFinalized", err)
	}
}

func TestResumeKit(t *testing.T) {
	t.Parallel()
	items := []*PhotoItem{NewPhotoItem(), NewPhotoItem()}
	kit, err := ResumeKit(3, items)
	if err != nil {
		t.Fatalf("ResumeKit: %v", err)
	}
	if kit.Count() != 2 || kit.State() != KitStateFilling {
		t.Errorf("resumed kit: count=%d state=%q", kit.Count(), kit.State())
	}

	if _, err := ResumeKit(1, items); err == nil {
		t.Error("ResumeKit accepted more items than the target size")
	}
}
