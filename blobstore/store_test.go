package blobstore

import (
	"bytes"
	"strings"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	payload := []byte("encoded image bytes")
	if err := store.Put("item-1", bytes.NewReader(payload)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get("item-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get returned %q, want %q", got, payload)
	}
}

func TestPutOverwrites(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if err := store.Put("k", strings.NewReader("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put("k", strings.NewReader("second")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get returned %q after overwrite, want %q", got, "second")
	}
}

func TestHasAndDelete(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if store.Has("missing") {
		t.Error("Has reported a key that was never stored")
	}
	if err := store.Put("k", strings.NewReader("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !store.Has("k") {
		t.Error("Has did not report a stored key")
	}

	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Has("k") {
		t.Error("Has reported a deleted key")
	}
	// deleting a missing key is not an error
	if err := store.Delete("k"); err != nil {
		t.Errorf("Delete of missing key returned error: %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if _, err := store.Get("nope"); err == nil {
		t.Error("Get of a missing key did not return an error")
	}
}

func TestInvalidKeysRejected(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		if err := store.Put(key, strings.NewReader("v")); err == nil {
			t.Errorf("Put accepted invalid key %q", key)
		}
		if store.Has(key) {
			t.Errorf("Has accepted invalid key %q", key)
		}
	}
}

func TestKeysSorted(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	for _, key := range []string{"charlie", "alpha", "bravo"} {
		if err := store.Put(key, strings.NewReader("v")); err != nil {
			t.Fatalf("Put %q: %v", key, err)
		}
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(keys) != len(want) {
		t.Fatalf("Keys returned %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestPrintKey(t *testing.T) {
	t.Parallel()
	if got := PrintKey("abc"); got != "abc_print" {
		t.Errorf("PrintKey(abc) = %q, want abc_print", got)
	}
}
