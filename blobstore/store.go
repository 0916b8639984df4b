package blobstore

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PrintKeySuffix distinguishes the print-resolution variant of an item's bytes
// from its working-resolution original under the same item id.
const PrintKeySuffix = "_print"

// PrintKey returns the object-store key for an item's print-resolution master.
func PrintKey(itemID string) string { return itemID + PrintKeySuffix }

// Store is a local asynchronous key -> binary-blob store. it holds original and
// print-resolution image payloads outside the row-oriented persistence layer.
// writes to the same key are last-writer-wins overwrites; the single-writer
// model of the studio means no two writes to one key are logically concurrent.
type Store interface {
	// Put stores data under key, overwriting any previous value
	Put(key string, data io.Reader) error
	// Get retrieves the full payload for key
	Get(key string) ([]byte, error)
	// Has reports whether key currently resolves to a payload
	Has(key string) bool
	// Delete removes the payload for key; missing keys are not an error
	Delete(key string) error
	// Keys lists all stored keys (admin/debug use)
	Keys() ([]string, error)
}

const blobExtension = ".bin"

// LocalStore implements Store on the local filesystem, one file per key
type LocalStore struct {
	basePath string // absolute path to the blob directory
}

// NewLocalStore creates the blob directory if needed and returns a ready store
func NewLocalStore(basePath string) (*LocalStore, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid blob store path '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob store directory '%s': %w", absBasePath, err)
	}
	log.Printf("blobstore: initialized LocalStore at %s", absBasePath)
	return &LocalStore{basePath: absBasePath}, nil
}

// keyPath resolves a key to its absolute file path with a traversal guard.
// keys are item UUIDs plus an optional suffix, so anything stranger is rejected
func (ls *LocalStore) keyPath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key cannot be empty")
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key '%s'", key)
	}
	fullPath := filepath.Join(ls.basePath, key+blobExtension)
	if !strings.HasPrefix(filepath.Clean(fullPath), ls.basePath) {
		return "", fmt.Errorf("blob key '%s' resolves outside store", key)
	}
	return fullPath, nil
}

func (ls *LocalStore) Put(key string, data io.Reader) error {
	fullPath, err := ls.keyPath(key)
	if err != nil {
		return err
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create blob file for '%s': %w", key, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write blob '%s': %w", key, err)
	}
	return nil
}

func (ls *LocalStore) Get(key string) ([]byte, error) {
	fullPath, err := ls.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found for key '%s': %w", key, err)
		}
		return nil, fmt.Errorf("failed to read blob '%s': %w", key, err)
	}
	return data, nil
}

func (ls *LocalStore) Has(key string) bool {
	fullPath, err := ls.keyPath(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

func (ls *LocalStore) Delete(key string) error {
	fullPath, err := ls.keyPath(key)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob '%s': %w", key, err)
	}
	return nil
}

func (ls *LocalStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(ls.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list blob store: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), blobExtension) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), blobExtension))
	}
	sort.Strings(keys)
	return keys, nil
}
