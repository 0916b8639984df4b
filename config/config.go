package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultBlobsSubDir = "blobs"

	defaultWorkingMaxSize = 2400
	defaultWorkingQuality = 90

	defaultDisplaySize    = 600
	defaultDisplayQuality = 82
	defaultPrintSize      = 1500
	defaultPrintQuality   = 95

	// the interactive preview's reference side. pan offsets are measured
	// against this; render-time scaling divides by it, so a preview of any
	// other size must rescale its pointer deltas or crops will drift
	defaultPreviewReferenceSize = 360

	defaultConversionQuality = 92

	defaultRehydrationQueueSize = 100
	defaultRehydrationWorkers   = 2
)

type Config struct {
	// database path (shared by the gorm layer and the raw order queries)
	DatabasePath string

	// binary object store configuration
	StoragePath string // root for generated data
	BlobsPath   string // full-calculated path for the object store

	// studio processing geometry
	WorkingMaxSize       int
	WorkingQuality       int
	DisplaySize          int
	DisplayQuality       int
	PrintSize            int
	PrintQuality         int
	PreviewReferenceSize int

	// camera-format conversion quality (HEIC/HEIF/AVIF -> JPEG)
	ConversionQuality int

	// rehydration worker settings
	RehydrationQueueSize int
	RehydrationWorkers   int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "studio.db")

	storage := getEnvOrDefault("STORAGE_PATH", filepath.Join(".", "studio_storage"))
	absStorage, err := filepath.Abs(storage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage '%s': %w", storage, err)
	}

	blobsSubDir := getEnvOrDefault("BLOBS_SUBDIR", DefaultBlobsSubDir)
	absBlobsPath := filepath.Join(absStorage, blobsSubDir)

	cfg := Config{
		DatabasePath:         dbPath,
		StoragePath:          absStorage,
		BlobsPath:            absBlobsPath,
		WorkingMaxSize:       getEnvIntOrDefault("WORKING_MAX_SIZE", defaultWorkingMaxSize),
		WorkingQuality:       getEnvIntOrDefault("WORKING_JPEG_QUALITY", defaultWorkingQuality),
		DisplaySize:          getEnvIntOrDefault("DISPLAY_SIZE", defaultDisplaySize),
		DisplayQuality:       getEnvIntOrDefault("DISPLAY_JPEG_QUALITY", defaultDisplayQuality),
		PrintSize:            getEnvIntOrDefault("PRINT_SIZE", defaultPrintSize),
		PrintQuality:         getEnvIntOrDefault("PRINT_JPEG_QUALITY", defaultPrintQuality),
		PreviewReferenceSize: getEnvIntOrDefault("PREVIEW_REFERENCE_SIZE", defaultPreviewReferenceSize),
		ConversionQuality:    getEnvIntOrDefault("CONVERSION_JPEG_QUALITY", defaultConversionQuality),
		RehydrationQueueSize: getEnvIntOrDefault("REHYDRATION_QUEUE_SIZE", defaultRehydrationQueueSize),
		RehydrationWorkers:   getEnvIntOrDefault("REHYDRATION_WORKERS", defaultRehydrationWorkers),
	}

	return cfg, nil
}
