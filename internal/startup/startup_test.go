package startup

import (
	"testing"
	"time"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_SET_VAR", "custom")

	if got := getEnv("TEST_SET_VAR", "default"); got != "custom" {
		t.Errorf("getEnv = %q, want custom", got)
	}
	if got := getEnv("TEST_UNSET_VAR", "default"); got != "default" {
		t.Errorf("getEnv = %q, want default", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"True value", "true", false, true},
		{"False value", "false", true, false},
		{"Numeric true", "1", false, true},
		{"Invalid falls back to default", "maybe", true, true},
		{"Empty falls back to default", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_BOOL_VAR", tt.value)
			}
			if got := getEnvBool("TEST_BOOL_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue int
		want         int
	}{
		{"Parses value", "42", 7, 42},
		{"Invalid falls back to default", "lots", 7, 7},
		{"Empty falls back to default", "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_INT_VAR", tt.value)
			}
			if got := getEnvInt("TEST_INT_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvInt(%q, %d) = %d, want %d", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestLoadConfigRequiresBucket(t *testing.T) {
	t.Setenv("S3_BUCKET", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error without S3_BUCKET")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("S3_BUCKET", "photo-vault")
	t.Setenv("SOURCE_DIR", dir)
	t.Setenv("DEST_PREFIX", "/library/")
	t.Setenv("BATCH_SIZE", "10")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("VIDEO_SEEK_OFFSET", "2500ms")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Bucket != "photo-vault" {
		t.Errorf("Bucket = %q", config.Bucket)
	}
	if config.SourceDir != dir {
		t.Errorf("SourceDir = %q, want %q", config.SourceDir, dir)
	}
	if config.DestPrefix != "library" {
		t.Errorf("DestPrefix = %q, want trimmed %q", config.DestPrefix, "library")
	}
	if config.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", config.BatchSize)
	}
	// Path-style defaults on when a custom endpoint is set
	if !config.PathStyle {
		t.Error("Expected PathStyle true with custom endpoint")
	}
	if config.VideoSeekOffset != 2500*time.Millisecond {
		t.Errorf("VideoSeekOffset = %v", config.VideoSeekOffset)
	}
	if config.EmbeddingDims != 512 {
		t.Errorf("EmbeddingDims = %d, want 512", config.EmbeddingDims)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("S3_BUCKET", "photo-vault")
	t.Setenv("SOURCE_DIR", t.TempDir())
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("VIDEO_SEEK_OFFSET", "backwards")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.BatchSize != 20 {
		t.Errorf("BatchSize = %d, want 20", config.BatchSize)
	}
	if config.ThumbnailMaxSize != 800 {
		t.Errorf("ThumbnailMaxSize = %d, want 800", config.ThumbnailMaxSize)
	}
	if config.ThumbnailQuality != 80 {
		t.Errorf("ThumbnailQuality = %d, want 80", config.ThumbnailQuality)
	}
	if config.VideoSeekOffset != 0 {
		t.Errorf("VideoSeekOffset = %v, want 0s fallback", config.VideoSeekOffset)
	}
	if config.PathStyle {
		t.Error("PathStyle should default off without a custom endpoint")
	}
}
