package objectstore

import (
	"context"
	"testing"
)

func TestThumbnailKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"Swaps top-level prefix", "photos/trip/IMG_0001.jpg", "thumbnails/trip/IMG_0001.jpg"},
		{"Shallow key", "photos/a.jpg", "thumbnails/a.jpg"},
		{"Key without prefix", "a.jpg", "thumbnails/a.jpg"},
		{"Custom prefix swapped too", "library/2024/b.png", "thumbnails/2024/b.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThumbnailKey(tt.key); got != tt.want {
				t.Errorf("ThumbnailKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("Expected error for missing bucket")
	}
}
