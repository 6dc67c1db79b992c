package utils

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MaxImageBytes is the largest garment photo accepted.
const MaxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

// ImageStore is the blob storage used for garment photos.
type ImageStore interface {
	Upload(ctx context.Context, body io.Reader, objectKey, contentType string) (string, error)
	PresignURL(ctx context.Context, objectKey string) (string, error)
}

// ImageExtension returns the file extension for an accepted photo content type.
func ImageExtension(contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	return ext, nil
}

// ImageObjectKey builds a unique object key for a user's photo.
func ImageObjectKey(username, ext string) string {
	return fmt.Sprintf("%s_%s.%s", filepath.Base(username), uuid.NewString(), ext)
}

// PresignImageURLs resolves object keys to presigned URLs concurrently.
// Keys that are already URLs are returned unchanged; keys that fail to sign
// map to themselves.
func PresignImageURLs(ctx context.Context, store ImageStore, keys []string) map[string]string {
	resolved := make(map[string]string, len(keys))
	if store == nil {
		for _, key := range keys {
			resolved[key] = key
		}
		return resolved
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	// Limit concurrency
	semaphore := make(chan struct{}, 5)

	for _, key := range keys {
		if key == "" {
			continue
		}
		mu.Lock()
		_, seen := resolved[key]
		resolved[key] = key
		mu.Unlock()
		if seen || strings.HasPrefix(key, "http") {
			continue
		}

		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			url, err := store.PresignURL(ctx, key)
			if err != nil {
				return
			}
			mu.Lock()
			resolved[key] = url
			mu.Unlock()
		}(key)
	}

	wg.Wait()
	return resolved
}
