package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeTestPNG writes a solid-color PNG into a temp dir and returns its
// path. The file is cleaned up with the test's temp dir.
func writeTestPNG(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "chart.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating temp image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding temp image: %v", err)
	}
	return path
}

func TestCacheLoadDecodesOnce(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 100, 60, color.RGBA{R: 255, A: 255})

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got, want := img1.Bounds().Dx(), 100; got != want {
		t.Errorf("width: got %d, want %d", got, want)
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load decoded again instead of returning the cached image")
	}
}

func TestCacheLoadMissingFile(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/chart.png"); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestCacheLoadNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("writing bogus file: %v", err)
	}

	cache := NewImageCache()
	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for non-image bytes")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 50, 50, color.RGBA{G: 255, A: 255})
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Clear()

	cache.mu.RLock()
	remaining := len(cache.images)
	cache.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("Clear left %d cached images", remaining)
	}
}

func TestCacheEvict(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 50, 50, color.RGBA{B: 255, A: 255})
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(path)

	cache.mu.RLock()
	_, cached := cache.images[path]
	cache.mu.RUnlock()
	if cached {
		t.Error("Evict left the image in the cache")
	}

	// Unknown paths are a no-op.
	cache.Evict("/nonexistent/chart.png")
}

func TestCacheConcurrentLoad(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 40, 40, color.Gray{Y: 128})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load: %v", err)
	}
}

func TestLoadInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 200, 150, color.RGBA{R: 255, G: 128, B: 64, A: 255})

	info, err := LoadInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %q, want %q", info.Format, "png")
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

// The reported format follows the decoder that accepted the bytes, not
// the file extension.
func TestLoadInfoFormatIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mislabeled.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating temp image: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	f.Close()

	cache := NewImageCache()
	info, err := LoadInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.Format != "jpeg" {
		t.Errorf("format: got %q, want %q", info.Format, "jpeg")
	}
}

func TestLoadInfoMissingFile(t *testing.T) {
	cache := NewImageCache()
	if _, err := LoadInfo(cache, "/nonexistent/chart.png"); err == nil {
		t.Error("LoadInfo should fail for a missing file")
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 300, 200, color.Gray{Y: 100})

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 300x200", dims.Width, dims.Height)
	}
}

func TestGetDimensionsMissingFile(t *testing.T) {
	cache := NewImageCache()
	if _, err := GetDimensions(cache, "/nonexistent/chart.png"); err == nil {
		t.Error("GetDimensions should fail for a missing file")
	}
}
