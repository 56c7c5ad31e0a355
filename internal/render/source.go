package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
)

// FileAssets loads raster assets from a root directory, caching decoded
// images by path. Cache entries are dropped by Invalidate when the asset
// watcher reports a rewrite.
type FileAssets struct {
	root string

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewFileAssets(root string) *FileAssets {
	return &FileAssets{root: root, cache: make(map[string]image.Image)}
}

// Load implements AssetSource.
func (f *FileAssets) Load(path string) (image.Image, error) {
	f.mu.Lock()
	if img, ok := f.cache[path]; ok {
		f.mu.Unlock()
		return img, nil
	}
	f.mu.Unlock()

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(f.root, path)
	}
	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", path, err)
	}

	f.mu.Lock()
	f.cache[path] = img
	f.mu.Unlock()
	return img, nil
}

// Invalidate drops the cached image for a path.
func (f *FileAssets) Invalidate(path string) {
	f.mu.Lock()
	delete(f.cache, path)
	f.mu.Unlock()
}
