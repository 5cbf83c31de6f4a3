package gochart

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxAssetFileSize limits the size of a single image asset.
const maxAssetFileSize = 16 << 20

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

// ImageStore holds decoded image assets addressed by their slash-separated
// path relative to the asset directory, e.g. "icons/sword.png".
// It is safe for concurrent use.
type ImageStore struct {
	mu     sync.RWMutex
	dir    string
	images map[string]image.Image
}

// NewImageStore creates an empty store rooted at dir. dir may be empty for a
// store filled only through Add.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir, images: make(map[string]image.Image)}
}

// Preload decodes every image under the store's directory. Any unreadable or
// undecodable file fails the whole load.
func (s *ImageStore) Preload() error {
	if s.dir == "" {
		return nil
	}
	return filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxAssetFileSize {
			return fmt.Errorf("asset %s too large: %d bytes (max %d)", path, info.Size(), maxAssetFileSize)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read asset: %w", err)
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		return s.AddData(filepath.ToSlash(rel), data)
	})
}

// AddData decodes data and stores it under ref.
func (s *ImageStore) AddData(ref string, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode asset %s: %w", ref, err)
	}
	s.Add(ref, img)
	return nil
}

// Add stores img under ref, replacing any previous image.
func (s *ImageStore) Add(ref string, img image.Image) {
	s.mu.Lock()
	s.images[ref] = img
	s.mu.Unlock()
}

// Has reports whether ref resolves to an image.
func (s *ImageStore) Has(ref string) bool {
	s.mu.RLock()
	_, ok := s.images[ref]
	s.mu.RUnlock()
	return ok
}

// Image returns the image stored under ref.
func (s *ImageStore) Image(ref string) (image.Image, error) {
	s.mu.RLock()
	img, ok := s.images[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("image %q: %w", ref, ErrUnknownAsset)
	}
	return img, nil
}

// Len returns the number of stored images.
func (s *ImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
