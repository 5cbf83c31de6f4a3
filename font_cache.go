package gochart

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Names of the embedded fonts every FontCache starts with.
const (
	DefaultAxisFont   = "go mono bold"
	DefaultHeaderFont = "go regular"
)

// FontCache loads TrueType/OpenType fonts and keeps the parsed fonts.
//
// Faces are not cached: a font.Face keeps per-glyph state and must not be
// shared between goroutines, so every render creates its own with NewFace.
// Parsed fonts are immutable and safe to share.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string                  // directories to search for fonts
	fonts   map[string]*opentype.Font // lowercase font name -> parsed font
	scanned bool
	log     *slog.Logger
}

// NewFontCache creates a FontCache holding the embedded Go fonts. Fonts in
// dirs are scanned lazily, on the first lookup.
func NewFontCache(dirs ...string) *FontCache {
	fc := &FontCache{
		dirs:  dirs,
		fonts: make(map[string]*opentype.Font),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for name, data := range map[string][]byte{
		DefaultAxisFont:   gomonobold.TTF,
		DefaultHeaderFont: goregular.TTF,
	} {
		if err := fc.LoadFontData(name, data); err != nil {
			// The embedded fonts are known-good.
			panic(err)
		}
	}
	return fc
}

// SetLogger routes reports about skipped font files to l. It must be called
// before the first lookup, which triggers the directory scan.
func (fc *FontCache) SetLogger(l *slog.Logger) *FontCache {
	if l != nil {
		fc.log = l
	}
	return fc
}

// NewFace returns a new unhinted face of the named font at size pixels.
// Unhinted advances keep measured widths proportional to size, so geometry
// built at a multiple of the nominal size downsamples cleanly.
func (fc *FontCache) NewFace(name string, size float64) (font.Face, error) {
	f := fc.findFont(name)
	if f == nil {
		return nil, fmt.Errorf("font %q: %w", name, ErrUnknownAsset)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}
	return face, nil
}

// Has reports whether a font is registered under name.
func (fc *FontCache) Has(name string) bool {
	return fc.findFont(name) != nil
}

// findFont looks up a parsed font by name or by file name without extension.
func (fc *FontCache) findFont(name string) *opentype.Font {
	fc.ensureScanned()

	fc.mu.RLock()
	defer fc.mu.RUnlock()
	lower := strings.ToLower(strings.TrimSpace(name))
	if f, ok := fc.fonts[lower]; ok {
		return f
	}
	base := strings.TrimSuffix(lower, filepath.Ext(lower))
	if f, ok := fc.fonts[base]; ok {
		return f
	}
	return nil
}

// LoadFont loads a TrueType/OpenType font file and registers it under the given name.
func (fc *FontCache) LoadFont(name string, path string) error {
	data, err := readFontFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// readFontFile reads path, refusing files above maxFontFileSize.
func readFontFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFontFileSize {
		return nil, fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	return os.ReadFile(path)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerNames(f)
	fc.mu.Unlock()
	return nil
}

// Names returns every registered font key.
func (fc *FontCache) Names() []string {
	fc.ensureScanned()
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	names := make([]string, 0, len(fc.fonts))
	for name := range fc.fonts {
		names = append(names, name)
	}
	return names
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true

	for _, dir := range fc.dirs {
		fc.scanDir(dir)
	}
}

// Font scanning limits.
const (
	maxFontScanDepth = 3
	maxFontFileSize  = 20 << 20
)

// scanDir registers every .ttf, .otf, .ttc and .otc file under dir, at most
// maxFontScanDepth directories deep. Unusable files are logged and skipped.
// Callers hold fc.mu.
func (fc *FontCache) scanDir(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fc.log.Warn("font scan", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if rel, _ := filepath.Rel(dir, path); rel != "." && strings.Count(filepath.ToSlash(rel), "/") >= maxFontScanDepth {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !fontExts[ext] {
			return nil
		}
		if err := fc.loadFontFile(path, ext); err != nil {
			fc.log.Warn("font skipped", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		fc.log.Warn("font scan", "dir", dir, "error", err)
	}
}

var fontExts = map[string]bool{".ttf": true, ".otf": true, ".ttc": true, ".otc": true}

// loadFontFile registers the font in path under its file name without
// extension and under its internal names. For a collection the file name
// goes to the first font. Callers hold fc.mu.
func (fc *FontCache) loadFontFile(path, ext string) error {
	data, err := readFontFile(path)
	if err != nil {
		return err
	}

	var fonts []*opentype.Font
	if ext == ".ttc" || ext == ".otc" {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return err
		}
		for i := 0; i < coll.NumFonts(); i++ {
			f, err := coll.Font(i)
			if err != nil {
				return fmt.Errorf("collection font %d: %w", i, err)
			}
			fonts = append(fonts, f)
		}
	} else {
		f, err := opentype.Parse(data)
		if err != nil {
			return err
		}
		fonts = append(fonts, f)
	}
	if len(fonts) == 0 {
		return fmt.Errorf("empty font collection")
	}

	base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	fc.fonts[base] = fonts[0]
	for _, f := range fonts {
		fc.registerNames(f)
	}
	fc.log.Debug("font loaded", "path", path, "fonts", len(fonts))
	return nil
}

// registerNames adds f under its family name, unless another font already
// holds it, and under its full name. Callers hold fc.mu.
func (fc *FontCache) registerNames(f *opentype.Font) {
	if family, err := f.Name(nil, sfnt.NameIDFamily); err == nil && family != "" {
		key := strings.ToLower(family)
		if _, taken := fc.fonts[key]; !taken {
			fc.fonts[key] = f
		}
	}
	if full, err := f.Name(nil, sfnt.NameIDFull); err == nil && full != "" {
		fc.fonts[strings.ToLower(full)] = f
	}
}
