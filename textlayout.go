package gochart

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/text/unicode/norm"
)

// Measurer reports the rendered width of a string.
type Measurer interface {
	Measure(s string) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(s string) float64

// Measure calls f(s).
func (f MeasureFunc) Measure(s string) float64 { return f(s) }

// WrapOptions tunes WrapText.
type WrapOptions struct {
	// StartWidth is the width already used on the first line, e.g. by a
	// preceding run of text.
	StartWidth float64
	// MaxLines truncates the result when positive. No ellipsis is added.
	MaxLines int
}

// WrapText splits text into lines no wider than maxWidth.
//
// Paragraphs separated by '\n' are wrapped independently. Words are packed
// greedily; a word wider than maxWidth on its own is split character by
// character. Characters are never dropped, so a single character wider than
// maxWidth still gets its own line.
func WrapText(text string, m Measurer, maxWidth float64, opts WrapOptions) []string {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	offset := opts.StartWidth
	for p, para := range strings.Split(text, "\n") {
		if p > 0 {
			offset = 0
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if offset+m.Measure(candidate) <= maxWidth {
				line = candidate
				continue
			}

			// The word starts a new line.
			if line != "" || offset > 0 {
				lines = append(lines, line)
				line = ""
				offset = 0
			}
			if m.Measure(word) <= maxWidth {
				line = word
				continue
			}

			line = splitWord(word, m, maxWidth, &lines)
		}
		lines = append(lines, line)
		offset = 0
	}

	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[:opts.MaxLines]
	}
	return lines
}

// splitWord hard-wraps word, appending every full fragment to lines and
// returning the trailing fragment that remains open.
func splitWord(word string, m Measurer, maxWidth float64, lines *[]string) string {
	fragment := ""
	for _, r := range word {
		next := fragment + string(r)
		if fragment != "" && m.Measure(next) > maxWidth {
			*lines = append(*lines, fragment)
			fragment = string(r)
			continue
		}
		fragment = next
	}
	return fragment
}

// OptimalFontSize returns the largest size, counting down from start, at
// which text measures no wider than maxWidth. measurerAt builds a measurer
// for a candidate size. The search never goes below 1.
func OptimalFontSize(start int, text string, maxWidth float64, measurerAt func(size int) Measurer) int {
	size := start
	for size > 1 && measurerAt(size).Measure(text) > maxWidth {
		size--
	}
	return size
}

// measureCacheSize bounds the number of distinct strings remembered per face.
const measureCacheSize = 512

// TextMeasurer measures strings with one font face and remembers the widths.
// It is meant to live for a single render and is not safe for concurrent use,
// like the face it wraps.
type TextMeasurer struct {
	face  font.Face
	cache *lru.Cache[string, float64]
}

// NewTextMeasurer wraps face.
func NewTextMeasurer(face font.Face) *TextMeasurer {
	cache, err := lru.New[string, float64](measureCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &TextMeasurer{face: face, cache: cache}
}

// Face returns the wrapped face.
func (m *TextMeasurer) Face() font.Face { return m.face }

// Measure returns the advance width of s in pixels.
func (m *TextMeasurer) Measure(s string) float64 {
	if w, ok := m.cache.Get(s); ok {
		return w
	}
	w := float64(font.MeasureString(m.face, s)) / 64
	m.cache.Add(s, w)
	return w
}

// Height returns the line height (ascent plus descent) in pixels.
func (m *TextMeasurer) Height() float64 {
	metrics := m.face.Metrics()
	return float64(metrics.Ascent+metrics.Descent) / 64
}

// Size returns the width and height of s.
func (m *TextMeasurer) Size(s string) (float64, float64) {
	return m.Measure(s), m.Height()
}
