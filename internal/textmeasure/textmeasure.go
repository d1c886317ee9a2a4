// Package textmeasure sizes text shapes using the embedded Go fonts.
package textmeasure

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LineHeight is the line box height as a multiple of the font size.
const LineHeight = 1.2

// Measurer returns the rendered size of a single line of text.
type Measurer interface {
	Measure(text string, fontSize float64, fontStyle string) (width, height float64)
}

// Approx estimates text size from the rune count. Hit regions use it so that
// they never depend on font loading.
type Approx struct{}

// Measure implements Measurer.
func (Approx) Measure(text string, fontSize float64, _ string) (float64, float64) {
	return ApproxWidth(text, fontSize), fontSize * LineHeight
}

// ApproxWidth is 0.6 em per rune.
func ApproxWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * 0.6
}

type faceKey struct {
	style string
	size  int // 1/64 pt
}

// Fonts measures text with the Go font family (regular, bold, italic, bold
// italic) selected by fontStyle. Faces are created per size and cached.
type Fonts struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// New parses the embedded Go fonts.
func New() (*Fonts, error) {
	f := &Fonts{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
	for style, ttf := range map[string][]byte{
		"normal":      goregular.TTF,
		"bold":        gobold.TTF,
		"italic":      goitalic.TTF,
		"bold italic": gobolditalic.TTF,
	} {
		parsed, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s font: %w", style, err)
		}
		f.fonts[style] = parsed
	}
	return f, nil
}

// Measure implements Measurer. It falls back to Approx if a face cannot be
// created for the requested size.
func (f *Fonts) Measure(text string, fontSize float64, fontStyle string) (float64, float64) {
	if fontSize <= 0 {
		return 0, 0
	}
	face, err := f.face(normalizeStyle(fontStyle), fontSize)
	if err != nil {
		return Approx{}.Measure(text, fontSize, fontStyle)
	}

	f.mu.Lock()
	adv := font.MeasureString(face, text)
	f.mu.Unlock()
	return float64(adv) / 64, fontSize * LineHeight
}

// Face returns the cached face for fontStyle at size points. Faces are not
// safe for concurrent use; callers drawing from several goroutines must
// serialize.
func (f *Fonts) Face(fontStyle string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %g", size)
	}
	return f.face(normalizeStyle(fontStyle), size)
}

func (f *Fonts) face(style string, size float64) (font.Face, error) {
	key := faceKey{style: style, size: int(math.Round(size * 64))}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.fonts[style], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.faces[key] = face
	return face, nil
}

func normalizeStyle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	bold := strings.Contains(s, "bold")
	italic := strings.Contains(s, "italic")
	switch {
	case bold && italic:
		return "bold italic"
	case bold:
		return "bold"
	case italic:
		return "italic"
	}
	return "normal"
}
