package font

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face selects one of the four Go font styles.
type Face int

const (
	FaceRegular Face = iota
	FaceBold
	FaceItalic
	FaceBoldItalic
)

// FaceFor returns the face matching the bold and italic flags.
func FaceFor(bold, italic bool) Face {
	switch {
	case bold && italic:
		return FaceBoldItalic
	case bold:
		return FaceBold
	case italic:
		return FaceItalic
	default:
		return FaceRegular
	}
}

// point is a glyph coordinate in em units (cap height = 1), Y down,
// baseline at 0.
type point struct {
	X, Y float64
}

// glyph is a flattened outline plus its advance, both in em units.
type glyph struct {
	contours [][]point
	advance  float64
}

type glyphKey struct {
	face Face
	r    rune
}

// Source loads the Go fonts once and caches flattened glyphs. A Source is
// safe for concurrent use.
type Source struct {
	mu     sync.Mutex
	fonts  [4]*opentype.Font
	scale  [4]float64 // font units -> em units
	buf    sfnt.Buffer
	glyphs map[glyphKey]*glyph
	used   map[rune]*glyph // regular face preferred
}

// NewSource parses the embedded Go fonts.
func NewSource() (*Source, error) {
	s := &Source{
		glyphs: make(map[glyphKey]*glyph),
		used:   make(map[rune]*glyph),
	}
	data := [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	for i, ttf := range data {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("font: failed to parse face %d: %w", i, err)
		}
		s.fonts[i] = f
		s.scale[i] = 1 / s.capHeight(f)
	}
	return s, nil
}

// capHeight returns the cap height of f in font units.
func (s *Source) capHeight(f *opentype.Font) float64 {
	upem := fixed.I(int(f.UnitsPerEm()))
	m, err := f.Metrics(&s.buf, upem, font.HintingNone)
	if err == nil && m.CapHeight > 0 {
		return float64(m.CapHeight) / 64
	}
	return 0.7 * float64(f.UnitsPerEm())
}

// glyph returns the cached glyph for r in face, loading it on first use.
// s.mu must be held.
func (s *Source) glyph(face Face, r rune) (*glyph, error) {
	key := glyphKey{face: face, r: r}
	if g, ok := s.glyphs[key]; ok {
		return g, nil
	}

	f := s.fonts[face]
	upem := fixed.I(int(f.UnitsPerEm()))
	idx, err := f.GlyphIndex(&s.buf, r)
	if err != nil {
		return nil, fmt.Errorf("font: glyph index for %q: %w", r, err)
	}
	segments, err := f.LoadGlyph(&s.buf, idx, upem, nil)
	if err != nil {
		return nil, fmt.Errorf("font: load glyph %q: %w", r, err)
	}
	advance, err := f.GlyphAdvance(&s.buf, idx, upem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font: advance of %q: %w", r, err)
	}

	scale := s.scale[face]
	g := &glyph{
		contours: flatten(segments, scale),
		advance:  float64(advance) / 64 * scale,
	}
	s.glyphs[key] = g
	return g, nil
}
