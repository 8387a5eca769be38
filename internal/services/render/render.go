// Package render rasterizes monospace text into PNG images sized to the text.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultFontSize   = 25
	DefaultBackground = "#0e1621"
	dpi               = 72
)

// ErrRender wraps every font or encoding failure.
var ErrRender = errors.New("render failed")

type Options struct {
	// FontPath points at a TrueType/OpenType file. Empty means the embedded Go Mono.
	FontPath   string
	FontSize   float64
	Background string
}

// Renderer is safe for concurrent use: every call builds its own face from
// the shared parsed font.
type Renderer struct {
	font       *opentype.Font
	size       float64
	background color.RGBA
}

func NewRenderer(opts Options) (*Renderer, error) {
	data := gomono.TTF
	if opts.FontPath != "" {
		var err error
		data, err = os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read font %s: %w", ErrRender, opts.FontPath, err)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %w", ErrRender, err)
	}

	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}

	bg := opts.Background
	if bg == "" {
		bg = DefaultBackground
	}
	background, err := parseHexColor(bg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return &Renderer{
		font:       f,
		size:       size,
		background: background,
	}, nil
}

func (r *Renderer) newFace() (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    r.size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create face: %w", ErrRender, err)
	}
	return face, nil
}

// Measure returns the canvas size for text: the summed glyph advances of the
// first line by the summed heights of every line.
func (r *Renderer) Measure(text string) (width, height int, err error) {
	face, err := r.newFace()
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()

	width, height = measure(face, splitLines(text))
	return width, height, nil
}

// Render draws text in white from the top-left corner and encodes it as PNG.
func (r *Renderer) Render(text string) ([]byte, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty text", ErrRender)
	}

	face, err := r.newFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	width, height := measure(face, lines)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty canvas %dx%d", ErrRender, width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.background}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}
	ascent := face.Metrics().Ascent
	y := fixed.I(0)
	for _, line := range lines {
		d.Dot = fixed.Point26_6{X: 0, Y: y + ascent}
		d.DrawString(line)
		y += fixed.I(cellHeight(face))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func measure(face font.Face, lines []string) (width, height int) {
	if len(lines) == 0 {
		return 0, 0
	}

	var advance fixed.Int26_6
	for _, r := range lines[0] {
		advance += glyphAdvance(face, r)
	}

	for range lines {
		height += cellHeight(face)
	}

	return advance.Ceil(), height
}

func glyphAdvance(face font.Face, r rune) fixed.Int26_6 {
	if adv, ok := face.GlyphAdvance(r); ok {
		return adv
	}
	// missing glyphs are drawn as the face's replacement glyph
	adv, _ := face.GlyphAdvance('?')
	return adv
}

// cellHeight is the height of a glyph cell. A monospace face draws every
// glyph, the first one of a line included, in a cell of this height.
func cellHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
