package style

import (
	"fmt"
	"strconv"
)

// Color is RGBA with components in 0..1.
type Color [4]float32

func (c Color) Hex() string {
	b := func(v float32) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]), b(c[3]))
}

type Alignment int

const (
	AlignLeftBaseLine Alignment = iota
	AlignCenterCenter
)

func (a Alignment) String() string {
	if a == AlignCenterCenter {
		return "center_center"
	}
	return "left_baseline"
}

type LineSymbol struct {
	Color        Color
	Width        float32
	Tessellation int
}

type TextSymbol struct {
	Fill      Color
	Halo      Color
	Size      float32 // 0 means use the level default
	Alignment Alignment
}

// Style is the symbology registered for one grid level.
type Style struct {
	Name string
	Line *LineSymbol
	Text *TextSymbol
}

// WithoutText returns a copy of s carrying only its line symbol.
func (s Style) WithoutText() *Style {
	s.Text = nil
	return &s
}

// WithoutLine returns a copy of s carrying only its text symbol.
func (s Style) WithoutLine() *Style {
	s.Line = nil
	return &s
}

// TextSize returns the style text size or def when unset.
func (s *Style) TextSize(def float32) float32 {
	if s == nil || s.Text == nil || s.Text.Size <= 0 {
		return def
	}
	return s.Text.Size
}

// Key stringifies a cell size in meters as a style name.
func Key(size float64) string {
	return strconv.Itoa(int(size))
}
