/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

import (
	"fmt"
	"strconv"
	"strings"

	"overlaypreview/internal/textmetrics"
)

// DefaultFontFamily is the family a new text component starts with.
const DefaultFontFamily = "MS Gothic"

// Spacing range for letter and line spacing.
const (
	MinSpacing = -100
	MaxSpacing = 100
)

// Alignment is one of nine anchor positions of the text block.
type Alignment int

const (
	TopLeft Alignment = iota
	TopCenter
	TopRight
	MiddleLeft
	MiddleCenter
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

var alignmentNames = [...]string{
	"TopLeft", "TopCenter", "TopRight",
	"MiddleLeft", "MiddleCenter", "MiddleRight",
	"BottomLeft", "BottomCenter", "BottomRight",
}

func (a Alignment) valid() bool { return a >= TopLeft && a <= BottomRight }

func (a Alignment) String() string {
	if !a.valid() {
		return alignmentNames[TopLeft]
	}
	return alignmentNames[a]
}

// ParseAlignment accepts the names above (case-insensitive). Unknown names yield TopLeft and false.
func ParseAlignment(s string) (Alignment, bool) {
	for i, n := range alignmentNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Alignment(i), true
		}
	}
	return TopLeft, false
}

func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText falls back to TopLeft for unknown values.
func (a *Alignment) UnmarshalText(b []byte) error {
	*a, _ = ParseAlignment(string(b))
	return nil
}

// HAlign and VAlign are the two axes of an Alignment.
type HAlign int
type VAlign int

const (
	Left HAlign = iota
	Center
	Right
)

const (
	Top VAlign = iota
	Middle
	Bottom
)

func (h HAlign) String() string { return [...]string{"left", "center", "right"}[h] }
func (v VAlign) String() string { return [...]string{"top", "middle", "bottom"}[v] }

func (a Alignment) Horizontal() HAlign {
	if !a.valid() {
		return Left
	}
	return HAlign(int(a) % 3)
}

func (a Alignment) Vertical() VAlign {
	if !a.valid() {
		return Top
	}
	return VAlign(int(a) / 3)
}

// Thickness is a box margin in preview pixels.
type Thickness struct {
	Left, Top, Right, Bottom float64
}

// previewLineGap is the extra spacing between preview lines.
const previewLineGap = 2

// LineSpaceMargin places the preview line gap below, around or above each line
// depending on the vertical alignment.
func (a Alignment) LineSpaceMargin() Thickness {
	switch a.Vertical() {
	case Middle:
		return Thickness{Top: previewLineGap / 2.0, Bottom: previewLineGap / 2.0}
	case Bottom:
		return Thickness{Top: previewLineGap}
	default:
		return Thickness{Bottom: previewLineGap}
	}
}

// Color is an opaque RGB color, persisted as "#rrggbb".
type Color struct {
	R, G, B uint8
}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// ParseColor reads "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Text is the text part of an overlay style.
type Text struct {
	FontFamily    string    `yaml:"FontFamilyName" json:"FontFamilyName"`
	FontColor     Color     `yaml:"FontColor" json:"FontColor"`
	Alignment     Alignment `yaml:"TextAlignment" json:"TextAlignment"`
	LetterSpacing int       `yaml:"LetterSpace" json:"LetterSpace"`
	LineSpacing   int       `yaml:"LineSpace" json:"LineSpace"`
	Text          string    `yaml:"Text" json:"Text"`
}

// DefaultText returns black top-left text in the default family.
func DefaultText() Text {
	return Text{FontFamily: DefaultFontFamily, Alignment: TopLeft}
}

// SetFontFamily sets the family; empty selects DefaultFontFamily.
func (t *Text) SetFontFamily(name string) {
	if strings.TrimSpace(name) == "" {
		name = DefaultFontFamily
	}
	t.FontFamily = name
}

func (t *Text) SetLetterSpacing(v int) { t.LetterSpacing = clampInt(v, MinSpacing, MaxSpacing) }

func (t *Text) SetLineSpacing(v int) { t.LineSpacing = clampInt(v, MinSpacing, MaxSpacing) }

// SetAlignment stores a; invalid values become TopLeft.
func (t *Text) SetAlignment(a Alignment) {
	if !a.valid() {
		a = TopLeft
	}
	t.Alignment = a
}

// SetText stores s capped at textmetrics.MaxTextLength UTF-16 units and reports truncation.
func (t *Text) SetText(s string) bool {
	v, cut := textmetrics.Truncate(s)
	t.Text = v
	return cut
}

// normalize re-applies the setter rules after decoding.
func (t *Text) normalize() {
	t.SetFontFamily(t.FontFamily)
	t.SetLetterSpacing(t.LetterSpacing)
	t.SetLineSpacing(t.LineSpacing)
	t.SetAlignment(t.Alignment)
	t.SetText(t.Text)
}

func clampInt(v, lo, hi int) int { return min(max(v, lo), hi) }
