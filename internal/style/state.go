/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package style holds the editable overlay style and keeps its preview-space values
// in step with the canvas-space values the user edits.
package style

// Field names a State value for change notifications.
type Field int

const (
	FieldCanvasWindowWidth Field = iota
	FieldPreviewWindowWidth
	FieldCanvasLeftMargin
	FieldCanvasRightMargin
	FieldFontSizeCanvasUnits
	FieldScalePercent
	FieldPreviewLeftMargin
	FieldPreviewRightMargin
	FieldPreviewFontSize
)

var fieldNames = [...]string{
	"CanvasWindowWidth",
	"PreviewWindowWidth",
	"CanvasLeftMargin",
	"CanvasRightMargin",
	"FontSizeCanvasUnits",
	"ScalePercent",
	"PreviewLeftMargin",
	"PreviewRightMargin",
	"PreviewFontSize",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "Unknown"
	}
	return fieldNames[f]
}

// Derived reports whether the field is computed rather than set.
func (f Field) Derived() bool { return f >= FieldPreviewLeftMargin }

// Notifier receives change notifications, synchronously on the editing goroutine.
type Notifier interface {
	Changed(Field)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Field)

func (fn NotifierFunc) Changed(f Field) { fn(f) }

// Value ranges.
const (
	MinFontSize     = 0
	MaxFontSize     = 1000
	MinScalePercent = 0
	MaxScalePercent = 5000
)

// State is the size and margin part of an overlay style. Source values are set through
// setters; preview values are derived and have no setters. Not safe for concurrent use.
type State struct {
	canvasWindowWidth   int
	previewWindowWidth  int
	canvasLeftMargin    float64
	canvasRightMargin   float64
	fontSizeCanvasUnits float64
	scalePercent        float64

	previewLeftMargin  float64
	previewRightMargin float64
	previewFontSize    float64

	notifier Notifier
}

// NewState returns a state with the default settings.
func NewState() *State { return FromSettings(DefaultSettings()) }

// SetNotifier installs the change observer; nil removes it.
func (s *State) SetNotifier(n Notifier) { s.notifier = n }

func (s *State) CanvasWindowWidth() int       { return s.canvasWindowWidth }
func (s *State) PreviewWindowWidth() int      { return s.previewWindowWidth }
func (s *State) CanvasLeftMargin() float64    { return s.canvasLeftMargin }
func (s *State) CanvasRightMargin() float64   { return s.canvasRightMargin }
func (s *State) FontSizeCanvasUnits() float64 { return s.fontSizeCanvasUnits }
func (s *State) ScalePercent() float64        { return s.scalePercent }
func (s *State) PreviewLeftMargin() float64   { return s.previewLeftMargin }
func (s *State) PreviewRightMargin() float64  { return s.previewRightMargin }
func (s *State) PreviewFontSize() float64     { return s.previewFontSize }

// Ratio is PreviewWindowWidth / CanvasWindowWidth, or 0 when the canvas width is 0.
func (s *State) Ratio() float64 {
	if s.canvasWindowWidth == 0 {
		return 0
	}
	return float64(s.previewWindowWidth) / float64(s.canvasWindowWidth)
}

// Degenerate reports a zero canvas width; all derived values are then 0.
func (s *State) Degenerate() bool { return s.canvasWindowWidth == 0 }

// SetCanvasWindowWidth sets the host canvas width. Negative values clamp to 0.
func (s *State) SetCanvasWindowWidth(v int) {
	v = max(v, 0)
	if v == s.canvasWindowWidth {
		return
	}
	s.canvasWindowWidth = v
	s.sourceChanged(FieldCanvasWindowWidth)
}

// SetPreviewWindowWidth sets the preview width. Negative values clamp to 0.
func (s *State) SetPreviewWindowWidth(v int) {
	v = max(v, 0)
	if v == s.previewWindowWidth {
		return
	}
	s.previewWindowWidth = v
	s.sourceChanged(FieldPreviewWindowWidth)
}

func (s *State) SetCanvasLeftMargin(v float64) {
	if v == s.canvasLeftMargin {
		return
	}
	s.canvasLeftMargin = v
	s.sourceChanged(FieldCanvasLeftMargin)
}

func (s *State) SetCanvasRightMargin(v float64) {
	if v == s.canvasRightMargin {
		return
	}
	s.canvasRightMargin = v
	s.sourceChanged(FieldCanvasRightMargin)
}

// SetFontSizeCanvasUnits sets the font size, clamped to [MinFontSize, MaxFontSize].
func (s *State) SetFontSizeCanvasUnits(v float64) {
	v = clamp(v, MinFontSize, MaxFontSize)
	if v == s.fontSizeCanvasUnits {
		return
	}
	s.fontSizeCanvasUnits = v
	s.sourceChanged(FieldFontSizeCanvasUnits)
}

// SetScalePercent sets the render scale, clamped to [MinScalePercent, MaxScalePercent].
func (s *State) SetScalePercent(v float64) {
	v = clamp(v, MinScalePercent, MaxScalePercent)
	if v == s.scalePercent {
		return
	}
	s.scalePercent = v
	s.sourceChanged(FieldScalePercent)
}

func (s *State) sourceChanged(f Field) {
	before := [3]float64{s.previewLeftMargin, s.previewRightMargin, s.previewFontSize}
	s.recompute()
	if s.notifier == nil {
		return
	}
	s.notifier.Changed(f)
	after := [3]float64{s.previewLeftMargin, s.previewRightMargin, s.previewFontSize}
	for i, d := range []Field{FieldPreviewLeftMargin, FieldPreviewRightMargin, FieldPreviewFontSize} {
		if before[i] != after[i] {
			s.notifier.Changed(d)
		}
	}
}

// recompute derives every preview value from the sources. It never writes a source.
func (s *State) recompute() {
	r := s.Ratio()
	s.previewLeftMargin = s.canvasLeftMargin * r
	s.previewRightMargin = s.canvasRightMargin * r
	s.previewFontSize = s.fontSizeCanvasUnits * r * (s.scalePercent / 100)
}

// Clone copies the sources and derives fresh preview values. The notifier is not copied.
func (s *State) Clone() *State {
	c := &State{
		canvasWindowWidth:   s.canvasWindowWidth,
		previewWindowWidth:  s.previewWindowWidth,
		canvasLeftMargin:    s.canvasLeftMargin,
		canvasRightMargin:   s.canvasRightMargin,
		fontSizeCanvasUnits: s.fontSizeCanvasUnits,
		scalePercent:        s.scalePercent,
	}
	c.recompute()
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
