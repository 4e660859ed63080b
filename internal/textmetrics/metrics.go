/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textmetrics computes the per-character advance overrides that drive
// the preview glyph run.
package textmetrics

import (
	"strings"
	"unicode/utf16"
)

const (
	// LineSeparator replaces every platform line break before measuring.
	LineSeparator = ";"
	// FallbackAdvanceEm is used for characters the face has no glyph for.
	FallbackAdvanceEm = 0.65
	// MaxTextLength is the text cap in UTF-16 code units.
	MaxTextLength = 1023
)

// GlyphSource reports em-relative advance widths. ok is false for unmapped characters.
type GlyphSource interface {
	Advance(r rune) (em float64, ok bool)
}

var lineBreaks = strings.NewReplacer("\r\n", LineSeparator, "\r", LineSeparator, "\n", LineSeparator)

// NormalizeLineBreaks maps CRLF, CR and LF to LineSeparator.
func NormalizeLineBreaks(text string) string { return lineBreaks.Replace(text) }

// ComputeAdvances returns one advance per character except the last, as a percentage of
// the em: (glyphAdvanceEm + letterSpacing/fontSize) * 100. A zero font size drops the
// spacing term. A nil face measures every character with the fallback width.
func ComputeAdvances(text string, face GlyphSource, fontSize, letterSpacing float64) []float64 {
	runes := []rune(NormalizeLineBreaks(text))
	if len(runes) < 2 {
		return []float64{}
	}
	spacing := 0.0
	if fontSize != 0 {
		spacing = letterSpacing / fontSize
	}
	out := make([]float64, len(runes)-1)
	for i := range out {
		em, ok := 0.0, false
		if face != nil {
			em, ok = face.Advance(runes[i])
		}
		if !ok {
			em = FallbackAdvanceEm
		}
		out[i] = (em + spacing) * 100
	}
	return out
}

// Truncate caps text at MaxTextLength UTF-16 units without splitting a surrogate pair.
func Truncate(text string) (string, bool) { return TruncateUnits(text, MaxTextLength) }

// TruncateUnits caps text at limit UTF-16 units on a code point boundary.
func TruncateUnits(text string, limit int) (string, bool) {
	units := 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1 // invalid runes encode as U+FFFD
		}
		if units+n > limit {
			return text[:i], true
		}
		units += n
	}
	return text, false
}

// UTF16Len returns the length of text in UTF-16 code units.
func UTF16Len(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
