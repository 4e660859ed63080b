/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

import (
	"context"
	"log/slog"

	applog "overlaypreview/internal/log"
)

// GlyphRun is the text of one render request with its advance overrides.
type GlyphRun struct {
	Text      string
	Advances  []float64
	Truncated bool
}

// NewGlyphRun truncates, normalizes and measures text. Truncation is logged at warn
// and reported through Truncated; it never fails the run.
func NewGlyphRun(ctx context.Context, text string, face GlyphSource, fontSize, letterSpacing float64) GlyphRun {
	t, truncated := Truncate(text)
	if truncated {
		applog.WithComponent("textmetrics").WarnContext(ctx, "text truncated",
			slog.Int("units", UTF16Len(text)),
			slog.Int("limit", MaxTextLength))
	}
	t = NormalizeLineBreaks(t)
	return GlyphRun{
		Text:      t,
		Advances:  ComputeAdvances(t, face, fontSize, letterSpacing),
		Truncated: truncated,
	}
}

// Indices returns the token string for the renderer.
func (g GlyphRun) Indices() string { return FormatIndices(g.Advances) }
