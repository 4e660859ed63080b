/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview turns an overlay style into the values a preview renderer draws from.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"overlaypreview/internal/fontcatalog"
	applog "overlaypreview/internal/log"
	"overlaypreview/internal/style"
	"overlaypreview/internal/textmetrics"
)

// FontResolver maps a display name to a font, falling back to the default family.
type FontResolver interface {
	Resolve(ctx context.Context, name string) (fontcatalog.FontResource, bool, error)
}

// FaceLoader opens the face behind a resolved font.
type FaceLoader interface {
	Load(path string, index int) (*textmetrics.Face, error)
}

// Scene is one page of subtitle text with its measured glyph run.
type Scene struct {
	Lines   []string             `json:"lines"`
	Run     textmetrics.GlyphRun `json:"-"`
	Indices string               `json:"indices"`
}

// Model is everything a renderer needs for one overlay.
type Model struct {
	FontName     string                   `json:"fontName"`
	Font         fontcatalog.FontResource `json:"font"`
	FontFallback bool                     `json:"fontFallback"`
	FaceMissing  bool                     `json:"faceMissing,omitempty"`

	FontSize        float64         `json:"fontSize"`
	LeftMargin      float64         `json:"leftMargin"`
	RightMargin     float64         `json:"rightMargin"`
	Degenerate      bool            `json:"degenerate,omitempty"`
	Color           style.Color     `json:"color"`
	Alignment       style.Alignment `json:"alignment"`
	LineSpaceMargin style.Thickness `json:"lineSpaceMargin"`
	Wrap            bool            `json:"wrap"`

	Scenes     []Scene `json:"scenes"`
	Truncated  bool    `json:"truncated,omitempty"`
	SpeechText string  `json:"speechText"`
}

// Engine renders styles against a font catalog.
type Engine struct {
	fonts FontResolver
	faces FaceLoader
}

func New(fonts FontResolver, faces FaceLoader) *Engine {
	return &Engine{fonts: fonts, faces: faces}
}

// Render builds the preview model for st and its text. A font whose file cannot be
// opened is measured with fallback advances; a missing default family is an error.
func (e *Engine) Render(ctx context.Context, st *style.Style) (Model, error) {
	l := applog.WithOperation(applog.WithComponent("preview"), "render")
	if st == nil || st.State == nil {
		return Model{}, errors.New("style is required")
	}
	m := Model{
		FontName:        st.Text.FontFamily,
		FontSize:        st.State.PreviewFontSize(),
		LeftMargin:      st.State.PreviewLeftMargin(),
		RightMargin:     st.State.PreviewRightMargin(),
		Degenerate:      st.State.Degenerate(),
		Color:           st.Text.FontColor,
		Alignment:       st.Text.Alignment,
		LineSpaceMargin: st.Text.Alignment.LineSpaceMargin(),
		Wrap:            st.Splitting.IsTextWrapping,
	}

	res, fellBack, err := e.fonts.Resolve(ctx, st.Text.FontFamily)
	if err != nil {
		return Model{}, fmt.Errorf("resolve font %q: %w", st.Text.FontFamily, err)
	}
	m.Font, m.FontFallback = res, fellBack
	if fellBack {
		l.Info("font not found, using default", slog.String("requested", st.Text.FontFamily), slog.String("font", res.Family))
	}

	var face textmetrics.GlyphSource
	if f, err := e.faces.Load(res.Path, res.Index); err != nil {
		l.WarnContext(applog.WithFontPath(ctx, res.Path), "font face unavailable, using fallback advances", slog.Any("err", err))
		m.FaceMissing = true
	} else {
		face = f
	}

	text, truncated := textmetrics.Truncate(st.Text.Text)
	m.Truncated = truncated
	m.SpeechText = st.Splitting.RemoveMarkers(text)
	fontSize := st.State.FontSizeCanvasUnits()
	spacing := float64(st.Text.LetterSpacing)
	for _, lines := range st.Splitting.Scenes(text) {
		run := textmetrics.NewGlyphRun(ctx, strings.Join(lines, "\n"), face, fontSize, spacing)
		m.Scenes = append(m.Scenes, Scene{Lines: lines, Run: run, Indices: run.Indices()})
	}
	if m.Truncated {
		l.Warn("text truncated", slog.Int("limit", textmetrics.MaxTextLength))
	}
	return m, nil
}

// RenderCharacter renders the style of a character from set with the given text.
// Over-long text is cut by Render, which reports it through Model.Truncated.
func (e *Engine) RenderCharacter(ctx context.Context, set *style.Set, id, text string) (Model, error) {
	st := set.Get(id)
	st.Text.Text = text
	return e.Render(ctx, st)
}
