/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"overlaypreview/internal/style"
)

type editFunc func(st *style.Style, v string) error

var edits = map[string]editFunc{
	"canvas-width":   intEdit(func(st *style.Style, v int) { st.State.SetCanvasWindowWidth(v) }),
	"preview-width":  intEdit(func(st *style.Style, v int) { st.State.SetPreviewWindowWidth(v) }),
	"left-margin":    floatEdit(func(st *style.Style, v float64) { st.State.SetCanvasLeftMargin(v) }),
	"right-margin":   floatEdit(func(st *style.Style, v float64) { st.State.SetCanvasRightMargin(v) }),
	"font-size":      floatEdit(func(st *style.Style, v float64) { st.State.SetFontSizeCanvasUnits(v) }),
	"scale":          floatEdit(func(st *style.Style, v float64) { st.State.SetScalePercent(v) }),
	"letter-spacing": intEdit(func(st *style.Style, v int) { st.Text.SetLetterSpacing(v) }),
	"line-spacing":   intEdit(func(st *style.Style, v int) { st.Text.SetLineSpacing(v) }),
	"splitting":      boolEdit(func(st *style.Style, v bool) { st.Splitting.IsTextSplitting = v }),
	"wrapping":       boolEdit(func(st *style.Style, v bool) { st.Splitting.IsTextWrapping = v }),
	"font": func(st *style.Style, v string) error {
		st.Text.SetFontFamily(v)
		return nil
	},
	"color": func(st *style.Style, v string) error {
		c, err := style.ParseColor(v)
		if err != nil {
			return err
		}
		st.Text.FontColor = c
		return nil
	},
	"align": func(st *style.Style, v string) error {
		a, ok := style.ParseAlignment(v)
		if !ok {
			return fmt.Errorf("unknown alignment %q", v)
		}
		st.Text.SetAlignment(a)
		return nil
	},
	"line-feed": func(st *style.Style, v string) error {
		st.Splitting.LineFeedString = v
		return nil
	},
	"file-split": func(st *style.Style, v string) error {
		st.Splitting.FileSplitString = v
		return nil
	},
}

func editKeys() []string {
	keys := make([]string, 0, len(edits))
	for k := range edits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyEdits applies key=value pairs in order and stops at the first invalid one.
func applyEdits(st *style.Style, pairs []string) error {
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", p)
		}
		fn, ok := edits[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return fmt.Errorf("unknown key %q", k)
		}
		if err := fn(st, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

func intEdit(set func(*style.Style, int)) editFunc {
	return func(st *style.Style, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		set(st, n)
		return nil
	}
}

func floatEdit(set func(*style.Style, float64)) editFunc {
	return func(st *style.Style, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		set(st, f)
		return nil
	}
}

func boolEdit(set func(*style.Style, bool)) editFunc {
	return func(st *style.Style, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		set(st, b)
		return nil
	}
}
