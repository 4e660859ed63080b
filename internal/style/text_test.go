/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

import (
	"reflect"
	"strings"
	"testing"

	"overlaypreview/internal/textmetrics"
)

func TestAlignmentAxesAndMargins(t *testing.T) {
	cases := []struct {
		a      Alignment
		h      HAlign
		v      VAlign
		margin Thickness
	}{
		{TopLeft, Left, Top, Thickness{Bottom: 2}},
		{TopRight, Right, Top, Thickness{Bottom: 2}},
		{MiddleCenter, Center, Middle, Thickness{Top: 1, Bottom: 1}},
		{BottomCenter, Center, Bottom, Thickness{Top: 2}},
		{BottomRight, Right, Bottom, Thickness{Top: 2}},
	}
	for _, c := range cases {
		if c.a.Horizontal() != c.h || c.a.Vertical() != c.v {
			t.Fatalf("%s axes = %s/%s", c.a, c.a.Horizontal(), c.a.Vertical())
		}
		if c.a.LineSpaceMargin() != c.margin {
			t.Fatalf("%s margin = %+v", c.a, c.a.LineSpaceMargin())
		}
	}
	if a, ok := ParseAlignment("middleright"); !ok || a != MiddleRight {
		t.Fatalf("ParseAlignment = %v, %v", a, ok)
	}
	if a, ok := ParseAlignment("diagonal"); ok || a != TopLeft {
		t.Fatalf("unknown alignment = %v, %v", a, ok)
	}
}

func TestTextSetters(t *testing.T) {
	tx := DefaultText()
	tx.SetLetterSpacing(500)
	tx.SetLineSpacing(-500)
	if tx.LetterSpacing != MaxSpacing || tx.LineSpacing != MinSpacing {
		t.Fatalf("spacing not clamped: %d/%d", tx.LetterSpacing, tx.LineSpacing)
	}
	tx.SetFontFamily("  ")
	if tx.FontFamily != DefaultFontFamily {
		t.Fatalf("FontFamily = %q", tx.FontFamily)
	}
	tx.SetAlignment(Alignment(42))
	if tx.Alignment != TopLeft {
		t.Fatalf("invalid alignment kept")
	}
	if cut := tx.SetText(strings.Repeat("あ", textmetrics.MaxTextLength+1)); !cut {
		t.Fatalf("expected truncation")
	}
	if textmetrics.UTF16Len(tx.Text) != textmetrics.MaxTextLength {
		t.Fatalf("text length = %d", textmetrics.UTF16Len(tx.Text))
	}
}

func TestColorText(t *testing.T) {
	c, err := ParseColor("#FF8000")
	if err != nil || c != (Color{255, 128, 0}) {
		t.Fatalf("ParseColor = %+v, %v", c, err)
	}
	if c.String() != "#ff8000" {
		t.Fatalf("String = %q", c.String())
	}
	for _, bad := range []string{"", "#fff", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestRemoveMarkersLongestFirst(t *testing.T) {
	sp := DefaultSplitting()
	if got := sp.RemoveMarkers("a/-b/--c"); got != "abc" {
		t.Fatalf("RemoveMarkers = %q", got)
	}
	swapped := Splitting{LineFeedString: "/--", FileSplitString: "/-"}
	if got := swapped.RemoveMarkers("a/--b/-c"); got != "abc" {
		t.Fatalf("RemoveMarkers swapped = %q", got)
	}
}

func TestScenes(t *testing.T) {
	sp := DefaultSplitting()
	sp.IsTextSplitting = true
	got := sp.Scenes("one/-two/--three\r\nfour")
	want := [][]string{{"one", "two"}, {"three", "four"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Scenes = %q, want %q", got, want)
	}

	sp.IsTextSplitting = false
	got = sp.Scenes("one/-two\nthree")
	if !reflect.DeepEqual(got, [][]string{{"one/-two", "three"}}) {
		t.Fatalf("Scenes without splitting = %q", got)
	}
}
