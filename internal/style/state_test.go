/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

import (
	"math"
	"math/rand"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-5 }

func TestDefaultsDerivePreviewValues(t *testing.T) {
	s := NewState()
	if s.CanvasWindowWidth() != 1920 || s.PreviewWindowWidth() != 200 {
		t.Fatalf("widths = %d/%d", s.CanvasWindowWidth(), s.PreviewWindowWidth())
	}
	if !approx(s.PreviewLeftMargin(), 31.25) || !approx(s.PreviewRightMargin(), 31.25) {
		t.Fatalf("margins = %v/%v, want 31.25", s.PreviewLeftMargin(), s.PreviewRightMargin())
	}
	if !approx(s.PreviewFontSize(), 10.41667) {
		t.Fatalf("PreviewFontSize = %v, want ~10.41667", s.PreviewFontSize())
	}
}

func TestMarginScenario(t *testing.T) {
	s := FromSettings(Settings{ScalePercent: 100})
	s.SetCanvasWindowWidth(1920)
	s.SetPreviewWindowWidth(200)
	s.SetCanvasLeftMargin(300)
	if !approx(s.PreviewLeftMargin(), 31.25) {
		t.Fatalf("PreviewLeftMargin = %v, want 31.25", s.PreviewLeftMargin())
	}
}

func TestFontSizeScenario(t *testing.T) {
	s := FromSettings(Settings{})
	s.SetFontSizeCanvasUnits(100)
	s.SetPreviewWindowWidth(200)
	s.SetCanvasWindowWidth(1920)
	s.SetScalePercent(100)
	if !approx(s.PreviewFontSize(), 10.41667) {
		t.Fatalf("PreviewFontSize = %v", s.PreviewFontSize())
	}
	s.SetScalePercent(200)
	if !approx(s.PreviewFontSize(), 20.83333) {
		t.Fatalf("PreviewFontSize at 200%% = %v", s.PreviewFontSize())
	}
}

func TestMarginRatioHoldsUnderRandomEdits(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := NewState()
	for i := 0; i < 500; i++ {
		switch r.Intn(6) {
		case 0:
			s.SetCanvasWindowWidth(r.Intn(4000) + 1)
		case 1:
			s.SetPreviewWindowWidth(r.Intn(1000))
		case 2:
			s.SetCanvasLeftMargin(r.Float64()*2000 - 1000)
		case 3:
			s.SetCanvasRightMargin(r.Float64() * 2000)
		case 4:
			s.SetFontSizeCanvasUnits(r.Float64() * 1000)
		case 5:
			s.SetScalePercent(r.Float64() * 5000)
		}
		ratio := float64(s.PreviewWindowWidth()) / float64(s.CanvasWindowWidth())
		if !approx(s.PreviewLeftMargin(), s.CanvasLeftMargin()*ratio) {
			t.Fatalf("step %d: left margin %v != %v", i, s.PreviewLeftMargin(), s.CanvasLeftMargin()*ratio)
		}
		if !approx(s.PreviewRightMargin(), s.CanvasRightMargin()*ratio) {
			t.Fatalf("step %d: right margin drifted", i)
		}
		if !approx(s.PreviewFontSize(), s.FontSizeCanvasUnits()*ratio*s.ScalePercent()/100) {
			t.Fatalf("step %d: font size drifted", i)
		}
	}
}

func TestZeroCanvasWidthIsDegenerate(t *testing.T) {
	s := NewState()
	s.SetCanvasWindowWidth(0)
	if !s.Degenerate() {
		t.Fatalf("expected degenerate state")
	}
	if s.PreviewLeftMargin() != 0 || s.PreviewRightMargin() != 0 || s.PreviewFontSize() != 0 {
		t.Fatalf("derived values not zero: %v %v %v", s.PreviewLeftMargin(), s.PreviewRightMargin(), s.PreviewFontSize())
	}
	// sources are untouched
	if s.CanvasLeftMargin() != 300 || s.FontSizeCanvasUnits() != 100 {
		t.Fatalf("sources changed by recompute")
	}
	s.SetCanvasWindowWidth(1920)
	if s.Degenerate() || !approx(s.PreviewLeftMargin(), 31.25) {
		t.Fatalf("state did not recover: %v", s.PreviewLeftMargin())
	}
}

func TestClampsAndNegativeWidths(t *testing.T) {
	s := NewState()
	s.SetCanvasWindowWidth(-5)
	s.SetFontSizeCanvasUnits(5000)
	s.SetScalePercent(-1)
	if s.CanvasWindowWidth() != 0 || s.FontSizeCanvasUnits() != MaxFontSize || s.ScalePercent() != 0 {
		t.Fatalf("clamps not applied: %+v", s.Settings())
	}
	s.SetCanvasLeftMargin(-250)
	if s.CanvasLeftMargin() != -250 {
		t.Fatalf("margins must not be clamped")
	}
}

func TestCloneRederives(t *testing.T) {
	s := NewState()
	s.SetCanvasLeftMargin(123)
	s.SetScalePercent(250)
	var calls int
	s.SetNotifier(NotifierFunc(func(Field) { calls++ }))

	c := s.Clone()
	if c.Settings() != s.Settings() {
		t.Fatalf("sources differ: %+v vs %+v", c.Settings(), s.Settings())
	}
	if c.PreviewLeftMargin() != s.PreviewLeftMargin() || c.PreviewFontSize() != s.PreviewFontSize() {
		t.Fatalf("derived values differ")
	}
	c.SetCanvasLeftMargin(10)
	if calls != 0 {
		t.Fatalf("clone must not share the notifier")
	}
	if s.CanvasLeftMargin() != 123 {
		t.Fatalf("clone edit leaked into original")
	}
	// round trip through settings
	back := FromSettings(c.Settings())
	if back.PreviewLeftMargin() != c.PreviewLeftMargin() {
		t.Fatalf("settings round trip changed derived values")
	}
}

func TestNotifierSeesSourceAndDerivedFields(t *testing.T) {
	s := NewState()
	var got []Field
	s.SetNotifier(NotifierFunc(func(f Field) { got = append(got, f) }))

	s.SetCanvasLeftMargin(600)
	if len(got) != 2 || got[0] != FieldCanvasLeftMargin || got[1] != FieldPreviewLeftMargin {
		t.Fatalf("notifications = %v", got)
	}

	got = nil
	s.SetPreviewWindowWidth(400)
	want := []Field{FieldPreviewWindowWidth, FieldPreviewLeftMargin, FieldPreviewRightMargin, FieldPreviewFontSize}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}

	got = nil
	s.SetPreviewWindowWidth(400)
	if len(got) != 0 {
		t.Fatalf("unchanged value notified: %v", got)
	}
	if !FieldPreviewFontSize.Derived() || FieldScalePercent.Derived() {
		t.Fatalf("Derived() misclassifies fields")
	}
	if FieldScalePercent.String() != "ScalePercent" {
		t.Fatalf("String = %q", FieldScalePercent.String())
	}
}
