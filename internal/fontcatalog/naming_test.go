/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"math/rand"
	"reflect"
	"testing"
)

func win(id, lang uint16, v string) NameRecord {
	return NameRecord{NameID: id, Platform: PlatformWindows, LangID: lang, Locale: recordLocale(PlatformWindows, lang, nil), Value: v}
}

func face(path string, index int, family, sub string) FaceInfo {
	return FaceInfo{Path: path, Index: index, Names: []NameRecord{
		win(NameIDFamily, 0x0409, family),
		win(NameIDSubfamily, 0x0409, sub),
	}}
}

func build(faces []FaceInfo) map[string]FontResource {
	return assemble(nameFaces(faces, namingOptions{ReferenceLocale: "en-US", LocalizedAliases: true}))
}

func TestFaceSuffix(t *testing.T) {
	cases := []struct {
		face  string
		strip bool
		want  string
	}{
		{"Regular", true, ""},
		{"Bold", true, ""},
		{"Bold Italic", true, ""},
		{"Light", true, "Light"},
		{"Light Italic", true, "Light"},
		{"Bold Oblique", true, "Oblique"},
		{"Regular Bold", true, ""},
		{"Bold", false, "Bold"},
		{"  Semi   Bold ", false, "Semi Bold"},
	}
	for _, c := range cases {
		if got := faceSuffix(c.face, c.strip); got != c.want {
			t.Fatalf("faceSuffix(%q, %v) = %q, want %q", c.face, c.strip, got, c.want)
		}
	}
}

func TestRegularWinsOverStyledFaces(t *testing.T) {
	got := build([]FaceInfo{
		face("/f/arialbd.ttf", 0, "Arial", "Bold"),
		face("/f/ariali.ttf", 0, "Arial", "Italic"),
		face("/f/arial.ttf", 0, "Arial", "Regular"),
		face("/f/arialbi.ttf", 0, "Arial", "Bold Italic"),
	})
	if len(got) != 1 {
		t.Fatalf("entries = %v, want only Arial", got)
	}
	if r := got["Arial"]; r.Path != "/f/arial.ttf" || r.Face != "Regular" || r.LocaleSpecific {
		t.Fatalf("Arial = %+v", r)
	}
}

func TestBoldOnlyFamilyKeepsBareName(t *testing.T) {
	got := build([]FaceInfo{face("/f/impactbd.ttf", 0, "Impact Bold Only", "Bold")})
	r, ok := got["Impact Bold Only"]
	if !ok {
		t.Fatalf("bare family missing: %v", got)
	}
	if r.Face != "Bold" || r.Path != "/f/impactbd.ttf" {
		t.Fatalf("resource = %+v", r)
	}
}

func TestStyledOnlyFamiliesPickByPrecedence(t *testing.T) {
	got := build([]FaceInfo{
		face("/f/x-bi.ttf", 0, "X", "Bold Italic"),
		face("/f/x-i.ttf", 0, "X", "Italic"),
		face("/f/x-b.ttf", 0, "X", "Bold"),
	})
	if r := got["X"]; r.Face != "Bold" {
		t.Fatalf("X = %+v, want Bold face", r)
	}
}

func TestFontSpecificFaceGetsSuffix(t *testing.T) {
	got := build([]FaceInfo{
		face("/f/seg.ttf", 0, "Segoe", "Regular"),
		face("/f/segl.ttf", 0, "Segoe", "Light"),
		face("/f/segli.ttf", 0, "Segoe", "Light Italic"),
		face("/f/segb.ttf", 0, "Segoe", "Bold"),
	})
	if r := got["Segoe"]; r.Face != "Regular" {
		t.Fatalf("Segoe = %+v", r)
	}
	if r := got["Segoe Light"]; r.Face != "Light" || r.Path != "/f/segl.ttf" {
		t.Fatalf("Segoe Light = %+v", r)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %v", got)
	}
}

func TestSingleNonGenericFaceUsesBareFamily(t *testing.T) {
	got := build([]FaceInfo{face("/f/cond.ttf", 0, "Narrow", "Condensed")})
	if _, ok := got["Narrow"]; !ok || len(got) != 1 {
		t.Fatalf("entries = %v", got)
	}
}

func TestCollectionFacesAreSeparateFamilies(t *testing.T) {
	got := build([]FaceInfo{
		face("/f/msgothic.ttc", 0, "MS Gothic", "Regular"),
		face("/f/msgothic.ttc", 1, "MS UI Gothic", "Regular"),
		face("/f/msgothic.ttc", 2, "MS PGothic", "Regular"),
	})
	for name, idx := range map[string]int{"MS Gothic": 0, "MS UI Gothic": 1, "MS PGothic": 2} {
		r, ok := got[name]
		if !ok || r.Index != idx || r.Path != "/f/msgothic.ttc" {
			t.Fatalf("%s = %+v ok=%v", name, r, ok)
		}
	}
}

func TestTieBreakBySortedPath(t *testing.T) {
	got := build([]FaceInfo{
		face("/z/dup.ttf", 0, "Dup", "Regular"),
		face("/a/dup.ttf", 0, "Dup", "Regular"),
	})
	if r := got["Dup"]; r.Path != "/a/dup.ttf" {
		t.Fatalf("Dup = %+v, want /a/dup.ttf", r)
	}
}

func TestNaturalLocaleFallback(t *testing.T) {
	jp := FaceInfo{Path: "/f/jp.ttf", Names: []NameRecord{
		win(NameIDFamily, 0x0411, "游ゴシック"),
		win(NameIDSubfamily, 0x0411, "標準"),
		win(NameIDFamily, 0x0804, "游哥特"),
	}}
	jpBold := FaceInfo{Path: "/f/jpb.ttf", Names: []NameRecord{
		win(NameIDFamily, 0x0411, "游ゴシック"),
		win(NameIDSubfamily, 0x0411, "太字"),
	}}
	got := assemble(nameFaces([]FaceInfo{jp, jpBold}, namingOptions{ReferenceLocale: "en-US"}))
	r, ok := got["游ゴシック 標準"]
	if !ok {
		t.Fatalf("locale-specific entry missing: %v", got)
	}
	if !r.LocaleSpecific || r.Locale != "ja-JP" {
		t.Fatalf("resource = %+v", r)
	}
	if _, ok := got["游ゴシック 太字"]; !ok {
		t.Fatalf("locale-specific bold entry missing: %v", got)
	}
}

func TestLocalizedAliases(t *testing.T) {
	msg := FaceInfo{Path: "/f/msgothic.ttc", Names: []NameRecord{
		win(NameIDFamily, 0x0409, "MS Gothic"),
		win(NameIDFamily, 0x0411, "ＭＳ ゴシック"),
		win(NameIDSubfamily, 0x0409, "Regular"),
	}}
	got := build([]FaceInfo{msg})
	if r := got["MS Gothic"]; r.LocaleSpecific || r.Locale != "en-US" {
		t.Fatalf("MS Gothic = %+v", r)
	}
	alias, ok := got["ＭＳ ゴシック"]
	if !ok || !alias.LocaleSpecific || alias.Locale != "ja-JP" || alias.Path != "/f/msgothic.ttc" {
		t.Fatalf("alias = %+v ok=%v", alias, ok)
	}

	off := assemble(nameFaces([]FaceInfo{msg}, namingOptions{ReferenceLocale: "en-US"}))
	if len(off) != 1 {
		t.Fatalf("aliases disabled, entries = %v", off)
	}
}

func TestAliasesStripGenericFaceTokens(t *testing.T) {
	yu := func(path, sub string) FaceInfo {
		return FaceInfo{Path: path, Names: []NameRecord{
			win(NameIDFamily, 0x0409, "Yu Gothic"),
			win(NameIDFamily, 0x0411, "游ゴシック"),
			win(NameIDSubfamily, 0x0409, sub),
		}}
	}
	got := build([]FaceInfo{yu("/f/yugothr.ttc", "Regular"), yu("/f/yugothb.ttc", "Bold")})
	for _, key := range []string{"游ゴシック Regular", "游ゴシック Bold", "Yu Gothic Bold"} {
		if _, ok := got[key]; ok {
			t.Fatalf("unexpected entry %q in %v", key, got)
		}
	}
	alias, ok := got["游ゴシック"]
	if !ok || alias.Face != "Regular" || alias.Path != "/f/yugothr.ttc" || !alias.LocaleSpecific {
		t.Fatalf("游ゴシック = %+v ok=%v", alias, ok)
	}
	if r := got["Yu Gothic"]; r.Face != "Regular" || r.LocaleSpecific {
		t.Fatalf("Yu Gothic = %+v", r)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %v", got)
	}
}

func TestLegacyNameWinsWhenOnlyItIsInReferenceLocale(t *testing.T) {
	f := FaceInfo{Path: "/f/kozuka.otf", Names: []NameRecord{
		win(NameIDTypographicFamily, 0x0411, "小塚ゴシック Pr6N"),
		win(NameIDFamily, 0x0409, "Kozuka Gothic Pr6N"),
		win(NameIDTypographicSubfamily, 0x0411, "標準"),
		win(NameIDSubfamily, 0x0409, "Regular"),
	}}
	got := build([]FaceInfo{f})
	r, ok := got["Kozuka Gothic Pr6N"]
	if !ok || r.LocaleSpecific || r.Locale != "en-US" || r.Face != "Regular" {
		t.Fatalf("Kozuka Gothic Pr6N = %+v ok=%v (entries %v)", r, ok, got)
	}
	// with no reference-locale legacy name the typographic one still wins
	ja := FaceInfo{Path: "/f/ja.otf", Names: []NameRecord{
		win(NameIDTypographicFamily, 0x0411, "源ノ角ゴシック"),
		win(NameIDFamily, 0x0411, "源ノ角ゴシック Bold"),
	}}
	if _, ok := build([]FaceInfo{ja})["源ノ角ゴシック"]; !ok {
		t.Fatalf("typographic family not used: %v", build([]FaceInfo{ja}))
	}
}

func TestTypographicNamesPreferred(t *testing.T) {
	f := FaceInfo{Path: "/f/src-semibold.otf", Names: []NameRecord{
		win(NameIDFamily, 0x0409, "Source Sans Semibold"),
		win(NameIDSubfamily, 0x0409, "Regular"),
		win(NameIDTypographicFamily, 0x0409, "Source Sans"),
		win(NameIDTypographicSubfamily, 0x0409, "Semibold"),
	}}
	reg := face("/f/src.otf", 0, "Source Sans", "Regular")
	got := build([]FaceInfo{f, reg})
	if r := got["Source Sans Semibold"]; r.Face != "Semibold" || r.Path != "/f/src-semibold.otf" {
		t.Fatalf("Source Sans Semibold = %+v", r)
	}
	if r := got["Source Sans"]; r.Path != "/f/src.otf" {
		t.Fatalf("Source Sans = %+v", r)
	}
}

func TestAssembleIsOrderIndependent(t *testing.T) {
	faces := []FaceInfo{
		face("/f/a.ttf", 0, "A", "Regular"),
		face("/f/a2.ttf", 0, "A", "Regular"),
		face("/f/ab.ttf", 0, "A", "Bold"),
		face("/f/b.ttf", 0, "B", "Bold"),
		face("/f/c.ttc", 0, "C", "Light"),
		face("/f/c.ttc", 1, "C", "Light Italic"),
		face("/f/c.ttc", 2, "C", "Regular"),
	}
	want := build(faces)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]FaceInfo(nil), faces...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := build(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: got %v, want %v", i, got, want)
		}
	}
}

func TestFacesWithoutFamilyAreDropped(t *testing.T) {
	got := build([]FaceInfo{{Path: "/f/x.ttf", Names: []NameRecord{win(NameIDSubfamily, 0x0409, "Regular")}}})
	if len(got) != 0 {
		t.Fatalf("entries = %v", got)
	}
}
