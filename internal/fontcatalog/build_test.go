/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// memSource serves font files from memory.
type memSource struct {
	files map[string][]byte
	reads map[string]int
	mu    sync.Mutex
}

func newMemSource(files map[string][]byte) *memSource {
	return &memSource{files: files, reads: make(map[string]int)}
}

func (m *memSource) FontFiles(context.Context) ([]string, error) {
	var out []string
	for p := range m.files {
		if IsFontFile(p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memSource) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	m.reads[path]++
	m.mu.Unlock()
	b, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (m *memSource) Stat(path string) (int64, int64, error) {
	b, ok := m.files[path]
	if !ok {
		return 0, 0, os.ErrNotExist
	}
	return int64(len(b)), 1, nil
}

func goFamily() map[string][]byte {
	return map[string][]byte{
		"/fonts/go/Go-Regular.ttf":     goregular.TTF,
		"/fonts/go/Go-Bold.ttf":        gobold.TTF,
		"/fonts/go/Go-Italic.ttf":      goitalic.TTF,
		"/fonts/go/Go-Bold-Italic.TTF": gobolditalic.TTF,
		"/fonts/go/Go-Mono.ttf":        gomono.TTF,
		"/fonts/readme.txt":            []byte("not a font"),
	}
}

func TestBuildGoFonts(t *testing.T) {
	cat, err := Build(context.Background(), Options{Source: newMemSource(goFamily()), DefaultFamily: "Go"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := cat.Lookup("Go")
	if err != nil {
		t.Fatalf("Lookup(Go): %v", err)
	}
	if r.Path != "/fonts/go/Go-Regular.ttf" || r.Face != "Regular" || r.Index != 0 {
		t.Fatalf("Go = %+v", r)
	}
	if _, err := cat.Lookup("Go Mono"); err != nil {
		t.Fatalf("Lookup(Go Mono): %v", err)
	}
	st := cat.Stats()
	if st.Files != 5 || st.Faces != 5 || st.Skipped != 0 {
		t.Fatalf("stats = %+v", st)
	}
	if got := cat.Names(); !reflect.DeepEqual(got, []string{"Go", "Go Mono"}) {
		t.Fatalf("Names = %v", got)
	}
	if err := cat.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuildBoldOnlyFamily(t *testing.T) {
	src := newMemSource(map[string][]byte{"/fonts/Go-Bold.ttf": gobold.TTF})
	cat, err := Build(context.Background(), Options{Source: src})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := cat.Lookup("Go")
	if err != nil {
		t.Fatalf("bold-only family suppressed: %v (names %v)", err, cat.Names())
	}
	if r.Face != "Bold" {
		t.Fatalf("Go = %+v", r)
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	cat, err := Build(context.Background(), Options{Source: newMemSource(goFamily()), DefaultFamily: "Go"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := cat.Lookup("NonexistentFamily"); !errors.Is(err, ErrFontNotFound) {
		t.Fatalf("Lookup err = %v, want ErrFontNotFound", err)
	}
	r, fellBack, err := cat.Resolve("NonexistentFamily")
	if err != nil || !fellBack {
		t.Fatalf("Resolve err=%v fellBack=%v", err, fellBack)
	}
	if r.Path != "/fonts/go/Go-Regular.ttf" {
		t.Fatalf("fallback = %+v", r)
	}
}

func TestMissingDefaultIsConfigurationError(t *testing.T) {
	cat, err := Build(context.Background(), Options{Source: newMemSource(goFamily())})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := cat.Validate(); !errors.Is(err, ErrDefaultFontMissing) {
		t.Fatalf("Validate err = %v", err)
	}
	if _, _, err := cat.Resolve("Nope"); !errors.Is(err, ErrDefaultFontMissing) {
		t.Fatalf("Resolve err = %v", err)
	}
}

func TestCorruptFilesAreSkipped(t *testing.T) {
	files := goFamily()
	files["/fonts/broken.ttf"] = []byte("definitely not an sfnt file")
	files["/fonts/empty.otf"] = nil
	cat, err := Build(context.Background(), Options{Source: newMemSource(files), DefaultFamily: "Go"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if st := cat.Stats(); st.Skipped != 2 || st.Files != 7 {
		t.Fatalf("stats = %+v", st)
	}
	if _, err := cat.Lookup("Go"); err != nil {
		t.Fatalf("catalog unusable after corrupt files: %v", err)
	}
}

func TestParseFacesReportsParseError(t *testing.T) {
	_, err := parseFaces("/x.ttf", []byte("junk"))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Path != "/x.ttf" {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildExpandsCollections(t *testing.T) {
	src := newMemSource(map[string][]byte{"/fonts/go.ttc": buildTTC(goregular.TTF, gomono.TTF)})
	cat, err := Build(context.Background(), Options{Source: src})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r, err := cat.Lookup("Go Mono"); err != nil || r.Index != 1 || r.Locator() != "/fonts/go.ttc#1" {
		t.Fatalf("Go Mono = %+v err=%v", r, err)
	}
	if r, err := cat.Lookup("Go"); err != nil || r.Index != 0 || r.Locator() != "/fonts/go.ttc" {
		t.Fatalf("Go = %+v err=%v", r, err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	files := goFamily()
	files["/fonts/dup/Go-Regular.ttf"] = goregular.TTF
	var first map[string]FontResource
	for i := 0; i < 5; i++ {
		cat, err := Build(context.Background(), Options{Source: newMemSource(files), Workers: 1 + i})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if first == nil {
			first = cat.Entries()
			continue
		}
		if got := cat.Entries(); !reflect.DeepEqual(got, first) {
			t.Fatalf("build %d differs: %v vs %v", i, got, first)
		}
	}
	if first["Go"].Path != "/fonts/dup/Go-Regular.ttf" {
		t.Fatalf("tie-break picked %s", first["Go"].Path)
	}
}

// mapCache is an in-memory FaceCache.
type mapCache struct {
	mu sync.Mutex
	m  map[string][]FaceInfo
}

func (c *mapCache) Load(path string, size, mod int64) ([]FaceInfo, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.m[path]
	return f, ok, nil
}

func (c *mapCache) Store(path string, size, mod int64, faces []FaceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[string][]FaceInfo)
	}
	c.m[path] = faces
	return nil
}

func TestBuildUsesCache(t *testing.T) {
	cache := &mapCache{}
	src := newMemSource(goFamily())
	first, err := Build(context.Background(), Options{Source: src, Cache: cache})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(context.Background(), Options{Source: src, Cache: cache})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if st := second.Stats(); st.Cached != 5 {
		t.Fatalf("cached = %d, want 5", st.Cached)
	}
	if src.reads["/fonts/go/Go-Regular.ttf"] != 1 {
		t.Fatalf("regular read %d times", src.reads["/fonts/go/Go-Regular.ttf"])
	}
	if !reflect.DeepEqual(first.Entries(), second.Entries()) {
		t.Fatalf("cached build differs")
	}
}

func TestDirSourceWalksRecursively(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string, data []byte) {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a/b/Go-Regular.TTF", goregular.TTF)
	write("c/Go-Mono.otf", gomono.TTF)
	write("c/notes.txt", []byte("x"))
	src := DirSource{Dirs: []string{dir, filepath.Join(dir, "missing"), dir}}
	files, err := src.FontFiles(context.Background())
	if err != nil {
		t.Fatalf("FontFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a", "b", "Go-Regular.TTF"), filepath.Join(dir, "c", "Go-Mono.otf")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	cat, err := Build(context.Background(), Options{Dirs: []string{dir}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("names = %v", cat.Names())
	}
}
