/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face measures glyph advances of one sfnt face in em units.
// It is safe for concurrent use.
type Face struct {
	f    *opentype.Font
	upem float64

	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewFace wraps a parsed font.
func NewFace(f *opentype.Font) *Face {
	upem := float64(f.UnitsPerEm())
	if upem <= 0 {
		upem = 1000
	}
	return &Face{f: f, upem: upem}
}

// ParseFace parses a single font or the index-th face of a collection.
func ParseFace(data []byte, index int) (*Face, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("face index %d out of range (%d faces)", index, coll.NumFonts())
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, err
	}
	return NewFace(f), nil
}

// Advance returns the advance of r's glyph as a fraction of the em.
func (fc *Face) Advance(r rune) (float64, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	idx, err := fc.f.GlyphIndex(&fc.buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	// ppem == units per em yields the advance in design units
	adv, err := fc.f.GlyphAdvance(&fc.buf, idx, fixed.I(int(fc.upem)), font.HintingNone)
	if err != nil {
		return 0, false
	}
	return float64(adv) / 64 / fc.upem, true
}

func (fc *Face) UnitsPerEm() float64 { return fc.upem }

// FaceLoader parses font files on demand and caches faces by path and index.
type FaceLoader struct {
	ReadFile func(path string) ([]byte, error)

	mu    sync.Mutex
	faces map[faceKey]*Face
}

type faceKey struct {
	path  string
	index int
}

func NewFaceLoader() *FaceLoader {
	return &FaceLoader{ReadFile: os.ReadFile, faces: make(map[faceKey]*Face)}
}

// Load returns the face at index inside the file at path.
func (l *FaceLoader) Load(path string, index int) (*Face, error) {
	k := faceKey{path, index}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.faces == nil {
		l.faces = make(map[faceKey]*Face)
	}
	if f, ok := l.faces[k]; ok {
		return f, nil
	}
	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := ParseFace(data, index)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	l.faces[k] = f
	return f, nil
}

// Len reports the number of cached faces.
func (l *FaceLoader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.faces)
}
