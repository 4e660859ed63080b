/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

import (
	"sort"
	"strings"
)

// Style is the full overlay style of one speaker.
type Style struct {
	State     *State
	Text      Text
	Splitting Splitting
}

// Document is the persisted form of a Style. Settings keys sit at the top level.
type Document struct {
	Settings  `yaml:",inline"`
	Text      Text      `yaml:"Text" json:"Text"`
	Splitting Splitting `yaml:"Splitting" json:"Splitting"`
}

func DefaultDocument() Document {
	return Document{Settings: DefaultSettings(), Text: DefaultText(), Splitting: DefaultSplitting()}
}

func New() *Style { return FromDocument(DefaultDocument()) }

// FromDocument builds a Style, re-deriving preview values and re-applying value limits.
func FromDocument(d Document) *Style {
	d.Text.normalize()
	return &Style{State: FromSettings(d.Settings), Text: d.Text, Splitting: d.Splitting}
}

func (s *Style) Document() Document {
	return Document{Settings: s.State.Settings(), Text: s.Text, Splitting: s.Splitting}
}

// Clone returns an independent copy without the notifier.
func (s *Style) Clone() *Style {
	return &Style{State: s.State.Clone(), Text: s.Text, Splitting: s.Splitting}
}

// Set holds the default style plus per-character overrides.
type Set struct {
	Version    int                 `yaml:"version" json:"version"`
	Default    Document            `yaml:"default" json:"default"`
	Characters map[string]Document `yaml:"characters,omitempty" json:"characters,omitempty"`
}

const setVersion = 1

func NewSet() *Set {
	return &Set{Version: setVersion, Default: DefaultDocument(), Characters: map[string]Document{}}
}

// Get returns the style for a character, or the default style when it has none.
func (s *Set) Get(id string) *Style {
	if d, ok := s.Characters[normalizeID(id)]; ok {
		return FromDocument(d)
	}
	return FromDocument(s.Default)
}

// Has reports whether the character has its own style.
func (s *Set) Has(id string) bool {
	_, ok := s.Characters[normalizeID(id)]
	return ok
}

// Put stores st for the character; an empty id replaces the default.
func (s *Set) Put(id string, st *Style) {
	id = normalizeID(id)
	if id == "" {
		s.Default = st.Document()
		return
	}
	if s.Characters == nil {
		s.Characters = map[string]Document{}
	}
	s.Characters[id] = st.Document()
}

func (s *Set) Delete(id string) { delete(s.Characters, normalizeID(id)) }

// IDs returns the character IDs in sorted order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.Characters))
	for id := range s.Characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// normalize re-applies value limits to every document after decoding.
func (s *Set) normalize() {
	if s.Version == 0 {
		s.Version = setVersion
	}
	s.Default = FromDocument(s.Default).Document()
	for id, d := range s.Characters {
		s.Characters[id] = FromDocument(d).Document()
	}
}

func normalizeID(id string) string { return strings.TrimSpace(id) }
