/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Face ranks used when several faces claim one display name. Lower wins.
const (
	rankRegular = iota
	rankSpecific
	rankBold
	rankItalic
	rankBoldItalic
	rankOther
)

func genericRank(face string) (int, bool) {
	switch {
	case strings.EqualFold(face, "Regular"):
		return rankRegular, true
	case strings.EqualFold(face, "Bold"):
		return rankBold, true
	case strings.EqualFold(face, "Italic"):
		return rankItalic, true
	case strings.EqualFold(face, "Bold Italic"):
		return rankBoldItalic, true
	}
	return rankOther, false
}

func hasGenericToken(face string) bool {
	for _, tok := range strings.Fields(face) {
		if strings.EqualFold(tok, "Bold") || strings.EqualFold(tok, "Italic") || strings.EqualFold(tok, "Regular") {
			return true
		}
	}
	return false
}

// faceSuffix returns the part of the face name appended to the family in the display name.
// With strip set, "Bold" and "Italic" tokens are dropped and a lone "Regular" vanishes,
// so "Light Italic" joins "Light" and "Bold" joins the bare family.
func faceSuffix(face string, strip bool) string {
	face = strings.Join(strings.Fields(face), " ")
	if !strip {
		return face
	}
	if _, ok := genericRank(face); ok {
		return ""
	}
	var kept []string
	for _, tok := range strings.Fields(face) {
		if strings.EqualFold(tok, "Bold") || strings.EqualFold(tok, "Italic") {
			continue
		}
		kept = append(kept, tok)
	}
	s := strings.Join(kept, " ")
	if strings.EqualFold(s, "Regular") {
		return ""
	}
	return s
}

func faceRank(face, suffix string) int {
	if r, ok := genericRank(face); ok {
		return r
	}
	if suffix != "" && strings.EqualFold(face, suffix) {
		return rankSpecific
	}
	if suffix == "" && !hasGenericToken(face) {
		return rankSpecific
	}
	return rankOther
}

// namedFace is one face under one family name (a face contributes one per alias).
type namedFace struct {
	res   FontResource
	alias bool
	// strip allows generic face tokens to be dropped; set when the face name is in the reference locale.
	strip bool
}

type candidate struct {
	namedFace
	rank int
}

// namingOptions controls how faces are turned into display names.
type namingOptions struct {
	ReferenceLocale  string
	LocalizedAliases bool
}

// nameFaces expands parsed faces into family/face pairs, choosing names by locale.
// Faces without a family name are dropped.
func nameFaces(faces []FaceInfo, opts namingOptions) []namedFace {
	m := newLocaleMatcher(opts.ReferenceLocale)
	var out []namedFace
	for _, fi := range faces {
		fam, famID, ok := m.pickPreferred(fi.Names, NameIDTypographicFamily, NameIDFamily)
		if !ok {
			continue
		}
		face, _, ok := m.pickPreferred(fi.Names, NameIDTypographicSubfamily, NameIDSubfamily)
		if !ok {
			face = localizedName{Value: "Regular", Locale: fam.Locale, Reference: fam.Reference}
		}
		faceName := norm.NFC.String(face.Value)
		out = append(out, namedFace{strip: face.Reference, res: FontResource{
			Family:         norm.NFC.String(fam.Value),
			Face:           faceName,
			Locale:         fam.Locale,
			LocaleSpecific: !fam.Reference || !face.Reference,
			Path:           fi.Path,
			Index:          fi.Index,
		}})
		if !opts.LocalizedAliases {
			continue
		}
		for _, a := range m.aliases(fi.Names, famID, fam.Value) {
			out = append(out, namedFace{alias: true, strip: face.Reference, res: FontResource{
				Family:         norm.NFC.String(a.Value),
				Face:           faceName,
				Locale:         a.Locale,
				LocaleSpecific: true,
				Path:           fi.Path,
				Index:          fi.Index,
			}})
		}
	}
	return out
}

// pickPreferred picks the typographic name ID, falling back to the legacy ID when the
// typographic one is missing or only the legacy one is in the reference locale.
func (m localeMatcher) pickPreferred(recs []NameRecord, typo, legacy uint16) (localizedName, uint16, bool) {
	t, tok := m.pickName(recs, typo)
	l, lok := m.pickName(recs, legacy)
	switch {
	case tok && (t.Reference || !lok || !l.Reference):
		return t, typo, true
	case lok:
		return l, legacy, true
	}
	return localizedName{}, 0, false
}

// assemble builds the display-name map. The result only depends on the set of faces,
// not on their order.
func assemble(faces []namedFace) map[string]FontResource {
	distinct := make(map[string]map[string]bool)
	for _, f := range faces {
		if distinct[f.res.Family] == nil {
			distinct[f.res.Family] = make(map[string]bool)
		}
		distinct[f.res.Family][f.res.Face] = true
	}

	groups := make(map[string][]candidate)
	for _, f := range faces {
		suffix := ""
		if len(distinct[f.res.Family]) > 1 {
			// locale-specific face names may not use the generic tokens
			suffix = faceSuffix(f.res.Face, f.strip)
		}
		key := f.res.Family
		if suffix != "" {
			key += " " + suffix
		}
		groups[key] = append(groups[key], candidate{namedFace: f, rank: faceRank(f.res.Face, suffix)})
	}

	out := make(map[string]FontResource, len(groups))
	for key, cands := range groups {
		sort.Slice(cands, func(i, j int) bool { return lessCandidate(cands[i], cands[j]) })
		out[key] = cands[0].res
	}
	return out
}

// lessCandidate orders by rank, then primary names before aliases, then (path, index, face).
func lessCandidate(a, b candidate) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.alias != b.alias {
		return !a.alias
	}
	if a.res.Path != b.res.Path {
		return a.res.Path < b.res.Path
	}
	if a.res.Index != b.res.Index {
		return a.res.Index < b.res.Index
	}
	if a.res.Face != b.res.Face {
		return a.res.Face < b.res.Face
	}
	return a.res.Locale < b.res.Locale
}
