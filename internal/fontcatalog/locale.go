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

	"golang.org/x/text/language"
)

// windowsLCIDs maps the Windows language IDs found in font name tables to BCP 47 tags.
// The list covers the locales fonts commonly ship names for.
var windowsLCIDs = map[uint16]string{
	0x0401: "ar-SA", 0x0402: "bg-BG", 0x0403: "ca-ES", 0x0404: "zh-TW", 0x0405: "cs-CZ",
	0x0406: "da-DK", 0x0407: "de-DE", 0x0408: "el-GR", 0x0409: "en-US", 0x040a: "es-ES",
	0x040b: "fi-FI", 0x040c: "fr-FR", 0x040d: "he-IL", 0x040e: "hu-HU", 0x0410: "it-IT",
	0x0411: "ja-JP", 0x0412: "ko-KR", 0x0413: "nl-NL", 0x0414: "nb-NO", 0x0415: "pl-PL",
	0x0416: "pt-BR", 0x0418: "ro-RO", 0x0419: "ru-RU", 0x041a: "hr-HR", 0x041b: "sk-SK",
	0x041d: "sv-SE", 0x041e: "th-TH", 0x041f: "tr-TR", 0x0421: "id-ID", 0x0422: "uk-UA",
	0x0424: "sl-SI", 0x0425: "et-EE", 0x0426: "lv-LV", 0x0427: "lt-LT", 0x042a: "vi-VN",
	0x042d: "eu-ES", 0x0439: "hi-IN", 0x043e: "ms-MY", 0x0456: "gl-ES", 0x0804: "zh-CN",
	0x0809: "en-GB", 0x080a: "es-MX", 0x080c: "fr-BE", 0x0816: "pt-PT", 0x0c04: "zh-HK",
	0x0c09: "en-AU", 0x0c0a: "es-ES", 0x0c0c: "fr-CA", 0x1004: "zh-SG", 0x1009: "en-CA",
	0x1404: "zh-MO",
}

// macLanguages maps Macintosh language codes to BCP 47 tags. Language 0 has no region.
var macLanguages = map[uint16]string{
	0: "en", 1: "fr", 2: "de", 3: "it", 4: "nl", 5: "sv", 6: "es", 7: "da", 8: "pt",
	9: "no", 10: "he", 11: "ja", 12: "ar", 13: "fi", 14: "el", 17: "tr", 19: "zh-Hant",
	23: "ko", 32: "ru", 33: "zh-Hans",
}

const undetermined = "und"

func recordLocale(platform, lang uint16, langTags []string) string {
	switch platform {
	case PlatformWindows:
		if lang >= 0x8000 {
			return tagFromList(lang, langTags)
		}
		if s, ok := windowsLCIDs[lang]; ok {
			return canonicalLocale(s)
		}
	case PlatformMacintosh:
		if lang >= 0x8000 {
			return tagFromList(lang, langTags)
		}
		if s, ok := macLanguages[lang]; ok {
			return canonicalLocale(s)
		}
	case PlatformUnicode:
		if lang >= 0x8000 {
			return tagFromList(lang, langTags)
		}
	}
	return undetermined
}

func tagFromList(lang uint16, tags []string) string {
	i := int(lang - 0x8000)
	if i < len(tags) && tags[i] != "" {
		return canonicalLocale(tags[i])
	}
	return undetermined
}

func canonicalLocale(s string) string {
	t, err := language.Parse(s)
	if err != nil {
		return undetermined
	}
	return t.String()
}

// localeMatcher ranks name records against the reference locale.
type localeMatcher struct {
	exact string // e.g. "en-US"
	base  string // e.g. "en", matches records without a region (Mac English)
}

func newLocaleMatcher(reference string) localeMatcher {
	t, err := language.Parse(reference)
	if err != nil {
		t = language.AmericanEnglish
	}
	b, _ := t.Base()
	return localeMatcher{exact: t.String(), base: b.String()}
}

func (m localeMatcher) isReference(locale string) bool {
	return locale == m.exact || locale == m.base
}

func (m localeMatcher) score(locale string) int {
	switch locale {
	case m.exact:
		return 2
	case m.base:
		return 1
	}
	return 0
}

// localizedName is a chosen name string and where it came from.
type localizedName struct {
	Value     string
	Locale    string
	Reference bool
}

// platformOrder prefers Windows records, then Unicode, then Macintosh.
func platformOrder(p uint16) int {
	switch p {
	case PlatformWindows:
		return 0
	case PlatformUnicode:
		return 1
	default:
		return 2
	}
}

// pickName selects the name with the given ID: reference-locale records first, otherwise
// the natural locale of the face (Windows records first, lowest language ID).
func (m localeMatcher) pickName(recs []NameRecord, id uint16) (localizedName, bool) {
	var cands []NameRecord
	for _, r := range recs {
		if r.NameID == id && r.Value != "" {
			cands = append(cands, r)
		}
	}
	if len(cands) == 0 {
		return localizedName{}, false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if sa, sb := m.score(a.Locale), m.score(b.Locale); sa != sb {
			return sa > sb
		}
		if pa, pb := platformOrder(a.Platform), platformOrder(b.Platform); pa != pb {
			return pa < pb
		}
		if a.LangID != b.LangID {
			return a.LangID < b.LangID
		}
		return a.Value < b.Value
	})
	best := cands[0]
	return localizedName{Value: best.Value, Locale: best.Locale, Reference: m.isReference(best.Locale)}, true
}

// aliases returns the distinct non-reference values of a name ID other than exclude,
// in a stable order.
func (m localeMatcher) aliases(recs []NameRecord, id uint16, exclude string) []localizedName {
	seen := map[string]bool{exclude: true}
	var out []localizedName
	for _, r := range recs {
		if r.NameID != id || m.isReference(r.Locale) || seen[r.Value] {
			continue
		}
		seen[r.Value] = true
		out = append(out, localizedName{Value: r.Value, Locale: r.Locale})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
