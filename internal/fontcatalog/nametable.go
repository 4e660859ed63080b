/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Name IDs read from the 'name' table.
const (
	NameIDFamily               uint16 = 1
	NameIDSubfamily            uint16 = 2
	NameIDTypographicFamily    uint16 = 16
	NameIDTypographicSubfamily uint16 = 17
)

// Platform IDs of name records.
const (
	PlatformUnicode   uint16 = 0
	PlatformMacintosh uint16 = 1
	PlatformWindows   uint16 = 3
)

// NameRecord is one decoded entry of a face's 'name' table.
// Only the name IDs the catalog cares about are kept.
type NameRecord struct {
	NameID   uint16 `json:"name_id"`
	Platform uint16 `json:"platform"`
	LangID   uint16 `json:"lang_id"`
	Locale   string `json:"locale"` // BCP 47, "und" when unknown
	Value    string `json:"value"`
}

// FaceInfo is the naming data of one face inside a font file.
// Index is the position inside a collection (0 for single-face files).
type FaceInfo struct {
	Path  string       `json:"path"`
	Index int          `json:"index"`
	Names []NameRecord `json:"names"`
}

var (
	errShortData   = errors.New("font data truncated")
	errNoNameTable = errors.New("no name table")
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// readFaceNames returns the name records of every face in an sfnt file or collection.
func readFaceNames(data []byte) ([][]NameRecord, error) {
	if len(data) < 12 {
		return nil, errShortData
	}
	var offsets []uint32
	if string(data[0:4]) == "ttcf" {
		n := binary.BigEndian.Uint32(data[8:12])
		if n == 0 || uint64(12)+uint64(n)*4 > uint64(len(data)) {
			return nil, fmt.Errorf("collection header: %w", errShortData)
		}
		offsets = make([]uint32, n)
		for i := range offsets {
			offsets[i] = binary.BigEndian.Uint32(data[12+4*i:])
		}
	} else {
		offsets = []uint32{0}
	}

	out := make([][]NameRecord, 0, len(offsets))
	for i, off := range offsets {
		table, err := findTable(data, off, "name")
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		recs, err := parseNameTable(table)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		out = append(out, recs)
	}
	return out, nil
}

func findTable(data []byte, dirOffset uint32, tag string) ([]byte, error) {
	base := int(dirOffset)
	if base < 0 || base+12 > len(data) {
		return nil, fmt.Errorf("table directory: %w", errShortData)
	}
	numTables := int(binary.BigEndian.Uint16(data[base+4:]))
	for i := 0; i < numTables; i++ {
		rec := base + 12 + 16*i
		if rec+16 > len(data) {
			return nil, fmt.Errorf("table record: %w", errShortData)
		}
		if string(data[rec:rec+4]) != tag {
			continue
		}
		off := uint64(binary.BigEndian.Uint32(data[rec+8:]))
		length := uint64(binary.BigEndian.Uint32(data[rec+12:]))
		if off+length > uint64(len(data)) {
			return nil, fmt.Errorf("%s table: %w", tag, errShortData)
		}
		return data[off : off+length], nil
	}
	return nil, errNoNameTable
}

func parseNameTable(t []byte) ([]NameRecord, error) {
	if len(t) < 6 {
		return nil, fmt.Errorf("name header: %w", errShortData)
	}
	format := binary.BigEndian.Uint16(t[0:])
	count := int(binary.BigEndian.Uint16(t[2:]))
	storage := int(binary.BigEndian.Uint16(t[4:]))
	if 6+12*count > len(t) {
		return nil, fmt.Errorf("name records: %w", errShortData)
	}

	// Format 1 appends language-tag records for language IDs >= 0x8000.
	var langTags []string
	if format == 1 {
		p := 6 + 12*count
		if p+2 <= len(t) {
			n := int(binary.BigEndian.Uint16(t[p:]))
			for i := 0; i < n && p+2+4*i+4 <= len(t); i++ {
				l := int(binary.BigEndian.Uint16(t[p+2+4*i:]))
				o := int(binary.BigEndian.Uint16(t[p+2+4*i+2:]))
				s := storage + o
				if s+l > len(t) {
					langTags = append(langTags, "")
					continue
				}
				tag, _ := utf16be.NewDecoder().Bytes(t[s : s+l])
				langTags = append(langTags, string(tag))
			}
		}
	}

	var out []NameRecord
	for i := 0; i < count; i++ {
		r := t[6+12*i:]
		platform := binary.BigEndian.Uint16(r[0:])
		enc := binary.BigEndian.Uint16(r[2:])
		lang := binary.BigEndian.Uint16(r[4:])
		id := binary.BigEndian.Uint16(r[6:])
		length := int(binary.BigEndian.Uint16(r[8:]))
		off := int(binary.BigEndian.Uint16(r[10:]))
		if !wantedNameID(id) {
			continue
		}
		s := storage + off
		if s+length > len(t) {
			// one bad record does not invalidate the rest
			continue
		}
		dec := decoderFor(platform, enc)
		if dec == nil {
			continue
		}
		b, err := dec.NewDecoder().Bytes(t[s : s+length])
		if err != nil {
			continue
		}
		v := strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
		if v == "" {
			continue
		}
		out = append(out, NameRecord{
			NameID:   id,
			Platform: platform,
			LangID:   lang,
			Locale:   recordLocale(platform, lang, langTags),
			Value:    v,
		})
	}
	return out, nil
}

func wantedNameID(id uint16) bool {
	switch id {
	case NameIDFamily, NameIDSubfamily, NameIDTypographicFamily, NameIDTypographicSubfamily:
		return true
	}
	return false
}

func decoderFor(platform, enc uint16) encoding.Encoding {
	switch platform {
	case PlatformUnicode:
		return utf16be
	case PlatformWindows:
		// symbol (0), BMP (1) and full repertoire (10) are all UTF-16BE
		if enc == 0 || enc == 1 || enc == 10 {
			return utf16be
		}
	case PlatformMacintosh:
		switch enc {
		case 0:
			return charmap.Macintosh
		case 1:
			return japanese.ShiftJIS
		case 2:
			return traditionalchinese.Big5
		case 3:
			return korean.EUCKR
		case 25:
			return simplifiedchinese.GBK
		}
	}
	return nil
}
