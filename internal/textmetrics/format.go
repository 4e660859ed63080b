/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

import (
	"math"
	"strconv"
	"strings"
)

// FormatAdvance renders one value with up to four decimals and at least one, e.g. "65.0".
func FormatAdvance(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // no "-0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatIndices joins advances into the glyph-run token string ",v;" per value.
func FormatIndices(advances []float64) string {
	var b strings.Builder
	b.Grow(len(advances) * 8)
	for _, v := range advances {
		b.WriteByte(',')
		b.WriteString(FormatAdvance(v))
		b.WriteByte(';')
	}
	return b.String()
}

// ParseIndices reads a token string produced by FormatIndices.
func ParseIndices(s string) ([]float64, error) {
	out := []float64{}
	for _, tok := range strings.Split(s, ";") {
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(tok, ","), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
