/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

import "strings"

// Default markers typed into subtitle text.
const (
	DefaultLineFeedString  = "/-"
	DefaultFileSplitString = "/--"
)

// Splitting controls how marker strings in the text break it into lines and scenes.
type Splitting struct {
	IsTextSplitting   bool   `yaml:"IsTextSplitting" json:"IsTextSplitting"`
	IsTextWrapping    bool   `yaml:"IsTextWrapping" json:"IsTextWrapping"`
	IsSplitTextSaving bool   `yaml:"IsSplitTextSaving" json:"IsSplitTextSaving"`
	IsRawTextSaving   bool   `yaml:"IsRawTextSaving" json:"IsRawTextSaving"`
	LineFeedString    string `yaml:"LineFeedString" json:"LineFeedString"`
	FileSplitString   string `yaml:"FileSplitString" json:"FileSplitString"`
}

func DefaultSplitting() Splitting {
	return Splitting{
		IsTextWrapping:  true,
		LineFeedString:  DefaultLineFeedString,
		FileSplitString: DefaultFileSplitString,
	}
}

// markers returns the two markers, longer first, so "/--" is not eaten as "/-" + "-".
func (sp Splitting) markers() (first, second string) {
	lf, fs := sp.LineFeedString, sp.FileSplitString
	if strings.Contains(lf, fs) {
		return lf, fs
	}
	return fs, lf
}

// RemoveMarkers strips both markers, e.g. before handing the text to speech synthesis.
func (sp Splitting) RemoveMarkers(text string) string {
	a, b := sp.markers()
	if a != "" {
		text = strings.ReplaceAll(text, a, "")
	}
	if b != "" {
		text = strings.ReplaceAll(text, b, "")
	}
	return text
}

// Scenes splits text at the file-split marker, then each scene into lines at the
// line-feed marker and real line breaks. Without IsTextSplitting the text is one
// scene split only at line breaks.
func (sp Splitting) Scenes(text string) [][]string {
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	if !sp.IsTextSplitting {
		return [][]string{strings.Split(text, "\n")}
	}
	lf, fs := sp.LineFeedString, sp.FileSplitString
	// the longer marker is consumed first
	lfFirst := lf != "" && fs != "" && strings.Contains(lf, fs)
	if lfFirst {
		text = strings.ReplaceAll(text, lf, "\n")
	}
	scenes := []string{text}
	if fs != "" {
		scenes = strings.Split(text, fs)
	}
	out := make([][]string, 0, len(scenes))
	for _, sc := range scenes {
		if !lfFirst && lf != "" {
			sc = strings.ReplaceAll(sc, lf, "\n")
		}
		sc = strings.TrimSuffix(strings.TrimPrefix(sc, "\n"), "\n")
		out = append(out, strings.Split(sc, "\n"))
	}
	return out
}
