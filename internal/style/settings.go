/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

// Settings is the persisted form of State. Derived values are never stored.
type Settings struct {
	CanvasWindowWidth   int     `yaml:"CanvasWindowWidth" json:"CanvasWindowWidth"`
	PreviewWindowWidth  int     `yaml:"PreviewWindowWidth" json:"PreviewWindowWidth"`
	CanvasLeftMargin    float64 `yaml:"CanvasLeftMargin" json:"CanvasLeftMargin"`
	CanvasRightMargin   float64 `yaml:"CanvasRightMargin" json:"CanvasRightMargin"`
	FontSizeCanvasUnits float64 `yaml:"FontSizeCanvasUnits" json:"FontSizeCanvasUnits"`
	ScalePercent        float64 `yaml:"ScalePercent" json:"ScalePercent"`
}

// DefaultSettings returns 1920/200/300/300/100/100.
func DefaultSettings() Settings {
	return Settings{
		CanvasWindowWidth:   1920,
		PreviewWindowWidth:  200,
		CanvasLeftMargin:    300,
		CanvasRightMargin:   300,
		FontSizeCanvasUnits: 100,
		ScalePercent:        100,
	}
}

// FromSettings builds a State, applying the setter clamps and deriving preview values.
func FromSettings(st Settings) *State {
	s := &State{
		canvasWindowWidth:   max(st.CanvasWindowWidth, 0),
		previewWindowWidth:  max(st.PreviewWindowWidth, 0),
		canvasLeftMargin:    st.CanvasLeftMargin,
		canvasRightMargin:   st.CanvasRightMargin,
		fontSizeCanvasUnits: clamp(st.FontSizeCanvasUnits, MinFontSize, MaxFontSize),
		scalePercent:        clamp(st.ScalePercent, MinScalePercent, MaxScalePercent),
	}
	s.recompute()
	return s
}

// Settings returns the source values for persistence.
func (s *State) Settings() Settings {
	return Settings{
		CanvasWindowWidth:   s.canvasWindowWidth,
		PreviewWindowWidth:  s.previewWindowWidth,
		CanvasLeftMargin:    s.canvasLeftMargin,
		CanvasRightMargin:   s.canvasRightMargin,
		FontSizeCanvasUnits: s.fontSizeCanvasUnits,
		ScalePercent:        s.scalePercent,
	}
}
