/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"errors"
	"fmt"
)

// FontResource is one concrete face: a file path plus the face's position inside it.
type FontResource struct {
	Family         string `json:"family"`
	Face           string `json:"face"`
	Locale         string `json:"locale"`
	LocaleSpecific bool   `json:"locale_specific"`
	Path           string `json:"path"`
	Index          int    `json:"index"`
}

// Locator identifies the resource for loaders, e.g. "/fonts/msgothic.ttc#1".
func (r FontResource) Locator() string {
	if r.Index == 0 {
		return r.Path
	}
	return fmt.Sprintf("%s#%d", r.Path, r.Index)
}

var (
	// ErrFontNotFound is returned by Lookup for unknown display names.
	ErrFontNotFound = errors.New("font not found")
	// ErrDefaultFontMissing means the configured default family is not installed.
	ErrDefaultFontMissing = errors.New("default font family missing")
)

// ParseError reports a font file that could not be read or parsed. Builds skip such files.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse font %s: %v", e.Path, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }
