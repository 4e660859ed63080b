/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"fmt"
	"sort"
)

// Catalog maps display names to font resources. It is immutable once built.
type Catalog struct {
	entries       map[string]FontResource
	names         []string
	defaultFamily string
	stats         BuildStats
}

// NewCatalog wraps a prepared map, e.g. for tests or callers with their own scan.
func NewCatalog(entries map[string]FontResource, defaultFamily string) *Catalog {
	cp := make(map[string]FontResource, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	if defaultFamily == "" {
		defaultFamily = DefaultFamilyName
	}
	return newCatalog(cp, defaultFamily, BuildStats{Faces: len(cp)})
}

func newCatalog(entries map[string]FontResource, defaultFamily string, stats BuildStats) *Catalog {
	names := make([]string, 0, len(entries))
	for k := range entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return &Catalog{entries: entries, names: names, defaultFamily: defaultFamily, stats: stats}
}

// Lookup returns the resource for a display name or ErrFontNotFound.
func (c *Catalog) Lookup(name string) (FontResource, error) {
	if c != nil {
		if r, ok := c.entries[name]; ok {
			return r, nil
		}
	}
	return FontResource{}, fmt.Errorf("%q: %w", name, ErrFontNotFound)
}

// Resolve looks the name up and falls back to the default family.
// The returned bool is true when the fallback was used.
func (c *Catalog) Resolve(name string) (FontResource, bool, error) {
	if r, err := c.Lookup(name); err == nil {
		return r, false, nil
	}
	r, err := c.Lookup(c.DefaultFamily())
	if err != nil {
		return FontResource{}, true, fmt.Errorf("%q: %w", c.DefaultFamily(), ErrDefaultFontMissing)
	}
	return r, true, nil
}

// Validate checks that the default family resolves.
func (c *Catalog) Validate() error {
	if _, err := c.Lookup(c.DefaultFamily()); err != nil {
		return fmt.Errorf("%q: %w", c.DefaultFamily(), ErrDefaultFontMissing)
	}
	return nil
}

// DefaultFamily is the display name used by Resolve as fallback.
func (c *Catalog) DefaultFamily() string {
	if c == nil || c.defaultFamily == "" {
		return DefaultFamilyName
	}
	return c.defaultFamily
}

// Names returns all display names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Entries returns a copy of the display-name map.
func (c *Catalog) Entries() map[string]FontResource {
	out := make(map[string]FontResource)
	if c == nil {
		return out
	}
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *Catalog) Stats() BuildStats {
	if c == nil {
		return BuildStats{}
	}
	return c.stats
}
