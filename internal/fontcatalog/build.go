/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fontcatalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"

	applog "overlaypreview/internal/log"
)

// DefaultFamilyName is substituted for unknown display names.
const DefaultFamilyName = "MS Gothic"

// FaceCache stores parsed face names per file, keyed by size and modification time.
type FaceCache interface {
	Load(path string, size, modUnix int64) ([]FaceInfo, bool, error)
	Store(path string, size, modUnix int64, faces []FaceInfo) error
}

// Options configures a catalog build.
type Options struct {
	// Source lists and reads font files. Defaults to a DirSource over Dirs.
	Source Source
	// Dirs are scanned when Source is nil. Empty means system plus user font dirs.
	Dirs []string
	// ReferenceLocale is the preferred name-record language. Defaults to en-US.
	ReferenceLocale string
	// LocalizedAliases also registers non-reference family names.
	LocalizedAliases bool
	// DefaultFamily is the fallback for Resolve. Defaults to DefaultFamilyName.
	DefaultFamily string
	Cache         FaceCache
	// Workers bounds parallel file parsing. Values < 1 mean 4.
	Workers int
}

// BuildStats summarizes one build.
type BuildStats struct {
	Files    int
	Faces    int
	Skipped  int
	Cached   int
	Duration time.Duration
}

func (o Options) withDefaults() Options {
	if o.Source == nil {
		dirs := o.Dirs
		if len(dirs) == 0 {
			dirs = append(SystemFontDirs(), UserFontDirs()...)
		}
		o.Source = DirSource{Dirs: dirs}
	}
	if o.ReferenceLocale == "" {
		o.ReferenceLocale = "en-US"
	}
	if o.DefaultFamily == "" {
		o.DefaultFamily = DefaultFamilyName
	}
	if o.Workers < 1 {
		o.Workers = 4
	}
	return o
}

type fileResult struct {
	faces  []FaceInfo
	cached bool
	err    error
}

// Build scans all font files and assembles the display-name catalog.
// Files that fail to parse are logged and skipped. Only listing or context errors fail the build.
func Build(ctx context.Context, opts Options) (*Catalog, error) {
	opts = opts.withDefaults()
	l := applog.WithOperation(applog.WithComponent("fontcatalog"), "build")
	start := time.Now()

	files, err := opts.Source.FontFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list font files: %w", err)
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = loadFile(opts, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := BuildStats{Files: len(files)}
	var faces []FaceInfo
	for i, r := range results {
		if r.err != nil {
			stats.Skipped++
			l.WarnContext(applog.WithFontPath(ctx, files[i]), "skipping font file", slog.Any("err", r.err))
			continue
		}
		if r.cached {
			stats.Cached++
		}
		faces = append(faces, r.faces...)
	}
	stats.Faces = len(faces)

	entries := assemble(nameFaces(faces, namingOptions{
		ReferenceLocale:  opts.ReferenceLocale,
		LocalizedAliases: opts.LocalizedAliases,
	}))
	stats.Duration = time.Since(start)
	l.Info("font catalog built",
		slog.Int("files", stats.Files),
		slog.Int("faces", stats.Faces),
		slog.Int("entries", len(entries)),
		slog.Int("skipped", stats.Skipped),
		slog.Int("cached", stats.Cached),
		slog.Duration("took", stats.Duration))
	return newCatalog(entries, opts.DefaultFamily, stats), nil
}

func loadFile(opts Options, path string) fileResult {
	var size, mod int64
	if opts.Cache != nil {
		var err error
		size, mod, err = opts.Source.Stat(path)
		if err != nil {
			return fileResult{err: &ParseError{Path: path, Err: err}}
		}
		if faces, ok, err := opts.Cache.Load(path, size, mod); err == nil && ok {
			return fileResult{faces: faces, cached: true}
		}
	}
	data, err := opts.Source.ReadFile(path)
	if err != nil {
		return fileResult{err: &ParseError{Path: path, Err: err}}
	}
	faces, err := parseFaces(path, data)
	if err != nil {
		return fileResult{err: err}
	}
	if opts.Cache != nil {
		if err := opts.Cache.Store(path, size, mod, faces); err != nil {
			applog.WithComponent("fontcatalog").Debug("face cache store failed", slog.String("path", path), slog.Any("err", err))
		}
	}
	return fileResult{faces: faces}
}

// parseFaces validates every face with sfnt and reads its name records.
// Faces sfnt rejects are dropped; the file fails only if none remain.
func parseFaces(path string, data []byte) ([]FaceInfo, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	names, err := readFaceNames(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	n := coll.NumFonts()
	if len(names) < n {
		n = len(names)
	}
	var out []FaceInfo
	for i := 0; i < n; i++ {
		if _, err := coll.Font(i); err != nil {
			continue
		}
		out = append(out, FaceInfo{Path: path, Index: i, Names: names[i]})
	}
	if len(out) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("no usable faces")}
	}
	return out, nil
}
