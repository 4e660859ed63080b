/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package stylepack exports and installs per-character overlay styles as zip archives.
package stylepack

import (
	"archive/zip"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "overlaypreview/internal/log"
	"overlaypreview/internal/style"
	"overlaypreview/internal/version"
)

const (
	ManifestName  = "stylepack.manifest.txt"
	DefaultEntry  = "styles/default.json"
	CharactersDir = "styles/characters/"
	maxEntrySize  = 1 << 20
)

//go:embed style.schema.json
var schemaBytes []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// ValidationError lists the schema violations of one archive entry.
type ValidationError struct {
	Entry  string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid style: %s", e.Entry, strings.Join(e.Issues, "; "))
}

// Validate checks one JSON style document against the embedded schema.
func Validate(entry string, data []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	})
	if schemaErr != nil {
		return fmt.Errorf("load style schema: %w", schemaErr)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", entry, err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{Entry: entry}
	for _, e := range res.Errors() {
		ve.Issues = append(ve.Issues, e.String())
	}
	return ve
}

// Export writes the default style and every character style of set into a zip at destZipPath.
// A manifest at the archive root lists the contents for quick human inspection.
func Export(set *style.Set, destZipPath string) (err error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "export").With(slog.String("zip", destZipPath))
	if set == nil {
		return errors.New("style set is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := createPackFile(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	ids := set.IDs()
	err = writePack(zf, set, ids)
	if cerr := zf.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close zip: %w", cerr)
	}
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		if rmErr := os.Remove(destZipPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			l.Warn("remove partial zip failed", slog.Any("err", rmErr))
		}
		return err
	}
	l.Info("style pack exported", slog.Int("characters", len(ids)))
	return nil
}

// createPackFile opens the export destination; tests replace it to inject write failures.
var createPackFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writePack writes the manifest and all style documents. The zip writer is closed on
// every path.
func writePack(w io.Writer, set *style.Set, ids []string) error {
	zw := zip.NewWriter(w)
	manifest := fmt.Sprintf("Overlay Preview Style Pack\nCreated: %s\nVersion: %s\nCharacters: %d\n\n%s\n",
		time.Now().Format(time.RFC3339), version.String(), len(ids), strings.Join(ids, "\n"))
	if err := writeEntry(zw, ManifestName, []byte(manifest)); err != nil {
		_ = zw.Close()
		return fmt.Errorf("add manifest: %w", err)
	}
	if err := writeDocument(zw, DefaultEntry, set.Default); err != nil {
		_ = zw.Close()
		return err
	}
	for _, id := range ids {
		if err := writeDocument(zw, CharactersDir+url.PathEscape(id)+".json", set.Characters[id]); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("build zip: %w", err)
	}
	return nil
}

func writeDocument(zw *zip.Writer, name string, d style.Document) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := writeEntry(zw, name, b); err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// InstallOptions controls how a pack merges into an existing set.
type InstallOptions struct {
	// Overwrite replaces existing character styles and the default style.
	Overwrite bool
}

// InstallResult counts what Install did.
type InstallResult struct {
	Installed int
	Skipped   int
}

// Install validates every style in the pack and merges it into set. Nothing is merged
// when any entry is invalid. Existing styles are skipped unless opts.Overwrite is set.
func Install(set *style.Set, packZipPath string, opts InstallOptions) (InstallResult, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "install").With(slog.String("zip", packZipPath))
	var res InstallResult
	if set == nil {
		return res, errors.New("style set is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return res, errors.New("packZipPath is required")
	}
	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return res, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	docs := make(map[string]style.Document)
	var order []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || f.Name == ManifestName {
			continue
		}
		id, ok := entryID(f.Name)
		if !ok {
			l.Warn("skip unknown entry", slog.String("entry", f.Name))
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if err := Validate(f.Name, data); err != nil {
			return res, err
		}
		var d style.Document
		if err := json.Unmarshal(data, &d); err != nil {
			return res, fmt.Errorf("decode %s: %w", f.Name, err)
		}
		if _, dup := docs[id]; !dup {
			order = append(order, id)
		}
		docs[id] = d
	}

	for _, id := range order {
		exists := id == "" || set.Has(id)
		if exists && !opts.Overwrite {
			l.Warn("skip existing style", slog.String("character", id))
			res.Skipped++
			continue
		}
		set.Put(id, style.FromDocument(docs[id]))
		res.Installed++
	}
	l.Info("style pack installed", slog.Int("installed", res.Installed), slog.Int("skipped", res.Skipped))
	return res, nil
}

// entryID maps an archive entry to a character ID; "" is the default style.
func entryID(name string) (string, bool) {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if name == DefaultEntry {
		return "", true
	}
	if !strings.HasPrefix(name, CharactersDir) || path.Ext(name) != ".json" {
		return "", false
	}
	base := strings.TrimSuffix(strings.TrimPrefix(name, CharactersDir), ".json")
	if base == "" || strings.Contains(base, "/") {
		return "", false
	}
	id, err := url.PathUnescape(base)
	if err != nil || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxEntrySize {
		return nil, errors.New("entry too large")
	}
	return b, nil
}
