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
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	applog "overlaypreview/internal/log"
)

// Source yields candidate font files and their contents.
type Source interface {
	FontFiles(ctx context.Context) ([]string, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (size int64, modUnix int64, err error)
}

// DirSource walks a fixed list of directories recursively.
// Missing directories are ignored.
type DirSource struct {
	Dirs []string
}

// IsFontFile reports whether the path has a supported font extension.
func IsFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc":
		return true
	}
	return false
}

func (s DirSource) FontFiles(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range s.Dirs {
		if dir == "" {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipDir
				}
				// unreadable subtree: keep scanning the rest
				applog.WithComponent("fontcatalog").Debug("walk error", slog.String("path", path), slog.Any("err", err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !IsFontFile(path) {
				return nil
			}
			clean := filepath.Clean(path)
			if !seen[clean] {
				seen[clean] = true
				out = append(out, clean)
			}
			return nil
		})
		if err != nil && !errors.Is(err, filepath.SkipDir) {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

func (DirSource) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (DirSource) Stat(path string) (int64, int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return fi.Size(), fi.ModTime().UnixNano(), nil
}

// SystemFontDirs returns the platform's shared font directories.
func SystemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		win := os.Getenv("WINDIR")
		if win == "" {
			win = `C:\Windows`
		}
		return []string{filepath.Join(win, "Fonts")}
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts"}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts"}
	}
}

// UserFontDirs returns the per-user font directories.
func UserFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return []string{filepath.Join(local, "Microsoft", "Windows", "Fonts")}
		}
		return nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Fonts")}
	default:
		var dirs []string
		if data := os.Getenv("XDG_DATA_HOME"); data != "" {
			dirs = append(dirs, filepath.Join(data, "fonts"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			local := filepath.Join(home, ".local", "share", "fonts")
			if len(dirs) == 0 || dirs[0] != local {
				dirs = append(dirs, local)
			}
			dirs = append(dirs, filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
