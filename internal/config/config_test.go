/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, path)
	return path
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	path := isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Fonts.DefaultFamily != DefaultFontFamily {
		t.Fatalf("DefaultFamily = %q, want %q", cfg.Fonts.DefaultFamily, DefaultFontFamily)
	}
	if cfg.Fonts.ReferenceLocale != "en-US" || !cfg.Fonts.LocalizedAliases {
		t.Fatalf("unexpected font defaults: %#v", cfg.Fonts)
	}
	if got, want := cfg.Fonts.CachePath, filepath.Join(filepath.Dir(path), "fontcache.sqlite"); got != want {
		t.Fatalf("CachePath = %q, want %q", got, want)
	}
	if !strings.HasSuffix(cfg.Preview.StylesFile, "styles.yaml") {
		t.Fatalf("StylesFile = %q", cfg.Preview.StylesFile)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Fonts.SystemDirs = []string{"/opt/fonts"}
	cfg.Fonts.DefaultFamily = "Noto Sans"
	cfg.Fonts.LocalizedAliases = false
	cfg.Logging.Level = "debug"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got.Fonts.SystemDirs) != 1 || got.Fonts.SystemDirs[0] != "/opt/fonts" {
		t.Fatalf("SystemDirs not persisted: %v", got.Fonts.SystemDirs)
	}
	if got.Fonts.DefaultFamily != "Noto Sans" || got.Fonts.LocalizedAliases {
		t.Fatalf("font settings not persisted: %#v", got.Fonts)
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("logging level not persisted: %q", got.Logging.Level)
	}
}

func TestEnvOverridesFonts(t *testing.T) {
	isolate(t)
	dirs := strings.Join([]string{"/a", "/b"}, string(os.PathListSeparator))
	t.Setenv(EnvFontDirs, dirs)
	t.Setenv(EnvDefaultFont, "Go")
	t.Setenv(EnvFontCache, "off")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Fonts.SystemDirs) != 2 || cfg.Fonts.SystemDirs[1] != "/b" {
		t.Fatalf("SystemDirs = %v", cfg.Fonts.SystemDirs)
	}
	if cfg.Fonts.DefaultFamily != "Go" {
		t.Fatalf("DefaultFamily = %q", cfg.Fonts.DefaultFamily)
	}
	if cfg.Fonts.CacheEnabled() {
		t.Fatalf("cache should be disabled by %s=off", EnvFontCache)
	}
	if env, ok := EnvOverrideFor("fonts.default_family"); !ok || env != EnvDefaultFont {
		t.Fatalf("EnvOverrideFor = %q, %v", env, ok)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/ovp.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/ovp.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/ovp.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/ovp.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}
