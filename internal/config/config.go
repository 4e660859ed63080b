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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

// FontsConfig controls where the font catalog looks for fonts and how it names them.
// Empty dir lists mean "platform defaults".
type FontsConfig struct {
	SystemDirs       []string `yaml:"system_dirs"`
	UserDirs         []string `yaml:"user_dirs"`
	DefaultFamily    string   `yaml:"default_family"`
	ReferenceLocale  string   `yaml:"reference_locale"`
	LocalizedAliases bool     `yaml:"localized_aliases"`
	// CachePath is the SQLite face cache; "off" disables caching.
	CachePath string `yaml:"cache_path"`
	Workers   int    `yaml:"workers"`
}

// PreviewConfig holds the file the per-character styles are persisted to.
type PreviewConfig struct {
	StylesFile string `yaml:"styles_file"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Source     bool   `yaml:"source"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Fonts         FontsConfig   `yaml:"fonts"`
	Preview       PreviewConfig `yaml:"preview"`
	Logging       LoggingConfig `yaml:"logging"`
}

// DefaultFontFamily is the display name substituted when a requested font is unknown.
const DefaultFontFamily = "MS Gothic"

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Fonts: FontsConfig{
			DefaultFamily:    DefaultFontFamily,
			ReferenceLocale:  "en-US",
			LocalizedAliases: true,
			Workers:          4,
		},
		Logging: LoggingConfig{Level: "info", Format: "console", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile      = "OVP_CONFIG_FILE"
	EnvFontDirs        = "OVP_FONT_DIRS" // os.PathListSeparator separated, replaces system dirs
	EnvUserFontDirs    = "OVP_USER_FONT_DIRS"
	EnvDefaultFont     = "OVP_DEFAULT_FONT"
	EnvReferenceLocale = "OVP_REFERENCE_LOCALE"
	EnvFontCache       = "OVP_FONT_CACHE"
	EnvStylesFile      = "OVP_STYLES_FILE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "OVP_LOG_LEVEL"
	EnvLogFormat = "OVP_LOG_FORMAT"
	EnvLogSource = "OVP_LOG_SOURCE"
	EnvLogFile   = "OVP_LOG_FILE"
)

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "OverlayPreview")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "OverlayPreview")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "overlaypreview")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "overlaypreview")
		}
	}
	if base == "" || base == "OverlayPreview" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// Derived paths (font cache, styles file) are filled relative to the config directory when empty.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	dir := filepath.Dir(path)
	if cfg.Fonts.CachePath == "" {
		cfg.Fonts.CachePath = filepath.Join(dir, "fontcache.sqlite")
	}
	if cfg.Preview.StylesFile == "" {
		cfg.Preview.StylesFile = filepath.Join(dir, "styles.yaml")
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// CacheEnabled reports whether the SQLite face cache should be used.
func (f FontsConfig) CacheEnabled() bool {
	p := strings.TrimSpace(f.CachePath)
	return p != "" && !strings.EqualFold(p, "off")
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// fonts
	if len(src.Fonts.SystemDirs) > 0 {
		dst.Fonts.SystemDirs = append([]string(nil), src.Fonts.SystemDirs...)
	}
	if len(src.Fonts.UserDirs) > 0 {
		dst.Fonts.UserDirs = append([]string(nil), src.Fonts.UserDirs...)
	}
	if strings.TrimSpace(src.Fonts.DefaultFamily) != "" {
		dst.Fonts.DefaultFamily = strings.TrimSpace(src.Fonts.DefaultFamily)
	}
	if strings.TrimSpace(src.Fonts.ReferenceLocale) != "" {
		dst.Fonts.ReferenceLocale = strings.TrimSpace(src.Fonts.ReferenceLocale)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Fonts.LocalizedAliases = src.Fonts.LocalizedAliases
	if strings.TrimSpace(src.Fonts.CachePath) != "" {
		dst.Fonts.CachePath = strings.TrimSpace(src.Fonts.CachePath)
	}
	if src.Fonts.Workers > 0 {
		dst.Fonts.Workers = src.Fonts.Workers
	}
	if strings.TrimSpace(src.Preview.StylesFile) != "" {
		dst.Preview.StylesFile = strings.TrimSpace(src.Preview.StylesFile)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	if src.Logging.MaxSizeMB > 0 {
		dst.Logging.MaxSizeMB = src.Logging.MaxSizeMB
	}
	if src.Logging.MaxBackups > 0 {
		dst.Logging.MaxBackups = src.Logging.MaxBackups
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvFontDirs)); v != "" {
		cfg.Fonts.SystemDirs = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvUserFontDirs)); v != "" {
		cfg.Fonts.UserDirs = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDefaultFont)); v != "" {
		cfg.Fonts.DefaultFamily = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvReferenceLocale)); v != "" {
		cfg.Fonts.ReferenceLocale = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontCache)); v != "" {
		cfg.Fonts.CachePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStylesFile)); v != "" {
		cfg.Preview.StylesFile = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"fonts.system_dirs":      EnvFontDirs,
		"fonts.user_dirs":        EnvUserFontDirs,
		"fonts.default_family":   EnvDefaultFont,
		"fonts.reference_locale": EnvReferenceLocale,
		"fonts.cache_path":       EnvFontCache,
		"preview.styles_file":    EnvStylesFile,
		"logging.level":          EnvLogLevel,
		"logging.format":         EnvLogFormat,
		"logging.source":         EnvLogSource,
		"logging.file":           EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
