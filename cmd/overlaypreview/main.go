/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"overlaypreview/internal/config"
	"overlaypreview/internal/crash"
	"overlaypreview/internal/fontcache"
	"overlaypreview/internal/fontcatalog"
	applog "overlaypreview/internal/log"
	"overlaypreview/internal/preview"
	"overlaypreview/internal/style"
	"overlaypreview/internal/stylepack"
	"overlaypreview/internal/textmetrics"
	"overlaypreview/internal/version"
)

func usage() {
	fmt.Println("Overlay Preview")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  overlaypreview version|-v|--version              Show version")
	fmt.Println("  overlaypreview fonts [--rebuild] [--json]        List font display names")
	fmt.Println("  overlaypreview lookup <name>                     Resolve a font name")
	fmt.Println("  overlaypreview preview <character> <text>        Print the preview model as JSON")
	fmt.Println("  overlaypreview style list                        List characters with their own style")
	fmt.Println("  overlaypreview style show <character>            Print a style as YAML")
	fmt.Println("  overlaypreview style set <character> key=value.. Edit a style (keys: " + strings.Join(editKeys(), ", ") + ")")
	fmt.Println("  overlaypreview style delete <character>          Remove a character style")
	fmt.Println("  overlaypreview style export <zip>                Export all styles as a style pack")
	fmt.Println("  overlaypreview style import <zip> [--overwrite]  Install a style pack")
	fmt.Println("  overlaypreview cache stats|clear                 Inspect or clear the font cache")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		AddSource:  cfg.Logging.Source,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	l := applog.WithComponent("cli")
	defer crash.Recover(crash.ReportDir(cfg.Logging.File))
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	ctx := context.Background()
	var err error
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Overlay Preview")
		fmt.Println(version.String())
		return
	case "fonts":
		err = runFonts(ctx, cfg, args[2:])
	case "lookup":
		if len(args) < 3 {
			fail("lookup requires <name>")
		}
		err = runLookup(ctx, cfg, strings.Join(args[2:], " "))
	case "preview":
		if len(args) < 4 {
			fail("preview requires <character> and <text>")
		}
		err = runPreview(ctx, cfg, args[2], strings.Join(args[3:], " "))
	case "style":
		if len(args) < 3 {
			fail("style requires a subcommand")
		}
		err = runStyle(cfg, args[2], args[3:])
	case "cache":
		if len(args) < 3 {
			fail("cache requires stats or clear")
		}
		err = runCache(ctx, cfg, args[2])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error("command failed", slog.String("cmd", args[1]), slog.Any("err", err))
		fmt.Println("Error:", err)
		if errors.Is(err, fontcatalog.ErrDefaultFontMissing) {
			fmt.Printf("Install the %q font or set %s.\n", cfg.Fonts.DefaultFamily, config.EnvDefaultFont)
		}
		os.Exit(1)
	}
}

func fail(msg string) {
	fmt.Println(msg)
	usage()
	os.Exit(2)
}

func fontDirs(cfg config.AppConfig) []string {
	sys := cfg.Fonts.SystemDirs
	if len(sys) == 0 {
		sys = fontcatalog.SystemFontDirs()
	}
	user := cfg.Fonts.UserDirs
	if len(user) == 0 {
		user = fontcatalog.UserFontDirs()
	}
	return append(append([]string(nil), sys...), user...)
}

// newFontService wires the catalog with the face cache when enabled. The returned
// cache may be nil.
func newFontService(cfg config.AppConfig) (*fontcatalog.Service, *fontcache.Cache) {
	opts := fontcatalog.Options{
		Dirs:             fontDirs(cfg),
		ReferenceLocale:  cfg.Fonts.ReferenceLocale,
		LocalizedAliases: cfg.Fonts.LocalizedAliases,
		DefaultFamily:    cfg.Fonts.DefaultFamily,
		Workers:          cfg.Fonts.Workers,
	}
	var cache *fontcache.Cache
	if cfg.Fonts.CacheEnabled() {
		c, err := fontcache.Open(cfg.Fonts.CachePath)
		if err != nil {
			applog.WithComponent("cli").Warn("font cache unavailable", slog.String("path", cfg.Fonts.CachePath), slog.Any("err", err))
		} else {
			cache = c
			opts.Cache = c
		}
	}
	return fontcatalog.NewService(opts), cache
}

func closeCache(c *fontcache.Cache) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		applog.WithComponent("cli").Warn("close font cache", slog.Any("err", err))
	}
}

func runFonts(ctx context.Context, cfg config.AppConfig, args []string) error {
	rebuild, asJSON := hasFlag(args, "--rebuild"), hasFlag(args, "--json")
	svc, cache := newFontService(cfg)
	defer closeCache(cache)
	if rebuild && cache != nil {
		if err := cache.Clear(ctx); err != nil {
			return err
		}
	}
	cat, err := svc.Catalog(ctx)
	if err != nil {
		return err
	}
	if cache != nil {
		files, err := fontcatalog.DirSource{Dirs: fontDirs(cfg)}.FontFiles(ctx)
		if err == nil {
			if n, perr := cache.Prune(ctx, files); perr == nil && n > 0 {
				applog.WithComponent("cli").Info("font cache pruned", slog.Int("removed", n))
			}
		}
	}
	if asJSON {
		if err := printJSON(cat.Entries()); err != nil {
			return err
		}
	} else {
		for _, name := range cat.Names() {
			r, _ := cat.Lookup(name)
			fmt.Printf("%s\t%s\n", name, r.Locator())
		}
		st := cat.Stats()
		fmt.Printf("\n%d names from %d files (%d skipped, %d cached) in %s\n", cat.Len(), st.Files, st.Skipped, st.Cached, st.Duration)
	}
	return cat.Validate()
}

func runLookup(ctx context.Context, cfg config.AppConfig, name string) error {
	svc, cache := newFontService(cfg)
	defer closeCache(cache)
	r, fellBack, err := svc.Resolve(ctx, name)
	if err != nil {
		return err
	}
	if fellBack {
		fmt.Printf("%q not found, using default family %q\n", name, r.Family)
	}
	fmt.Printf("Family: %s\nFace: %s\nLocale: %s\nFile: %s\n", r.Family, r.Face, r.Locale, r.Locator())
	return nil
}

func runPreview(ctx context.Context, cfg config.AppConfig, character, text string) error {
	set, err := style.Load(cfg.Preview.StylesFile)
	if err != nil {
		return err
	}
	svc, cache := newFontService(cfg)
	defer closeCache(cache)
	m, err := preview.New(svc, textmetrics.NewFaceLoader()).RenderCharacter(ctx, set, character, text)
	if err != nil {
		return err
	}
	return printJSON(m)
}

func runStyle(cfg config.AppConfig, sub string, args []string) error {
	path := cfg.Preview.StylesFile
	set, err := style.Load(path)
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		for _, id := range set.IDs() {
			fmt.Println(id)
		}
		return nil
	case "show":
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		out := style.NewSet()
		out.Default = set.Get(id).Document()
		b, err := style.Encode(out)
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	case "set":
		if len(args) < 2 {
			fail("style set requires <character> and key=value")
		}
		s := preview.NewSession(nil, set, nil, func(id string, f style.Field) {
			applog.WithComponent("cli").Debug("style changed", slog.String("character", id), slog.String("field", f.String()))
		})
		var editErr error
		if err := s.Edit(args[0], func(st *style.Style) { editErr = applyEdits(st, args[1:]) }); err != nil {
			return err
		}
		if editErr != nil {
			return editErr
		}
		return style.Save(path, s.Set())
	case "delete":
		if len(args) < 1 {
			fail("style delete requires <character>")
		}
		set.Delete(args[0])
		return style.Save(path, set)
	case "export":
		if len(args) < 1 {
			fail("style export requires <zip>")
		}
		return stylepack.Export(set, args[0])
	case "import":
		if len(args) < 1 {
			fail("style import requires <zip>")
		}
		res, err := stylepack.Install(set, args[0], stylepack.InstallOptions{Overwrite: hasFlag(args[1:], "--overwrite")})
		if err != nil {
			return err
		}
		fmt.Printf("Installed %d styles, skipped %d existing.\n", res.Installed, res.Skipped)
		return style.Save(path, set)
	}
	fail("unknown style subcommand " + sub)
	return nil
}

func runCache(ctx context.Context, cfg config.AppConfig, sub string) error {
	if !cfg.Fonts.CacheEnabled() {
		fmt.Println("Font cache is disabled.")
		return nil
	}
	c, err := fontcache.Open(cfg.Fonts.CachePath)
	if err != nil {
		return err
	}
	defer closeCache(c)
	switch sub {
	case "stats":
		files, faces, err := c.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Cache: %s\nFiles: %d\nFaces: %d\n", c.Path(), files, faces)
		return nil
	case "clear":
		return c.Clear(ctx)
	}
	fail("unknown cache subcommand " + sub)
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
