/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fontcache persists parsed font naming data in SQLite so catalog rebuilds
// only parse files that changed since the last run.
package fontcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"overlaypreview/internal/fontcatalog"
	applog "overlaypreview/internal/log"
	"overlaypreview/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the cache schema. A cache written with any other version is
// discarded and rebuilt, since every row can be recomputed from the font files.
const schemaVersion = 1

var errSchemaMismatch = errors.New("cache schema version mismatch")

// Cache implements fontcatalog.FaceCache on a SQLite file.
type Cache struct {
	db   *sql.DB
	path string
}

var _ fontcatalog.FaceCache = (*Cache)(nil)

// Open creates or opens the cache database, enables WAL and brings the schema up to date.
// A cache file that cannot be opened as a database is removed and recreated.
func Open(path string) (*Cache, error) {
	l := applog.WithOperation(applog.WithComponent("fontcache"), "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create cache dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		l.Warn("cache unusable, recreating", slog.Any("err", err))
		if rmErr := removeDB(path); rmErr != nil {
			return nil, fmt.Errorf("reset cache: %w", rmErr)
		}
		if db, err = openDB(path); err != nil {
			l.Error("cache open failed", slog.Any("err", err))
			return nil, err
		}
	}
	l.Debug("font cache ready")
	return &Cache{db: db, path: path}, nil
}

func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := checkSchemaVersion(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func removeDB(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS faces (
			path       TEXT    PRIMARY KEY,
			size       INTEGER NOT NULL,
			mtime      INTEGER NOT NULL,
			face_count INTEGER NOT NULL DEFAULT 0,
			names_json BLOB    NOT NULL,
			updated_at TEXT    NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure cache schema: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur != schemaVersion {
		return fmt.Errorf("%w: have %d, want %d", errSchemaMismatch, cur, schemaVersion)
	}
	return nil
}

// Load returns the cached faces of a file if its size and mtime still match.
func (c *Cache) Load(path string, size, modUnix int64) ([]fontcatalog.FaceInfo, bool, error) {
	var (
		gotSize, gotMod int64
		blob            []byte
	)
	err := c.db.QueryRow(`SELECT size, mtime, names_json FROM faces WHERE path=?`, path).Scan(&gotSize, &gotMod, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", path, err)
	}
	if gotSize != size || gotMod != modUnix {
		return nil, false, nil
	}
	var faces []fontcatalog.FaceInfo
	if err := json.Unmarshal(blob, &faces); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return faces, true, nil
}

// Store upserts the parsed faces of a file.
func (c *Cache) Store(path string, size, modUnix int64, faces []fontcatalog.FaceInfo) error {
	blob, err := json.Marshal(faces)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	_, err = c.db.Exec(`INSERT INTO faces(path, size, mtime, face_count, names_json, updated_at) VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET size=excluded.size, mtime=excluded.mtime, face_count=excluded.face_count,
		names_json=excluded.names_json, updated_at=excluded.updated_at`,
		path, size, modUnix, len(faces), blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store %s: %w", path, err)
	}
	return nil
}

// Prune drops entries for files not in keep and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, keep []string) (int, error) {
	want := make(map[string]bool, len(keep))
	for _, p := range keep {
		want[p] = true
	}
	rows, err := c.db.QueryContext(ctx, `SELECT path FROM faces`)
	if err != nil {
		return 0, fmt.Errorf("list cache: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return 0, err
		}
		if !want[p] {
			stale = append(stale, p)
		}
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	for _, p := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM faces WHERE path=?`, p); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("prune %s: %w", p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Clear removes every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM faces`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Stats reports the number of cached files and faces.
func (c *Cache) Stats(ctx context.Context) (files, faces int, err error) {
	err = c.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(face_count), 0) FROM faces`).Scan(&files, &faces)
	return files, faces, err
}

func (c *Cache) Path() string { return c.path }

func (c *Cache) Close() error { return c.db.Close() }
