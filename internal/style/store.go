/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	applog "overlaypreview/internal/log"
)

// BackupsDirName is created next to the styles file.
const BackupsDirName = "backups"

// UnmarshalYAML decodes over the defaults so missing keys keep their default values.
func (d *Document) UnmarshalYAML(n *yaml.Node) error {
	type plain Document
	p := plain(DefaultDocument())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*d = Document(p)
	return nil
}

func (d *Document) UnmarshalJSON(b []byte) error {
	type plain Document
	p := plain(DefaultDocument())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Document(p)
	return nil
}

// Decode parses a YAML style set and applies value limits.
func Decode(data []byte) (*Set, error) {
	set := NewSet()
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("parse styles: %w", err)
	}
	set.normalize()
	return set, nil
}

// Encode renders the set as YAML.
func Encode(set *Set) ([]byte, error) {
	data, err := yaml.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshal styles: %w", err)
	}
	return data, nil
}

// Load reads the styles file. A missing file yields a fresh set; an unreadable or
// corrupt file falls back to the latest backup.
func Load(path string) (*Set, error) {
	l := applog.WithOperation(applog.WithComponent("style"), "load").With(slog.String("path", path))
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSet(), nil
	}
	if err == nil {
		set, perr := Decode(b)
		if perr == nil {
			return set, nil
		}
		err = perr
	}
	set, berr := loadLatestBackup(path)
	if berr != nil {
		return nil, fmt.Errorf("open styles: %w; backup attempt: %v", err, berr)
	}
	l.Warn("styles restored from backup", slog.Any("err", err))
	return set, nil
}

// Save writes the set with a timestamped backup of the previous file and an atomic replace.
func Save(path string, set *Set) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("styles path is required")
	}
	data, err := Encode(set)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure styles dir: %w", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		bdir := filepath.Join(dir, BackupsDirName)
		if err := os.MkdirAll(bdir, 0o755); err != nil {
			return fmt.Errorf("ensure backups dir: %w", err)
		}
		stamp := time.Now().Format("20060102-150405.000")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
		if cerr := copyFile(path, bpath); cerr != nil {
			return fmt.Errorf("backup current styles: %w", cerr)
		}
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp styles: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace styles: %w", rerr)
	}
	return nil
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// Backups lists backup files of path, oldest first.
func Backups(path string) ([]string, error) {
	bdir := filepath.Join(filepath.Dir(path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, err
	}
	prefix := filepath.Base(path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func loadLatestBackup(path string) (*Set, error) {
	backups, err := Backups(path)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	if len(backups) == 0 {
		return nil, errors.New("no backups found")
	}
	b, err := os.ReadFile(backups[len(backups)-1])
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	return Decode(b)
}
