/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps per-overlay undo/redo history of style edits.
package undo

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"overlaypreview/internal/style"
)

// Snapshot is an encoded style of one overlay. Size is estimated as len(Blob).
type Snapshot struct {
	Overlay string
	Blob    []byte
	TS      time.Time
}

// Capture encodes st as a snapshot for overlay.
func Capture(overlay string, st *style.Style, ts time.Time) (Snapshot, error) {
	b, err := json.Marshal(st.Document())
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode style snapshot: %w", err)
	}
	return Snapshot{Overlay: overlay, Blob: b, TS: ts}, nil
}

// Style decodes the snapshot into a fresh Style with re-derived preview values.
func (s Snapshot) Style() (*style.Style, error) {
	var d style.Document
	if err := json.Unmarshal(s.Blob, &d); err != nil {
		return nil, fmt.Errorf("decode style snapshot: %w", err)
	}
	return style.FromDocument(d), nil
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerOverlay limits the undo depth per overlay (0 means unlimited).
	MaxPerOverlay int
	// MinInterval coalesces edits recorded within the interval for the same overlay.
	// The earliest state of the burst is kept so one undo reverts a whole slider drag.
	MinInterval time.Duration
	Now         func() time.Time
}

// History holds undo/redo stacks per overlay. It is safe for concurrent use.
type History struct {
	cfg  Config
	mu   sync.Mutex
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// burst holds the time of the last Record per overlay while edits may still coalesce.
	// Undo, Redo and Clear end the burst.
	burst map[string]time.Time

	totalBytes int
}

func NewHistory(cfg Config) *History {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 4 * 1024 * 1024
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &History{
		cfg:   cfg,
		undo:  make(map[string][]Snapshot),
		redo:  make(map[string][]Snapshot),
		burst: make(map[string]time.Time),
	}
}

// Record pushes the state an overlay had before an edit and clears its redo stack.
func (h *History) Record(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropRedoLocked(s.Overlay)
	stack := h.undo[s.Overlay]
	last, open := h.burst[s.Overlay]
	h.burst[s.Overlay] = s.TS
	if n := len(stack); open && n > 0 && s.TS.Sub(last) < h.cfg.MinInterval {
		stack[n-1].TS = s.TS
		return
	}
	h.undo[s.Overlay] = append(stack, s)
	h.totalBytes += len(s.Blob)
	h.enforceCapsLocked(s.Overlay)
}

// Apply records the current state of st, then runs edit on it.
func (h *History) Apply(overlay string, st *style.Style, edit func(*style.Style)) error {
	s, err := Capture(overlay, st, h.cfg.Now())
	if err != nil {
		return err
	}
	h.Record(s)
	edit(st)
	return nil
}

// Undo returns the state before the last recorded edit and moves current onto the redo stack.
func (h *History) Undo(overlay string, current *style.Style) (*style.Style, bool, error) {
	return h.step(overlay, current, h.undo, h.redo)
}

// Redo reverses the last Undo.
func (h *History) Redo(overlay string, current *style.Style) (*style.Style, bool, error) {
	return h.step(overlay, current, h.redo, h.undo)
}

func (h *History) step(overlay string, current *style.Style, from, to map[string][]Snapshot) (*style.Style, bool, error) {
	cur, err := Capture(overlay, current, h.cfg.Now())
	if err != nil {
		return nil, false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	stack := from[overlay]
	if len(stack) == 0 {
		return nil, false, nil
	}
	s := stack[len(stack)-1]
	restored, err := s.Style()
	if err != nil {
		return nil, false, err
	}
	delete(h.burst, overlay)
	from[overlay] = stack[:len(stack)-1]
	to[overlay] = append(to[overlay], cur)
	h.totalBytes += len(cur.Blob) - len(s.Blob)
	h.enforceCapsLocked(overlay)
	return restored, true, nil
}

// CanUndo and CanRedo report whether a step is available.
func (h *History) CanUndo(overlay string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo[overlay]) > 0
}

func (h *History) CanRedo(overlay string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo[overlay]) > 0
}

// Clear drops both stacks of an overlay.
func (h *History) Clear(overlay string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.undo[overlay] {
		h.totalBytes -= len(s.Blob)
	}
	h.dropRedoLocked(overlay)
	delete(h.undo, overlay)
	delete(h.burst, overlay)
	if h.totalBytes < 0 {
		h.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (h *History) Stats() (totalBytes int, overlays int, totalSnapshots int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]bool)
	for k, v := range h.undo {
		seen[k] = true
		totalSnapshots += len(v)
	}
	for k, v := range h.redo {
		seen[k] = true
		totalSnapshots += len(v)
	}
	return h.totalBytes, len(seen), totalSnapshots
}

func (h *History) dropRedoLocked(overlay string) {
	for _, s := range h.redo[overlay] {
		h.totalBytes -= len(s.Blob)
	}
	delete(h.redo, overlay)
}

func (h *History) enforceCapsLocked(overlay string) {
	if h.cfg.MaxPerOverlay > 0 {
		stack := h.undo[overlay]
		if len(stack) > h.cfg.MaxPerOverlay {
			toDrop := len(stack) - h.cfg.MaxPerOverlay
			for i := 0; i < toDrop; i++ {
				h.totalBytes -= len(stack[i].Blob)
			}
			h.undo[overlay] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// global cap: prune the oldest undo entry across overlays
	for h.totalBytes > h.cfg.MaxBytes {
		oldest := ""
		found := false
		var oldestTS time.Time
		for k, stack := range h.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) || (stack[0].TS.Equal(oldestTS) && k < oldest) {
				oldest, oldestTS, found = k, stack[0].TS, true
			}
		}
		if !found {
			break
		}
		stack := h.undo[oldest]
		h.totalBytes -= len(stack[0].Blob)
		h.undo[oldest] = stack[1:]
		if len(h.undo[oldest]) == 0 {
			delete(h.undo, oldest)
		}
	}
}
