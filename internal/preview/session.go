/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"context"
	"log/slog"
	"sync"

	applog "overlaypreview/internal/log"
	"overlaypreview/internal/style"
	"overlaypreview/internal/undo"
)

// ChangeFunc receives every source and derived field change of an open overlay.
type ChangeFunc func(id string, f style.Field)

// Session edits the styles of a set with undo/redo per character.
type Session struct {
	engine   *Engine
	set      *style.Set
	history  *undo.History
	onChange ChangeFunc

	mu   sync.Mutex
	open map[string]*style.Style
}

func NewSession(engine *Engine, set *style.Set, history *undo.History, onChange ChangeFunc) *Session {
	if set == nil {
		set = style.NewSet()
	}
	if history == nil {
		history = undo.NewHistory(undo.Config{})
	}
	return &Session{engine: engine, set: set, history: history, onChange: onChange, open: make(map[string]*style.Style)}
}

// Set returns the underlying style set with all edits applied.
func (s *Session) Set() *style.Set { return s.set }

// Style returns the open style of a character, loading it from the set on first use.
func (s *Session) Style(id string) *style.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styleLocked(id)
}

func (s *Session) styleLocked(id string) *style.Style {
	if st, ok := s.open[id]; ok {
		return st
	}
	st := s.set.Get(id)
	s.attach(id, st)
	s.open[id] = st
	return st
}

func (s *Session) attach(id string, st *style.Style) {
	if s.onChange == nil {
		return
	}
	st.State.SetNotifier(style.NotifierFunc(func(f style.Field) { s.onChange(id, f) }))
}

// Edit records the current style for undo, applies edit and stores the result in the set.
func (s *Session) Edit(id string, edit func(*style.Style)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.styleLocked(id)
	if err := s.history.Apply(id, st, edit); err != nil {
		return err
	}
	s.set.Put(id, st)
	return nil
}

// Undo reverts the last edit of a character. It reports false when there is nothing to undo.
func (s *Session) Undo(id string) (bool, error) { return s.step(id, s.history.Undo) }

// Redo reapplies the last undone edit.
func (s *Session) Redo(id string) (bool, error) { return s.step(id, s.history.Redo) }

func (s *Session) step(id string, fn func(string, *style.Style) (*style.Style, bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.styleLocked(id)
	restored, ok, err := fn(id, cur)
	if err != nil || !ok {
		return ok, err
	}
	s.attach(id, restored)
	s.open[id] = restored
	s.set.Put(id, restored)
	applog.WithComponent("preview").Debug("style restored", slog.String("character", id))
	return true, nil
}

// Render renders the open style of a character.
func (s *Session) Render(ctx context.Context, id string) (Model, error) {
	return s.engine.Render(ctx, s.Style(id))
}
