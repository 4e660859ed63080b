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
	"sync"

	"golang.org/x/sync/singleflight"
)

// Service owns the process catalog. The first Catalog call builds it; later calls
// return the same instance until Rebuild swaps in a new one.
type Service struct {
	opts Options

	mu  sync.RWMutex
	cur *Catalog

	sf singleflight.Group
}

func NewService(opts Options) *Service { return &Service{opts: opts} }

// Catalog returns the current catalog, building it on first use.
// Concurrent first callers wait for the same build. A failed first build is not
// remembered; the next call tries again.
func (s *Service) Catalog(ctx context.Context) (*Catalog, error) {
	s.mu.RLock()
	c := s.cur
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	return s.Rebuild(ctx)
}

// Warm starts the first build in the background. The channel is closed when done.
func (s *Service) Warm() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Catalog(context.Background())
	}()
	return done
}

// Rebuild scans again and replaces the catalog. Concurrent calls share one build;
// readers keep the previous catalog until the new one is complete.
func (s *Service) Rebuild(ctx context.Context) (*Catalog, error) {
	v, err, _ := s.sf.Do("build", func() (any, error) {
		c, err := Build(ctx, s.opts)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cur = c
		s.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// Resolve looks the name up in the current catalog with default-family fallback.
func (s *Service) Resolve(ctx context.Context, name string) (FontResource, bool, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return FontResource{}, false, err
	}
	return c.Resolve(name)
}

// Validate builds the catalog if needed and checks the default family.
func (s *Service) Validate(ctx context.Context) error {
	c, err := s.Catalog(ctx)
	if err != nil {
		return err
	}
	return c.Validate()
}
