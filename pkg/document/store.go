// Curricle Core
// Copyright (c) 2025 The Curricle Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Curricle Core.
//
// Curricle Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Curricle Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Curricle Core.  If not, see <http://www.gnu.org/licenses/>.

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/CurricleProject/curricle-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrNoDocument is returned when the store has no snapshot loaded.
var ErrNoDocument = errors.New("no document loaded")

// Store owns the current document snapshot and its file location. There is
// exactly one logical writer at a time; the mutex only guards against the
// snapshot being swapped mid-read by an interactive caller.
type Store struct {
	fs   afero.Fs
	path string
	doc  *Document
	mu   syncutil.RWMutex
}

// NewStore creates a store reading and writing path on the given filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the whole snapshot, then normalizes its shape.
// A decode failure leaves any previously loaded document in place.
func (s *Store) Load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	doc.NormalizeShape()

	s.mu.Lock()
	s.doc = &doc
	s.mu.Unlock()

	log.Info().
		Int("courses", len(doc.Courses)).
		Int("faculty", len(doc.Faculty)).
		Int("library", len(doc.Library)).
		Msg("document loaded")
	return nil
}

// Snapshot returns the current document. Callers must not mutate it
// directly; engine operations clone, mutate, and Replace.
func (s *Store) Snapshot() (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.doc, nil
}

// Replace swaps in a new document snapshot.
func (s *Store) Replace(doc *Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Save writes the whole snapshot back to disk. The write goes to a temp
// file first and is renamed over the target, so a failed save never
// truncates the previous snapshot.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	if doc == nil {
		return ErrNoDocument
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}

	log.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("document saved")
	return nil
}
