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

// Package importer brings external course, faculty and catalog records into
// a document, detecting collisions with existing records and applying the
// caller's chosen resolution.
package importer

import (
	"errors"
	"fmt"

	"github.com/CurricleProject/curricle-core/pkg/dedupe"
	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/CurricleProject/curricle-core/pkg/helpers"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Resolution is the caller's answer to an import conflict.
type Resolution string

const (
	// ResolutionNone leaves the conflict unresolved; the import fails with
	// ErrUnresolvedConflict and the conflict details, so an interactive
	// caller can ask and retry.
	ResolutionNone Resolution = ""
	// ResolutionOverwrite replaces the existing record's content while
	// preserving its identity fields.
	ResolutionOverwrite Resolution = "overwrite"
	// ResolutionCreateNew keeps the existing record and inserts the incoming
	// one under a freshly minted id.
	ResolutionCreateNew Resolution = "create-new"
)

// MatchReason says how an incoming record collided with an existing one.
type MatchReason string

const (
	MatchByID   MatchReason = "id"
	MatchByName MatchReason = "name"
)

const (
	coursePrefix  = "CID"
	facultyPrefix = "fac"
)

// Conflict describes a collision between an incoming record and one already
// in the document.
type Conflict struct {
	Reason     MatchReason
	ExistingID string
}

// ErrUnresolvedConflict is returned when an import collides and no
// resolution was supplied.
var ErrUnresolvedConflict = errors.New("import conflicts with an existing record")

// Action says what an import did to the document.
type Action string

const (
	ActionCreated     Action = "created"
	ActionOverwritten Action = "overwritten"
)

// Result reports the outcome of a single record import.
type Result struct {
	ID       string
	Action   Action
	Conflict *Conflict
}

// Importer validates and inserts external records.
type Importer struct {
	minter   *helpers.IDMinter
	validate *validator.Validate
}

// New creates an Importer. The clock seeds minted record ids.
func New(clock clockwork.Clock) *Importer {
	return &Importer{
		minter:   helpers.NewIDMinter(clock),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// DetectCourseConflict finds the existing course an incoming one collides
// with: first by id, then by normalized name in either language. Returns nil
// when the incoming course is genuinely new.
func (im *Importer) DetectCourseConflict(doc *document.Document, incoming *document.Course) *Conflict {
	if incoming.ID != "" {
		if existing := doc.FindCourse(incoming.ID); existing != nil {
			return &Conflict{Reason: MatchByID, ExistingID: existing.ID}
		}
	}
	if id := matchByName(incoming.Name, courseNames(doc)); id != "" {
		return &Conflict{Reason: MatchByName, ExistingID: id}
	}
	return nil
}

// DetectFacultyConflict is the faculty counterpart of DetectCourseConflict.
func (im *Importer) DetectFacultyConflict(doc *document.Document, incoming *document.Faculty) *Conflict {
	if incoming.ID != "" {
		if existing := doc.FindFaculty(incoming.ID); existing != nil {
			return &Conflict{Reason: MatchByID, ExistingID: existing.ID}
		}
	}
	if id := matchByName(incoming.Name, facultyNames(doc)); id != "" {
		return &Conflict{Reason: MatchByName, ExistingID: id}
	}
	return nil
}

// ImportCourse inserts or replaces one course. On overwrite the existing
// record's catalog identity survives: id, code, name, credits, semester,
// type, requisites, flags and knowledge area all stay as they were, and only
// the syllabus content is taken from the incoming record. The input document
// is untouched; the updated copy is returned.
func (im *Importer) ImportCourse(doc *document.Document, incoming document.Course, res Resolution) (*document.Document, *Result, error) {
	if err := im.validate.Struct(&incoming); err != nil {
		return nil, nil, fmt.Errorf("invalid course record: %w", err)
	}

	conflict := im.DetectCourseConflict(doc, &incoming)
	next, err := doc.Clone()
	if err != nil {
		return nil, nil, err
	}

	if conflict == nil {
		id := incoming.ID
		if id == "" {
			id = im.minter.Mint(coursePrefix, func(candidate string) bool {
				return next.FindCourse(candidate) != nil
			})
		}
		incoming.ID = id
		next.Courses = append(next.Courses, incoming)
		logImport("course", id, ActionCreated, nil)
		return next, &Result{ID: id, Action: ActionCreated}, nil
	}

	switch res {
	case ResolutionOverwrite:
		existing := next.FindCourse(conflict.ExistingID)
		overwriteCourse(existing, incoming)
		logImport("course", existing.ID, ActionOverwritten, conflict)
		return next, &Result{ID: existing.ID, Action: ActionOverwritten, Conflict: conflict}, nil
	case ResolutionCreateNew:
		incoming.ID = im.minter.Mint(coursePrefix, func(candidate string) bool {
			return next.FindCourse(candidate) != nil
		})
		next.Courses = append(next.Courses, incoming)
		logImport("course", incoming.ID, ActionCreated, conflict)
		return next, &Result{ID: incoming.ID, Action: ActionCreated, Conflict: conflict}, nil
	default:
		return nil, &Result{ID: conflict.ExistingID, Conflict: conflict},
			fmt.Errorf("%w: course %q matched by %s", ErrUnresolvedConflict, conflict.ExistingID, conflict.Reason)
	}
}

// ImportFaculty inserts or replaces one faculty member. Overwrite keeps only
// the existing id; every CV field comes from the incoming record.
func (im *Importer) ImportFaculty(doc *document.Document, incoming document.Faculty, res Resolution) (*document.Document, *Result, error) {
	// The name is the natural key conflicts resolve against; a record
	// without one in either language cannot be matched or listed.
	if incoming.Name.Any() == "" {
		return nil, nil, errors.New("invalid faculty record: name is required")
	}
	if err := im.validate.Struct(&incoming); err != nil {
		return nil, nil, fmt.Errorf("invalid faculty record: %w", err)
	}

	conflict := im.DetectFacultyConflict(doc, &incoming)
	next, err := doc.Clone()
	if err != nil {
		return nil, nil, err
	}

	if conflict == nil {
		id := incoming.ID
		if id == "" {
			id = im.minter.Mint(facultyPrefix, func(candidate string) bool {
				return next.FindFaculty(candidate) != nil
			})
		}
		incoming.ID = id
		next.Faculty = append(next.Faculty, incoming)
		logImport("faculty", id, ActionCreated, nil)
		return next, &Result{ID: id, Action: ActionCreated}, nil
	}

	switch res {
	case ResolutionOverwrite:
		existing := next.FindFaculty(conflict.ExistingID)
		incoming.ID = existing.ID
		*existing = incoming
		logImport("faculty", existing.ID, ActionOverwritten, conflict)
		return next, &Result{ID: existing.ID, Action: ActionOverwritten, Conflict: conflict}, nil
	case ResolutionCreateNew:
		incoming.ID = im.minter.Mint(facultyPrefix, func(candidate string) bool {
			return next.FindFaculty(candidate) != nil
		})
		next.Faculty = append(next.Faculty, incoming)
		logImport("faculty", incoming.ID, ActionCreated, conflict)
		return next, &Result{ID: incoming.ID, Action: ActionCreated, Conflict: conflict}, nil
	default:
		return nil, &Result{ID: conflict.ExistingID, Conflict: conflict},
			fmt.Errorf("%w: faculty %q matched by %s", ErrUnresolvedConflict, conflict.ExistingID, conflict.Reason)
	}
}

// overwriteCourse copies syllabus content from incoming into existing while
// leaving the catalog identity fields alone.
func overwriteCourse(existing *document.Course, incoming document.Course) {
	incoming.ID = existing.ID
	incoming.Code = existing.Code
	incoming.Name = existing.Name
	incoming.Credits = existing.Credits
	incoming.Semester = existing.Semester
	incoming.Type = existing.Type
	incoming.Prerequisites = existing.Prerequisites
	incoming.CoRequisites = existing.CoRequisites
	incoming.IsEssential = existing.IsEssential
	incoming.IsAbet = existing.IsAbet
	incoming.KnowledgeAreaID = existing.KnowledgeAreaID
	*existing = incoming
}

// matchByName resolves a bilingual name against an index of normalized
// names. Vietnamese is checked first, matching display precedence; the first
// hit wins so repeated names resolve deterministically.
func matchByName(name document.LocalizedText, index map[string]string) string {
	for _, variant := range []string{name.Vi, name.En} {
		key := dedupe.NormalizeText(variant)
		if key == "" {
			continue
		}
		if id, ok := index[key]; ok {
			return id
		}
	}
	return ""
}

func courseNames(doc *document.Document) map[string]string {
	index := make(map[string]string, len(doc.Courses)*2)
	for i := range doc.Courses {
		c := &doc.Courses[i]
		addName(index, c.Name, c.ID)
	}
	return index
}

func facultyNames(doc *document.Document) map[string]string {
	index := make(map[string]string, len(doc.Faculty)*2)
	for i := range doc.Faculty {
		f := &doc.Faculty[i]
		addName(index, f.Name, f.ID)
	}
	return index
}

// addName indexes both language variants, keeping the first id seen per key.
func addName(index map[string]string, name document.LocalizedText, id string) {
	for _, variant := range []string{name.Vi, name.En} {
		key := dedupe.NormalizeText(variant)
		if key == "" {
			continue
		}
		if _, taken := index[key]; !taken {
			index[key] = id
		}
	}
}

func logImport(kind, id string, action Action, conflict *Conflict) {
	evt := log.Info().Str("kind", kind).Str("id", id).Str("action", string(action))
	if conflict != nil {
		evt = evt.Str("matchedBy", string(conflict.Reason)).Str("existing", conflict.ExistingID)
	}
	evt.Msg("record imported")
}
