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

// Package canonical renames faculty and course identifiers to stable,
// human-readable canonical forms and rewrites every reference to match.
package canonical

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CurricleProject/curricle-core/pkg/dedupe"
	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/CurricleProject/curricle-core/pkg/document/refs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	facultyPrefix  = "fac-"
	courseFallback = "CID"
	slugMaxLen     = 10
)

var nonCodeRegex = regexp.MustCompile(`[^A-Z0-9-]+`)

// Report records what one normalization pass did.
type Report struct {
	RunID string
	// Faculty and Courses map each renamed id to its canonical form.
	// Records already canonical do not appear.
	Faculty refs.Mapping
	Courses refs.Mapping
	// Pruned counts reference entries dropped by the post-rename sweep,
	// including ones orphaned before this pass ran.
	Pruned int
}

// Changed reports whether the pass renamed anything or pruned any entry.
func (r *Report) Changed() bool {
	return len(r.Faculty) > 0 || len(r.Courses) > 0 || r.Pruned > 0
}

// Normalize renames every faculty member and course to its canonical id,
// rewrites all inbound references, and prunes entries that no longer
// resolve. Faculty run first: course records carry instructor references,
// so renaming in dependency order keeps each rewrite against a settled id
// space. The input document is untouched; the rewritten copy is returned.
func Normalize(doc *document.Document) (*document.Document, *Report, error) {
	next, err := doc.Clone()
	if err != nil {
		return nil, nil, err
	}

	report := &Report{RunID: uuid.NewString()}

	report.Faculty = renameFaculty(next)
	if len(report.Faculty) > 0 {
		refs.Rewrite(next, document.FacultyMembers, report.Faculty, report.Faculty.OldIDs())
	}

	report.Courses = renameCourses(next)
	if len(report.Courses) > 0 {
		refs.Rewrite(next, document.Courses, report.Courses, report.Courses.OldIDs())
	}

	report.Pruned = refs.PruneDangling(next)

	log.Info().
		Str("run", report.RunID).
		Int("faculty", len(report.Faculty)).
		Int("courses", len(report.Courses)).
		Int("pruned", report.Pruned).
		Msg("identifier normalization complete")
	return next, report, nil
}

// renameFaculty assigns each member "fac-<slug>_<n>" where the slug is the
// first characters of the normalized name and n is the record's position.
// The positional suffix makes the id unique even for namesake instructors.
func renameFaculty(doc *document.Document) refs.Mapping {
	mapping := make(refs.Mapping)
	for i := range doc.Faculty {
		f := &doc.Faculty[i]
		slug := nameSlug(f.Name.Any())
		newID := fmt.Sprintf("%s%s_%d", facultyPrefix, slug, i+1)
		if newID == f.ID {
			continue
		}
		mapping[f.ID] = newID
		f.ID = newID
	}
	return mapping
}

// renameCourses derives each id from the catalog code. Colliding codes get
// the record's position as a suffix, so two courses sharing a code still
// get distinct ids and the same input order always yields the same ids.
func renameCourses(doc *document.Document) refs.Mapping {
	mapping := make(refs.Mapping)
	taken := make(map[string]struct{}, len(doc.Courses))
	for i := range doc.Courses {
		c := &doc.Courses[i]

		base := codeSlug(c.Code)
		if base == "" {
			base = fmt.Sprintf("%s-%d", courseFallback, i+1)
		}
		newID := base
		if _, dup := taken[newID]; dup {
			newID = fmt.Sprintf("%s_%d", base, i+1)
			for n := 2; ; n++ {
				if _, dup := taken[newID]; !dup {
					break
				}
				newID = fmt.Sprintf("%s_%d", base, n)
			}
		}
		taken[newID] = struct{}{}

		if newID == c.ID {
			continue
		}
		mapping[c.ID] = newID
		c.ID = newID
	}
	return mapping
}

// nameSlug compacts a person's name into a short lowercase ascii token.
func nameSlug(name string) string {
	s := dedupe.NormalizeText(name)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "member"
	}
	runes := []rune(s)
	if len(runes) > slugMaxLen {
		runes = runes[:slugMaxLen]
	}
	return string(runes)
}

// codeSlug turns a catalog code into an id: uppercased, spaces collapsed to
// dashes, anything outside [A-Z0-9-] dropped. Codes too short to be
// meaningful yield "" and the caller falls back to a positional id.
func codeSlug(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.Join(strings.Fields(s), "-")
	s = nonCodeRegex.ReplaceAllString(s, "")
	if len(s) < 2 {
		return ""
	}
	return s
}
