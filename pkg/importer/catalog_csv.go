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

package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/CurricleProject/curricle-core/pkg/document/refs"
	"github.com/CurricleProject/curricle-core/pkg/helpers"
	"github.com/gocarina/gocsv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// CatalogEntry is one course row of the catalog CSV. The tag names define
// the exported header; imports are positional so that legacy files whose
// headers were edited by hand still load.
type CatalogEntry struct {
	ID            string  `csv:"ID"`
	Code          string  `csv:"Code"`
	NameVi        string  `csv:"Name_VI"`
	NameEn        string  `csv:"Name_EN"`
	Credits       float64 `csv:"Credits"`
	Semester      int     `csv:"Semester"`
	Type          string  `csv:"Type"`
	Prerequisites string  `csv:"Prerequisites"`
	CoRequisites  string  `csv:"Co-requisite"`
	Essential     bool    `csv:"Essential"`
	Abet          bool    `csv:"ABET"`
	AreaID        string  `csv:"AreaID"`
}

// CatalogReport summarizes a bulk catalog upsert.
type CatalogReport struct {
	Created []string
	Updated []string
}

// codeListSep separates requisite codes inside one CSV cell.
const codeListSep = ";"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Catalog reads and writes the bulk course-catalog CSV.
type Catalog struct {
	fs     afero.Fs
	minter *helpers.IDMinter
}

// NewCatalog creates a Catalog on the given filesystem. The clock seeds ids
// minted for rows that arrive without one.
func NewCatalog(fs afero.Fs, clock clockwork.Clock) *Catalog {
	return &Catalog{fs: fs, minter: helpers.NewIDMinter(clock)}
}

// Export writes the document's course catalog to path. The file leads with
// a UTF-8 BOM so spreadsheet tools pick up Vietnamese names correctly.
func (c *Catalog) Export(doc *document.Document, path string) error {
	entries := make([]CatalogEntry, 0, len(doc.Courses))
	for i := range doc.Courses {
		course := &doc.Courses[i]
		entries = append(entries, CatalogEntry{
			ID:            course.ID,
			Code:          course.Code,
			NameVi:        course.Name.Vi,
			NameEn:        course.Name.En,
			Credits:       course.Credits,
			Semester:      course.Semester,
			Type:          string(course.Type),
			Prerequisites: strings.Join(course.Prerequisites, codeListSep),
			CoRequisites:  strings.Join(course.CoRequisites, codeListSep),
			Essential:     course.IsEssential,
			Abet:          course.IsAbet,
			AreaID:        course.KnowledgeAreaID,
		})
	}

	data, err := gocsv.MarshalBytes(&entries)
	if err != nil {
		return fmt.Errorf("failed to encode catalog CSV: %w", err)
	}

	out := make([]byte, 0, len(utf8BOM)+len(data))
	out = append(out, utf8BOM...)
	out = append(out, data...)
	if err := afero.WriteFile(c.fs, path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog CSV: %w", err)
	}

	log.Info().Str("path", path).Int("courses", len(entries)).Msg("catalog exported")
	return nil
}

// Import parses a catalog CSV from path. Two layouts are accepted: the
// current one with a leading ID column, and the legacy one without it. The
// layout is detected by probing which column carries the course type token,
// since the type cell is the only one whose values are a closed set.
func (c *Catalog) Import(path string) ([]CatalogEntry, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog CSV: %w", err)
	}

	withID := detectIDColumn(rows)
	entries := make([]CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entry, ok := parseCatalogRow(row, withID)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	log.Info().
		Str("path", path).
		Bool("idColumn", withID).
		Int("rows", len(entries)).
		Msg("catalog parsed")
	return entries, nil
}

// ApplyCatalog upserts parsed entries into the document: rows matching an
// existing course by id, or by code when the row has no id, update only the
// catalog fields and leave syllabus content alone; the rest are appended as
// new courses. The input document is untouched.
func (c *Catalog) ApplyCatalog(doc *document.Document, entries []CatalogEntry) (*document.Document, *CatalogReport, error) {
	next, err := doc.Clone()
	if err != nil {
		return nil, nil, err
	}

	report := &CatalogReport{}
	codeMapping := refs.Mapping{}
	for _, entry := range entries {
		var existing *document.Course
		if entry.ID != "" {
			existing = next.FindCourse(entry.ID)
		}
		if existing == nil {
			existing = next.FindCourseByCode(entry.Code)
		}

		if existing != nil {
			if existing.Code != entry.Code {
				codeMapping[existing.Code] = entry.Code
			}
			applyCatalogFields(existing, entry)
			report.Updated = append(report.Updated, existing.ID)
			continue
		}

		id := entry.ID
		if id == "" {
			id = c.minter.Mint(coursePrefix, func(candidate string) bool {
				return next.FindCourse(candidate) != nil
			})
		}
		course := document.Course{ID: id}
		applyCatalogFields(&course, entry)
		next.Courses = append(next.Courses, course)
		report.Created = append(report.Created, id)
	}

	// A row can rename a course's catalog code; requisite lists resolve by
	// code, so they follow the rename.
	if len(codeMapping) > 0 {
		refs.RewriteCourseCodes(next, codeMapping)
	}

	next.NormalizeShape()
	log.Info().
		Int("created", len(report.Created)).
		Int("updated", len(report.Updated)).
		Msg("catalog applied")
	return next, report, nil
}

func applyCatalogFields(course *document.Course, entry CatalogEntry) {
	course.Code = entry.Code
	course.Name = document.LocalizedText{Vi: entry.NameVi, En: entry.NameEn}
	course.Credits = entry.Credits
	course.Semester = entry.Semester
	if document.ValidCourseType(entry.Type) {
		course.Type = document.CourseType(entry.Type)
	}
	course.Prerequisites = splitCodes(entry.Prerequisites)
	course.CoRequisites = splitCodes(entry.CoRequisites)
	course.IsEssential = entry.Essential
	course.IsAbet = entry.Abet
	course.KnowledgeAreaID = entry.AreaID
}

// detectIDColumn probes the rows for the course type token. In the current
// layout the type sits in column 6; without the ID column it shifts to 5.
// Files whose rows never carry a valid token default to the current layout.
func detectIDColumn(rows [][]string) bool {
	for _, row := range rows {
		if len(row) > 6 && document.ValidCourseType(strings.TrimSpace(row[6])) {
			return true
		}
		if len(row) > 5 && document.ValidCourseType(strings.TrimSpace(row[5])) {
			return false
		}
	}
	return true
}

// parseCatalogRow maps one positional row to an entry. Header rows and rows
// without a catalog code are skipped.
func parseCatalogRow(row []string, withID bool) (CatalogEntry, bool) {
	cell := func(i int) string {
		if !withID {
			i--
		}
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entry := CatalogEntry{
		ID:            cell(0),
		Code:          cell(1),
		NameVi:        cell(2),
		NameEn:        cell(3),
		Type:          cell(6),
		Prerequisites: cell(7),
		CoRequisites:  cell(8),
		AreaID:        cell(11),
	}
	if entry.Code == "" || strings.EqualFold(entry.Code, "code") {
		return CatalogEntry{}, false
	}

	entry.Credits, _ = strconv.ParseFloat(cell(4), 64)
	entry.Semester, _ = strconv.Atoi(cell(5))
	entry.Essential = parseFlag(cell(9))
	entry.Abet = parseFlag(cell(10))
	return entry, true
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "x":
		return true
	default:
		return false
	}
}

func splitCodes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, codeListSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
