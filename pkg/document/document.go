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
	"fmt"
)

// Collection names the homogeneous record collections of a document.
type Collection string

const (
	Courses           Collection = "courses"
	FacultyMembers    Collection = "faculty"
	Library           Collection = "library"
	Objectives        Collection = "objectives"
	Outcomes          Collection = "outcomes"
	KnowledgeAreas    Collection = "knowledgeAreas"
	TeachingMethods   Collection = "teachingMethods"
	AssessmentMethods Collection = "assessmentMethods"
	// Indicators are nested under outcomes but referenced independently.
	Indicators Collection = "indicators"
)

// Clone returns a deep copy of the document. Engine operations mutate a
// clone and hand it back whole, so a failed operation never leaves the
// caller's snapshot partially rewritten.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document for copy: %w", err)
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode document copy: %w", err)
	}
	return &out, nil
}

// FindCourse returns the course with the given id, or nil.
func (d *Document) FindCourse(id string) *Course {
	for i := range d.Courses {
		if d.Courses[i].ID == id {
			return &d.Courses[i]
		}
	}
	return nil
}

// FindCourseByCode returns the first course with the given catalog code.
func (d *Document) FindCourseByCode(code string) *Course {
	for i := range d.Courses {
		if d.Courses[i].Code == code {
			return &d.Courses[i]
		}
	}
	return nil
}

// FindFaculty returns the faculty member with the given id, or nil.
func (d *Document) FindFaculty(id string) *Faculty {
	for i := range d.Faculty {
		if d.Faculty[i].ID == id {
			return &d.Faculty[i]
		}
	}
	return nil
}

// FindResource returns the library resource with the given id, or nil.
func (d *Document) FindResource(id string) *LibraryResource {
	for i := range d.Library {
		if d.Library[i].ID == id {
			return &d.Library[i]
		}
	}
	return nil
}

// FindObjective returns the program objective with the given id, or nil.
func (d *Document) FindObjective(id string) *Objective {
	for i := range d.Objectives {
		if d.Objectives[i].ID == id {
			return &d.Objectives[i]
		}
	}
	return nil
}

// IDs returns the identifier set of one collection. Used by the rewrite
// engine to resolve references after a mapping has been applied.
func (d *Document) IDs(c Collection) map[string]struct{} {
	out := make(map[string]struct{})
	switch c {
	case Courses:
		for i := range d.Courses {
			out[d.Courses[i].ID] = struct{}{}
		}
	case FacultyMembers:
		for i := range d.Faculty {
			out[d.Faculty[i].ID] = struct{}{}
		}
	case Library:
		for i := range d.Library {
			out[d.Library[i].ID] = struct{}{}
		}
	case Objectives:
		for i := range d.Objectives {
			out[d.Objectives[i].ID] = struct{}{}
		}
	case Outcomes:
		for i := range d.Outcomes {
			out[d.Outcomes[i].ID] = struct{}{}
		}
	case Indicators:
		for i := range d.Outcomes {
			for j := range d.Outcomes[i].Indicators {
				out[d.Outcomes[i].Indicators[j].ID] = struct{}{}
			}
		}
	case KnowledgeAreas:
		for i := range d.KnowledgeAreas {
			out[d.KnowledgeAreas[i].ID] = struct{}{}
		}
	case TeachingMethods:
		for i := range d.TeachingMethods {
			out[d.TeachingMethods[i].ID] = struct{}{}
		}
	case AssessmentMethods:
		for i := range d.AssessmentMethods {
			out[d.AssessmentMethods[i].ID] = struct{}{}
		}
	}
	return out
}

// CourseCodes returns the set of catalog codes currently in the catalog.
// Prerequisite and co-requisite lists resolve against codes, not ids.
func (d *Document) CourseCodes() map[string]struct{} {
	out := make(map[string]struct{}, len(d.Courses))
	for i := range d.Courses {
		out[d.Courses[i].Code] = struct{}{}
	}
	return out
}

// ResourceUsage counts the courses whose textbook list references the given
// library resource. Shown next to each cluster member before a merge.
func (d *Document) ResourceUsage(resourceID string) int {
	count := 0
	for i := range d.Courses {
		for _, tb := range d.Courses[i].Textbooks {
			if tb.ResourceID == resourceID {
				count++
				break
			}
		}
	}
	return count
}

// RemoveResources deletes library resources by id, preserving order.
func (d *Document) RemoveResources(ids map[string]struct{}) {
	kept := d.Library[:0]
	for i := range d.Library {
		if _, gone := ids[d.Library[i].ID]; !gone {
			kept = append(kept, d.Library[i])
		}
	}
	d.Library = kept
}

// RemoveCourses deletes courses by id, preserving order.
func (d *Document) RemoveCourses(ids map[string]struct{}) {
	kept := d.Courses[:0]
	for i := range d.Courses {
		if _, gone := ids[d.Courses[i].ID]; !gone {
			kept = append(kept, d.Courses[i])
		}
	}
	d.Courses = kept
}

// RemoveFaculty deletes faculty members by id, preserving order.
func (d *Document) RemoveFaculty(ids map[string]struct{}) {
	kept := d.Faculty[:0]
	for i := range d.Faculty {
		if _, gone := ids[d.Faculty[i].ID]; !gone {
			kept = append(kept, d.Faculty[i])
		}
	}
	d.Faculty = kept
}

// ClearDesignData resets every design collection and mapping table while
// leaving program metadata untouched.
func (d *Document) ClearDesignData() {
	d.Courses = []Course{}
	d.Faculty = []Faculty{}
	d.Library = []LibraryResource{}
	d.Objectives = []Objective{}
	d.Outcomes = []Outcome{}
	d.CourseOutcomeMap = []CourseOutcomeRow{}
	d.CourseIndicatorMap = []CourseIndicatorRow{}
	d.CourseObjectiveMap = []CourseObjectiveRow{}
	d.ObjectiveOutcomeMap = []ObjectiveOutcomeRow{}
	d.Program.Structure = ProgramStructure{
		Gen: []string{}, Fund: []string{}, Spec: []string{}, Grad: []string{},
	}
	d.Program.SubBlocks = []SubBlock{}
	d.Program.CourseObjectivePairs = []string{}
}
