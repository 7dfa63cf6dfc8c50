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

// Package refs models every place in a document where one record stores
// another record's identifier, and rewrites those sites when identifiers
// are retired by a merge or a canonicalization pass.
package refs

import "github.com/CurricleProject/curricle-core/pkg/document"

// Shape describes how a reference site stores identifiers.
type Shape int

const (
	// Scalar is a single field holding one id.
	Scalar Shape = iota
	// List is an ordered collection of ids (or one id field per row of a
	// join table, which behaves the same way under rewrite).
	List
	// Compound is an id pair joined into one string, used as a set
	// membership marker.
	Compound
)

// KeyType tags which record field a site dereferences by. Prerequisite
// lists store catalog codes rather than ids; the distinction is carried
// explicitly instead of being silently migrated.
type KeyType int

const (
	ByID KeyType = iota
	ByCode
)

// CompoundSep joins the two components of a compound key.
const CompoundSep = "|"

// Descriptor names one (source field, shape, key, target collection) tuple
// in the document schema.
type Descriptor struct {
	Name   string
	Target document.Collection
	Shape  Shape
	Key    KeyType
}

// Sites enumerates the full reference graph. The rewrite engine walks the
// document directly; this table exists so callers and tests can audit that
// every site is covered.
func Sites() []Descriptor {
	return []Descriptor{
		{Name: "course.textbooks[].resourceId", Target: document.Library, Shape: List, Key: ByID},
		{Name: "course.topics[].readingRefs[].resourceId", Target: document.Library, Shape: List, Key: ByID},
		{Name: "course.instructorIds[]", Target: document.FacultyMembers, Shape: List, Key: ByID},
		{Name: "course.instructorDetails{}", Target: document.FacultyMembers, Shape: Scalar, Key: ByID},
		{Name: "course.knowledgeAreaId", Target: document.KnowledgeAreas, Shape: Scalar, Key: ByID},
		{Name: "course.prerequisites[]", Target: document.Courses, Shape: List, Key: ByCode},
		{Name: "course.coRequisites[]", Target: document.Courses, Shape: List, Key: ByCode},
		{Name: "course.topics[].activities[].methodId", Target: document.TeachingMethods, Shape: Scalar, Key: ByID},
		{Name: "course.assessmentPlan[].methodId", Target: document.AssessmentMethods, Shape: Scalar, Key: ByID},
		{Name: "course.cloMap[].teachingMethodIds[]", Target: document.TeachingMethods, Shape: List, Key: ByID},
		{Name: "course.cloMap[].assessmentMethodIds[]", Target: document.AssessmentMethods, Shape: List, Key: ByID},
		{Name: "course.cloMap[].soIds[]", Target: document.Outcomes, Shape: List, Key: ByID},
		{Name: "course.cloMap[].piIds[]", Target: document.Indicators, Shape: List, Key: ByID},
		{Name: "program.structure.*[]", Target: document.Courses, Shape: List, Key: ByID},
		{Name: "program.subBlocks[].courseIds[]", Target: document.Courses, Shape: List, Key: ByID},
		{Name: "program.courseObjectivePairs[]", Target: document.Courses, Shape: Compound, Key: ByID},
		{Name: "program.courseObjectivePairs[]", Target: document.Objectives, Shape: Compound, Key: ByID},
		{Name: "courseOutcomeMap[].courseId", Target: document.Courses, Shape: List, Key: ByID},
		{Name: "courseOutcomeMap[].soId", Target: document.Outcomes, Shape: List, Key: ByID},
		{Name: "courseIndicatorMap[].courseId", Target: document.Courses, Shape: List, Key: ByID},
		{Name: "courseIndicatorMap[].piId", Target: document.Indicators, Shape: List, Key: ByID},
		{Name: "courseObjectiveMap[].courseId", Target: document.Courses, Shape: List, Key: ByID},
		{Name: "courseObjectiveMap[].peoId", Target: document.Objectives, Shape: List, Key: ByID},
		{Name: "objectiveOutcomeMap[].peoId", Target: document.Objectives, Shape: List, Key: ByID},
		{Name: "objectiveOutcomeMap[].soId", Target: document.Outcomes, Shape: List, Key: ByID},
	}
}
