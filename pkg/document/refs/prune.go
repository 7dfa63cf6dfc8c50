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

package refs

import (
	"strings"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/rs/zerolog/log"
)

// PruneDangling drops every list, row and compound entry whose identifier no
// longer resolves in its target collection, and returns the number of
// entries removed. This is destructive by contract: the canonicalization
// pass runs it after renaming to sweep out references orphaned by earlier,
// unrelated edits.
func PruneDangling(doc *document.Document) int {
	pruned := 0

	courseIDs := doc.IDs(document.Courses)
	courseCodes := doc.CourseCodes()
	facultyIDs := doc.IDs(document.FacultyMembers)
	libraryIDs := doc.IDs(document.Library)
	objectiveIDs := doc.IDs(document.Objectives)
	outcomeIDs := doc.IDs(document.Outcomes)
	indicatorIDs := doc.IDs(document.Indicators)
	teachingIDs := doc.IDs(document.TeachingMethods)
	assessmentIDs := doc.IDs(document.AssessmentMethods)

	keepList := func(list []string, valid map[string]struct{}) []string {
		out := list[:0]
		for _, id := range list {
			if _, ok := valid[id]; ok {
				out = append(out, id)
			} else {
				pruned++
			}
		}
		return out
	}

	for i := range doc.Courses {
		c := &doc.Courses[i]

		textbooks := c.Textbooks[:0]
		for _, tb := range c.Textbooks {
			if _, ok := libraryIDs[tb.ResourceID]; ok {
				textbooks = append(textbooks, tb)
			} else {
				pruned++
			}
		}
		c.Textbooks = textbooks

		for j := range c.Topics {
			topic := &c.Topics[j]
			readings := topic.ReadingRefs[:0]
			for _, rr := range topic.ReadingRefs {
				if _, ok := libraryIDs[rr.ResourceID]; ok {
					readings = append(readings, rr)
				} else {
					pruned++
				}
			}
			topic.ReadingRefs = readings
		}

		c.InstructorIDs = keepList(c.InstructorIDs, facultyIDs)
		for fid := range c.InstructorDetails {
			if _, ok := facultyIDs[fid]; !ok {
				delete(c.InstructorDetails, fid)
				pruned++
			}
		}

		c.Prerequisites = keepList(c.Prerequisites, courseCodes)
		c.CoRequisites = keepList(c.CoRequisites, courseCodes)

		for j := range c.CLOMap {
			cm := &c.CLOMap[j]
			cm.OutcomeIDs = keepList(cm.OutcomeIDs, outcomeIDs)
			cm.IndicatorIDs = keepList(cm.IndicatorIDs, indicatorIDs)
			cm.TeachingMethodIDs = keepList(cm.TeachingMethodIDs, teachingIDs)
			cm.AssessmentMethodIDs = keepList(cm.AssessmentMethodIDs, assessmentIDs)
		}
	}

	st := &doc.Program.Structure
	st.Gen = keepList(st.Gen, courseIDs)
	st.Fund = keepList(st.Fund, courseIDs)
	st.Spec = keepList(st.Spec, courseIDs)
	st.Grad = keepList(st.Grad, courseIDs)
	for i := range doc.Program.SubBlocks {
		doc.Program.SubBlocks[i].CourseIDs = keepList(doc.Program.SubBlocks[i].CourseIDs, courseIDs)
	}

	outcomeRows := doc.CourseOutcomeMap[:0]
	for _, row := range doc.CourseOutcomeMap {
		_, courseOK := courseIDs[row.CourseID]
		_, outcomeOK := outcomeIDs[row.OutcomeID]
		if courseOK && outcomeOK {
			outcomeRows = append(outcomeRows, row)
		} else {
			pruned++
		}
	}
	doc.CourseOutcomeMap = outcomeRows

	indicatorRows := doc.CourseIndicatorMap[:0]
	for _, row := range doc.CourseIndicatorMap {
		_, courseOK := courseIDs[row.CourseID]
		_, indicatorOK := indicatorIDs[row.IndicatorID]
		if courseOK && indicatorOK {
			indicatorRows = append(indicatorRows, row)
		} else {
			pruned++
		}
	}
	doc.CourseIndicatorMap = indicatorRows

	objectiveRows := doc.CourseObjectiveMap[:0]
	for _, row := range doc.CourseObjectiveMap {
		_, courseOK := courseIDs[row.CourseID]
		_, objectiveOK := objectiveIDs[row.ObjectiveID]
		if courseOK && objectiveOK {
			objectiveRows = append(objectiveRows, row)
		} else {
			pruned++
		}
	}
	doc.CourseObjectiveMap = objectiveRows

	ooRows := doc.ObjectiveOutcomeMap[:0]
	for _, row := range doc.ObjectiveOutcomeMap {
		_, objectiveOK := objectiveIDs[row.ObjectiveID]
		_, outcomeOK := outcomeIDs[row.OutcomeID]
		if objectiveOK && outcomeOK {
			ooRows = append(ooRows, row)
		} else {
			pruned++
		}
	}
	doc.ObjectiveOutcomeMap = ooRows

	pairs := doc.Program.CourseObjectivePairs[:0]
	for _, pair := range doc.Program.CourseObjectivePairs {
		parts := strings.SplitN(pair, CompoundSep, 2)
		if len(parts) != 2 {
			pruned++
			continue
		}
		_, courseOK := courseIDs[parts[0]]
		_, objectiveOK := objectiveIDs[parts[1]]
		if courseOK && objectiveOK {
			pairs = append(pairs, pair)
		} else {
			pruned++
		}
	}
	doc.Program.CourseObjectivePairs = pairs

	if pruned > 0 {
		log.Info().Int("entries", pruned).Msg("pruned dangling references")
	}
	return pruned
}
