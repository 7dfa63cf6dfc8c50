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
	"sort"
	"strings"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/rs/zerolog/log"
)

// Mapping sends retired identifiers to their replacements. A merge maps
// many ids to one survivor; a canonicalization maps each id to its new
// canonical form.
type Mapping map[string]string

// OldIDs builds the retired-id set from a mapping's domain.
func (m Mapping) OldIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for old := range m {
		out[old] = struct{}{}
	}
	return out
}

// Rewrite applies mapping to every reference site targeting the given
// collection. oldIDs is the set of identifiers being retired: an id in
// oldIDs with no mapping entry means its record was deleted outright, so
// scalar sites are cleared and compound/row entries dropped. List sites map
// every element through the mapping and deduplicate, preserving
// first-occurrence order.
//
// The document is mutated in place; callers hand in a clone and publish it
// whole, so no partial rewrite is ever observable.
func Rewrite(doc *document.Document, target document.Collection, mapping Mapping, oldIDs map[string]struct{}) {
	switch target {
	case document.Library:
		rewriteLibraryRefs(doc, mapping)
	case document.FacultyMembers:
		rewriteFacultyRefs(doc, mapping, oldIDs)
	case document.Courses:
		rewriteCourseRefs(doc, mapping, oldIDs)
	case document.Objectives:
		rewriteObjectiveRefs(doc, mapping, oldIDs)
	case document.Outcomes:
		rewriteOutcomeRefs(doc, mapping, oldIDs)
	case document.Indicators:
		rewriteIndicatorRefs(doc, mapping, oldIDs)
	case document.KnowledgeAreas:
		rewriteKnowledgeAreaRefs(doc, mapping, oldIDs)
	case document.TeachingMethods:
		rewriteTeachingMethodRefs(doc, mapping, oldIDs)
	case document.AssessmentMethods:
		rewriteAssessmentMethodRefs(doc, mapping, oldIDs)
	}
	log.Debug().
		Str("target", string(target)).
		Int("mapped", len(mapping)).
		Int("retired", len(oldIDs)).
		Msg("reference rewrite applied")
}

// RewriteCourseCodes remaps the code-keyed sites (prerequisite and
// co-requisite lists). Codes are a separate identifier space from course
// ids, so these sites are only touched when a code actually changes.
func RewriteCourseCodes(doc *document.Document, codeMapping Mapping) {
	for i := range doc.Courses {
		c := &doc.Courses[i]
		c.Prerequisites = mapList(c.Prerequisites, codeMapping)
		c.CoRequisites = mapList(c.CoRequisites, codeMapping)
	}
}

func mapID(id string, mapping Mapping) string {
	if mapped, ok := mapping[id]; ok {
		return mapped
	}
	return id
}

// deleted reports whether id was retired without a replacement.
func deleted(id string, mapping Mapping, oldIDs map[string]struct{}) bool {
	if _, retired := oldIDs[id]; !retired {
		return false
	}
	_, mapped := mapping[id]
	return !mapped
}

// mapList maps every element and deduplicates, keeping first occurrence.
func mapList(list []string, mapping Mapping) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, id := range list {
		id = mapID(id, mapping)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func rewriteLibraryRefs(doc *document.Document, mapping Mapping) {
	for i := range doc.Courses {
		c := &doc.Courses[i]

		textbooks := make([]document.Textbook, 0, len(c.Textbooks))
		seen := make(map[string]struct{}, len(c.Textbooks))
		for _, tb := range c.Textbooks {
			tb.ResourceID = mapID(tb.ResourceID, mapping)
			if _, dup := seen[tb.ResourceID]; dup {
				continue
			}
			seen[tb.ResourceID] = struct{}{}
			textbooks = append(textbooks, tb)
		}
		c.Textbooks = textbooks

		for j := range c.Topics {
			topic := &c.Topics[j]
			readings := make([]document.TopicReading, 0, len(topic.ReadingRefs))
			seenRefs := make(map[string]struct{}, len(topic.ReadingRefs))
			for _, rr := range topic.ReadingRefs {
				rr.ResourceID = mapID(rr.ResourceID, mapping)
				if _, dup := seenRefs[rr.ResourceID]; dup {
					continue
				}
				seenRefs[rr.ResourceID] = struct{}{}
				readings = append(readings, rr)
			}
			topic.ReadingRefs = readings
		}
	}
}

func rewriteFacultyRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	for i := range doc.Courses {
		c := &doc.Courses[i]

		ids := make([]string, 0, len(c.InstructorIDs))
		seen := make(map[string]struct{}, len(c.InstructorIDs))
		for _, fid := range c.InstructorIDs {
			if deleted(fid, mapping, oldIDs) {
				continue
			}
			fid = mapID(fid, mapping)
			if _, dup := seen[fid]; dup {
				continue
			}
			seen[fid] = struct{}{}
			ids = append(ids, fid)
		}
		c.InstructorIDs = ids

		if len(c.InstructorDetails) == 0 {
			continue
		}
		// Keys are visited in sorted order so that two old keys mapping to
		// the same survivor collapse deterministically.
		keys := make([]string, 0, len(c.InstructorDetails))
		for k := range c.InstructorDetails {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		details := make(map[string]document.InstructorDetail, len(keys))
		for _, k := range keys {
			if deleted(k, mapping, oldIDs) {
				continue
			}
			newKey := mapID(k, mapping)
			if _, exists := details[newKey]; exists {
				continue
			}
			details[newKey] = c.InstructorDetails[k]
		}
		c.InstructorDetails = details
	}
}

func rewriteCourseRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	st := &doc.Program.Structure
	st.Gen = mapList(st.Gen, mapping)
	st.Fund = mapList(st.Fund, mapping)
	st.Spec = mapList(st.Spec, mapping)
	st.Grad = mapList(st.Grad, mapping)
	for i := range doc.Program.SubBlocks {
		doc.Program.SubBlocks[i].CourseIDs = mapList(doc.Program.SubBlocks[i].CourseIDs, mapping)
	}

	outcomeRows := make([]document.CourseOutcomeRow, 0, len(doc.CourseOutcomeMap))
	seenOutcome := make(map[document.CourseOutcomeRow]struct{}, len(doc.CourseOutcomeMap))
	for _, row := range doc.CourseOutcomeMap {
		if deleted(row.CourseID, mapping, oldIDs) {
			continue
		}
		row.CourseID = mapID(row.CourseID, mapping)
		if _, dup := seenOutcome[row]; dup {
			continue
		}
		seenOutcome[row] = struct{}{}
		outcomeRows = append(outcomeRows, row)
	}
	doc.CourseOutcomeMap = outcomeRows

	indicatorRows := make([]document.CourseIndicatorRow, 0, len(doc.CourseIndicatorMap))
	seenIndicator := make(map[document.CourseIndicatorRow]struct{}, len(doc.CourseIndicatorMap))
	for _, row := range doc.CourseIndicatorMap {
		if deleted(row.CourseID, mapping, oldIDs) {
			continue
		}
		row.CourseID = mapID(row.CourseID, mapping)
		if _, dup := seenIndicator[row]; dup {
			continue
		}
		seenIndicator[row] = struct{}{}
		indicatorRows = append(indicatorRows, row)
	}
	doc.CourseIndicatorMap = indicatorRows

	objectiveRows := make([]document.CourseObjectiveRow, 0, len(doc.CourseObjectiveMap))
	seenObjective := make(map[document.CourseObjectiveRow]struct{}, len(doc.CourseObjectiveMap))
	for _, row := range doc.CourseObjectiveMap {
		if deleted(row.CourseID, mapping, oldIDs) {
			continue
		}
		row.CourseID = mapID(row.CourseID, mapping)
		if _, dup := seenObjective[row]; dup {
			continue
		}
		seenObjective[row] = struct{}{}
		objectiveRows = append(objectiveRows, row)
	}
	doc.CourseObjectiveMap = objectiveRows

	doc.Program.CourseObjectivePairs = rewriteCompound(
		doc.Program.CourseObjectivePairs, mapping, oldIDs, 0,
	)
}

func rewriteObjectiveRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	rows := make([]document.CourseObjectiveRow, 0, len(doc.CourseObjectiveMap))
	seen := make(map[document.CourseObjectiveRow]struct{}, len(doc.CourseObjectiveMap))
	for _, row := range doc.CourseObjectiveMap {
		if deleted(row.ObjectiveID, mapping, oldIDs) {
			continue
		}
		row.ObjectiveID = mapID(row.ObjectiveID, mapping)
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	doc.CourseObjectiveMap = rows

	ooRows := make([]document.ObjectiveOutcomeRow, 0, len(doc.ObjectiveOutcomeMap))
	seenOO := make(map[document.ObjectiveOutcomeRow]struct{}, len(doc.ObjectiveOutcomeMap))
	for _, row := range doc.ObjectiveOutcomeMap {
		if deleted(row.ObjectiveID, mapping, oldIDs) {
			continue
		}
		row.ObjectiveID = mapID(row.ObjectiveID, mapping)
		if _, dup := seenOO[row]; dup {
			continue
		}
		seenOO[row] = struct{}{}
		ooRows = append(ooRows, row)
	}
	doc.ObjectiveOutcomeMap = ooRows

	doc.Program.CourseObjectivePairs = rewriteCompound(
		doc.Program.CourseObjectivePairs, mapping, oldIDs, 1,
	)
}

func rewriteOutcomeRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	rows := make([]document.CourseOutcomeRow, 0, len(doc.CourseOutcomeMap))
	seen := make(map[document.CourseOutcomeRow]struct{}, len(doc.CourseOutcomeMap))
	for _, row := range doc.CourseOutcomeMap {
		if deleted(row.OutcomeID, mapping, oldIDs) {
			continue
		}
		row.OutcomeID = mapID(row.OutcomeID, mapping)
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	doc.CourseOutcomeMap = rows

	ooRows := make([]document.ObjectiveOutcomeRow, 0, len(doc.ObjectiveOutcomeMap))
	seenOO := make(map[document.ObjectiveOutcomeRow]struct{}, len(doc.ObjectiveOutcomeMap))
	for _, row := range doc.ObjectiveOutcomeMap {
		if deleted(row.OutcomeID, mapping, oldIDs) {
			continue
		}
		row.OutcomeID = mapID(row.OutcomeID, mapping)
		if _, dup := seenOO[row]; dup {
			continue
		}
		seenOO[row] = struct{}{}
		ooRows = append(ooRows, row)
	}
	doc.ObjectiveOutcomeMap = ooRows

	for i := range doc.Courses {
		for j := range doc.Courses[i].CLOMap {
			cm := &doc.Courses[i].CLOMap[j]
			cm.OutcomeIDs = mapList(cm.OutcomeIDs, mapping)
		}
	}
}

func rewriteIndicatorRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	rows := make([]document.CourseIndicatorRow, 0, len(doc.CourseIndicatorMap))
	seen := make(map[document.CourseIndicatorRow]struct{}, len(doc.CourseIndicatorMap))
	for _, row := range doc.CourseIndicatorMap {
		if deleted(row.IndicatorID, mapping, oldIDs) {
			continue
		}
		row.IndicatorID = mapID(row.IndicatorID, mapping)
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	doc.CourseIndicatorMap = rows

	for i := range doc.Courses {
		for j := range doc.Courses[i].CLOMap {
			cm := &doc.Courses[i].CLOMap[j]
			cm.IndicatorIDs = mapList(cm.IndicatorIDs, mapping)
		}
	}
}

func rewriteKnowledgeAreaRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	for i := range doc.Courses {
		c := &doc.Courses[i]
		if deleted(c.KnowledgeAreaID, mapping, oldIDs) {
			c.KnowledgeAreaID = ""
			continue
		}
		c.KnowledgeAreaID = mapID(c.KnowledgeAreaID, mapping)
	}
}

func rewriteTeachingMethodRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	for i := range doc.Courses {
		c := &doc.Courses[i]
		for j := range c.Topics {
			for k := range c.Topics[j].Activities {
				a := &c.Topics[j].Activities[k]
				if deleted(a.MethodID, mapping, oldIDs) {
					a.MethodID = ""
					continue
				}
				a.MethodID = mapID(a.MethodID, mapping)
			}
		}
		for j := range c.CLOMap {
			c.CLOMap[j].TeachingMethodIDs = mapList(c.CLOMap[j].TeachingMethodIDs, mapping)
		}
	}
}

func rewriteAssessmentMethodRefs(doc *document.Document, mapping Mapping, oldIDs map[string]struct{}) {
	for i := range doc.Courses {
		c := &doc.Courses[i]
		for j := range c.AssessmentPlan {
			item := &c.AssessmentPlan[j]
			if deleted(item.MethodID, mapping, oldIDs) {
				item.MethodID = ""
				continue
			}
			item.MethodID = mapID(item.MethodID, mapping)
		}
		for j := range c.CLOMap {
			c.CLOMap[j].AssessmentMethodIDs = mapList(c.CLOMap[j].AssessmentMethodIDs, mapping)
		}
	}
}

// rewriteCompound maps one component (0 or 1) of every "<a>|<b>" key, drops
// entries whose component was deleted without a mapping, and deduplicates
// the resulting key set.
func rewriteCompound(pairs []string, mapping Mapping, oldIDs map[string]struct{}, component int) []string {
	out := make([]string, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, CompoundSep, 2)
		if len(parts) != 2 {
			// Malformed marker, nothing to resolve against. Dropped.
			continue
		}
		if deleted(parts[component], mapping, oldIDs) {
			continue
		}
		parts[component] = mapID(parts[component], mapping)
		key := parts[0] + CompoundSep + parts[1]
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
