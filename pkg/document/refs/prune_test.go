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
	"testing"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneDangling(t *testing.T) {
	doc := &document.Document{
		Library: []document.LibraryResource{{ID: "r1", Title: "Kept"}},
		Faculty: []document.Faculty{{ID: "f1", Email: "f1@uni.edu"}},
		Courses: []document.Course{
			{
				ID:   "c1",
				Code: "CS101",
				Textbooks: []document.Textbook{
					{ResourceID: "r1"},
					{ResourceID: "r-gone"},
				},
				Topics: []document.CourseTopic{
					{ID: "t1", ReadingRefs: []document.TopicReading{{ResourceID: "r-gone"}}},
				},
				InstructorIDs: []string{"f1", "f-gone"},
				InstructorDetails: map[string]document.InstructorDetail{
					"f1":     {ClassInfo: "kept"},
					"f-gone": {ClassInfo: "dropped"},
				},
				Prerequisites: []string{"CS100"},
				CoRequisites:  []string{"CS101"},
			},
			{ID: "c2", Code: "CS100"},
		},
		CourseOutcomeMap: []document.CourseOutcomeRow{
			{CourseID: "c1", OutcomeID: "so-gone"},
		},
		Program: document.ProgramInfo{
			Structure: document.ProgramStructure{
				Gen: []string{"c1", "c-gone"},
			},
			SubBlocks: []document.SubBlock{
				{ID: "sb1", CourseIDs: []string{"c2", "c-gone"}},
			},
			CourseObjectivePairs: []string{"c1|p-gone", "broken"},
		},
	}

	pruned := PruneDangling(doc)

	c1 := doc.FindCourse("c1")
	require.NotNil(t, c1)
	assert.Equal(t, []document.Textbook{{ResourceID: "r1"}}, c1.Textbooks)
	assert.Empty(t, c1.Topics[0].ReadingRefs)
	assert.Equal(t, []string{"f1"}, c1.InstructorIDs)
	assert.NotContains(t, c1.InstructorDetails, "f-gone")
	assert.Equal(t, []string{"CS100"}, c1.Prerequisites, "prerequisites resolve by catalog code")
	assert.Equal(t, []string{"CS101"}, c1.CoRequisites, "a course's own code is a valid target")

	assert.Empty(t, doc.CourseOutcomeMap)
	assert.Equal(t, []string{"c1"}, doc.Program.Structure.Gen)
	assert.Equal(t, []string{"c2"}, doc.Program.SubBlocks[0].CourseIDs)
	assert.Empty(t, doc.Program.CourseObjectivePairs)

	// r-gone x2, f-gone x2, so-gone row, c-gone x2, pair, malformed pair.
	assert.Equal(t, 9, pruned)
}

func TestPruneDangling_CleanDocument(t *testing.T) {
	doc := &document.Document{
		Library: []document.LibraryResource{{ID: "r1", Title: "Kept"}},
		Courses: []document.Course{
			{ID: "c1", Code: "CS101", Textbooks: []document.Textbook{{ResourceID: "r1"}}},
		},
	}

	assert.Zero(t, PruneDangling(doc), "a consistent document must come back untouched")
	assert.Len(t, doc.Courses[0].Textbooks, 1)
}
