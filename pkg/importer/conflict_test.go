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
	"testing"
	"time"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImporter() *Importer {
	return New(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))
}

func importFixture() *document.Document {
	return &document.Document{
		Courses: []document.Course{
			{
				ID:              "C1",
				Code:            "EE200",
				Name:            document.LocalizedText{En: "Circuit Analysis"},
				Credits:         3,
				Semester:        2,
				Type:            document.CourseRequired,
				IsEssential:     true,
				IsAbet:          true,
				KnowledgeAreaID: "ka1",
				Prerequisites:   []string{"EE100"},
				Description:     document.LocalizedText{En: "old description"},
			},
		},
		Faculty: []document.Faculty{
			{
				ID:    "F1",
				Name:  document.LocalizedText{En: "Jane Smith"},
				Email: "jane@uni.edu",
			},
		},
	}
}

func TestImportCourse_NoConflictCreates(t *testing.T) {
	im := testImporter()
	doc := importFixture()

	incoming := document.Course{
		Code: "EE300",
		Name: document.LocalizedText{En: "Electromagnetics"},
	}
	next, result, err := im.ImportCourse(doc, incoming, ResolutionNone)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, result.Action)
	assert.Nil(t, result.Conflict)
	require.Len(t, next.Courses, 2)
	assert.NotEmpty(t, result.ID)
	assert.Len(t, doc.Courses, 1, "input document stays untouched")
}

func TestImportCourse_ConflictDetection(t *testing.T) {
	im := testImporter()
	doc := importFixture()

	tests := []struct {
		name     string
		incoming document.Course
		reason   MatchReason
	}{
		{
			name:     "matches by id",
			incoming: document.Course{ID: "C1", Code: "EE201"},
			reason:   MatchByID,
		},
		{
			name: "matches by normalized name",
			incoming: document.Course{
				Code: "EE999",
				Name: document.LocalizedText{En: "  CIRCUIT analysis!  "},
			},
			reason: MatchByName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result, err := im.ImportCourse(doc, tt.incoming, ResolutionNone)
			require.ErrorIs(t, err, ErrUnresolvedConflict)
			require.NotNil(t, result.Conflict)
			assert.Equal(t, tt.reason, result.Conflict.Reason)
			assert.Equal(t, "C1", result.Conflict.ExistingID)
		})
	}
}

func TestImportCourse_OverwritePreservesCatalogFields(t *testing.T) {
	im := testImporter()
	doc := importFixture()

	incoming := document.Course{
		ID:          "C1",
		Code:        "EE201",
		Name:        document.LocalizedText{En: "Circuits II"},
		Credits:     4,
		Semester:    5,
		Type:        document.CourseElective,
		Description: document.LocalizedText{En: "new description"},
		Topics: []document.CourseTopic{
			{ID: "t1", Topic: document.LocalizedText{En: "Phasors"}},
		},
	}

	next, result, err := im.ImportCourse(doc, incoming, ResolutionOverwrite)
	require.NoError(t, err)
	assert.Equal(t, ActionOverwritten, result.Action)

	got := next.FindCourse("C1")
	require.NotNil(t, got)

	// Catalog identity survives the overwrite.
	assert.Equal(t, "EE200", got.Code)
	assert.InDelta(t, 3.0, got.Credits, 0)
	assert.Equal(t, 2, got.Semester)
	assert.Equal(t, document.CourseRequired, got.Type)
	assert.Equal(t, []string{"EE100"}, got.Prerequisites)
	assert.True(t, got.IsEssential)
	assert.True(t, got.IsAbet)
	assert.Equal(t, "ka1", got.KnowledgeAreaID)
	assert.Equal(t, "Circuit Analysis", got.Name.En)

	// Syllabus content comes from the incoming record.
	assert.Equal(t, "new description", got.Description.En)
	require.Len(t, got.Topics, 1)
	assert.Equal(t, "Phasors", got.Topics[0].Topic.En)
}

func TestImportCourse_CreateNewMintsDistinctIDs(t *testing.T) {
	im := testImporter()
	doc := importFixture()

	incoming := document.Course{
		ID:   "C1",
		Code: "EE201",
		Name: document.LocalizedText{En: "Circuit Analysis"},
	}

	next, first, err := im.ImportCourse(doc, incoming, ResolutionCreateNew)
	require.NoError(t, err)
	next, second, err := im.ImportCourse(next, incoming, ResolutionCreateNew)
	require.NoError(t, err)

	assert.NotEqual(t, "C1", first.ID)
	assert.NotEqual(t, "C1", second.ID)
	assert.NotEqual(t, first.ID, second.ID, "repeated create-new must mint fresh ids")

	// The matched original is untouched.
	original := next.FindCourse("C1")
	require.NotNil(t, original)
	assert.Equal(t, "EE200", original.Code)
	assert.Len(t, next.Courses, 3)
}

func TestImportCourse_RejectsInvalidRecord(t *testing.T) {
	im := testImporter()
	_, _, err := im.ImportCourse(importFixture(), document.Course{Name: document.LocalizedText{En: "No Code"}}, ResolutionNone)
	require.Error(t, err, "a course without a catalog code is not importable")
}

func TestImportFaculty_OverwriteKeepsOnlyID(t *testing.T) {
	im := testImporter()
	doc := importFixture()

	incoming := document.Faculty{
		Name:  document.LocalizedText{En: "Jane Smith"},
		Email: "jane.smith@other.edu",
		Rank:  document.LocalizedText{En: "Associate Professor"},
	}

	next, result, err := im.ImportFaculty(doc, incoming, ResolutionOverwrite)
	require.NoError(t, err)
	assert.Equal(t, ActionOverwritten, result.Action)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, MatchByName, result.Conflict.Reason)

	got := next.FindFaculty("F1")
	require.NotNil(t, got)
	assert.Equal(t, "F1", got.ID, "id is the only preserved field")
	assert.Equal(t, "jane.smith@other.edu", got.Email)
	assert.Equal(t, "Associate Professor", got.Rank.En)
}

func TestImportFaculty_RejectsBadEmail(t *testing.T) {
	im := testImporter()
	incoming := document.Faculty{
		Name:  document.LocalizedText{En: "Bad Email"},
		Email: "not-an-address",
	}
	_, _, err := im.ImportFaculty(importFixture(), incoming, ResolutionNone)
	require.Error(t, err, "a malformed address is rejected even though email is optional")
}

func TestImportFaculty_EmailIsOptional(t *testing.T) {
	im := testImporter()
	incoming := document.Faculty{
		Name: document.LocalizedText{Vi: "Trần Văn An"},
	}
	next, result, err := im.ImportFaculty(importFixture(), incoming, ResolutionNone)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, result.Action)
	assert.Len(t, next.Faculty, 2)
}

func TestImportFaculty_RequiresName(t *testing.T) {
	im := testImporter()
	incoming := document.Faculty{Email: "anon@uni.edu"}
	_, _, err := im.ImportFaculty(importFixture(), incoming, ResolutionNone)
	require.Error(t, err, "the name is the natural key and cannot be empty")
}
