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

package canonical

import (
	"testing"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeSlug(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			name:     "plain code passes through uppercased",
			code:     "cs101",
			expected: "CS101",
		},
		{
			name:     "spaces become dashes",
			code:     "CS 101",
			expected: "CS-101",
		},
		{
			name:     "stray characters drop",
			code:     "CS_101 (new)",
			expected: "CS101-NEW",
		},
		{
			name:     "too short falls back",
			code:     "x",
			expected: "",
		},
		{
			name:     "empty falls back",
			code:     "  ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, codeSlug(tt.code))
		})
	}
}

func TestNameSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short name compacts",
			input:    "Jane Smith",
			expected: "janesmith",
		},
		{
			name:     "long name truncates to ten",
			input:    "Christopher Featherstonehaugh",
			expected: "christophe",
		},
		{
			name:     "diacritics strip",
			input:    "Trần Văn An",
			expected: "tranvanan",
		},
		{
			name:     "empty name gets a placeholder",
			input:    "",
			expected: "member",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nameSlug(tt.input))
		})
	}
}

func canonicalFixture() *document.Document {
	return &document.Document{
		Faculty: []document.Faculty{
			{ID: "legacy-f-1", Name: document.LocalizedText{En: "Jane Smith"}, Email: "jane@uni.edu"},
			{ID: "legacy-f-2", Name: document.LocalizedText{En: "Jane Smith"}, Email: "j.smith@uni.edu"},
		},
		Courses: []document.Course{
			{ID: "legacy-c-1", Code: "CS 101", InstructorIDs: []string{"legacy-f-1"}},
			{ID: "legacy-c-2", Code: "CS 101"},
			{ID: "legacy-c-3", Code: ""},
		},
		Program: document.ProgramInfo{
			Structure: document.ProgramStructure{
				Gen: []string{"legacy-c-1", "legacy-c-2", "orphan"},
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	doc := canonicalFixture()

	next, report, err := Normalize(doc)
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	assert.True(t, report.Changed())

	// Namesake faculty get distinct positional suffixes.
	assert.Equal(t, "fac-janesmith_1", next.Faculty[0].ID)
	assert.Equal(t, "fac-janesmith_2", next.Faculty[1].ID)

	// Same catalog code: the second course gets a collision suffix, the
	// codeless one falls back to a positional id.
	assert.Equal(t, "CS-101", next.Courses[0].ID)
	assert.Equal(t, "CS-101_2", next.Courses[1].ID)
	assert.Equal(t, "CID-3", next.Courses[2].ID)

	// Mappings report every rename.
	assert.Len(t, report.Faculty, 2)
	assert.Len(t, report.Courses, 3)
	assert.Equal(t, "CS-101", report.Courses["legacy-c-1"])

	// Instructor references follow the renamed faculty.
	assert.Equal(t, []string{"fac-janesmith_1"}, next.Courses[0].InstructorIDs)

	// Structure lists follow the renamed courses, and the orphan left over
	// from an earlier edit is swept out.
	assert.Equal(t, []string{"CS-101", "CS-101_2"}, next.Program.Structure.Gen)
	assert.Equal(t, 1, report.Pruned)

	// Input untouched.
	assert.Equal(t, "legacy-f-1", doc.Faculty[0].ID)
	assert.Equal(t, "legacy-c-1", doc.Courses[0].ID)
}

func TestNormalize_CollisionSuffixIsPositional(t *testing.T) {
	doc := &document.Document{
		Courses: []document.Course{
			{ID: "a", Code: "AA10"},
			{ID: "b", Code: "BB20"},
			{ID: "c", Code: "AA10"},
		},
	}

	next, _, err := Normalize(doc)
	require.NoError(t, err)

	assert.Equal(t, "AA10", next.Courses[0].ID)
	assert.Equal(t, "BB20", next.Courses[1].ID)
	// The suffix is the colliding record's position, not a running counter.
	assert.Equal(t, "AA10_3", next.Courses[2].ID)
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := canonicalFixture()

	first, _, err := Normalize(doc)
	require.NoError(t, err)

	second, report, err := Normalize(first)
	require.NoError(t, err)
	assert.False(t, report.Changed(), "second pass must find nothing to do")
	assert.Equal(t, first.Courses, second.Courses)
	assert.Equal(t, first.Faculty, second.Faculty)
}

func TestNormalize_NeverDeletesRecords(t *testing.T) {
	doc := canonicalFixture()

	next, _, err := Normalize(doc)
	require.NoError(t, err)

	assert.Len(t, next.Faculty, len(doc.Faculty))
	assert.Len(t, next.Courses, len(doc.Courses))
}
