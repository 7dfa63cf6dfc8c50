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

package dedupe

import (
	"context"
	"testing"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergeFixture() *document.Document {
	return &document.Document{
		Library: []document.LibraryResource{
			{ID: "r1", Title: "Intro to Algorithms", Author: "Cormen"},
			{ID: "r2", Title: "Intro to Algorithms, 3rd Ed.", Author: "Cormen"},
			{ID: "r3", Title: "Database Systems", Author: "Silberschatz"},
		},
		Courses: []document.Course{
			{
				ID:   "c1",
				Code: "CS101",
				Textbooks: []document.Textbook{
					{ResourceID: "r1", Title: "Intro to Algorithms"},
					{ResourceID: "r2", Title: "Intro to Algorithms, 3rd Ed."},
				},
				Topics: []document.CourseTopic{
					{ID: "t1", ReadingRefs: []document.TopicReading{{ResourceID: "r2", PageRange: "1-30"}}},
				},
			},
			{
				ID:        "c2",
				Code:      "CS201",
				Textbooks: []document.Textbook{{ResourceID: "r3"}},
			},
		},
	}
}

func TestMerge_LibraryCluster(t *testing.T) {
	doc := mergeFixture()

	next, report, err := Merge(doc, document.Library, []string{"r1", "r2"}, "r1")
	require.NoError(t, err)
	require.Equal(t, "r1", report.Survivor)
	require.Equal(t, []string{"r2"}, report.Removed)

	// Removed resource is gone, survivor and bystander remain.
	assert.Nil(t, next.FindResource("r2"))
	assert.NotNil(t, next.FindResource("r1"))
	assert.NotNil(t, next.FindResource("r3"))

	// Both textbook rows pointed into the cluster; the rewritten list holds
	// the survivor exactly once.
	c1 := next.FindCourse("c1")
	require.NotNil(t, c1)
	require.Len(t, c1.Textbooks, 1)
	assert.Equal(t, "r1", c1.Textbooks[0].ResourceID)

	// Topic reading refs are redirected too.
	require.Len(t, c1.Topics[0].ReadingRefs, 1)
	assert.Equal(t, "r1", c1.Topics[0].ReadingRefs[0].ResourceID)

	// The input document is untouched.
	assert.NotNil(t, doc.FindResource("r2"))
	assert.Len(t, doc.Courses[0].Textbooks, 2)
}

func TestMerge_SizeOneIsNoOp(t *testing.T) {
	doc := mergeFixture()

	next, report, err := Merge(doc, document.Library, []string{"r1"}, "r1")
	require.NoError(t, err)
	assert.Empty(t, report.Removed)
	assert.Same(t, doc, next, "size-one merge should not clone")
}

func TestMerge_Errors(t *testing.T) {
	tests := []struct {
		name       string
		collection document.Collection
		cluster    []string
		survivor   string
		expected   error
	}{
		{
			name:       "survivor outside cluster",
			collection: document.Library,
			cluster:    []string{"r1", "r2"},
			survivor:   "r3",
			expected:   ErrSurvivorNotInCluster,
		},
		{
			name:       "unknown cluster member",
			collection: document.Library,
			cluster:    []string{"r1", "missing"},
			survivor:   "r1",
			expected:   ErrUnknownClusterMember,
		},
		{
			name:       "unsupported collection",
			collection: document.Outcomes,
			cluster:    []string{"r1"},
			survivor:   "r1",
			expected:   ErrUnsupportedCollection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Merge(mergeFixture(), tt.collection, tt.cluster, tt.survivor)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

// A merged-away id must never show up as a duplicate of its survivor again.
func TestMerge_RescanAfterMerge(t *testing.T) {
	doc := mergeFixture()

	next, _, err := Merge(doc, document.Library, []string{"r1", "r2"}, "r1")
	require.NoError(t, err)

	report, err := ScanLibrary(context.Background(), next, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, report.Clusters)
}

func TestMerge_CourseClusterRemapsRequisiteCodes(t *testing.T) {
	doc := &document.Document{
		Courses: []document.Course{
			{ID: "c1", Code: "CS101", Name: document.LocalizedText{En: "Programming"}},
			{ID: "c2", Code: "CS102", Name: document.LocalizedText{En: "Programming (old)"}},
			{
				ID:            "c3",
				Code:          "CS301",
				Prerequisites: []string{"CS101", "CS102"},
				CoRequisites:  []string{"CS102"},
			},
		},
	}

	next, _, err := Merge(doc, document.Courses, []string{"c1", "c2"}, "c1")
	require.NoError(t, err)
	assert.Nil(t, next.FindCourse("c2"))

	// CS102 left the catalog with c2; requisite sites follow the survivor's
	// code, and a list that already named it collapses to one entry.
	c3 := next.FindCourse("c3")
	require.NotNil(t, c3)
	assert.Equal(t, []string{"CS101"}, c3.Prerequisites)
	assert.Equal(t, []string{"CS101"}, c3.CoRequisites)

	// Every requisite code in the merged document resolves.
	codes := next.CourseCodes()
	for i := range next.Courses {
		for _, code := range next.Courses[i].Prerequisites {
			assert.Contains(t, codes, code)
		}
		for _, code := range next.Courses[i].CoRequisites {
			assert.Contains(t, codes, code)
		}
	}
}

func TestMerge_FacultyCluster(t *testing.T) {
	doc := &document.Document{
		Faculty: []document.Faculty{
			{ID: "f1", Name: document.LocalizedText{En: "Jane Smith"}, Email: "jane@uni.edu"},
			{ID: "f2", Name: document.LocalizedText{En: "Jane Smith"}, Email: "jsmith@uni.edu"},
		},
		Courses: []document.Course{
			{
				ID:            "c1",
				Code:          "CS101",
				InstructorIDs: []string{"f1", "f2"},
				InstructorDetails: map[string]document.InstructorDetail{
					"f1": {ClassInfo: "Mon 9-11", IsMain: true},
					"f2": {ClassInfo: "Wed 9-11"},
				},
			},
		},
	}

	next, _, err := Merge(doc, document.FacultyMembers, []string{"f1", "f2"}, "f1")
	require.NoError(t, err)

	assert.Nil(t, next.FindFaculty("f2"))
	c1 := next.FindCourse("c1")
	require.NotNil(t, c1)
	assert.Equal(t, []string{"f1"}, c1.InstructorIDs)
	require.Len(t, c1.InstructorDetails, 1)
	// The lower key's detail wins when two keys collapse onto one survivor.
	assert.Equal(t, "Mon 9-11", c1.InstructorDetails["f1"].ClassInfo)
}
