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

// NormalizeShape fills in structure the interchange format leaves optional:
// nil slices and maps become empty, and legacy records that predate the
// separate ABET flag inherit it from the essential flag. Runs once on load so
// the engines never have to duck-type at read sites.
func (d *Document) NormalizeShape() {
	if d.Language == "" {
		d.Language = "en"
	}

	for i := range d.Courses {
		c := &d.Courses[i]
		if c.Type == "" {
			c.Type = CourseRequired
		}
		if c.IsEssential && !c.IsAbet {
			// Legacy snapshots had no ABET flag; essential implied it.
			c.IsAbet = true
		}
		if c.Prerequisites == nil {
			c.Prerequisites = []string{}
		}
		if c.CoRequisites == nil {
			c.CoRequisites = []string{}
		}
		if c.Textbooks == nil {
			c.Textbooks = []Textbook{}
		}
		if c.Topics == nil {
			c.Topics = []CourseTopic{}
		}
		if c.AssessmentPlan == nil {
			c.AssessmentPlan = []AssessmentItem{}
		}
		if c.InstructorIDs == nil {
			c.InstructorIDs = []string{}
		}
		if c.InstructorDetails == nil {
			c.InstructorDetails = map[string]InstructorDetail{}
		}
		if c.CLOMap == nil {
			c.CLOMap = []CLOMapping{}
		}
		for j := range c.CLOMap {
			if c.CLOMap[j].IndicatorIDs == nil {
				c.CLOMap[j].IndicatorIDs = []string{}
			}
		}
		if c.CLOs.Vi == nil {
			c.CLOs.Vi = []string{}
		}
		if c.CLOs.En == nil {
			c.CLOs.En = []string{}
		}
	}

	if d.Courses == nil {
		d.Courses = []Course{}
	}
	if d.Faculty == nil {
		d.Faculty = []Faculty{}
	}
	if d.Library == nil {
		d.Library = []LibraryResource{}
	}
	if d.Objectives == nil {
		d.Objectives = []Objective{}
	}
	if d.Outcomes == nil {
		d.Outcomes = []Outcome{}
	}
	if d.KnowledgeAreas == nil {
		d.KnowledgeAreas = []KnowledgeArea{}
	}
	if d.TeachingMethods == nil {
		d.TeachingMethods = []TeachingMethod{}
	}
	if d.AssessmentMethods == nil {
		d.AssessmentMethods = []AssessmentMethod{}
	}
	if d.CourseOutcomeMap == nil {
		d.CourseOutcomeMap = []CourseOutcomeRow{}
	}
	if d.CourseIndicatorMap == nil {
		d.CourseIndicatorMap = []CourseIndicatorRow{}
	}
	if d.CourseObjectiveMap == nil {
		d.CourseObjectiveMap = []CourseObjectiveRow{}
	}
	if d.ObjectiveOutcomeMap == nil {
		d.ObjectiveOutcomeMap = []ObjectiveOutcomeRow{}
	}
	if d.Program.Structure.Gen == nil {
		d.Program.Structure.Gen = []string{}
	}
	if d.Program.Structure.Fund == nil {
		d.Program.Structure.Fund = []string{}
	}
	if d.Program.Structure.Spec == nil {
		d.Program.Structure.Spec = []string{}
	}
	if d.Program.Structure.Grad == nil {
		d.Program.Structure.Grad = []string{}
	}
	if d.Program.SubBlocks == nil {
		d.Program.SubBlocks = []SubBlock{}
	}
	for i := range d.Program.SubBlocks {
		if d.Program.SubBlocks[i].CourseIDs == nil {
			d.Program.SubBlocks[i].CourseIDs = []string{}
		}
	}
	if d.Program.CourseObjectivePairs == nil {
		d.Program.CourseObjectivePairs = []string{}
	}
}
