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

// Package document defines the academic-program snapshot: every record
// collection, the cross-reference fields between them, and the store that
// loads and saves the whole snapshot as one JSON file.
package document

// LocalizedText is a bilingual text value keyed by language.
type LocalizedText struct {
	Vi string `json:"vi"`
	En string `json:"en"`
}

// Any reports whether either language holds a non-empty value.
func (t LocalizedText) Any() string {
	if t.Vi != "" {
		return t.Vi
	}
	return t.En
}

// CourseType is one of the three catalog course types.
type CourseType string

const (
	CourseRequired         CourseType = "REQUIRED"
	CourseSelectedElective CourseType = "SELECTED_ELECTIVE"
	CourseElective         CourseType = "ELECTIVE"
)

// ValidCourseType reports whether s is one of the three known type tokens.
// Also used to probe CSV layouts on catalog import.
func ValidCourseType(s string) bool {
	switch CourseType(s) {
	case CourseRequired, CourseSelectedElective, CourseElective:
		return true
	default:
		return false
	}
}

// Textbook is a course's link to a library resource, with a display copy of
// the resource's bibliographic fields.
type Textbook struct {
	ResourceID string `json:"resourceId"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	Year       string `json:"year"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
}

// TopicActivity is an hours allocation against a teaching method.
type TopicActivity struct {
	MethodID string  `json:"methodId"`
	Hours    float64 `json:"hours"`
}

// TopicReading is a page-range reference into a library resource.
type TopicReading struct {
	ResourceID string `json:"resourceId"`
	PageRange  string `json:"pageRange"`
}

// CourseTopic is one row of a course's topic schedule.
type CourseTopic struct {
	ID          string          `json:"id"`
	No          string          `json:"no"`
	Topic       LocalizedText   `json:"topic"`
	Activities  []TopicActivity `json:"activities"`
	ReadingRefs []TopicReading  `json:"readingRefs"`
}

// AssessmentItem is one row of a course's assessment plan.
type AssessmentItem struct {
	ID         string        `json:"id"`
	MethodID   string        `json:"methodId"`
	Type       LocalizedText `json:"type"`
	Percentile float64       `json:"percentile"`
}

// InstructorDetail is per-instructor class assignment info on a course.
type InstructorDetail struct {
	ClassInfo string `json:"classInfo"`
	IsMain    bool   `json:"isMain,omitempty"`
}

// CLOSet holds course learning outcomes per language.
type CLOSet struct {
	Vi []string `json:"vi"`
	En []string `json:"en"`
}

// CLOMapping links one CLO index to topics, methods and outcomes.
type CLOMapping struct {
	CLOIndex            int      `json:"cloIndex"`
	TopicIDs            []string `json:"topicIds"`
	TeachingMethodIDs   []string `json:"teachingMethodIds"`
	AssessmentMethodIDs []string `json:"assessmentMethodIds"`
	CoverageLevel       string   `json:"coverageLevel"`
	OutcomeIDs          []string `json:"soIds"`
	IndicatorIDs        []string `json:"piIds,omitempty"`
}

// Course is one catalog entry plus its syllabus content.
//
// Prerequisites and CoRequisites hold course *codes*, not ids. This is a
// known inconsistency carried over from the interchange format; the rewrite
// engine tags those sites as code-keyed rather than silently migrating them.
type Course struct {
	ID                string                      `json:"id"`
	Code              string                      `json:"code" validate:"required"`
	Name              LocalizedText               `json:"name"`
	Credits           float64                     `json:"credits"`
	IsEssential       bool                        `json:"isEssential"`
	IsAbet            bool                        `json:"isAbet"`
	Type              CourseType                  `json:"type"`
	KnowledgeAreaID   string                      `json:"knowledgeAreaId"`
	Semester          int                         `json:"semester"`
	ColIndex          int                         `json:"colIndex"`
	Prerequisites     []string                    `json:"prerequisites"`
	CoRequisites      []string                    `json:"coRequisites"`
	Description       LocalizedText               `json:"description"`
	Textbooks         []Textbook                  `json:"textbooks"`
	CLOs              CLOSet                      `json:"clos"`
	Topics            []CourseTopic               `json:"topics"`
	AssessmentPlan    []AssessmentItem            `json:"assessmentPlan"`
	InstructorIDs     []string                    `json:"instructorIds"`
	InstructorDetails map[string]InstructorDetail `json:"instructorDetails"`
	CLOMap            []CLOMapping                `json:"cloMap"`
}

// FacultyListItem is a generic bilingual CV list entry.
type FacultyListItem struct {
	ID      string        `json:"id"`
	Content LocalizedText `json:"content"`
}

// EducationItem is one degree on a faculty CV.
type EducationItem struct {
	ID          string        `json:"id"`
	Degree      LocalizedText `json:"degree"`
	Discipline  LocalizedText `json:"discipline"`
	Institution LocalizedText `json:"institution"`
	Year        string        `json:"year"`
}

// ExperienceItem is one position on a faculty CV, academic or not.
type ExperienceItem struct {
	ID          string        `json:"id"`
	Institution LocalizedText `json:"institution"`
	Title       LocalizedText `json:"title"`
	Rank        LocalizedText `json:"rank,omitempty"`
	Description LocalizedText `json:"description,omitempty"`
	Period      string        `json:"period"`
	IsFullTime  bool          `json:"isFullTime"`
}

// Faculty is one instructor record with CV sub-lists.
type Faculty struct {
	ID                  string            `json:"id"`
	Name                LocalizedText     `json:"name"`
	Rank                LocalizedText     `json:"rank"`
	Degree              LocalizedText     `json:"degree"`
	AcademicTitle       LocalizedText     `json:"academicTitle"`
	Position            LocalizedText     `json:"position"`
	Workload            float64           `json:"workload"`
	EmploymentType      string            `json:"employmentType,omitempty"`
	Office              string            `json:"office,omitempty"`
	OfficeHours         string            `json:"officeHours,omitempty"`
	Tel                 string            `json:"tel,omitempty"`
	Email               string            `json:"email" validate:"omitempty,email"`
	EducationList       []EducationItem   `json:"educationList"`
	AcademicExperience  []ExperienceItem  `json:"academicExperienceList"`
	OutsideExperience   []ExperienceItem  `json:"nonAcademicExperienceList"`
	Publications        []FacultyListItem `json:"publicationsList"`
	Certifications      []FacultyListItem `json:"certificationsList"`
	Memberships         []FacultyListItem `json:"membershipsList"`
	Honors              []FacultyListItem `json:"honorsList"`
	ServiceActivities   []FacultyListItem `json:"serviceActivitiesList"`
	ProfessionalDevList []FacultyListItem `json:"professionalDevelopmentList"`
}

// LibraryResource is one bibliographic record.
type LibraryResource struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
	Type      string `json:"type"`
	IsEbook   bool   `json:"isEbook"`
	IsPrinted bool   `json:"isPrinted"`
	URL       string `json:"url,omitempty"`
}

// Objective is one program educational objective.
type Objective struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Category    string        `json:"category,omitempty"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
}

// Indicator is one performance indicator nested under an outcome.
type Indicator struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Description LocalizedText `json:"description"`
}

// Outcome is one student outcome with its performance indicators.
type Outcome struct {
	ID          string        `json:"id"`
	Number      int           `json:"number"`
	Code        string        `json:"code"`
	Description LocalizedText `json:"description"`
	Indicators  []Indicator   `json:"pis"`
}

// KnowledgeArea groups courses in the curriculum map.
type KnowledgeArea struct {
	ID    string        `json:"id"`
	Name  LocalizedText `json:"name"`
	Color string        `json:"color"`
}

// TeachingMethod is a delivery method referenced by topic activities.
type TeachingMethod struct {
	ID             string        `json:"id"`
	Code           string        `json:"code"`
	Name           LocalizedText `json:"name"`
	HoursPerCredit float64       `json:"hoursPerCredit"`
}

// AssessmentMethod is referenced by assessment plan rows.
type AssessmentMethod struct {
	ID   string        `json:"id"`
	Name LocalizedText `json:"name"`
}

// CourseOutcomeRow maps a course to a student outcome at a coverage level.
type CourseOutcomeRow struct {
	CourseID  string `json:"courseId"`
	OutcomeID string `json:"soId"`
	Level     string `json:"level"`
}

// CourseIndicatorRow maps a course to a performance indicator.
type CourseIndicatorRow struct {
	CourseID    string `json:"courseId"`
	IndicatorID string `json:"piId"`
}

// CourseObjectiveRow maps a course to a program objective.
type CourseObjectiveRow struct {
	CourseID    string `json:"courseId"`
	ObjectiveID string `json:"peoId"`
}

// ObjectiveOutcomeRow maps a program objective to a student outcome.
type ObjectiveOutcomeRow struct {
	ObjectiveID string `json:"peoId"`
	OutcomeID   string `json:"soId"`
}

// SubBlock is an elective sub-block inside a structure block.
type SubBlock struct {
	ID            string        `json:"id"`
	Name          LocalizedText `json:"name"`
	ParentBlockID string        `json:"parentBlockId"`
	MinCredits    float64       `json:"minCredits"`
	CourseIDs     []string      `json:"courseIds"`
	Note          LocalizedText `json:"note,omitempty"`
}

// ProgramStructure holds the four credit blocks as ordered course-id lists.
type ProgramStructure struct {
	Gen  []string `json:"gen"`
	Fund []string `json:"fund"`
	Spec []string `json:"spec"`
	Grad []string `json:"grad"`
}

// ProgramInfo is the program-level design data that references courses and
// objectives from outside the catalog.
type ProgramInfo struct {
	Structure ProgramStructure `json:"programStructure"`
	SubBlocks []SubBlock       `json:"subBlocks"`
	// CourseObjectivePairs marks set membership with compound
	// "<courseID>|<objectiveID>" keys.
	CourseObjectivePairs []string `json:"courseObjectiveMap"`
}

// Document is the whole program snapshot. It is treated as one exclusively
// owned mutable value: every engine operation takes the current document and
// produces a fully consistent one before returning.
type Document struct {
	Language            string                `json:"language"`
	Courses             []Course              `json:"courses"`
	Faculty             []Faculty             `json:"faculties"`
	Library             []LibraryResource     `json:"library"`
	Objectives          []Objective           `json:"peos"`
	Outcomes            []Outcome             `json:"sos"`
	KnowledgeAreas      []KnowledgeArea       `json:"knowledgeAreas"`
	TeachingMethods     []TeachingMethod      `json:"teachingMethods"`
	AssessmentMethods   []AssessmentMethod    `json:"assessmentMethods"`
	CourseOutcomeMap    []CourseOutcomeRow    `json:"courseSoMap"`
	CourseIndicatorMap  []CourseIndicatorRow  `json:"coursePiMap"`
	CourseObjectiveMap  []CourseObjectiveRow  `json:"coursePeoMap"`
	ObjectiveOutcomeMap []ObjectiveOutcomeRow `json:"peoSoMap"`
	Program             ProgramInfo           `json:"generalInfo"`
}
