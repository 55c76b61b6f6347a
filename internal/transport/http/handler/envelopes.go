package handler

import (
	"encoding/json"
	"net/http"

	"github.com/studybuddy-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Bearer  string          `json:"Bearer,omitempty"`
	Student *domain.Student `json:"student,omitempty"`
	Message string          `json:"message,omitempty"`
}

// RegisterEnvelope wraps registration responses.
type RegisterEnvelope struct {
	Message   string          `json:"message"`
	StudentID string          `json:"student_id"`
	Student   *domain.Student `json:"student"`
}

// StudentsEnvelope wraps student list responses.
type StudentsEnvelope struct {
	Students []domain.Student `json:"students"`
	Count    int              `json:"count"`
}

// MatchesEnvelope wraps ranking responses. Similarity is a percentage here.
type MatchesEnvelope struct {
	Message       string               `json:"message,omitempty"`
	TargetStudent string               `json:"target_student,omitempty"`
	Matches       []domain.MatchResult `json:"matches"`
	TotalChecked  *int                 `json:"total_checked,omitempty"`
}

// OptionsEnvelope carries the reference lists used to build a profile.
type OptionsEnvelope struct {
	CollegeDepartments map[string][]string `json:"college_departments"`
	Colleges           []string            `json:"colleges"`
	StudySpots         []string            `json:"study_spots"`
	StudyTimes         []string            `json:"study_times"`
}

// DepartmentsEnvelope lists the departments of one college.
type DepartmentsEnvelope struct {
	Departments []string `json:"departments"`
}

// CourseView is one course search hit.
type CourseView struct {
	Code    string `json:"code"`
	NameEN  string `json:"name_en"`
	NameZH  string `json:"name_zh"`
	Display string `json:"display"`
}

// CoursesEnvelope wraps course search responses.
type CoursesEnvelope struct {
	Courses []CourseView `json:"courses"`
}

// CourseNamesEnvelope maps course codes to display names.
type CourseNamesEnvelope struct {
	Courses map[string]string `json:"courses"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
