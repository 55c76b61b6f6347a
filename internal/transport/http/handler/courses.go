package handler

import (
	"encoding/json"
	"net/http"

	"github.com/studybuddy-api/internal/application/course"
)

// CourseHandler handles catalog lookups.
type CourseHandler struct {
	svc course.Service
}

func NewCourseHandler(svc course.Service) *CourseHandler { return &CourseHandler{svc: svc} }

func (h *CourseHandler) Search(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	views := make([]CourseView, len(courses))
	for i, c := range courses {
		views[i] = CourseView{Code: c.Code, NameEN: c.NameEN, NameZH: c.NameZH, Display: c.Display()}
	}
	writeJSON(w, http.StatusOK, CoursesEnvelope{Courses: views})
}

func (h *CourseHandler) Names(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseCodes []string `json:"course_codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	names, err := h.svc.Names(r.Context(), req.CourseCodes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CourseNamesEnvelope{Courses: names})
}
