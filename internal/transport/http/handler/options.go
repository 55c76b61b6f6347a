package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/studybuddy-api/internal/config"
)

// OptionsHandler serves the static profile reference data.
type OptionsHandler struct {
	opts config.StudyOptions
}

func NewOptionsHandler(opts config.StudyOptions) *OptionsHandler {
	return &OptionsHandler{opts: opts}
}

func (h *OptionsHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, OptionsEnvelope{
		CollegeDepartments: h.opts.CollegeDepartments,
		Colleges:           h.opts.Colleges,
		StudySpots:         h.opts.StudySpots,
		StudyTimes:         h.opts.StudyTimes,
	})
}

// Departments returns an empty list for an unknown college.
func (h *OptionsHandler) Departments(w http.ResponseWriter, r *http.Request) {
	college := chi.URLParam(r, "college")
	if unescaped, err := url.PathUnescape(college); err == nil {
		college = unescaped
	}
	deps := h.opts.Departments(college)
	if deps == nil {
		deps = []string{}
	}
	writeJSON(w, http.StatusOK, DepartmentsEnvelope{Departments: deps})
}
