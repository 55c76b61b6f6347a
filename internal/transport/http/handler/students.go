package handler

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studybuddy-api/internal/application/match"
	"github.com/studybuddy-api/internal/application/student"
	"github.com/studybuddy-api/internal/domain"
	"github.com/studybuddy-api/internal/transport/http/middleware"
)

// StudentHandler handles profile and match endpoints.
type StudentHandler struct {
	svc     student.Service
	matches match.Service
}

func NewStudentHandler(svc student.Service, matches match.Service) *StudentHandler {
	return &StudentHandler{svc: svc, matches: matches}
}

func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterEnvelope{Message: "registration successful", StudentID: st.StudentID, Student: st})
}

func (h *StudentHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.writeStudent(w, r, claims.StudentID)
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StudentsEnvelope{Students: students, Count: len(students)})
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeStudent(w, r, chi.URLParam(r, "id"))
}

func (h *StudentHandler) writeStudent(w http.ResponseWriter, r *http.Request, studentID string) {
	st, err := h.svc.Get(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := h.svc.Update(r.Context(), claims.StudentID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StudentHandler) Matches(w http.ResponseWriter, r *http.Request) {
	list, err := h.matches.GetMatches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list.NoCandidates {
		writeJSON(w, http.StatusOK, MatchesEnvelope{Message: "No other students available", Matches: []domain.MatchResult{}})
		return
	}
	out := make([]domain.MatchResult, len(list.Matches))
	for i, m := range list.Matches {
		m.Similarity = percent(m.Similarity)
		out[i] = m
	}
	checked := list.TotalChecked
	writeJSON(w, http.StatusOK, MatchesEnvelope{TargetStudent: list.TargetName, Matches: out, TotalChecked: &checked})
}

// percent renders a [0,1] score as a percentage with one decimal.
func percent(score float64) float64 {
	return math.Round(score*1000) / 10
}
