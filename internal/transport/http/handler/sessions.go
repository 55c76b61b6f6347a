package handler

import (
	"encoding/json"
	"net/http"

	"github.com/studybuddy-api/internal/application/student"
)

// SessionHandler issues bearer tokens for verified students.
type SessionHandler struct {
	svc student.Service
}

func NewSessionHandler(svc student.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	st, bearer, err := h.svc.Login(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: bearer, Student: st, Message: "login successful"})
}
