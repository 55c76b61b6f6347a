package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studybuddy-api/internal/application/otc"
	"github.com/studybuddy-api/internal/application/student"
	"github.com/studybuddy-api/internal/domain"
)

type otcRequest struct {
	Email string `json:"email"`
	Code  string `json:"otp"`
}

// OTCHandler handles one-time code issuance and verification.
type OTCHandler struct {
	svc    otc.Authority
	suffix string
}

func NewOTCHandler(svc otc.Authority, emailSuffix string) *OTCHandler {
	return &OTCHandler{svc: svc, suffix: emailSuffix}
}

func (h *OTCHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req otcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = domain.NormalizeEmail(req.Email)

	switch chi.URLParam(r, "action") {
	case "send":
		if !student.AllowedEmail(req.Email, h.suffix) {
			writeError(w, http.StatusBadRequest, "please use a valid institution email address ending with "+h.suffix)
			return
		}
		if err := h.svc.Issue(r.Context(), req.Email); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "code sent to your email"})
	case "verify":
		if req.Email == "" || req.Code == "" {
			writeError(w, http.StatusBadRequest, "email and otp are required")
			return
		}
		ok, err := h.svc.Verify(r.Context(), req.Email, req.Code)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if !ok {
			writeError(w, http.StatusBadRequest, domain.ErrInvalidCredential.Error())
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified successfully"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
