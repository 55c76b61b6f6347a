package middleware

import (
	"encoding/json"
	"net/http"
)

// rejection mirrors the handler package's error envelope so clients see one
// error shape whether a request stops in middleware or in a handler.
type rejection struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rejection{Error: msg})
}
