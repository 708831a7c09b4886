package api

import (
	"encoding/json"
	"net/http"

	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, dtos.ErrorResponse{Error: message})
}
