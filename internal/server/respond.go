package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Every response is wrapped in one of two envelopes:
// {"data": ...} on success, {"error": {"code", "message"}} on failure.

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		zap.S().Errorw("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: &errorBody{Code: status, Message: message}}); err != nil {
		zap.S().Errorw("encode error response", "error", err)
	}
}
