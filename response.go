package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// sendResponse writes a success envelope with JSON formatting
func sendResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := Response{Status: StatusSuccess, OK: true, Message: message, Data: data}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// sendError writes an error envelope. errorDetail may be nil, a string or an
// ErrorDetail.
func sendError(w http.ResponseWriter, code int, message string, errorDetail interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := Response{Status: StatusError, OK: false, Message: message, Error: errorDetail}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode JSON error response", zap.Error(err))
	}
}
