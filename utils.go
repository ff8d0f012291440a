package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// GetClientIP extracts the client IP address from the request.
// It checks X-Real-IP header first (for proxied requests), then falls back to RemoteAddr.
func GetClientIP(r *http.Request) string {
	clientIP := r.RemoteAddr
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		if parsedIP := net.ParseIP(realIP); parsedIP != nil {
			clientIP = realIP
		}
	}
	return clientIP
}

// formatDuration formats a duration into a human-readable string
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1f hours", d.Hours())
	}
	return fmt.Sprintf("%.1f days", d.Hours()/24)
}

// ParseJSONRequest parses a JSON request body with size limiting and Content-Type validation.
// An empty body decodes to the zero value of v.
// Returns true if successful, false if an error response was sent.
func ParseJSONRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		sendError(w, http.StatusUnsupportedMediaType, ErrInvalidContentType, nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, http.StatusRequestEntityTooLarge, ErrRequestBodyTooLarge, nil)
			return false
		}
		if errors.Is(err, io.EOF) {
			return true
		}
		sendError(w, http.StatusBadRequest, ErrInvalidJSON, err.Error())
		return false
	}
	return true
}
