package main

import "github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda"

// --- API Response Models ---

// Response is the envelope every endpoint answers with.
// Success: {status:"success", ok:true, message, data}.
// Failure: {status:"error", ok:false, message, error}.
type Response struct {
	Status  string      `json:"status"`          // "success" or "error"
	OK      bool        `json:"ok"`              // Mirrors status for simple clients
	Message string      `json:"message"`         // Human readable summary, may be empty on success
	Data    interface{} `json:"data,omitempty"`  // Payload when successful
	Error   interface{} `json:"error,omitempty"` // Error detail when failed
}

// ErrorDetail describes a failed router operation
type ErrorDetail struct {
	Type      string `json:"type"`                // Error category, e.g. "AuthExhausted"
	Operation string `json:"operation,omitempty"` // Router call that failed
	Detail    string `json:"detail"`              // Full error text
}

// --- API Request Models ---

// ToggleGuestWifiRequest is the body of POST /api/toggleGuestWifi.
// TurnOnWifi is a pointer so a missing field can be told apart from false.
type ToggleGuestWifiRequest struct {
	TurnOnWifi *bool `json:"turnOnWifi"`
}

// GuestWifiUsersData wraps the guest client list the way the API has always returned it
type GuestWifiUsersData struct {
	GuestWifiUsers []tenda.GuestClient `json:"guestWifiUsers"`
}

// --- Swagger Documentation Response Types ---
// These types are only used for Swagger documentation generation

var (
	_ = HealthResponse{}
	_ = MessageResponse{}
	_ = ToggleGuestWifiResponse{}
	_ = GuestWifiStatusResponse{}
	_ = GuestWifiUsersResponse{}
	_ = ErrorResponse{}
)

// HealthResponse represents health check response
// @Description Health check response
type HealthResponse struct {
	Status  string            `json:"status" example:"success"`
	OK      bool              `json:"ok" example:"true"`
	Message string            `json:"message" example:""`
	Data    map[string]string `json:"data"`
}

// MessageResponse represents a simple message response
// @Description Simple message response
type MessageResponse struct {
	Status  string            `json:"status" example:"success"`
	OK      bool              `json:"ok" example:"true"`
	Message string            `json:"message" example:"Cache cleared"`
	Data    map[string]string `json:"data"`
}

// ToggleGuestWifiResponse represents the toggle endpoint answer
// @Description Guest WiFi toggle response
type ToggleGuestWifiResponse struct {
	Status  string             `json:"status" example:"success"`
	OK      bool               `json:"ok" example:"true"`
	Message string             `json:"message" example:"Guest WiFi switched"`
	Data    tenda.ToggleResult `json:"data"`
}

// GuestWifiStatusResponse represents the status endpoint answer
// @Description Guest WiFi status response
type GuestWifiStatusResponse struct {
	Status  string                `json:"status" example:"success"`
	OK      bool                  `json:"ok" example:"true"`
	Message string                `json:"message" example:""`
	Data    tenda.GuestWifiStatus `json:"data"`
}

// GuestWifiUsersResponse represents the guest users endpoint answer
// @Description Guest WiFi users response
type GuestWifiUsersResponse struct {
	Status  string             `json:"status" example:"success"`
	OK      bool               `json:"ok" example:"true"`
	Message string             `json:"message" example:""`
	Data    GuestWifiUsersData `json:"data"`
}

// ErrorResponse represents a failed call
// @Description Error response
type ErrorResponse struct {
	Status  string      `json:"status" example:"error"`
	OK      bool        `json:"ok" example:"false"`
	Message string      `json:"message" example:"Failed to get guest WiFi status"`
	Error   ErrorDetail `json:"error"`
}
