package main

import (
	"net/http"
)

// healthCheckHandler reports that the service is up. It never touches the router.
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func healthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	sendResponse(w, http.StatusOK, "", map[string]string{"status": "healthy"})
}

// clearCacheHandler drops cached router reads so the next call asks the router
// @Summary Clear read cache
// @Tags System
// @Produce json
// @Success 200 {object} MessageResponse
// @Security ApiKeyAuth
// @Router /api/cache/clear [post]
func (h *guestHandlers) clearCacheHandler(w http.ResponseWriter, r *http.Request) {
	h.cache.clearAll()
	AuditLog(AuditEventCacheClear, GetClientIP(r), "Guest WiFi cache cleared")
	sendResponse(w, http.StatusOK, MsgCacheCleared, map[string]string{"message": MsgCacheCleared})
}
