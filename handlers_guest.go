package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda"
)

// guestWifiClient is the part of *tenda.Client the handlers use
type guestWifiClient interface {
	GuestWifiStatus(ctx context.Context) (*tenda.GuestWifiStatus, error)
	SetGuestWifi(ctx context.Context, enable bool) (*tenda.ToggleResult, error)
	GuestClients(ctx context.Context) ([]tenda.GuestClient, error)
}

// guestHandlers serves the guest WiFi endpoints for one router
type guestHandlers struct {
	client guestWifiClient
	cache  *guestCache
}

func newGuestHandlers(client guestWifiClient, cache *guestCache) *guestHandlers {
	return &guestHandlers{client: client, cache: cache}
}

// toggleGuestWifiHandler switches the guest network on or off
// @Summary Toggle guest WiFi
// @Description Turns the guest network on or off on both bands
// @Tags Guest WiFi
// @Accept json
// @Produce json
// @Param body body ToggleGuestWifiRequest true "Desired state"
// @Success 200 {object} ToggleGuestWifiResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/toggleGuestWifi [post]
func (h *guestHandlers) toggleGuestWifiHandler(w http.ResponseWriter, r *http.Request) {
	var req ToggleGuestWifiRequest
	if !ParseJSONRequest(w, r, &req) {
		return
	}
	if req.TurnOnWifi == nil {
		sendError(w, http.StatusBadRequest, ErrTurnOnWifiRequired, nil)
		return
	}

	result, err := h.client.SetGuestWifi(r.Context(), *req.TurnOnWifi)
	// Whatever happened, the router may have changed state
	h.cache.clearAll()
	if err != nil {
		logHandlerError(r, "toggleGuestWifi", err)
		sendRouterError(w, ErrToggleGuestWifi, err)
		return
	}

	AuditLog(AuditEventGuestToggle, GetClientIP(r), fmt.Sprintf("turnOnWifi=%t", result.WifiStatus))
	sendResponse(w, http.StatusOK, MsgGuestWifiToggled, result)
}

// getGuestWifiStatusHandler reports whether the guest network is on per band
// @Summary Get guest WiFi status
// @Description Reads the guest network state for the 2.4GHz and 5GHz bands
// @Tags Guest WiFi
// @Produce json
// @Success 200 {object} GuestWifiStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/getGuestWifiStatus [post]
func (h *guestHandlers) getGuestWifiStatusHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.cache.getOrLoad(r.Context(), cacheKeyStatus, func(ctx context.Context) (interface{}, error) {
		return h.client.GuestWifiStatus(ctx)
	})
	if err != nil {
		logHandlerError(r, "getGuestWifiStatus", err)
		sendRouterError(w, ErrGetGuestWifiStatus, err)
		return
	}
	sendResponse(w, http.StatusOK, "", v.(*tenda.GuestWifiStatus))
}

// getGuestWifiUsersHandler lists the devices connected to the guest network
// @Summary Get guest WiFi users
// @Description Lists devices on the guest network in the order the router reports them
// @Tags Guest WiFi
// @Produce json
// @Success 200 {object} GuestWifiUsersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/getGuestWifiUsers [post]
func (h *guestHandlers) getGuestWifiUsersHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.cache.getOrLoad(r.Context(), cacheKeyUsers, func(ctx context.Context) (interface{}, error) {
		return h.client.GuestClients(ctx)
	})
	if err != nil {
		logHandlerError(r, "getGuestWifiUsers", err)
		sendRouterError(w, ErrGetGuestWifiUsers, err)
		return
	}
	sendResponse(w, http.StatusOK, "", GuestWifiUsersData{GuestWifiUsers: v.([]tenda.GuestClient)})
}

// sendRouterError maps a failed router operation to 400 and anything that did
// not come from the router client to 500.
func sendRouterError(w http.ResponseWriter, message string, err error) {
	var routerErr *tenda.Error
	if errors.As(err, &routerErr) {
		sendError(w, http.StatusBadRequest, message, ErrorDetail{
			Type:      routerErr.Type.String(),
			Operation: routerErr.Op,
			Detail:    err.Error(),
		})
		return
	}
	sendError(w, http.StatusInternalServerError, ErrUnexpectedInternal, ErrorDetail{
		Type:   "InternalError",
		Detail: err.Error(),
	})
}

func logHandlerError(r *http.Request, handler string, err error) {
	fields := []zap.Field{
		zap.String("handler", handler),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	if kind, ok := tenda.TypeOf(err); ok {
		fields = append(fields, zap.Stringer("error_type", kind), zap.Bool("transient", tenda.IsTransient(err)))
	}
	logger.Error("Guest WiFi request failed", fields...)
}
