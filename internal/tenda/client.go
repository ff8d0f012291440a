package tenda

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Client performs guest WiFi operations against one router
type Client struct {
	sessions *SessionManager
	exec     *Executor
	guest    GuestNetworkSettings
	logger   *zap.Logger
}

// NewClient builds the session manager and executor for creds
func NewClient(creds Credentials, opts ...Option) *Client {
	o := buildOptions(opts)
	sessions := NewSessionManager(creds, opts...)
	return &Client{
		sessions: sessions,
		exec:     NewExecutor(creds.BaseURL(), sessions, opts...),
		guest:    o.guest,
		logger:   o.logger.With(zap.String("host", creds.Host())),
	}
}

// Sessions exposes the session manager for diagnostics
func (c *Client) Sessions() *SessionManager {
	return c.sessions
}

func readHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", AcceptJSON)
	h.Set(HeaderRequestedW, XMLHttpRequest)
	return h
}

// GuestWifiStatus reads whether the guest network is on for each band
func (c *Client) GuestWifiStatus(ctx context.Context) (*GuestWifiStatus, error) {
	var payload guestStatusPayload
	req := Request{Method: http.MethodGet, Path: PathGuestGet, Header: readHeaders()}
	if err := c.exec.Do(ctx, req, &payload); err != nil {
		c.logger.Error("Failed to read guest WiFi status", zap.Stringer("session_state", c.sessions.State()), zap.Error(err))
		return nil, err
	}

	status, err := mapGuestStatus(payload)
	if err != nil {
		c.logger.Error("Unrecognized guest WiFi status", zap.Error(err))
		return nil, err
	}
	c.logger.Info("Guest WiFi status",
		zap.Bool("enabled_2_4ghz", status.Enabled24GHz),
		zap.Bool("enabled_5ghz", status.Enabled5GHz))
	return status, nil
}

// SetGuestWifi switches the guest network on or off on both bands
func (c *Client) SetGuestWifi(ctx context.Context, enable bool) (*ToggleResult, error) {
	req := Request{
		Method: http.MethodPost,
		Path:   PathGuestSet,
		Header: http.Header{HeaderRequestedW: []string{XMLHttpRequest}},
		Form:   guestSetForm(enable, c.guest),
	}
	if err := c.exec.Do(ctx, req, nil); err != nil {
		c.logger.Error("Failed to set guest WiFi",
			zap.Bool("enable", enable),
			zap.Stringer("session_state", c.sessions.State()),
			zap.Error(err))
		return nil, err
	}
	c.logger.Info("Guest WiFi switched", zap.Bool("enable", enable))
	return &ToggleResult{WifiStatus: enable}, nil
}

// GuestClients lists devices on the guest network in router order
func (c *Client) GuestClients(ctx context.Context) ([]GuestClient, error) {
	var online []onlineClient
	req := Request{Method: http.MethodGet, Path: PathOnlineList, Header: readHeaders()}
	if err := c.exec.Do(ctx, req, &online); err != nil {
		c.logger.Error("Failed to read online client list", zap.Stringer("session_state", c.sessions.State()), zap.Error(err))
		return nil, err
	}

	guests := filterGuests(online)
	c.logger.Info("Guest WiFi clients", zap.Int("online", len(online)), zap.Int("guests", len(guests)))
	return guests, nil
}

// mapGuestStatus turns "1"/"0" into booleans. Anything else is rejected so
// an unknown firmware value never reads as enabled.
func mapGuestStatus(p guestStatusPayload) (*GuestWifiStatus, error) {
	on24, err := parseEnabled("guestEn", p.GuestEn)
	if err != nil {
		return nil, err
	}
	on5, err := parseEnabled("guestEn_5g", p.GuestEn5G)
	if err != nil {
		return nil, err
	}
	return &GuestWifiStatus{Enabled24GHz: on24, Enabled5GHz: on5}, nil
}

func parseEnabled(field string, v deviceFlag) (bool, error) {
	switch v {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, newShapeError("WifiGuestGet", nil, fmt.Sprintf("field %s has unrecognized value %q", field, string(v)))
	}
}

func filterGuests(online []onlineClient) []GuestClient {
	guests := make([]GuestClient, 0, len(online))
	for _, c := range online {
		if c.isGuest() {
			guests = append(guests, c.toGuestClient())
		}
	}
	return guests
}

func guestSetForm(enable bool, s GuestNetworkSettings) url.Values {
	flag := "0"
	if enable {
		flag = "1"
	}
	return url.Values{
		"guestEn":          {flag},
		"guestEn_5g":       {flag},
		"guestSecurity":    {s.Security24GHz},
		"guestSecurity_5g": {s.Security5GHz},
		"guestSsid":        {s.SSID24GHz},
		"guestSsid_5g":     {s.SSID5GHz},
		"guestWrlPwd":      {s.Password24GHz},
		"guestWrlPwd_5g":   {s.Password5GHz},
		"effectiveTime":    {s.EffectiveTime},
		"shareSpeed":       {s.ShareSpeed},
	}
}
