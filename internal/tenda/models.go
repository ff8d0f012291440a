package tenda

import (
	"bytes"
	"encoding/json"
	"strings"
)

// GuestWifiStatus is the on/off state of the guest network per band
type GuestWifiStatus struct {
	Enabled24GHz bool `json:"enabled2_4GHz"`
	Enabled5GHz  bool `json:"enabled5GHz"`
}

// ToggleResult is returned after the guest network was switched
type ToggleResult struct {
	WifiStatus bool `json:"wifiStatus"`
}

// GuestClient is a device connected to the guest network
type GuestClient struct {
	DeviceID      string `json:"deviceId"`
	IP            string `json:"ip"`
	DeviceName    string `json:"deviceName"`
	Line          string `json:"line"`
	UploadSpeed   string `json:"uploadSpeed"`
	DownloadSpeed string `json:"downloadSpeed"`
	LinkType      string `json:"linkType"`
	IsBlacklisted bool   `json:"isBlacklisted"`
	IsGuest       bool   `json:"isGuest"`
}

// GuestNetworkSettings are the values the admin page always posts along
// with the on/off flags. The router resets anything omitted.
type GuestNetworkSettings struct {
	SSID24GHz     string `yaml:"ssid_2_4ghz"`
	SSID5GHz      string `yaml:"ssid_5ghz"`
	Security24GHz string `yaml:"security_2_4ghz"`
	Security5GHz  string `yaml:"security_5ghz"`
	Password24GHz string `yaml:"password_2_4ghz"`
	Password5GHz  string `yaml:"password_5ghz"`
	EffectiveTime string `yaml:"effective_time"` // hours, "0" = always
	ShareSpeed    string `yaml:"share_speed"`    // KB/s shared by all guests
}

// DefaultGuestNetworkSettings returns the factory guest network settings
func DefaultGuestNetworkSettings() GuestNetworkSettings {
	return GuestNetworkSettings{
		SSID24GHz:     "Free WiFi 2.4G",
		SSID5GHz:      "Free WiFi 5G",
		Security24GHz: "wpapsk",
		Security5GHz:  "wpapsk",
		EffectiveTime: "8",
		ShareSpeed:    "6400",
	}
}

// --- router wire shapes ---

// deviceFlag keeps the raw text of a JSON scalar so "1", 1 and true can all
// be inspected the same way.
type deviceFlag string

func (f *deviceFlag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = deviceFlag(s)
		return nil
	}
	*f = deviceFlag(b)
	return nil
}

type guestStatusPayload struct {
	GuestEn   deviceFlag `json:"guestEn"`
	GuestEn5G deviceFlag `json:"guestEn_5g"`
}

type onlineClient struct {
	DeviceID      string     `json:"deviceId"`
	IP            string     `json:"ip"`
	DevName       string     `json:"devName"`
	Line          string     `json:"line"`
	UploadSpeed   string     `json:"uploadSpeed"`
	DownloadSpeed string     `json:"downloadSpeed"`
	LinkType      string     `json:"linkType"`
	Black         deviceFlag `json:"black"`
	IsGuestClient deviceFlag `json:"isGuestClient"`
}

func (c onlineClient) isGuest() bool {
	return string(c.IsGuestClient) == "true"
}

func (c onlineClient) toGuestClient() GuestClient {
	black := strings.ToLower(string(c.Black))
	return GuestClient{
		DeviceID:      c.DeviceID,
		IP:            c.IP,
		DeviceName:    c.DevName,
		Line:          c.Line,
		UploadSpeed:   c.UploadSpeed,
		DownloadSpeed: c.DownloadSpeed,
		LinkType:      c.LinkType,
		IsBlacklisted: black == "1" || black == "true",
		IsGuest:       true,
	}
}
