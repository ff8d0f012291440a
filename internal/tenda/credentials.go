package tenda

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Router endpoints and fixed protocol values
const (
	PathLogin        = "/login/Auth"
	PathGuestGet     = "/goform/WifiGuestGet"
	PathGuestSet     = "/goform/WifiGuestSet"
	PathOnlineList   = "/goform/getOnlineList"
	PageMain         = "main.html"
	PageLogin        = "login.html"
	AdminUsername    = "admin"
	ContentTypeForm  = "application/x-www-form-urlencoded; charset=UTF-8"
	AcceptJSON       = "application/json, text/javascript, */*; q=0.01"
	HeaderRequestedW = "X-Requested-With"
	XMLHttpRequest   = "XMLHttpRequest"
)

const opLogin = "login"

// Credentials identify one router. The password is kept only as the hex MD5
// digest the login form expects.
type Credentials struct {
	host         string
	passwordHash string
}

// NewCredentials hashes password and returns credentials for host.
// host may be "192.168.0.1", "192.168.0.1:8080" or a full "http://..." URL.
func NewCredentials(host, password string) Credentials {
	sum := md5.Sum([]byte(password))
	return Credentials{
		host:         strings.TrimSpace(host),
		passwordHash: hex.EncodeToString(sum[:]),
	}
}

// Host returns the router address as configured
func (c Credentials) Host() string {
	return c.host
}

// PasswordHash returns the hex MD5 digest sent to /login/Auth
func (c Credentials) PasswordHash() string {
	return c.passwordHash
}

// BaseURL returns the scheme and authority used for every router request
func (c Credentials) BaseURL() string {
	base := strings.TrimRight(c.host, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return base
}
