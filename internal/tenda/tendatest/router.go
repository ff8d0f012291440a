// Package tendatest provides an in-process fake Tenda router for tests.
package tendatest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// LoginVariant selects how a successful login hands out the cookie
type LoginVariant int

const (
	// CookieOnOK answers 200 with Set-Cookie
	CookieOnOK LoginVariant = iota
	// CookieOnRedirect answers 302 to main.html with Set-Cookie
	CookieOnRedirect
	// CookieOnLanding answers 302 to main.html and sets the cookie only
	// when main.html is fetched
	CookieOnLanding
)

// CookieName is the cookie the firmware uses for the session
const CookieName = "password"

// LoginPageHTML is served whenever an API call arrives without a valid session
const LoginPageHTML = `<!DOCTYPE html><html><head><title>Login</title></head><body><form action="/login/Auth"></form></body></html>`

// Router is a fake router. Configure fields before issuing requests; use
// the methods to change state or read counters while the server runs.
type Router struct {
	*httptest.Server

	mu            sync.Mutex
	passwordHash  string
	variant       LoginVariant
	rejectLogins  int
	loginStatus   int
	expireNext    int
	redirectOnExp bool
	guestEn       string
	guestEn5G     string
	onlineList    string
	nextToken     int
	pending       string
	sessions      map[string]bool
	logins        int
	landings      int
	requests      map[string]int
	lastSetForm   url.Values
}

// NewRouter starts a fake router accepting password
func NewRouter(password string, variant LoginVariant) *Router {
	sum := md5.Sum([]byte(password))
	r := &Router{
		passwordHash: hex.EncodeToString(sum[:]),
		variant:      variant,
		guestEn:      "0",
		guestEn5G:    "0",
		onlineList:   "[]",
		sessions:     make(map[string]bool),
		requests:     make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/login/Auth", r.handleLogin)
	mux.HandleFunc("/main.html", r.handleMain)
	mux.HandleFunc("/login.html", r.handleLoginPage)
	mux.HandleFunc("/goform/WifiGuestGet", r.handleGuestGet)
	mux.HandleFunc("/goform/WifiGuestSet", r.handleGuestSet)
	mux.HandleFunc("/goform/getOnlineList", r.handleOnlineList)
	r.Server = httptest.NewServer(mux)
	return r
}

// RejectLogins makes the next n logins fail even with the right password
func (r *Router) RejectLogins(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejectLogins = n
}

// SetLoginStatus forces /login/Auth to answer with status (0 restores)
func (r *Router) SetLoginStatus(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginStatus = status
}

// ExpireNext drops all sessions and answers the next n API calls with the
// login page.
func (r *Router) ExpireNext(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireNext = n
}

// RedirectOnExpired answers expired API calls with 302 to login.html
// instead of a 200 HTML page.
func (r *Router) RedirectOnExpired(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirectOnExp = v
}

// SetGuestStatus sets the raw guestEn and guestEn_5g values
func (r *Router) SetGuestStatus(guestEn, guestEn5G string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guestEn, r.guestEn5G = guestEn, guestEn5G
}

// SetOnlineList sets the raw JSON returned by getOnlineList
func (r *Router) SetOnlineList(raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onlineList = raw
}

// Logins returns how many times /login/Auth was called
func (r *Router) Logins() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logins
}

// Landings returns how many times main.html was fetched
func (r *Router) Landings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.landings
}

// Requests returns how many times path was called
func (r *Router) Requests(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[path]
}

// LastSetForm returns the form of the last WifiGuestSet call
func (r *Router) LastSetForm() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSetForm
}

func (r *Router) issueToken() string {
	r.nextToken++
	tok := fmt.Sprintf("tok%d", r.nextToken)
	r.sessions[tok] = true
	return tok
}

func setSessionCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: tok, Path: "/"})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins++

	if r.loginStatus != 0 {
		w.WriteHeader(r.loginStatus)
		return
	}
	if err := req.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ok := req.PostForm.Get("username") == "admin" && req.PostForm.Get("password") == r.passwordHash
	if ok && r.rejectLogins > 0 {
		r.rejectLogins--
		ok = false
	}
	if !ok {
		if r.variant == CookieOnOK {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, req, "/login.html", http.StatusFound)
		return
	}

	switch r.variant {
	case CookieOnOK:
		setSessionCookie(w, r.issueToken())
		w.WriteHeader(http.StatusOK)
	case CookieOnRedirect:
		setSessionCookie(w, r.issueToken())
		http.Redirect(w, req, "/main.html", http.StatusFound)
	case CookieOnLanding:
		r.pending = r.issueToken()
		http.Redirect(w, req, "/main.html", http.StatusFound)
	}
}

func (r *Router) handleMain(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.landings++

	if r.pending != "" {
		setSessionCookie(w, r.pending)
		r.pending = ""
	} else if !r.validLocked(req) {
		http.Redirect(w, req, "/login.html", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte("<html><body>main</body></html>"))
}

func (r *Router) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(LoginPageHTML))
}

func (r *Router) validLocked(req *http.Request) bool {
	c, err := req.Cookie(CookieName)
	return err == nil && r.sessions[c.Value]
}

// authorize counts the call and reports whether it carries a live session.
// It writes the login page answer when it does not. r.mu must be held.
func (r *Router) authorize(w http.ResponseWriter, req *http.Request) bool {
	r.requests[req.URL.Path]++
	if r.expireNext > 0 {
		r.expireNext--
		r.sessions = make(map[string]bool)
	}
	if r.validLocked(req) {
		return true
	}
	if r.redirectOnExp {
		http.Redirect(w, req, "/login.html", http.StatusFound)
		return false
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(LoginPageHTML))
	return false
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (r *Router) handleGuestGet(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.authorize(w, req) {
		return
	}
	writeJSON(w, fmt.Sprintf(`{"guestEn":%q,"guestEn_5g":%q,"guestSsid":"Free WiFi 2.4G"}`, r.guestEn, r.guestEn5G))
}

func (r *Router) handleGuestSet(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.authorize(w, req) {
		return
	}
	if err := req.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.lastSetForm = req.PostForm
	r.guestEn = req.PostForm.Get("guestEn")
	r.guestEn5G = req.PostForm.Get("guestEn_5g")
	writeJSON(w, `{"errCode":0}`)
}

func (r *Router) handleOnlineList(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.authorize(w, req) {
		return
	}
	writeJSON(w, r.onlineList)
}
