package main

import (
	"net/http"
	"time"

	"github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda"
)

// Router connection pool settings. One router, few concurrent calls.
const (
	routerMaxIdleConns    = 4
	routerIdleConnTimeout = 30 * time.Second
)

// newRouterHTTPClient builds the transport shared by the session manager and executor
func newRouterHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        routerMaxIdleConns,
			MaxIdleConnsPerHost: routerMaxIdleConns,
			IdleConnTimeout:     routerIdleConnTimeout,
		},
	}
}

// newTendaClient wires a router client from cfg
func newTendaClient(cfg *Config) *tenda.Client {
	creds := tenda.NewCredentials(cfg.Router.URL, cfg.Router.Password)
	return tenda.NewClient(creds,
		tenda.WithHTTPClient(newRouterHTTPClient(cfg.Router.Timeout)),
		tenda.WithTimeout(cfg.Router.Timeout),
		tenda.WithMaxLoginRetries(cfg.Router.MaxLoginRetries),
		tenda.WithLoginLockout(cfg.Router.LoginLockout),
		tenda.WithGuestNetworkSettings(cfg.Guest),
		tenda.WithLogger(logger.Named("tenda")),
	)
}
