// Tenda-relay is an HTTP backend that switches and inspects the guest WiFi of
// a Tenda router through the router's web admin interface.
//
// Usage:
//
//	tenda-relay serve [--config relay.yaml]
//	tenda-relay status
//	tenda-relay toggle on|off
//	tenda-relay users
//
// Router access is configured with ADMIN_URL and ADMIN_PASSWORD.
// See 'tenda-relay --help' for everything else.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// logger is shared by the whole service. Replaced by initLoggerWrapper at startup.
var logger = zap.NewNop()

// @title Tenda Relay API
// @version 1.0
// @description Guest WiFi control for Tenda routers
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
