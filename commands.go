package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda"
)

// cliOptions are the flags shared by every command
type cliOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
}

// newRootCmd builds the command tree. A fresh tree per call keeps tests independent.
func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "tenda-relay",
		Short: "Guest WiFi control for Tenda routers",
		Long: `Tenda-relay logs into a Tenda router's web admin interface and exposes its
guest WiFi switch and guest client list as a small JSON API.

Router access comes from ADMIN_URL and ADMIN_PASSWORD (or the router section
of the --config file). Environment variables override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides LOG_LEVEL")
	root.PersistentFlags().StringVar(&opts.outputFormat, "format", "text", "Output format for router commands (text, json)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newToggleCmd(opts))
	root.AddCommand(newUsersCmd(opts))
	return root
}

// setup loads the configuration and starts the logger
func (o *cliOptions) setup() (*Config, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := initLoggerWrapper(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Example: `  # Serve on the default port 3001
  ADMIN_URL=192.168.0.1 ADMIN_PASSWORD=secret tenda-relay serve

  # Serve with a config file on another port
  tenda-relay serve --config relay.yaml --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.setup()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides SERVER_ADDR")
	return cmd
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the guest network is on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c *tenda.Client) error {
				status, err := c.GuestWifiStatus(ctx)
				if err != nil {
					return fmt.Errorf("read guest WiFi status: %w", err)
				}
				if opts.outputFormat == "json" {
					return writeJSON(cmd.OutOrStdout(), status)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "2.4GHz: %s\n5GHz:   %s\n", onOff(status.Enabled24GHz), onOff(status.Enabled5GHz))
				return nil
			})
		},
	}
}

func newToggleCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "toggle on|off",
		Short:     "Switch the guest network on or off on both bands",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enable := args[0] == "on"
			return opts.withClient(cmd, func(ctx context.Context, c *tenda.Client) error {
				result, err := c.SetGuestWifi(ctx, enable)
				if err != nil {
					return fmt.Errorf("switch guest WiFi: %w", err)
				}
				if opts.outputFormat == "json" {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Guest WiFi %s\n", onOff(result.WifiStatus))
				return nil
			})
		},
	}
}

func newUsersCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List devices connected to the guest network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c *tenda.Client) error {
				users, err := c.GuestClients(ctx)
				if err != nil {
					return fmt.Errorf("list guest WiFi users: %w", err)
				}
				if opts.outputFormat == "json" {
					return writeJSON(cmd.OutOrStdout(), GuestWifiUsersData{GuestWifiUsers: users})
				}
				return writeUsersTable(cmd.OutOrStdout(), users)
			})
		},
	}
}

// withClient runs fn against a freshly configured router client with the CLI timeout
func (o *cliOptions) withClient(cmd *cobra.Command, fn func(context.Context, *tenda.Client) error) error {
	cfg, err := o.setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), DefaultCLITimeout)
	defer cancel()
	return fn(ctx, newTendaClient(cfg))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeUsersTable(w io.Writer, users []tenda.GuestClient) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No guest devices connected.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tIP\tMAC\tBAND\tUP\tDOWN\tBLOCKED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			u.DeviceName, u.IP, u.DeviceID, u.Line, u.UploadSpeed, u.DownloadSpeed, u.IsBlacklisted)
	}
	return tw.Flush()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
