// File: cmd/introspect.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the service configuration",
		Example: `  browserless config
  browserless config --key concurrent`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Config().Get(cmd.Context())
			if err != nil {
				return err
			}
			if key != "" {
				return a.print(cmd, resp.Get(key, nil))
			}
			data, err := resp.Data()
			if err != nil {
				return err
			}
			return a.print(cmd, data)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "dotted path of a single setting to print")
	return cmd
}

func newMetricsCmd(a *app) *cobra.Command {
	var (
		total  bool
		latest bool
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show service usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.client.Metrics()
			get := m.Get
			if total {
				get = m.Total
			}
			resp, err := get(cmd.Context())
			if err != nil {
				return err
			}
			if latest {
				entry, _ := resp.Latest()
				return a.print(cmd, entry)
			}
			data, err := resp.Data()
			if err != nil {
				return err
			}
			return a.print(cmd, data)
		},
	}

	cmd.Flags().BoolVar(&total, "total", false, "show the aggregate since the service started")
	cmd.Flags().BoolVar(&latest, "latest", false, "show only the newest window")
	cmd.MarkFlagsMutuallyExclusive("total", "latest")
	return cmd
}

func newSessionsCmd(a *app) *cobra.Command {
	var (
		running bool
		id      string
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List browser sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Sessions().Get(cmd.Context())
			if err != nil {
				return err
			}
			switch {
			case id != "":
				s, ok := resp.FindByID(id)
				if !ok {
					return fmt.Errorf("no session with id %q", id)
				}
				return a.print(cmd, s)
			case running:
				sessions, err := resp.Running()
				if err != nil {
					return err
				}
				return a.print(cmd, sessions)
			default:
				sessions, err := resp.Data()
				if err != nil {
					return err
				}
				return a.print(cmd, sessions)
			}
		},
	}

	cmd.Flags().BoolVar(&running, "running", false, "list only running sessions")
	cmd.Flags().StringVar(&id, "id", "", "show the session with this browser id")
	cmd.MarkFlagsMutuallyExclusive("running", "id")
	return cmd
}
