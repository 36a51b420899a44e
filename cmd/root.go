// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browserless-go/internal/config"
	"github.com/xkilldash9x/browserless-go/internal/observability"
	"github.com/xkilldash9x/browserless-go/pkg/browserless"
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string
	output  string

	cfg    *config.Config
	client *browserless.Client
}

// NewRootCommand builds a fresh command tree. Each call returns independent
// state so tests and repeated invocations never share flags.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "browserless",
		Short:         "Render, scrape and automate pages on a remote Browserless service.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return a.initialize(cmd)
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./browserless.yaml or ~/.browserless/browserless.yaml)")
	flags.String("token", "", "API token (overrides BROWSERLESS_TOKEN)")
	flags.String("api-url", "", "service base URL (overrides BROWSERLESS_URL)")
	flags.StringVarP(&a.output, "output", "o", formatJSON, "structured output format: json or yaml")

	rootCmd.AddCommand(
		newPDFCmd(a),
		newScreenshotCmd(a),
		newContentCmd(a),
		newScrapeCmd(a),
		newFunctionCmd(a),
		newDownloadCmd(a),
		newUnblockCmd(a),
		newBQLCmd(a),
		newPerformanceCmd(a),
		newConfigCmd(a),
		newMetricsCmd(a),
		newSessionsCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Execute runs the command tree with ctx, which main ties to SIGINT and SIGTERM.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	defer observability.Sync()
	if err != nil && !errors.Is(err, context.Canceled) {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
	}
	return err
}

// initialize loads configuration, starts logging and builds the SDK client.
func (a *app) initialize(cmd *cobra.Command) error {
	if err := validateFormat(a.output); err != nil {
		return err
	}

	v := config.NewViper(a.cfgFile)
	root := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("browserless.token", root.Lookup("token")); err != nil {
		return err
	}
	if err := v.BindPFlag("browserless.url", root.Lookup("api-url")); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	logger := observability.GetLogger()
	logger.Debug("Configuration loaded",
		zap.String("url", cfg.Browserless.URL),
		zap.String("version", Version),
	)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	a.client = client
	return nil
}
