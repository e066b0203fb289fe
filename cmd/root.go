package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/transporter/internal/app"
	"github.com/oshokin/transporter/internal/config"
	"github.com/oshokin/transporter/internal/logger"
	"github.com/oshokin/transporter/internal/version"
)

// requiredArgsCount is the number of positional arguments: METHOD and URL.
const requiredArgsCount = 2

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "transporter [flags] METHOD URL",
		Short: "Build and send a single HTTP request.",
		Long: `Transporter is a CLI tool for sending HTTP requests.
It supports:
- Any standard or WebDAV method
- Custom headers and cookies
- URL-encoded and multipart bodies, including file uploads
- Browser-like headers with a generated User-Agent

Defaults for every request can be kept in a YAML configuration file.`,
		Version:          version.Full(),
		Args:             cobra.ExactArgs(requiredArgsCount),
		PersistentPreRun: initConfig,
		SilenceUsage:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			return app.ExecuteRootCommand(cmd.Context(), appConfig, requestFromFlags(cmd.Flags(), args))
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringArrayP(
		"header",
		"H",
		nil,
		"request header in 'Name: value' form, can be repeated; values are added to the configured ones.")

	rootCmdFlags.StringArrayP(
		"data",
		"d",
		nil,
		"URL-encoded body field in 'name=value' form, can be repeated.")

	rootCmdFlags.StringArrayP(
		"form",
		"F",
		nil,
		"multipart body field in 'name=value' or 'name=@path' form, can be repeated.")

	rootCmdFlags.StringArrayP(
		"cookie",
		"b",
		nil,
		"cookie in 'name=value' form, can be repeated.")

	rootCmdFlags.String(
		"cookie-domain",
		"",
		"send cookies only to this domain and its subdomains.")

	rootCmdFlags.StringP(
		"timeout",
		"t",
		"",
		"request timeout, for example: 500ms, 10s, 1m.")

	rootCmdFlags.Bool(
		"no-redirect",
		false,
		"do not follow redirects.")

	rootCmdFlags.Bool(
		"browser",
		false,
		"send browser-like headers with a generated User-Agent.")

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"file or directory to save the response body to (stdout by default).")

	rootCmdFlags.Bool(
		"dry-run",
		false,
		"print the prepared request as YAML without sending it.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = config.ValidateConfig(appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Invalid configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

// bindFlagsToConfig applies changed flags on top of the configuration and validates the result.
// Headers and cookies given on the command line are added to the configured ones.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("header"); flag != nil && flag.Changed {
		headers, _ := flags.GetStringArray("header")
		cfg.Headers = append(cfg.Headers, headers...)
	}

	if flag := flags.Lookup("cookie"); flag != nil && flag.Changed {
		cookies, _ := flags.GetStringArray("cookie")
		cfg.Cookies = append(cfg.Cookies, cookies...)
	}

	if flag := flags.Lookup("cookie-domain"); flag != nil && flag.Changed {
		cfg.CookieDomain, _ = flags.GetString("cookie-domain")
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Timeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("no-redirect"); flag != nil && flag.Changed {
		noRedirect, _ := flags.GetBool("no-redirect")
		cfg.AllowRedirects = !noRedirect
	}

	if flag := flags.Lookup("browser"); flag != nil && flag.Changed {
		cfg.Browser, _ = flags.GetBool("browser")
	}

	return config.ValidateConfig(cfg)
}

// requestFromFlags collects the per-request flags and positional arguments.
func requestFromFlags(flags *pflag.FlagSet, args []string) app.Request {
	req := app.Request{}

	if len(args) == requiredArgsCount {
		req.Method = args[0]
		req.URL = args[1]
	}

	req.Data, _ = flags.GetStringArray("data")
	req.Form, _ = flags.GetStringArray("form")
	req.Output, _ = flags.GetString("output")
	req.DryRun, _ = flags.GetBool("dry-run")

	return req
}
