package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/oshokin/transporter/internal/client"
	"github.com/oshokin/transporter/internal/config"
	"github.com/oshokin/transporter/internal/logger"
	"github.com/oshokin/transporter/internal/transporter"
)

// Runner executes command line requests.
type Runner struct {
	// cfg is the validated application configuration.
	cfg *config.Config
	// factory builds the HTTP client adapters.
	factory client.Factory
	// stdout receives response bodies and dry-run dumps.
	stdout io.Writer
	// stderr receives status lines and progress.
	stderr io.Writer
	// showProgress enables the progress bar while saving a body to a file.
	showProgress bool
}

// NewRunner creates a Runner writing to the process standard streams.
// A nil factory builds resty adapters limited by the configured dump size.
func NewRunner(cfg *config.Config, factory client.Factory) *Runner {
	if factory == nil {
		factory = client.NewRestyFactory(client.WithMaxLogLength(cfg.ParsedMaxLogLength))
	}

	return &Runner{
		cfg:     cfg,
		factory: factory,
		stdout:  os.Stdout,
		stderr:  os.Stderr,

		showProgress: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// ExecuteRootCommand is the entry point for the application.
// It builds the transport for req and either dumps or sends it.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, req Request) error {
	return NewRunner(cfg, nil).Run(ctx, req)
}

// Run builds the transport for req, then dumps it on a dry run or sends it.
// A failed send is returned as an error; HTTP error statuses are not.
func (r *Runner) Run(ctx context.Context, req Request) error {
	t, release, err := r.BuildTransport(req)
	if err != nil {
		return err
	}

	defer release()

	if req.DryRun {
		logger.Debug(ctx, "Dry run, the request is not sent")

		return writeDump(r.stdout, t)
	}

	result := t.Send(ctx)

	response, err := result.GetResponse()
	if err != nil {
		printFailure(r.stderr, err, result.IsTimeout())

		return err
	}

	printStatus(r.stderr, response)

	return r.writeBody(ctx, req, response)
}

// BuildTransport turns the configuration and req into a ready to send Transport.
// The returned release function closes files opened for multipart fields.
//
//nolint:cyclop // Each request feature is applied in its own step.
func (r *Runner) BuildTransport(req Request) (*transporter.Transport, func(), error) {
	noop := func() {}

	if len(req.Data) > 0 && len(req.Form) > 0 {
		return nil, noop, ErrMixedBody
	}

	options := map[string]any{
		client.OptionTimeout:        r.cfg.ParsedTimeout,
		client.OptionAllowRedirects: r.cfg.AllowRedirects,
		client.OptionVerify:         r.cfg.Verify,
	}

	if r.cfg.Proxy != "" {
		options[client.OptionProxy] = r.cfg.Proxy
	}

	t, err := r.newTransport(req, options)
	if err != nil {
		return nil, noop, err
	}

	if len(r.cfg.ParsedCookies) > 0 {
		t = t.WithCookieArray(r.cfg.ParsedCookies, r.cfg.CookieDomain)
	}

	if r.cfg.Browser {
		t = t.WithBrowser()
	}

	if len(r.cfg.ParsedHeaders) > 0 {
		t.ReplaceHeaders(r.cfg.ParsedHeaders)
	}

	if len(req.Data) > 0 {
		params, parseErr := parseDataFields(req.Data)
		if parseErr != nil {
			return nil, noop, parseErr
		}

		if t, err = t.WithTypedParams(params, transporter.ParamForm); err != nil {
			return nil, noop, err
		}
	}

	if len(req.Form) == 0 {
		return t, noop, nil
	}

	params, release, err := parseFormFields(req.Form)
	if err != nil {
		return nil, noop, err
	}

	if t, err = t.WithTypedParams(params, transporter.ParamMultipart); err != nil {
		release()

		return nil, noop, err
	}

	return t, release, nil
}

// newTransport creates the Transport for req. Without a configured base URI the target
// itself becomes the base; otherwise the target is resolved against the configured one.
func (r *Runner) newTransport(req Request, options map[string]any) (*transporter.Transport, error) {
	factory := transporter.UseFactory(r.factory)

	if r.cfg.BaseURI == "" {
		t, err := transporter.Call(req.Method, req.URL, options, factory)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare request: %w", err)
		}

		return t, nil
	}

	options[client.OptionBaseURI] = r.cfg.BaseURI

	base, err := transporter.New("", options, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare request: %w", err)
	}

	t, err := base.Call(req.Method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare request: %w", err)
	}

	return t, nil
}
