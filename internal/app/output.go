package app

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/transporter/internal/client"
	"github.com/oshokin/transporter/internal/constants"
	"github.com/oshokin/transporter/internal/logger"
	"github.com/oshokin/transporter/internal/transporter"
	"github.com/oshokin/transporter/internal/utils"
)

// dump is the dry-run rendition of a prepared request.
type dump struct {
	// Method is the HTTP method.
	Method string `yaml:"method"`
	// URI is the request target.
	URI string `yaml:"uri"`
	// Headers are the request headers.
	Headers map[string][]string `yaml:"headers,omitempty"`
	// Config holds every other configured option.
	Config map[string]any `yaml:"config"`
}

// writeDump prints the request snapshot and configuration of t as YAML.
func writeDump(w io.Writer, t *transporter.Transport) error {
	request := t.Request()
	options := t.GetConfig().Options()

	delete(options, client.OptionHeaders)

	for _, name := range []string{client.OptionFormParams, client.OptionMultipart} {
		if params, ok := options[name].(map[string]any); ok {
			options[name] = renderParams(params)
		}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2) //nolint:mnd // Two spaces match the configuration file style.

	err := encoder.Encode(dump{
		Method:  request.Method,
		URI:     request.URI,
		Headers: request.Header,
		Config:  options,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request dump: %w", err)
	}

	return encoder.Close()
}

// renderParams replaces binary parameter values with printable placeholders.
func renderParams(params map[string]any) map[string]any {
	result := maps.Clone(params)

	for name, value := range result {
		switch typed := value.(type) {
		case *client.File:
			result[name] = "@" + typed.Name
		case client.File:
			result[name] = "@" + typed.Name
		case []byte:
			result[name] = fmt.Sprintf("<%s>", humanize.Bytes(uint64(len(typed))))
		case io.Reader:
			result[name] = "<stream>"
		}
	}

	return result
}

// printStatus writes the status line of response, coloured by status class.
func printStatus(w io.Writer, response *client.Response) {
	statusColor := color.New(color.FgGreen, color.Bold)

	switch {
	case response.IsRedirect():
		statusColor = color.New(color.FgYellow, color.Bold)
	case response.IsClientError(), response.IsServerError():
		statusColor = color.New(color.FgRed, color.Bold)
	}

	_, _ = statusColor.Fprintf(w, "%s %s", response.Proto, response.Status)
	_, _ = fmt.Fprintf(w, " (%s, %s)\n",
		response.Duration.Round(time.Millisecond),
		humanize.Bytes(uint64(response.Size()))) //nolint:gosec // Size is never negative.
}

// printFailure writes why the request could not be completed.
func printFailure(w io.Writer, err error, isTimeout bool) {
	label := "Request failed"
	if isTimeout {
		label = "Request timed out"
	}

	_, _ = color.New(color.FgRed, color.Bold).Fprint(w, label)
	_, _ = fmt.Fprintf(w, ": %v\n", err)
}

// writeBody writes the response body to stdout or to the requested output file.
func (r *Runner) writeBody(ctx context.Context, req Request, response *client.Response) error {
	if req.Output == "" {
		if _, err := io.Copy(r.stdout, response.Body()); err != nil {
			return fmt.Errorf("failed to write response body: %w", err)
		}

		return nil
	}

	path, err := outputPath(req.Output, req.URL)
	if err != nil {
		return err
	}

	//nolint:gosec // The output path is chosen by the user on purpose.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Warnf(ctx, "Failed to close output file '%s': %v", path, closeErr)
		}
	}()

	var writer io.Writer = f

	// Progress is shown only on a terminal with informational output enabled.
	if r.showProgress && logger.Level() <= zap.InfoLevel {
		bar := progressbar.NewOptions64(
			int64(response.Size()),
			progressbar.OptionSetWriter(r.stderr),
			progressbar.OptionSetDescription("Saving"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)

		writer = io.MultiWriter(f, bar)
	}

	written, err := io.Copy(writer, response.Body())
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Infof(ctx, "Saved %s to '%s'", humanize.Bytes(uint64(written)), path) //nolint:gosec // Never negative.

	return nil
}

// outputPath resolves where the body is saved. A directory, or a path ending with
// a separator, receives a file named after the last segment of the request URL.
func outputPath(output, rawURL string) (string, error) {
	isDir := strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(os.PathSeparator))

	if !isDir {
		stat, err := os.Stat(output)
		isDir = err == nil && stat.IsDir()
	}

	if !isDir {
		return output, nil
	}

	if err := os.MkdirAll(output, constants.DefaultFolderPermissions); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var urlPath string

	if parsed, err := url.Parse(rawURL); err == nil {
		urlPath = parsed.Path
	}

	return filepath.Join(output, utils.RemoteFilename(urlPath)), nil
}
