package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/oshokin/transporter/internal/client"
	"github.com/oshokin/transporter/internal/utils"
)

// filePrefix marks a multipart field whose value is read from a file.
const filePrefix = "@"

// Static error definitions for better error handling.
var (
	// ErrInvalidField indicates that a body field is not in "name=value" form.
	ErrInvalidField = errors.New("field must be in 'name=value' form")
	// ErrMixedBody indicates that urlencoded and multipart fields were both given.
	ErrMixedBody = errors.New("--data and --form cannot be combined")
)

// Request describes a single exchange issued from the command line.
type Request struct {
	// Method is the HTTP method.
	Method string
	// URL is the request target, absolute or relative to the configured base URI.
	URL string
	// Data are urlencoded body fields in "name=value" form.
	Data []string
	// Form are multipart body fields in "name=value" or "name=@path" form.
	Form []string
	// Output is the file or directory the response body is saved to. Empty means stdout.
	Output string
	// DryRun prints the prepared request instead of sending it.
	DryRun bool
}

// parseDataFields converts "name=value" pairs into urlencoded parameters.
// Repeated names collect their values in order.
func parseDataFields(fields []string) (client.Params, error) {
	values := make(map[string][]string, len(fields))

	for _, field := range fields {
		name, value, ok := utils.SplitKeyValue(field, "=")
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidField, field)
		}

		values[name] = append(values[name], value)
	}

	params := make(client.Params, len(values))

	for name, items := range values {
		if len(items) == 1 {
			params[name] = items[0]
		} else {
			params[name] = items
		}
	}

	return params, nil
}

// parseFormFields converts multipart fields into parameters, opening every "@path" file.
// The returned closer releases the opened files; it is never nil.
func parseFormFields(fields []string) (client.Params, func(), error) {
	params := make(client.Params, len(fields))
	files := make([]*os.File, 0, len(fields))

	closeFiles := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, field := range fields {
		name, value, ok := utils.SplitKeyValue(field, "=")
		if !ok {
			closeFiles()

			return nil, func() {}, fmt.Errorf("%w: '%s'", ErrInvalidField, field)
		}

		path, isFile := strings.CutPrefix(value, filePrefix)
		if !isFile {
			params[name] = value

			continue
		}

		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			closeFiles()

			return nil, func() {}, fmt.Errorf("failed to open form file: %w", err)
		}

		files = append(files, f)

		params[name] = &client.File{
			Name:        filepath.Base(path),
			ContentType: detectContentType(f),
			Reader:      f,
		}
	}

	return params, closeFiles, nil
}

// detectContentType sniffs the media type of f and rewinds it.
// An empty result lets the adapter fall back to its default part type.
func detectContentType(f *os.File) string {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return ""
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return ""
	}

	return mtype.String()
}
