package client

import (
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
)

// Params is a set of body parameters keyed by field name.
// Values are strings, string slices, scalars formatted with fmt, or, for multipart bodies,
// []byte, io.Reader and File values.
type Params map[string]any

// File is a multipart file part.
type File struct {
	// Name is the file name announced in the part header.
	Name string
	// ContentType is the part content type. Empty means application/octet-stream.
	ContentType string
	// Reader supplies the part content.
	Reader io.Reader
}

// Clone returns a shallow copy of p. A nil set stays nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}

	return maps.Clone(p)
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// Values flattens the textual parameters into url.Values.
// Binary values (File, []byte, io.Reader) are skipped.
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))

	for name, value := range p {
		switch typed := value.(type) {
		case string:
			values.Add(name, typed)
		case []string:
			for _, item := range typed {
				values.Add(name, item)
			}
		case []any:
			for _, item := range typed {
				values.Add(name, fmt.Sprint(item))
			}
		case File, *File, []byte, io.Reader:
			continue
		case nil:
			values.Add(name, "")
		default:
			values.Add(name, fmt.Sprint(typed))
		}
	}

	return values
}
