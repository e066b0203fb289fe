package transporter

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
)

// Call builds a new Transport issuing verb to target with config merged onto the defaults.
// Target must be a string or *url.URL; the verb must be an allowed method.
func Call(verb string, target any, config map[string]any, opts ...Option) (*Transport, error) {
	uri, err := targetURI(target)
	if err != nil {
		return nil, err
	}

	t, err := New(uri, config, opts...)
	if err != nil {
		return nil, err
	}

	return t.WithMethod(verb)
}

// Call returns a Transport issuing verb to target that keeps the receiver's configuration.
// Each config entry is applied with SetConfig and the adapter is rebuilt once.
func (t *Transport) Call(verb string, target any, config map[string]any) (*Transport, error) {
	uri, err := targetURI(target)
	if err != nil {
		return nil, err
	}

	if err = checkExclusiveParams(config); err != nil {
		return nil, err
	}

	object, err := t.WithMethod(verb)
	if err != nil {
		return nil, err
	}

	object, err = object.WithURI(uri)
	if err != nil {
		return nil, err
	}

	object.batch(func() {
		for _, name := range slices.Sorted(maps.Keys(config)) {
			if err = object.applyConfig(name, config[name]); err != nil {
				return
			}
		}
	})

	if err != nil {
		return nil, err
	}

	return object, nil
}

// Get builds a GET Transport for target.
func Get(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodGet.String(), target, config, opts...)
}

// Post builds a POST Transport for target.
func Post(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodPost.String(), target, config, opts...)
}

// Put builds a PUT Transport for target.
func Put(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodPut.String(), target, config, opts...)
}

// Patch builds a PATCH Transport for target.
func Patch(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodPatch.String(), target, config, opts...)
}

// Delete builds a DELETE Transport for target.
func Delete(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodDelete.String(), target, config, opts...)
}

// Head builds a HEAD Transport for target.
func Head(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodHead.String(), target, config, opts...)
}

// Options builds an OPTIONS Transport for target.
func Options(target any, config map[string]any, opts ...Option) (*Transport, error) {
	return Call(MethodOptions.String(), target, config, opts...)
}

func targetURI(target any) (string, error) {
	switch typed := target.(type) {
	case string:
		return typed, nil
	case *url.URL:
		if typed != nil {
			return typed.String(), nil
		}
	}

	return "", fmt.Errorf("%w: target must be a string or *url.URL, %T given", ErrInvalidArgument, target)
}
