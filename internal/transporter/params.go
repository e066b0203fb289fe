package transporter

import (
	"fmt"
	"maps"
	"slices"

	"github.com/oshokin/transporter/internal/client"
)

// ParamType selects how body parameters are encoded.
type ParamType string

// Body parameter types. Only one of them is present in a configuration at a time.
const (
	// ParamForm sends parameters as an application/x-www-form-urlencoded body.
	ParamForm ParamType = client.OptionFormParams
	// ParamMultipart sends parameters as a multipart/form-data body.
	ParamMultipart ParamType = client.OptionMultipart
)

// Valid reports whether p is one of the two parameter types.
func (p ParamType) Valid() bool {
	return p == ParamForm || p == ParamMultipart
}

// other returns the opposite parameter type.
func (p ParamType) other() ParamType {
	if p == ParamForm {
		return ParamMultipart
	}

	return ParamForm
}

// paramSet returns the parameter set stored under p, nil when absent.
func (t *Transport) paramSet(p ParamType) client.Params {
	if p == ParamMultipart {
		return t.config.Multipart
	}

	return t.config.FormParams
}

// setParamSet stores params under p.
func (t *Transport) setParamSet(p ParamType, params client.Params) {
	if p == ParamMultipart {
		t.config.Multipart = params

		return
	}

	t.config.FormParams = params
}

// switchParamType makes p the active type. The new set is the value already stored
// under p, else the value under the previous type, else empty; the other key is removed.
func (t *Transport) switchParamType(p ParamType) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q given", ErrInvalidParamType, string(p))
	}

	params := t.paramSet(p)
	if params == nil {
		params = t.paramSet(p.other())
	}

	if params == nil {
		params = make(client.Params)
	}

	t.setParamSet(p, params)
	t.setParamSet(p.other(), nil)
	t.paramType = p

	return nil
}

// resolveParamType picks the type WithParams uses when none is given: the active type
// if its set exists, else whichever set exists (form first), else form.
func (t *Transport) resolveParamType() ParamType {
	switch {
	case t.paramSet(t.paramType) != nil:
		return t.paramType
	case t.config.FormParams != nil:
		return ParamForm
	case t.config.Multipart != nil:
		return ParamMultipart
	}

	return ParamForm
}

// ParamType returns the active parameter type.
func (t *Transport) ParamType() ParamType {
	return t.paramType
}

// Params returns a copy of the active parameter set, nil when absent.
func (t *Transport) Params() client.Params {
	return t.paramSet(t.paramType).Clone()
}

// SetParamType switches the active parameter type in place, carrying existing
// parameters over. It fails with ErrInvalidParamType for unknown types.
func (t *Transport) SetParamType(p ParamType) error {
	if err := t.switchParamType(p); err != nil {
		return err
	}

	t.rebuild()

	return nil
}

// WithParams returns a Transport whose parameters of the resolved type are replaced by params.
func (t *Transport) WithParams(params client.Params) *Transport {
	object, _ := t.WithTypedParams(params, t.resolveParamType())

	return object
}

// WithTypedParams returns a Transport whose parameters of type p are replaced by params.
// The other parameter type is dropped.
func (t *Transport) WithTypedParams(params client.Params, p ParamType) (*Transport, error) {
	object := t.clone()

	if err := object.switchParamType(p); err != nil {
		return nil, err
	}

	if params == nil {
		params = make(client.Params)
	}

	object.setParamSet(p, params.Clone())
	object.rebuild()

	return object, nil
}

// WithoutParam returns a Transport without the named parameters of the active type.
// Without names the whole active parameter set is removed.
func (t *Transport) WithoutParam(names ...string) *Transport {
	object := t.clone()

	if len(names) == 0 {
		object.setParamSet(object.paramType, nil)
	} else if params := object.paramSet(object.paramType); params != nil {
		for _, name := range names {
			delete(params, name)
		}
	}

	object.rebuild()

	return object
}

// SetParam sets one parameter of the active type in place.
func (t *Transport) SetParam(name string, value any) *Transport {
	params := t.paramSet(t.paramType)
	if params == nil {
		params = make(client.Params)
		t.setParamSet(t.paramType, params)
	}

	params[name] = value
	t.rebuild()

	return t
}

// SetParams replaces the active parameter set with params in place.
func (t *Transport) SetParams(params client.Params) *Transport {
	t.setParamSet(t.paramType, make(client.Params, len(params)))

	return t.ReplaceParams(params)
}

// ReplaceParams sets every given parameter of the active type in place
// and rebuilds the adapter once.
func (t *Transport) ReplaceParams(params client.Params) *Transport {
	t.batch(func() {
		if t.paramSet(t.paramType) == nil {
			t.setParamSet(t.paramType, make(client.Params, len(params)))
		}

		for _, name := range slices.Sorted(maps.Keys(params)) {
			t.SetParam(name, params[name])
		}
	})

	return t
}
