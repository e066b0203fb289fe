package transporter

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/oshokin/transporter/internal/client"
	"github.com/oshokin/transporter/internal/cookie"
)

// applyConfig stores a single option without rebuilding the adapter.
// A nil value removes the option.
//
//nolint:cyclop // One branch per recognized option.
func (t *Transport) applyConfig(name string, value any) error {
	if value == nil {
		t.unsetConfig(name)

		return nil
	}

	switch name {
	case client.OptionHeaders:
		headers, err := toHeaders(value)
		if err != nil {
			return err
		}

		t.config.Headers = normalizeHeaders(headers)
		t.syncRequestHeaders()
	case client.OptionCookies:
		jar, err := toCookieJar(value)
		if err != nil {
			return err
		}

		t.config.Cookies = jar
	case client.OptionTimeout:
		timeout, err := toTimeout(value)
		if err != nil {
			return err
		}

		t.config.Timeout = timeout
	case client.OptionAllowRedirects:
		allow, ok := value.(bool)
		if !ok {
			return invalidOptionType(name, value)
		}

		t.config.AllowRedirects = allow
	case client.OptionBaseURI:
		baseURI, err := toURI(value)
		if err != nil {
			return err
		}

		t.config.BaseURI = baseURI
	case client.OptionFormParams, client.OptionMultipart:
		params, err := toParams(value)
		if err != nil {
			return err
		}

		if err = t.switchParamType(ParamType(name)); err != nil {
			return err
		}

		t.setParamSet(ParamType(name), params)
	case client.OptionProxy:
		proxy, err := toURI(value)
		if err != nil {
			return err
		}

		t.config.Proxy = proxy
	case client.OptionVerify:
		verify, ok := value.(bool)
		if !ok {
			return invalidOptionType(name, value)
		}

		t.config.InsecureSkipVerify = !verify
	default:
		if t.config.Extra == nil {
			t.config.Extra = make(map[string]any)
		}

		t.config.Extra[name] = value
	}

	return nil
}

// unsetConfig removes an option, restoring its zero value.
func (t *Transport) unsetConfig(name string) {
	switch name {
	case client.OptionHeaders:
		t.config.Headers = nil
		t.syncRequestHeaders()
	case client.OptionCookies:
		t.config.Cookies = nil
	case client.OptionTimeout:
		t.config.Timeout = 0
	case client.OptionAllowRedirects:
		t.config.AllowRedirects = false
	case client.OptionBaseURI:
		t.config.BaseURI = ""
	case client.OptionFormParams:
		t.config.FormParams = nil
	case client.OptionMultipart:
		t.config.Multipart = nil
	case client.OptionProxy:
		t.config.Proxy = ""
	case client.OptionVerify:
		t.config.InsecureSkipVerify = false
	default:
		delete(t.config.Extra, name)
	}
}

func invalidOptionType(name string, value any) error {
	return fmt.Errorf("%w: option %s does not accept %T", ErrInvalidArgument, name, value)
}

func toHeaders(value any) (map[string][]string, error) {
	switch typed := value.(type) {
	case http.Header:
		return typed, nil
	case map[string][]string:
		return typed, nil
	case map[string]string:
		result := make(map[string][]string, len(typed))
		for name, item := range typed {
			result[name] = []string{item}
		}

		return result, nil
	case map[string]any:
		result := make(map[string][]string, len(typed))

		for name, item := range typed {
			switch values := item.(type) {
			case string:
				result[name] = []string{values}
			case []string:
				result[name] = values
			default:
				result[name] = []string{fmt.Sprint(values)}
			}
		}

		return result, nil
	}

	return nil, invalidOptionType(client.OptionHeaders, value)
}

func toCookieJar(value any) (*cookie.Jar, error) {
	switch typed := value.(type) {
	case *cookie.Jar:
		return typed, nil
	case map[string]string:
		return cookie.New(typed), nil
	}

	return nil, invalidOptionType(client.OptionCookies, value)
}

// toTimeout accepts a time.Duration, a duration string, or a number of seconds.
func toTimeout(value any) (time.Duration, error) {
	var timeout time.Duration

	switch typed := value.(type) {
	case time.Duration:
		timeout = typed
	case int:
		timeout = time.Duration(typed) * time.Second
	case int64:
		timeout = time.Duration(typed) * time.Second
	case float64:
		timeout = time.Duration(typed * float64(time.Second))
	case float32:
		timeout = time.Duration(float64(typed) * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(typed)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		timeout = parsed
	default:
		return 0, invalidOptionType(client.OptionTimeout, value)
	}

	if timeout < 0 {
		return 0, fmt.Errorf("%w: timeout must not be negative", ErrInvalidArgument)
	}

	return timeout, nil
}

func toURI(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		if _, err := url.Parse(typed); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		return typed, nil
	case *url.URL:
		if typed == nil {
			return "", nil
		}

		return typed.String(), nil
	}

	return "", fmt.Errorf("%w: uri must be a string or *url.URL, %T given", ErrInvalidArgument, value)
}

func toParams(value any) (client.Params, error) {
	switch typed := value.(type) {
	case client.Params:
		return typed.Clone(), nil
	case map[string]any:
		return client.Params(typed).Clone(), nil
	case map[string]string:
		result := make(client.Params, len(typed))
		for name, item := range typed {
			result[name] = item
		}

		return result, nil
	case url.Values:
		result := make(client.Params, len(typed))
		for name, items := range typed {
			result[name] = append([]string(nil), items...)
		}

		return result, nil
	}

	return nil, fmt.Errorf("%w: parameters must be a map, %T given", ErrInvalidArgument, value)
}
