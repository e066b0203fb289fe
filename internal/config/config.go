package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/transporter/internal/logger"
	"github.com/oshokin/transporter/internal/utils"
)

// Config holds all configuration settings of the command line driver.
type Config struct {
	// BaseURI is resolved against relative request URIs.
	BaseURI string `mapstructure:"base_uri"`
	// Timeout is the request timeout (e.g., "10s", "1m").
	Timeout string `mapstructure:"timeout"`
	// AllowRedirects indicates whether redirects are followed.
	AllowRedirects bool `mapstructure:"allow_redirects"`
	// Headers are default request headers in "Name: value" form.
	Headers []string `mapstructure:"headers"`
	// Cookies are default request cookies in "name=value" form.
	Cookies []string `mapstructure:"cookies"`
	// CookieDomain scopes the default cookies to a single domain. Empty means unscoped.
	CookieDomain string `mapstructure:"cookie_domain"`
	// Browser indicates whether browser-like headers are sent.
	Browser bool `mapstructure:"browser"`
	// Proxy is the proxy URL used for every request. Empty means the environment proxy.
	Proxy string `mapstructure:"proxy"`
	// Verify indicates whether TLS certificates are verified.
	Verify bool `mapstructure:"verify"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxLogLength limits the size of logged request/response dumps (e.g., "1MiB", "64KB").
	MaxLogLength string `mapstructure:"max_log_length"`
	// ParsedTimeout is the parsed request timeout.
	ParsedTimeout time.Duration
	// ParsedHeaders are the parsed default headers, keyed as written.
	ParsedHeaders map[string][]string
	// ParsedCookies are the parsed default cookies.
	ParsedCookies map[string]string
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxLogLength is the parsed dump size limit in bytes.
	ParsedMaxLogLength uint64
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".transporter.yaml"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = "10s"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultMaxLogLength is the default maximum size (in bytes) of logged dumps.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB
)

// Static error definitions for better error handling.
var (
	// ErrInvalidTimeout indicates that the timeout setting is invalid.
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidMaxLogLength indicates that the maximum log length is invalid.
	ErrInvalidMaxLogLength = errors.New("max_log_length must be positive")
	// ErrInvalidBaseURI indicates that the base URI is not an absolute URL.
	ErrInvalidBaseURI = errors.New("base_uri must be an absolute URL")
	// ErrInvalidProxy indicates that the proxy is not an absolute URL.
	ErrInvalidProxy = errors.New("proxy must be an absolute URL")
	// ErrInvalidHeader indicates that a header is not in "Name: value" form.
	ErrInvalidHeader = errors.New("header must be in 'Name: value' form")
	// ErrInvalidCookie indicates that a cookie is not in "name=value" form.
	ErrInvalidCookie = errors.New("cookie must be in 'name=value' form")
)

// LoadConfig loads configuration settings from a YAML file.
// An empty filename reads DefaultConfigFilename when it exists and falls back to defaults otherwise;
// an explicit filename must exist.
func LoadConfig(configFilename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFilename == "" {
		exists, err := utils.IsFileExist(DefaultConfigFilename)
		if err != nil {
			return nil, fmt.Errorf("failed to check config file: %w", err)
		}

		if exists {
			configFilename = DefaultConfigFilename
		}
	}

	if configFilename != "" {
		v.SetConfigFile(configFilename)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	timeout := strings.TrimSpace(cfg.Timeout)
	if timeout == "" {
		timeout = DefaultTimeout
	}

	cfg.ParsedTimeout, err = time.ParseDuration(timeout)
	if err != nil {
		return fmt.Errorf("failed to parse timeout: %w", err)
	}

	if cfg.ParsedTimeout <= 0 {
		return ErrInvalidTimeout
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect && strings.TrimSpace(cfg.LogLevel) != "" {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedMaxLogLength = DefaultMaxLogLength

	if maxLogLength := strings.TrimSpace(cfg.MaxLogLength); maxLogLength != "" {
		cfg.ParsedMaxLogLength, err = humanize.ParseBytes(maxLogLength)
		if err != nil {
			return fmt.Errorf("failed to parse max log length: %w", err)
		}

		if cfg.ParsedMaxLogLength == 0 {
			return ErrInvalidMaxLogLength
		}
	}

	if cfg.BaseURI != "" && !isAbsoluteURL(cfg.BaseURI) {
		return fmt.Errorf("%w: '%s'", ErrInvalidBaseURI, cfg.BaseURI)
	}

	if cfg.Proxy != "" && !isAbsoluteURL(cfg.Proxy) {
		return fmt.Errorf("%w: '%s'", ErrInvalidProxy, cfg.Proxy)
	}

	cfg.ParsedHeaders, err = ParseHeaders(cfg.Headers)
	if err != nil {
		return err
	}

	cfg.ParsedCookies, err = ParseCookies(cfg.Cookies)
	if err != nil {
		return err
	}

	return nil
}

// ParseHeaders converts "Name: value" lines into a header map keyed by canonical names,
// appending the values of repeated names.
func ParseHeaders(lines []string) (map[string][]string, error) {
	result := make(map[string][]string, len(lines))

	for _, line := range lines {
		name, value, ok := utils.SplitKeyValue(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidHeader, line)
		}

		name = http.CanonicalHeaderKey(name)
		result[name] = append(result[name], value)
	}

	return result, nil
}

// ParseCookies converts "name=value" pairs into a cookie map. Later pairs win.
func ParseCookies(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		name, value, ok := utils.SplitKeyValue(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidCookie, pair)
		}

		result[name] = value
	}

	return result, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("allow_redirects", true)
	v.SetDefault("verify", true)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("max_log_length", humanize.IBytes(DefaultMaxLogLength))
}

func isAbsoluteURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)

	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
