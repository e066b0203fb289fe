package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBrowserUserAgent is the literal User-Agent used for baseline years and default headers.
	DefaultBrowserUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:51.0) Gecko/20100101 Firefox/51.0"

	// userAgentTemplate is the template filled in by GenerateUserAgent.
	userAgentTemplate = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:[version].0) Gecko/20100101 Firefox/[version].0"
	// userAgentVersionPlaceholder is replaced with the computed browser version.
	userAgentVersionPlaceholder = "[version]"
	// userAgentBaselineYear is the last year that yields DefaultBrowserUserAgent.
	userAgentBaselineYear = 2017
	// userAgentBaselineVersion is the browser version released in January of the baseline year.
	userAgentBaselineVersion = 51
	// userAgentMonthsPerVersion is how many months it takes for the version to grow by one.
	userAgentMonthsPerVersion = 2
)

// UserAgentProvider is an interface that defines a method for retrieving a User-Agent string.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// SimpleUserAgentProvider is a basic implementation of the UserAgentProvider interface.
// It provides a static User-Agent string that is set during initialization.
type SimpleUserAgentProvider struct {
	// userAgent is the User-Agent string to return.
	userAgent string
}

// NewSimpleUserAgentProvider creates and returns a new instance of SimpleUserAgentProvider.
func NewSimpleUserAgentProvider(userAgent string) UserAgentProvider {
	return &SimpleUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *SimpleUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}

// GeneratedUserAgentProvider computes a browser User-Agent from the current year and month.
// The value is computed on first use and reused until Reset is called.
type GeneratedUserAgentProvider struct {
	// now returns the current time; injected for tests.
	now func() time.Time
	// mu guards userAgent.
	mu sync.Mutex
	// userAgent is the memoized result, empty until first use.
	userAgent string
}

//nolint:gochecknoglobals // Process-wide memo shared by BrowserUserAgent.
var browserUserAgentProvider = NewGeneratedUserAgentProvider(time.Now)

// NewGeneratedUserAgentProvider creates a generator that reads the clock through now.
// A nil now falls back to time.Now.
func NewGeneratedUserAgentProvider(now func() time.Time) *GeneratedUserAgentProvider {
	if now == nil {
		now = time.Now
	}

	return &GeneratedUserAgentProvider{now: now}
}

// GetUserAgent returns the memoized User-Agent, computing it on the first call.
func (p *GeneratedUserAgentProvider) GetUserAgent() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.userAgent == "" {
		current := p.now()
		p.userAgent = GenerateUserAgent(current.Year(), current.Month())
	}

	return p.userAgent
}

// Reset drops the memoized value so the next call recomputes it.
func (p *GeneratedUserAgentProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.userAgent = ""
}

// BrowserUserAgent returns the process-wide generated browser User-Agent.
func BrowserUserAgent() string {
	return browserUserAgentProvider.GetUserAgent()
}

// ResetBrowserUserAgent clears the process-wide memo. Intended for tests.
func ResetBrowserUserAgent() {
	browserUserAgentProvider.Reset()
}

// GenerateUserAgent builds a Firefox User-Agent for the given year and month.
// Years up to the baseline return DefaultBrowserUserAgent; later dates gain
// one version every two months counted from January of the baseline year.
func GenerateUserAgent(year int, month time.Month) string {
	if year <= userAgentBaselineYear {
		return DefaultBrowserUserAgent
	}

	monthsSinceBaseline := (year-userAgentBaselineYear)*12 + int(month) - 1
	version := userAgentBaselineVersion + monthsSinceBaseline/userAgentMonthsPerVersion

	return strings.ReplaceAll(userAgentTemplate, userAgentVersionPlaceholder, strconv.Itoa(version))
}
