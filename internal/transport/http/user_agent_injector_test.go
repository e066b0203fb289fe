package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/transporter/internal/utils"
	mock_utils "github.com/oshokin/transporter/internal/utils/mocks"
)

// newEchoServer starts a server that asserts the received User-Agent.
func newEchoServer(t *testing.T, expectedUserAgent string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, expectedUserAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server
}

// TestNewUserAgentInjector tests the NewUserAgentInjector function.
func TestNewUserAgentInjector(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)

	injector := NewUserAgentInjector(mockProvider)
	assert.NotNil(t, injector)
}

// TestUserAgentInjector_WithExistingUserAgent tests the middleware when the request already has a User-Agent.
func TestUserAgentInjector_WithExistingUserAgent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
	server := newEchoServer(t, "ExistingAgent/1.0")

	client := resty.New().OnBeforeRequest(NewUserAgentInjector(mockProvider))

	resp, err := client.R().SetHeader("User-Agent", "ExistingAgent/1.0").Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

// TestUserAgentInjector_WithClientUserAgent tests the middleware when the client defaults carry a User-Agent.
func TestUserAgentInjector_WithClientUserAgent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
	server := newEchoServer(t, "ClientAgent/1.0")

	client := resty.New().
		SetHeader("User-Agent", "ClientAgent/1.0").
		OnBeforeRequest(NewUserAgentInjector(mockProvider))

	resp, err := client.R().Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

// TestUserAgentInjector_WithoutUserAgent tests the middleware when no User-Agent is configured.
func TestUserAgentInjector_WithoutUserAgent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
	mockProvider.EXPECT().GetUserAgent().Return("TestAgent/1.0").Times(1)

	server := newEchoServer(t, "TestAgent/1.0")

	client := resty.New().OnBeforeRequest(NewUserAgentInjector(mockProvider))

	resp, err := client.R().Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

// TestUserAgentInjector_WithEmptyUserAgent tests the middleware when the User-Agent header is empty.
func TestUserAgentInjector_WithEmptyUserAgent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
	mockProvider.EXPECT().GetUserAgent().Return("TestAgent/1.0").Times(1)

	server := newEchoServer(t, "TestAgent/1.0")

	client := resty.New().OnBeforeRequest(NewUserAgentInjector(mockProvider))

	resp, err := client.R().SetHeader("User-Agent", "").Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

// TestUserAgentInjector_IntegrationWithSimpleUserAgentProvider tests integration with SimpleUserAgentProvider.
func TestUserAgentInjector_IntegrationWithSimpleUserAgentProvider(t *testing.T) {
	t.Parallel()

	server := newEchoServer(t, "IntegrationTest/1.0")

	provider := utils.NewSimpleUserAgentProvider("IntegrationTest/1.0")
	client := resty.New().OnBeforeRequest(NewUserAgentInjector(provider))

	resp, err := client.R().Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

// TestUserAgentInjector_MultipleRequests tests that the injector works correctly with multiple requests.
func TestUserAgentInjector_MultipleRequests(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
	mockProvider.EXPECT().GetUserAgent().Return("TestAgent/1.0").Times(5)

	server := newEchoServer(t, "TestAgent/1.0")

	client := resty.New().OnBeforeRequest(NewUserAgentInjector(mockProvider))

	// Make multiple requests.
	for range 5 {
		resp, err := client.R().Get(server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
	}
}
