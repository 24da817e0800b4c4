package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NoProxy(t *testing.T) {
	hc, err := NewHTTPClient("", 5*time.Second)
	require.NoError(t, err)
	assert.Nil(t, hc.Transport)
	assert.Equal(t, 5*time.Second, hc.Timeout)
}

func TestNewHTTPClient_InvalidProxy(t *testing.T) {
	_, err := NewHTTPClient("://invalid", time.Second)
	assert.Error(t, err)

	_, err = NewHTTPClient("just-a-host", time.Second)
	assert.Error(t, err)
}

func TestProxyTransport_RewritesHost(t *testing.T) {
	var gotTarget, gotPath string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.Header.Get(TargetHeader)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer proxy.Close()

	hc, err := NewHTTPClient(proxy.URL, time.Second)
	require.NoError(t, err)

	resp, err := hc.Get("https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent", gotTarget)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
}
