package netx

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldBypassProxy(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		noProxy string
		want    bool
	}{
		{name: "empty no_proxy", host: "example.com", noProxy: "", want: false},
		{name: "exact match", host: "example.com", noProxy: "example.com", want: true},
		{name: "exact match with port", host: "127.0.0.1:5000", noProxy: "127.0.0.1", want: true},
		{name: "domain suffix match", host: "api.example.com", noProxy: ".example.com", want: true},
		{name: "subdomain match", host: "api.example.com", noProxy: "example.com", want: true},
		{name: "no match", host: "other.com", noProxy: "example.com", want: false},
		{name: "wildcard", host: "anything.com", noProxy: "*", want: true},
		{name: "list with spaces", host: "api.internal.com", noProxy: "example.com, internal.com", want: true},
		{name: "case insensitive", host: "API.Example.COM", noProxy: "example.com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldBypassProxy(tt.host, tt.noProxy))
		})
	}
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	c, err := NewHTTPClient(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, tr.Proxy, "no proxy configured")
}

func TestNewHTTPClient_HTTPProxyRouting(t *testing.T) {
	c, err := NewHTTPClient(Options{
		Timeout: time.Second,
		Proxy: ProxyOptions{
			HTTPProxy:  "http://proxy.local:3128",
			HTTPSProxy: "http://secure-proxy.local:3129",
			NoProxy:    "localhost",
		},
	})
	require.NoError(t, err)
	tr := c.Transport.(*http.Transport)
	require.NotNil(t, tr.Proxy)

	check := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		got, err := tr.Proxy(&http.Request{URL: u})
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, "proxy.local:3128", check("http://backup.example.com/api").Host)
	assert.Equal(t, "secure-proxy.local:3129", check("https://backup.example.com/api").Host)
	assert.Nil(t, check("http://localhost:5000/api"))
}

func TestNewHTTPClient_SOCKS5(t *testing.T) {
	c, err := NewHTTPClient(Options{Proxy: ProxyOptions{SOCKS5Proxy: "socks5://user:pw@127.0.0.1:1080"}})
	require.NoError(t, err)
	tr := c.Transport.(*http.Transport)
	assert.NotNil(t, tr.DialContext)
	assert.Nil(t, tr.Proxy, "SOCKS5 replaces HTTP proxying")
}

func TestNewHTTPClient_SOCKS5WithoutHost(t *testing.T) {
	_, err := NewHTTPClient(Options{Proxy: ProxyOptions{SOCKS5Proxy: "not-a-url"}})
	require.Error(t, err)
}
