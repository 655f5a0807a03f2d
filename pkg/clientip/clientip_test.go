package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/flowdeck/pkg/clientip"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    http.Header
		remoteAddr string
		want       string
	}{
		{
			name:       "no forwarding header uses peer",
			headers:    http.Header{},
			remoteAddr: "10.0.0.5:51234",
			want:       "10.0.0.5",
		},
		{
			name:       "peer without port",
			headers:    http.Header{},
			remoteAddr: "10.0.0.5",
			want:       "10.0.0.5",
		},
		{
			name:       "forwarding header wins",
			headers:    http.Header{"X-Forwarded-For": []string{"203.0.113.7"}},
			remoteAddr: "10.0.0.1:443",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarding chain uses first hop",
			headers:    http.Header{"X-Forwarded-For": []string{"203.0.113.7, 10.0.0.1, 10.0.0.2"}},
			remoteAddr: "10.0.0.2:443",
			want:       "203.0.113.7",
		},
		{
			name:       "header lookup is case-insensitive",
			headers:    http.Header{"X-Forwarded-For": nil},
			remoteAddr: "10.0.0.9:80",
			want:       "10.0.0.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := clientip.Resolve(tt.headers, tt.remoteAddr)
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveCaseInsensitiveHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	// Go through the raw map to simulate a proxy that lowercases header
	// keys; http.Header.Set would canonicalize it.
	req.Header["x-forwarded-for"] = []string{"198.51.100.4"}

	if got := clientip.FromRequest(req); got != "198.51.100.4" {
		t.Errorf("FromRequest() = %q, want %q", got, "198.51.100.4")
	}
}
