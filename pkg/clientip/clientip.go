// Package clientip resolves the real client address of an HTTP request.
//
// When flowdeck runs behind a load balancer or gateway, every request
// arrives from the balancer's address. Sessions are pinned to the client
// address at creation, so trusting the transport peer alone would make
// every session appear hijacked. The resolver honors the standard
// forwarding header and falls back to the transport peer.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// ForwardedForHeader is the trusted forwarding header set by fronting
// proxies. Lookup is case-insensitive via http.Header.
const ForwardedForHeader = "X-Forwarded-For"

// Resolve returns the client address for the given request headers and
// transport peer address. If the forwarding header is present its first
// hop is authoritative; otherwise the peer address is used with any port
// stripped. It always returns a non-empty value when remoteAddr is set.
func Resolve(headers http.Header, remoteAddr string) string {
	if v := forwardedFor(headers); v != "" {
		// The header may carry a comma-separated chain; the first entry
		// is the originating client.
		if ip, _, ok := strings.Cut(v, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(v)
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// FromRequest is a convenience wrapper over Resolve.
func FromRequest(r *http.Request) string {
	return Resolve(r.Header, r.RemoteAddr)
}

// forwardedFor returns the forwarding header value regardless of key
// casing. Proxies occasionally emit non-canonical header keys which
// http.Header.Get would miss.
func forwardedFor(headers http.Header) string {
	if v := headers.Get(ForwardedForHeader); v != "" {
		return v
	}
	for k, vs := range headers {
		if strings.EqualFold(k, ForwardedForHeader) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}
