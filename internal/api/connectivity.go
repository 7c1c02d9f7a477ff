package api

import (
	"context"
	"net"
	"net/url"
	"time"
)

// CheckConnectivity reports whether a TCP connection to the endpoint's host
// can be opened within timeout. It is a cheap precheck run before a load
// cycle, not a guarantee the request will succeed.
func CheckConnectivity(ctx context.Context, endpoint string, timeout time.Duration) bool {
	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" {
		// Nothing to dial; let the fetcher reject the URL
		return true
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
