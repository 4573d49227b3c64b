package tiktok

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

// ProxyKind enumerates how outbound requests reach TikTok
type ProxyKind int

const (
	// ProxyNone connects directly
	ProxyNone ProxyKind = iota
	// ProxyHTTP tunnels through an HTTP(S) CONNECT proxy
	ProxyHTTP
	// ProxySOCKS dials through a SOCKS5 proxy
	ProxySOCKS
)

func (k ProxyKind) String() string {
	switch k {
	case ProxyHTTP:
		return "http"
	case ProxySOCKS:
		return "socks"
	default:
		return "none"
	}
}

// ResolveProxyKind classifies a proxy URL by scheme. Unrecognized schemes
// and empty URLs mean a direct connection.
func ResolveProxyKind(rawURL string) ProxyKind {
	scheme := strings.ToLower(rawURL)
	switch {
	case strings.HasPrefix(scheme, "http://"), strings.HasPrefix(scheme, "https://"):
		return ProxyHTTP
	case strings.HasPrefix(scheme, "socks"):
		return ProxySOCKS
	default:
		return ProxyNone
	}
}

// NewTransport builds the HTTP transport for the resolved proxy kind. The
// transport is immutable configuration and safe to share across requests.
func NewTransport(proxyURL string) (*http.Transport, error) {
	transport := &http.Transport{}

	switch ResolveProxyKind(proxyURL) {
	case ProxyHTTP:
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)

	case ProxySOCKS:
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}

		var auth *proxy.Auth
		if u.User != nil {
			password, _ := u.User.Password()
			auth = &proxy.Auth{
				User:     u.User.Username(),
				Password: password,
			}
		}

		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS dialer: %w", err)
		}

		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	return transport, nil
}
