package middlewares

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPMiddleware rewrites RemoteAddr to "IP:port" of the real client so logging and rate
// limiting key on the same address. Proxy headers are only honoured when trustProxyHeaders is set.
func ClientIPMiddleware(trustProxyHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractClientIP(r, trustProxyHeaders)

			if clientIP != "" {
				_, port, err := net.SplitHostPort(r.RemoteAddr)
				if err == nil && port != "" {
					r.RemoteAddr = net.JoinHostPort(clientIP, port)
				} else {
					r.RemoteAddr = net.JoinHostPort(clientIP, "0")
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the address part of RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func extractClientIP(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		for _, header := range []string{"True-Client-IP", "X-Real-IP"} {
			if parsed := net.ParseIP(strings.TrimSpace(r.Header.Get(header))); parsed != nil {
				return parsed.String()
			}
		}

		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if parsed := net.ParseIP(strings.TrimSpace(first)); parsed != nil {
				return parsed.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if parsed := net.ParseIP(host); parsed != nil {
		return parsed.String()
	}

	return ""
}
