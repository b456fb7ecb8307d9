package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		trustProxy     bool
		remoteAddr     string
		headers        map[string]string
		expectedRemote string
	}{
		{
			name:           "direct connection with port",
			remoteAddr:     "203.0.113.1:54321",
			expectedRemote: "203.0.113.1:54321",
		},
		{
			name:           "direct connection without port",
			remoteAddr:     "203.0.113.1",
			expectedRemote: "203.0.113.1:0",
		},
		{
			name:           "proxy headers ignored when untrusted",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "198.51.100.3"},
			expectedRemote: "10.0.0.1:12345",
		},
		{
			name:           "true-client-ip header",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"True-Client-IP": "198.51.100.1"},
			expectedRemote: "198.51.100.1:12345",
		},
		{
			name:           "x-real-ip header",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Real-IP": "198.51.100.2"},
			expectedRemote: "198.51.100.2:12345",
		},
		{
			name:           "x-forwarded-for multiple IPs",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "  198.51.100.4 , 10.0.0.2, 10.0.0.3"},
			expectedRemote: "198.51.100.4:12345",
		},
		{
			name:       "priority: x-real-ip over x-forwarded-for",
			trustProxy: true,
			remoteAddr: "10.0.0.1:12345",
			headers: map[string]string{
				"X-Real-IP":       "198.51.100.10",
				"X-Forwarded-For": "198.51.100.11",
			},
			expectedRemote: "198.51.100.10:12345",
		},
		{
			name:           "invalid x-forwarded-for falls back to remote addr",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "invalid-ip"},
			expectedRemote: "10.0.0.1:12345",
		},
		{
			name:           "ipv6 in x-forwarded-for",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "2001:db8::2"},
			expectedRemote: "[2001:db8::2]:12345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedRemoteAddr, capturedIP string
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedRemoteAddr = r.RemoteAddr
				capturedIP = ClientIP(r)
				w.WriteHeader(http.StatusOK)
			})

			handler := ClientIPMiddleware(tt.trustProxy)(testHandler)

			req := httptest.NewRequest("GET", "/api/plausible/realtime", nil)
			req.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			if capturedRemoteAddr != tt.expectedRemote {
				t.Errorf("expected RemoteAddr %q, got %q", tt.expectedRemote, capturedRemoteAddr)
			}

			if capturedIP == "" || capturedIP == capturedRemoteAddr {
				t.Errorf("expected ClientIP to strip the port from %q, got %q", capturedRemoteAddr, capturedIP)
			}
		})
	}
}

func BenchmarkClientIPMiddleware(b *testing.B) {
	handler := ClientIPMiddleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/plausible/realtime", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
