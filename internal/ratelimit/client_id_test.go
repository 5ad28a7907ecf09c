package ratelimit

import (
	"net/http/httptest"
	"testing"
)

func TestClientID(t *testing.T) {
	tests := []struct {
		name string
		xff  string
		xrip string
		want string
	}{
		{name: "first forwarded entry wins", xff: "203.0.113.5, 10.0.0.1", xrip: "198.51.100.7", want: "203.0.113.5"},
		{name: "single forwarded entry", xff: " 203.0.113.6 ", want: "203.0.113.6"},
		{name: "real ip when no forwarded", xrip: "198.51.100.7", want: "198.51.100.7"},
		{name: "empty first entry falls through", xff: " , 10.0.0.1", xrip: "198.51.100.8", want: "198.51.100.8"},
		{name: "fallback address", want: FallbackClientID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com/check-limit", nil)
			req.RemoteAddr = "192.0.2.10:1234"
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xrip != "" {
				req.Header.Set("X-Real-IP", tc.xrip)
			}
			if got := ClientID(req); got != tc.want {
				t.Fatalf("ClientID = %q, want %q", got, tc.want)
			}
		})
	}
}
