package ratelimit

import (
	"net/http"
	"strings"
)

// FallbackClientID is used when no forwarding header identifies the caller.
const FallbackClientID = "127.0.0.1"

// ClientID derives the caller identity from proxy headers: the first
// X-Forwarded-For entry, then X-Real-IP, then FallbackClientID. The headers are
// trusted as-is, so the service must sit behind a proxy that overwrites them.
func ClientID(r *http.Request) string {
	if r == nil {
		return FallbackClientID
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return FallbackClientID
}
