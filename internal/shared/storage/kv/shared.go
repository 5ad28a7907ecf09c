package kv

import (
	"strings"
	"sync"

	"resume-improver/internal/shared/telemetry"
)

var (
	sharedMu     sync.Mutex
	sharedStore  *Redis
	sharedURL    string
	sharedFailed bool
)

// Shared returns the process-wide Redis handle for url, creating it on first
// use. It returns nil when url is empty or the handle cannot be built; callers
// treat nil as "no shared store" and use their in-memory fallback.
func Shared(url, token string) Store {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedStore != nil && sharedURL == url {
		return sharedStore
	}
	if sharedFailed && sharedURL == url {
		return nil
	}
	store, err := NewRedis(url, token)
	sharedURL = url
	if err != nil {
		sharedFailed = true
		telemetry.Warn("kv.redis.unavailable", map[string]any{"err": err})
		return nil
	}
	sharedFailed = false
	sharedStore = store
	return sharedStore
}
