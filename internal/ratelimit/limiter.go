// Package ratelimit enforces the per-client cooldown between résumé rewrites.
package ratelimit

import (
	"context"
	"time"

	"resume-improver/internal/shared/storage/kv"
	"resume-improver/internal/shared/telemetry"
)

const (
	// DefaultCooldown is the wait between two successful rewrites for one client.
	DefaultCooldown = 2 * time.Hour

	keyPrefix = "ratelimit:"
)

// Decision is the outcome of a Check.
type Decision struct {
	Allowed          bool `json:"allowed"`
	RemainingSeconds int  `json:"remainingTime"`
}

// Options tunes a Limiter.
type Options struct {
	Cooldown time.Duration
	Disabled bool
	Now      func() time.Time
}

// Limiter reads and writes the last-rewrite timestamp per client.
//
// The primary store is shared between instances. When it is nil or failing,
// the limiter answers from an in-process fallback keyed identically, which only
// approximates the limit in a multi-instance deployment.
//
// Check and Record are not atomic together: two near-simultaneous rewrites from
// one client can both pass Check, letting one extra rewrite through.
type Limiter struct {
	primary  kv.Store
	fallback *kv.Memory
	cooldown time.Duration
	disabled bool
	now      func() time.Time
}

// New constructs a Limiter. primary may be nil.
func New(primary kv.Store, opts Options) *Limiter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	return &Limiter{
		primary:  primary,
		fallback: kv.NewMemory(opts.Now),
		cooldown: opts.Cooldown,
		disabled: opts.Disabled,
		now:      opts.Now,
	}
}

// Cooldown returns the configured window.
func (l *Limiter) Cooldown() time.Duration {
	return l.cooldown
}

// Check reports whether clientID may run a rewrite now.
func (l *Limiter) Check(ctx context.Context, clientID string) Decision {
	if l == nil || l.disabled {
		return Decision{Allowed: true}
	}
	key := keyPrefix + clientID
	if l.primary != nil {
		last, ok, err := l.primary.GetInt(ctx, key)
		if err == nil {
			return l.decide(last, ok)
		}
		telemetry.Warn("ratelimit.store.read_failed", map[string]any{"client_id": clientID, "err": err})
	}
	last, ok, err := l.fallback.GetInt(ctx, key)
	if err != nil {
		return Decision{Allowed: true}
	}
	return l.decide(last, ok)
}

// Record stores now as the client's last rewrite; the record expires after the cooldown.
func (l *Limiter) Record(ctx context.Context, clientID string) {
	if l == nil || l.disabled {
		return
	}
	key := keyPrefix + clientID
	stamp := l.now().Unix()
	if l.primary != nil {
		err := l.primary.SetInt(ctx, key, stamp, l.cooldown)
		if err == nil {
			return
		}
		telemetry.Warn("ratelimit.store.write_failed", map[string]any{"client_id": clientID, "err": err})
	}
	if err := l.fallback.SetInt(ctx, key, stamp, l.cooldown); err != nil {
		telemetry.Error("ratelimit.fallback.write_failed", map[string]any{"client_id": clientID, "err": err})
	}
}

func (l *Limiter) decide(lastUsed int64, ok bool) Decision {
	if !ok {
		return Decision{Allowed: true}
	}
	window := int64(l.cooldown / time.Second)
	elapsed := l.now().Unix() - lastUsed
	if elapsed >= window {
		return Decision{Allowed: true}
	}
	remaining := window - elapsed
	if remaining > window {
		remaining = window
	}
	return Decision{Allowed: false, RemainingSeconds: int(remaining)}
}
