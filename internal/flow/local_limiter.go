package flow

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultLocalCooldown mirrors the server cooldown.
const DefaultLocalCooldown = 2 * time.Hour

const lastUsageFile = "last_usage"

// LocalLimiter remembers the last successful rewrite on this machine. It only
// saves a round trip; the server decision stays authoritative.
type LocalLimiter struct {
	Path     string
	Cooldown time.Duration
	Disabled bool
	Now      func() time.Time
}

// NewLocalLimiter stores its timestamp under the user config directory.
func NewLocalLimiter() (*LocalLimiter, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &LocalLimiter{Path: filepath.Join(dir, "resume-improver", lastUsageFile)}, nil
}

// Check returns whether a rewrite may start and, if not, the seconds left.
// An unreadable or missing file allows the request.
func (l *LocalLimiter) Check() (bool, int) {
	if l == nil || l.Disabled {
		return true, 0
	}
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return true, 0
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return true, 0
	}
	elapsed := l.now().Sub(time.UnixMilli(ms))
	cooldown := l.cooldown()
	if elapsed >= cooldown {
		return true, 0
	}
	return false, int(math.Ceil((cooldown - elapsed).Seconds()))
}

// Record stores the current time as the last successful rewrite.
func (l *LocalLimiter) Record() error {
	if l == nil || l.Disabled {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	stamp := strconv.FormatInt(l.now().UnixMilli(), 10)
	return os.WriteFile(l.Path, []byte(stamp), 0o600)
}

func (l *LocalLimiter) cooldown() time.Duration {
	if l.Cooldown > 0 {
		return l.Cooldown
	}
	return DefaultLocalCooldown
}

func (l *LocalLimiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
