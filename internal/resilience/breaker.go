// Package resilience gates calls to the remote inference service so a
// failing upstream is skipped instead of being hit on every attribute switch.
package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// State is the breaker state.
type State int

const (
	// Closed lets calls through.
	Closed State = iota
	// Open rejects calls until the cool-down elapses.
	Open
	// HalfOpen lets one probe through.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned by Allow while the breaker is open.
var ErrOpen = eris.New("circuit breaker is open")

// BreakerConfig controls breaker behavior.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker. Default: 3.
	FailureThreshold int

	// Cooldown is how long the breaker stays open before admitting a probe.
	// Default: 60s.
	Cooldown time.Duration

	// OnStateChange is called with the lock held; it must not call back
	// into the breaker.
	OnStateChange func(from, to State)
}

// FromConfig builds a BreakerConfig from plain config values, keeping
// defaults for non-positive inputs.
func FromConfig(failures, cooldownSecs int) BreakerConfig {
	cfg := BreakerConfig{FailureThreshold: 3, Cooldown: 60 * time.Second}
	if failures > 0 {
		cfg.FailureThreshold = failures
	}
	if cooldownSecs > 0 {
		cfg.Cooldown = time.Duration(cooldownSecs) * time.Second
	}
	return cfg
}

// Breaker is a consecutive-failure circuit breaker. Unlike a retry policy
// it never re-issues a call; it only decides whether the next one is made.
type Breaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	openedAt    time.Time
	probeActive bool

	nowFunc func() time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 60 * time.Second
	}
	return &Breaker{cfg: cfg, state: Closed, nowFunc: time.Now}
}

// Allow reports whether a call may proceed. Every nil return must be
// followed by exactly one Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.nowFunc().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrOpen
		}
		b.transition(HalfOpen)
		b.probeActive = true
		return nil
	case HalfOpen:
		if b.probeActive {
			return ErrOpen
		}
		b.probeActive = true
		return nil
	default:
		return nil
	}
}

// Record reports the outcome of an allowed call.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.probeActive = false
		if b.state != Closed {
			b.transition(Closed)
		}
		return
	}

	b.failures++
	switch b.state {
	case HalfOpen:
		b.probeActive = false
		b.open()
	case Closed:
		if b.failures >= b.cfg.FailureThreshold {
			b.open()
		}
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) open() {
	b.openedAt = b.nowFunc()
	b.transition(Open)
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
