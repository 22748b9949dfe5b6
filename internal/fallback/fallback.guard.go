// FilePath: internal/fallback/fallback.guard.go
package fallback

import (
	"github.com/itsatony/soilsense/internal/config"
	"github.com/sony/gobreaker"
	nuts "github.com/vaudience/go-nuts"
)

// Remote operation names, used in logs and failure callbacks.
const (
	OpWriteState  = "write_state"
	OpReadState   = "read_state"
	OpPutCommand  = "put_command"
	OpTakePending = "take_pending"
)

// FailureFunc is told about every remote call that failed or was refused by
// an open breaker.
type FailureFunc func(op string, err error)

// Guard wraps calls to the remote store in a circuit breaker. While the
// breaker is open, calls fail immediately and callers go straight to the
// local store instead of waiting on network timeouts.
type Guard struct {
	cb        *gobreaker.CircuitBreaker
	onFailure FailureFunc
}

func NewGuard(cfg config.BreakerConfig, onFailure FailureFunc) *Guard {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	settings := gobreaker.Settings{
		Name:     "remote-store",
		Interval: cfg.Interval,
		Timeout:  cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			nuts.L.Warnf("[Fallback] Breaker %s changed from %s to %s", name, from, to)
		},
	}
	return &Guard{cb: gobreaker.NewCircuitBreaker(settings), onFailure: onFailure}
}

// Do runs fn through the breaker.
func (g *Guard) Do(op string, fn func() error) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil && g.onFailure != nil {
		g.onFailure(op, err)
	}
	return err
}

// State returns the breaker state: "closed", "half-open" or "open".
func (g *Guard) State() string {
	return g.cb.State().String()
}
