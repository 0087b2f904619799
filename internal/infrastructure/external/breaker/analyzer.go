package breaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// Settings configure the breaker around a generative analyzer
type Settings struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
}

// Analyzer short-circuits calls to a failing generative analyzer so the
// aggregator reaches its fallback without waiting on a dead backend.
type Analyzer struct {
	next repositories.GenerativeAnalyzer
	cb   *gobreaker.CircuitBreaker
}

// NewAnalyzer wraps next with a circuit breaker that opens after
// MaxFailures consecutive failures.
func NewAnalyzer(next repositories.GenerativeAnalyzer, s Settings, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    s.Name,
		Timeout: s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("⚡ Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Analyzer{next: next, cb: cb}
}

// Generate implements repositories.GenerativeAnalyzer. An open breaker
// returns gobreaker.ErrOpenState.
func (a *Analyzer) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := a.cb.Execute(func() (interface{}, error) {
		return a.next.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State exposes the breaker state
func (a *Analyzer) State() gobreaker.State {
	return a.cb.State()
}
