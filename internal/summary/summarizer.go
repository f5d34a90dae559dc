// Package summary produces article summaries. A remote model is tried first
// when one is configured; any remote failure degrades to the deterministic
// local summary, so only empty input is an error.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/metrics"
	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
)

const (
	SourceAI    = "ai"
	SourceLocal = "local"
)

type Summary struct {
	Text      string
	Source    string
	WordCount int
}

// Provider is a remote summarization backend. Implementations should return
// *FailureError so fallbacks are counted by reason.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, text string) (string, error)
}

type Config struct {
	// Timeout bounds one remote call, queueing included. Default 10s.
	Timeout time.Duration
	// MaxConcurrent caps in-flight remote calls. Default 8.
	MaxConcurrent int
	Logger        *slog.Logger
}

type Summarizer struct {
	remote   Provider
	timeout  time.Duration
	breaker  circuitbreaker.CircuitBreaker[string]
	bulkhead bulkhead.Bulkhead[string]
	logger   *slog.Logger
}

// New returns a summarizer. A nil remote means local summaries only.
func New(remote Provider, cfg Config) *Summarizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Summarizer{
		remote:  remote,
		timeout: cfg.Timeout,
		logger:  logger.With("component", "summary"),
	}
	if remote == nil {
		return s
	}

	s.breaker = circuitbreaker.New[string](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			s.logger.Warn("circuit breaker state change",
				"provider", remote.Name(),
				"from", from.String(),
				"to", to.String())
		},
	})
	s.bulkhead = bulkhead.New[string](bulkhead.Config{
		MaxConcurrent: cfg.MaxConcurrent,
		MaxQueue:      cfg.MaxConcurrent * 2,
		QueueTimeout:  cfg.Timeout,
	})
	return s
}

// Summarize returns a remote summary when possible and the local one
// otherwise. Empty or whitespace-only text fails with domain.ErrInvalidInput.
func (s *Summarizer) Summarize(ctx context.Context, text string) (Summary, error) {
	if strings.TrimSpace(text) == "" {
		return Summary{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	words := domain.WordCount(text)

	if s.remote != nil {
		out, err := s.summarizeRemote(ctx, text)
		if err == nil {
			metrics.SummariesTotal.WithLabelValues(SourceAI).Inc()
			return Summary{Text: out, Source: SourceAI, WordCount: words}, nil
		}

		reason := ReasonOf(err)
		metrics.SummaryFallbacksTotal.WithLabelValues(string(reason)).Inc()
		s.logger.WarnContext(ctx, "remote summary failed, using local summary",
			"provider", s.remote.Name(),
			"reason", reason,
			"error", err)
	}

	metrics.SummariesTotal.WithLabelValues(SourceLocal).Inc()
	return Summary{Text: Local(text), Source: SourceLocal, WordCount: words}, nil
}

func (s *Summarizer) summarizeRemote(ctx context.Context, text string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.SummaryRemoteDuration.Observe(time.Since(start).Seconds())
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Which layers let the call through, for classifying rejections.
	var admitted, called atomic.Bool
	out, err := s.breaker.Execute(callCtx, func(ctx context.Context) (string, error) {
		admitted.Store(true)
		return s.bulkhead.Execute(ctx, func(ctx context.Context) (string, error) {
			called.Store(true)
			out, err := s.remote.Summarize(ctx, text)
			if err == nil && strings.TrimSpace(out) == "" {
				return "", fail(ReasonEmpty, nil)
			}
			return strings.TrimSpace(out), err
		})
	})
	if err == nil {
		return out, nil
	}

	var fe *FailureError
	switch {
	case errors.As(err, &fe):
		return "", err
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return "", fail(ReasonTimeout, err)
	case called.Load():
		return "", fail(ReasonUnavailable, err)
	case admitted.Load():
		return "", fail(ReasonBusy, err)
	default:
		return "", fail(ReasonCircuitOpen, err)
	}
}
