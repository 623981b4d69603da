package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

var (
	upstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transaction_upstream_calls_total",
		Help: "Calls to remote ledgers, labeled by outcome",
	}, []string{"service", "outcome"})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "transaction_circuit_breaker_state",
		Help: "Circuit breaker state per collaborator (0 closed, 1 half-open, 2 open)",
	}, []string{"service"})
)

// BreakerSettings is the breaker policy shared by every collaborator.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	HalfOpenRequests    uint32
	Interval            time.Duration
}

// Caller runs collaborator calls under one timeout and one breaker per service.
type Caller struct {
	mu       sync.RWMutex
	breakers map[string]*gobreaker.CircuitBreaker
	settings BreakerSettings
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewCaller(timeout time.Duration, settings BreakerSettings, logger *logrus.Logger) *Caller {
	return &Caller{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		settings: settings,
		timeout:  timeout,
		logger:   logger,
	}
}

func (c *Caller) breaker(service string) *gobreaker.CircuitBreaker {
	c.mu.RLock()
	cb, ok := c.breakers[service]
	c.mu.RUnlock()
	if ok {
		return cb
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok = c.breakers[service]; ok {
		return cb
	}

	threshold := c.settings.ConsecutiveFailures
	cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        service,
		MaxRequests: c.settings.HalfOpenRequests,
		Interval:    c.settings.Interval,
		Timeout:     c.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Absent records and caller cancellation say nothing about the collaborator's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, model.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			c.logger.WithFields(logrus.Fields{
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker changed state")
		},
	})
	c.breakers[service] = cb
	breakerState.WithLabelValues(service).Set(float64(gobreaker.StateClosed))

	c.logger.Infof("Created circuit breaker for service %s", service)
	return cb
}

// States reports the breaker state of every collaborator called so far.
func (c *Caller) States() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	states := make(map[string]string, len(c.breakers))
	for name, cb := range c.breakers {
		states[name] = cb.State().String()
	}
	return states
}

// Call executes fn against the named collaborator. Timeouts, transport errors and
// an open breaker all surface as model.ErrServiceUnavailable; model.ErrNotFound
// passes through untouched.
func Call[T any](ctx context.Context, c *Caller, service string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	result, err := c.breaker(service).Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return fn(callCtx)
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			upstreamCalls.WithLabelValues(service, "not_found").Inc()
			return zero, err
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			upstreamCalls.WithLabelValues(service, "rejected").Inc()
			c.logger.Warnf("Circuit breaker [%s] rejected the call", service)
		case ctx.Err() != nil:
			upstreamCalls.WithLabelValues(service, "cancelled").Inc()
			return zero, ctx.Err()
		default:
			upstreamCalls.WithLabelValues(service, "failure").Inc()
			c.logger.WithError(err).WithField("service", service).Error("Upstream call failed")
		}
		return zero, fmt.Errorf("%s: %w", service, model.ErrServiceUnavailable)
	}

	upstreamCalls.WithLabelValues(service, "success").Inc()
	if result == nil {
		return zero, nil
	}
	return result.(T), nil
}
