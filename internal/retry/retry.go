// Package retry runs a connection probe with exponential backoff until it
// succeeds or a total timeout elapses.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

// Policy defines retry behavior for one backend.
type Policy struct {
	Timeout        time.Duration // Total time allowed for attempts (ex: 30s)
	InitialWait    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // Max wait between retries (ex: 10s)
	AttemptTimeout time.Duration // Timeout for each attempt (ex: 2s)
	WarnThreshold  int           // Warn after this many attempts, then escalate to errors
}

// Validate ensures all policy values are usable.
func (p Policy) Validate() error {
	if p.Timeout <= 0 {
		return fmt.Errorf("Timeout must be > 0, got %v", p.Timeout)
	}
	if p.InitialWait <= 0 {
		return fmt.Errorf("InitialWait must be > 0, got %v", p.InitialWait)
	}
	if p.MaxWait <= 0 {
		return fmt.Errorf("MaxWait must be > 0, got %v", p.MaxWait)
	}
	if p.AttemptTimeout <= 0 {
		return fmt.Errorf("AttemptTimeout must be > 0, got %v", p.AttemptTimeout)
	}
	if p.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", p.WarnThreshold)
	}
	return nil
}

// attemptLogger handles all connection logging for one backend.
type attemptLogger struct {
	logger  logger.Logger
	backend string
	target  string
}

func (al *attemptLogger) start(timeout time.Duration) {
	al.logger.Info("connecting to "+al.backend,
		logger.String("target", al.target),
		logger.Duration("timeout", timeout))
}

func (al *attemptLogger) success(attempts int, elapsed time.Duration) {
	if attempts > 1 {
		al.logger.Warn("connected to "+al.backend+" after retry",
			logger.String("target", al.target),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	al.logger.Info("connected to "+al.backend, logger.String("target", al.target))
}

func (al *attemptLogger) timeout(attempts int, timeout time.Duration, err error) {
	al.logger.Error(al.backend+" unavailable - failed to connect after timeout",
		logger.String("target", al.target),
		logger.Int("attempts", attempts),
		logger.Duration("timeout", timeout),
		logger.Error(err))
}

func (al *attemptLogger) retry(attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	switch {
	case remaining < 10*time.Second:
		al.logger.Error(al.backend+" still down - retrying but timeout approaching",
			logger.String("target", al.target),
			logger.Int("attempt", attempt),
			logger.Duration("remaining", remaining),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	case attempt <= warnThreshold:
		al.logger.Warn(al.backend+" connection failed, retrying",
			logger.String("target", al.target),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	default:
		al.logger.Error(al.backend+" still unavailable - connection attempts failing",
			logger.String("target", al.target),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	}
}

// Do calls probe until it returns nil, waiting between attempts with capped
// exponential backoff. backend names the service in logs ("redis", "postgres")
// and target is its address. Do returns the number of attempts made.
func Do(ctx context.Context, backend, target string, p Policy, log logger.Logger, probe func(ctx context.Context) error) (int, error) {
	if err := p.Validate(); err != nil {
		log.Error("invalid retry policy", logger.String("backend", backend), logger.Error(err))
		return 0, err
	}
	al := &attemptLogger{logger: log, backend: backend, target: target}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	al.start(p.Timeout)
	attempt := 0
	wait := p.InitialWait

	for {
		attempt++

		attemptCtx, attemptCancel := context.WithTimeout(ctx, p.AttemptTimeout)
		err := probe(attemptCtx)
		attemptCancel()

		if err == nil {
			al.success(attempt, p.Timeout-timeLeft(ctx))
			return attempt, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			al.timeout(attempt, p.Timeout, err)
			return attempt, fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				backend, target, attempt, p.Timeout, err)

		case <-timer.C:
			al.retry(attempt, timeLeft(ctx), wait, p.WarnThreshold, err)
			wait *= 2
			if wait > p.MaxWait {
				wait = p.MaxWait
			}
		}
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
