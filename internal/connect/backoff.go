// Package connect waits for a backing service (database, redis) to answer
// before the app starts serving.
package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/inbox/internal/logger"
)

// PingFunc checks that a dependency is reachable.
type PingFunc func(ctx context.Context) error

// Options defines connection retry behavior.
type Options struct {
	Name          string        // used in logs, ex: "redis", "postgres"
	Addr          string        // used in logs only, never a DSN with credentials
	Timeout       time.Duration // total time allowed for connection attempts (ex: 30s)
	RetryInterval time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	MaxWait       time.Duration // max wait between retries (ex: 10s)
	PingTimeout   time.Duration // timeout for each ping attempt (ex: 5s)
	WarnThreshold int           // warn after this many attempts, then escalate to error
}

// connectionLogger handles all connection logging.
type connectionLogger struct {
	logger logger.Logger
	name   string
	addr   string
}

func (cl *connectionLogger) logConnectionStart(timeout time.Duration) {
	cl.logger.Info("connecting to "+cl.name,
		logger.String("addr", cl.addr),
		logger.Duration("timeout", timeout))
}

func (cl *connectionLogger) logSuccess(attempts int, elapsed time.Duration) {
	if attempts > 1 {
		cl.logger.Warn("connected to "+cl.name+" after retry",
			logger.String("addr", cl.addr),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	cl.logger.Info("connected to "+cl.name,
		logger.String("addr", cl.addr))
}

func (cl *connectionLogger) logTimeout(attempts int, timeout time.Duration, err error) {
	cl.logger.Error(cl.name+" unavailable - failed to connect after timeout",
		logger.String("addr", cl.addr),
		logger.Int("attempts", attempts),
		logger.Duration("timeout", timeout),
		logger.Error(err))
}

func (cl *connectionLogger) logRetry(attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	switch {
	case remaining < 10*time.Second:
		cl.logger.Error(cl.name+" still down - retrying but timeout approaching",
			logger.String("addr", cl.addr),
			logger.Int("attempt", attempt),
			logger.Duration("remaining", remaining),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	case attempt <= warnThreshold:
		cl.logger.Warn(cl.name+" connection failed, retrying",
			logger.String("addr", cl.addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	default:
		cl.logger.Error(cl.name+" still unavailable - connection attempts failing",
			logger.String("addr", cl.addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	}
}

// Validate ensures all retry settings are usable.
func (o Options) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("connect timeout must be > 0, got %v", o.Timeout)
	}
	if o.RetryInterval <= 0 {
		return fmt.Errorf("retry interval must be > 0, got %v", o.RetryInterval)
	}
	if o.MaxWait <= 0 {
		return fmt.Errorf("max wait must be > 0, got %v", o.MaxWait)
	}
	if o.PingTimeout <= 0 {
		return fmt.Errorf("ping timeout must be > 0, got %v", o.PingTimeout)
	}
	if o.WarnThreshold < 0 {
		return fmt.Errorf("warn threshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// WaitReady pings until it succeeds, backing off exponentially up to MaxWait.
// It gives up with an error once Timeout is spent or ctx is cancelled.
func WaitReady(ctx context.Context, ping PingFunc, opts Options, log logger.Logger) error {
	if err := opts.Validate(); err != nil {
		log.Error("invalid connect options", logger.String("target", opts.Name), logger.Error(err))
		return err
	}
	cl := &connectionLogger{logger: log, name: opts.Name, addr: opts.Addr}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	cl.logConnectionStart(opts.Timeout)
	attempt := 0
	wait := opts.RetryInterval

	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			cl.logSuccess(attempt, opts.Timeout-timeLeft(ctx))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			cl.logTimeout(attempt, opts.Timeout, err)
			return fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				opts.Name, opts.Addr, attempt, opts.Timeout, err)

		case <-timer.C:
			cl.logRetry(attempt, timeLeft(ctx), wait, opts.WarnThreshold, err)
			wait *= 2
			if wait > opts.MaxWait {
				wait = opts.MaxWait
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
