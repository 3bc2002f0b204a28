// Package deliver manages the per-file connection lifecycle: resolve the
// remote endpoint, dial, run a transfer session, and retry connection or
// write failures up to a bounded attempt count with a fixed delay.
package deliver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/log"
	"github.com/pithecene-io/courier/metrics"
	"github.com/pithecene-io/courier/transfer"
	"github.com/pithecene-io/courier/types"
)

// Defaults for the retry state machine.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
)

// ResolveError indicates the remote host could not be resolved at all.
// There is no endpoint to retry against, so this aborts the whole batch
// rather than consuming the per-file retry budget.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("deliver: resolve %s: %v", e.Host, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsResolveError reports whether err is (or wraps) a resolution failure.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}

// ConnectError indicates dialing a resolved endpoint failed.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("deliver: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Resolver resolves a host name to one or more address literals.
// net.DefaultResolver satisfies this.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Dialer opens stream connections. *net.Dialer satisfies this.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// Result is the terminal outcome of one file delivery.
type Result struct {
	Path string
	// Outcome is the outcome of the final attempt.
	Outcome types.TransferOutcome
	// Attempts is the number of connection attempts made.
	Attempts int
	// BytesSent and Checksum are populated on success.
	BytesSent int64
	Checksum  string
	// Err is the final attempt's error, nil on success.
	Err error
}

// Deliverer drives the retry state machine for single files against a fixed
// remote endpoint. Fields left zero fall back to defaults.
type Deliverer struct {
	// Host and Port locate the remote endpoint. Host is resolved once per
	// delivery; resolution is not cached across files.
	Host string
	Port string

	// MaxAttempts bounds connection attempts per file (default 3).
	MaxAttempts int
	// RetryDelay is the fixed wait between attempts (default 5s).
	RetryDelay time.Duration
	// DialTimeout bounds connection establishment; zero means no limit.
	DialTimeout time.Duration
	// WriteTimeout, when non-zero, arms a deadline before every
	// connection write. The observed protocol contract has no timeout;
	// this is an opt-in guard against a stuck remote.
	WriteTimeout time.Duration

	// Session performs the per-file protocol. A zero Session is usable.
	Session *transfer.Session
	// Resolver defaults to net.DefaultResolver.
	Resolver Resolver
	// Dialer defaults to a net.Dialer honoring DialTimeout.
	Dialer Dialer

	Logger  *log.Logger
	Metrics *metrics.Collector

	// Sleep is the delay hook between attempts; time.Sleep if nil.
	Sleep func(time.Duration)
}

func (d *Deliverer) maxAttempts() int {
	if d.MaxAttempts > 0 {
		return d.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (d *Deliverer) retryDelay() time.Duration {
	if d.RetryDelay > 0 {
		return d.RetryDelay
	}
	return DefaultRetryDelay
}

func (d *Deliverer) resolver() Resolver {
	if d.Resolver != nil {
		return d.Resolver
	}
	return net.DefaultResolver
}

func (d *Deliverer) dialer() Dialer {
	if d.Dialer != nil {
		return d.Dialer
	}
	return &net.Dialer{Timeout: d.DialTimeout}
}

func (d *Deliverer) session() *transfer.Session {
	if d.Session != nil {
		return d.Session
	}
	return &transfer.Session{}
}

func (d *Deliverer) sleep(delay time.Duration) {
	if d.Sleep != nil {
		d.Sleep(delay)
		return
	}
	time.Sleep(delay)
}

func (d *Deliverer) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.NewLogger(log.BatchMeta{})
}

// Deliver ships one file, retrying connection and write failures with a
// fresh connection after a fixed delay. Open failures and resolution
// failures are terminal immediately.
func (d *Deliverer) Deliver(ctx context.Context, path string) Result {
	logger := d.logger()

	addrs, err := d.resolver().LookupHost(ctx, d.Host)
	if err != nil || len(addrs) == 0 {
		if err == nil {
			err = errors.New("no addresses returned")
		}
		rerr := &ResolveError{Host: d.Host, Err: err}
		logger.Error("host resolution failed", map[string]any{
			"host": d.Host, "error": err.Error(),
		})
		return Result{Path: path, Outcome: types.OutcomeConnectionFailed, Err: rerr}
	}

	max := d.maxAttempts()
	var last Result

	for attempt := 1; attempt <= max; attempt++ {
		last = d.attempt(ctx, path, addrs, attempt)
		if last.Outcome.Terminal() {
			return last
		}

		logger.Warn("attempt failed", map[string]any{
			"path":    path,
			"attempt": attempt,
			"max":     max,
			"outcome": string(last.Outcome),
			"error":   last.Err.Error(),
		})

		if attempt < max {
			d.Metrics.IncRetry()
			d.sleep(d.retryDelay())
		}
	}

	logger.Error("delivery failed after retries", map[string]any{
		"path": path, "attempts": max,
	})
	return last
}

// attempt runs one connect + transfer cycle over a fresh connection.
func (d *Deliverer) attempt(ctx context.Context, path string, addrs []string, attempt int) Result {
	d.Metrics.IncConnectAttempt()

	conn, err := d.dial(ctx, addrs)
	if err != nil {
		d.Metrics.IncConnectFailure()
		return Result{
			Path:     path,
			Outcome:  types.OutcomeConnectionFailed,
			Attempts: attempt,
			Err:      err,
		}
	}
	defer iox.DiscardClose(conn)

	res, err := d.session().Send(d.writer(conn), path)
	if err != nil {
		if transfer.IsOpenError(err) {
			return Result{
				Path:     path,
				Outcome:  types.OutcomeOpenFailed,
				Attempts: attempt,
				Err:      err,
			}
		}
		// The connection is corrupted mid-field; it is closed here and a
		// retry must use a fresh one.
		d.Metrics.IncWriteFailure()
		return Result{
			Path:     path,
			Outcome:  types.OutcomeWriteFailed,
			Attempts: attempt,
			Err:      err,
		}
	}

	d.logger().Info("file delivered", map[string]any{
		"path":     path,
		"bytes":    res.BytesSent,
		"checksum": res.Checksum,
		"attempt":  attempt,
	})
	return Result{
		Path:      path,
		Outcome:   types.OutcomeSuccess,
		Attempts:  attempt,
		BytesSent: res.BytesSent,
		Checksum:  res.Checksum,
	}
}

// dial tries each resolved address in order and returns the first
// connection established.
func (d *Deliverer) dial(ctx context.Context, addrs []string) (net.Conn, error) {
	dialer := d.dialer()
	var lastErr error
	for _, addr := range addrs {
		hostPort := net.JoinHostPort(addr, d.Port)
		conn, err := dialer.DialContext(ctx, "tcp", hostPort)
		if err == nil {
			return conn, nil
		}
		lastErr = &ConnectError{Addr: hostPort, Err: err}
	}
	return nil, lastErr
}

// writer wraps conn with a per-write deadline when WriteTimeout is set.
func (d *Deliverer) writer(conn net.Conn) io.Writer {
	if d.WriteTimeout <= 0 {
		return conn
	}
	return &deadlineWriter{conn: conn, timeout: d.WriteTimeout}
}

// deadlineWriter arms a write deadline before each write so a stuck remote
// cannot block the batch forever.
type deadlineWriter struct {
	conn    net.Conn
	timeout time.Duration
}

func (w *deadlineWriter) Write(p []byte) (int, error) {
	_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	return w.conn.Write(p)
}
