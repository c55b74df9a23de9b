package probe

import (
	"time"

	"github.com/apex/log"
	"golang.org/x/sys/unix"

	errs "happy/pkg/errors"
)

// collector drives in-flight connection attempts to a per-round verdict:
// success, failure, or timeout. It owns the only blocking wait in the
// program.
type collector struct {
	reg    *Registry
	opts   Options
	logger log.Interface
}

// update applies one readiness verdict to every in-flight endpoint.
// Timeout detection runs first and wins even when the multiplexer also
// reported the socket ready: an attempt whose deadline has passed is a
// timeout, not a completion. Timeouts record a sample but do not count
// as completed attempts.
func (c *collector) update(rs readySet) error {
	now := time.Now()
	var fatal error
	c.reg.eachInFlight(func(ep *Endpoint) {
		if fatal != nil {
			return
		}
		elapsed := now.Sub(ep.launched).Microseconds()
		if c.opts.Timeout > 0 && elapsed >= c.opts.Timeout.Microseconds() {
			ep.recordTimeout(elapsed)
			ep.closeSocket()
			return
		}
		if !rs.ready(ep.fd) {
			return
		}
		soerr, err := unix.GetsockoptInt(ep.fd, unix.SOL_SOCKET, unix.SO_ERROR)
		if err != nil {
			fatal = &errs.SocketError{Op: "getsockopt", Addr: ep.Addr.String(), Err: err}
			return
		}
		if soerr == 0 {
			ep.recordSuccess(elapsed)
			c.logger.Debugf("connected %s in %dus", ep.Addr, elapsed)
		} else {
			ep.recordFailure(elapsed)
			c.logger.Debugf("connect %s failed after %dus: %s", ep.Addr, elapsed, unix.Errno(soerr))
		}
		ep.closeSocket()
	})
	return fatal
}

// drain waits until no endpoint has a pending attempt. Each wait is
// bounded by the attempt timeout so expired attempts are detected even
// when nothing becomes ready; with no timeout configured the wait is
// unbounded.
func (c *collector) drain() error {
	for {
		budget := waitForever
		if c.opts.Timeout > 0 {
			budget = c.opts.Timeout
		}
		rs, inflight, err := pollInFlight(c.reg, budget)
		if err != nil {
			return err
		}
		if !inflight {
			return nil
		}
		if err := c.update(rs); err != nil {
			return err
		}
	}
}
