package probe

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"

	errs "happy/pkg/errors"
)

// waitForever makes pollInFlight block until a socket becomes ready.
const waitForever time.Duration = -1

// readySet is the readiness verdict of one multiplexer wait.
type readySet struct {
	fds unix.FdSet
}

func (rs *readySet) ready(fd int) bool {
	return fd != noSocket && rs.fds.IsSet(fd)
}

// pollInFlight blocks until at least one in-flight connection attempt
// becomes writable or erroring, or the budget elapses. A negative budget
// blocks indefinitely. The boolean result reports whether any attempt
// was in flight at all; when it is false no wait happened.
//
// Interrupted waits are retried with the remaining budget. Any other
// wait failure is fatal to the run and reported as a WaitError.
func pollInFlight(reg *Registry, budget time.Duration) (readySet, bool, error) {
	var rs readySet
	build := func() int {
		rs.fds.Zero()
		max := noSocket
		reg.eachInFlight(func(ep *Endpoint) {
			rs.fds.Set(ep.fd)
			if ep.fd > max {
				max = ep.fd
			}
		})
		return max
	}

	max := build()
	if max == noSocket {
		return rs, false, nil
	}

	deadline := time.Now().Add(budget)
	for {
		var tv *unix.Timeval
		if budget >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			t := unix.NsecToTimeval(remaining.Nanoseconds())
			tv = &t
		}
		_, err := unix.Select(max+1, nil, &rs.fds, nil, tv)
		if err == nil {
			return rs, true, nil
		}
		if errors.Is(err, unix.EINTR) {
			// select may have clobbered the set; rebuild it before
			// retrying with whatever budget is left
			if max = build(); max == noSocket {
				return rs, false, nil
			}
			continue
		}
		return rs, true, &errs.WaitError{Op: "select", Err: err}
	}
}
