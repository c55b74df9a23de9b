// Package probe implements the concurrent TCP endpoint prober: target
// resolution into endpoints, paced non-blocking connection launches, a
// select(2)-driven completion loop, per-endpoint latency accumulation
// over repeated rounds, and ranking by mean latency.
//
// The whole probing state machine runs on a single goroutine; concurrency
// comes from multiplexed non-blocking sockets, so the data model below
// needs no locking.
package probe

import (
	"net/netip"
	"time"

	"golang.org/x/sys/unix"
)

// noSocket marks an endpoint with no connection attempt in flight.
const noSocket = -1

// Endpoint is one probeable (address, port) combination of a target.
// Latency samples are signed microseconds: a value >= 0 is the connect
// time of a success, a value < 0 is the negated elapsed time at failure
// or timeout.
type Endpoint struct {
	Family   int
	Socktype int
	Protocol int
	Sockaddr unix.Sockaddr
	Addr     netip.AddrPort

	// transient per-round probing state
	fd       int
	launched time.Time

	// accumulated statistics; Samples never grows past its capacity,
	// which is the configured number of query rounds
	Samples   []int64
	Sum       int64
	Successes int
	Completed int
}

func newEndpoint(family int, sa unix.Sockaddr, addr netip.AddrPort, rounds int) *Endpoint {
	return &Endpoint{
		Family:   family,
		Socktype: unix.SOCK_STREAM,
		Protocol: unix.IPPROTO_TCP,
		Sockaddr: sa,
		Addr:     addr,
		fd:       noSocket,
		Samples:  make([]int64, 0, rounds),
	}
}

// InFlight reports whether a connection attempt is pending on this
// endpoint. It holds iff the endpoint owns a socket.
func (ep *Endpoint) InFlight() bool {
	return ep.fd != noSocket
}

// Active reports whether the endpoint carries a usable resolved address.
func (ep *Endpoint) Active() bool {
	return ep.Sockaddr != nil
}

func (ep *Endpoint) appendSample(v int64) {
	if len(ep.Samples) < cap(ep.Samples) {
		ep.Samples = append(ep.Samples, v)
	}
}

// negated returns the failure/timeout sample for the given elapsed
// microseconds. Elapsed times truncating to zero still need the sign
// to encode the verdict, so the sample is at most -1.
func negated(elapsedUS int64) int64 {
	if elapsedUS <= 0 {
		return -1
	}
	return -elapsedUS
}

// recordSuccess records a completed connect after elapsedUS microseconds.
func (ep *Endpoint) recordSuccess(elapsedUS int64) {
	if elapsedUS < 0 {
		elapsedUS = 0
	}
	ep.appendSample(elapsedUS)
	ep.Sum += elapsedUS
	ep.Successes++
	ep.Completed++
}

// recordFailure records a connect that completed with an error verdict.
func (ep *Endpoint) recordFailure(elapsedUS int64) {
	ep.appendSample(negated(elapsedUS))
	ep.Completed++
}

// recordTimeout records an attempt that never reached a verdict. Unlike
// a failure it does not count as a completed attempt.
func (ep *Endpoint) recordTimeout(elapsedUS int64) {
	ep.appendSample(negated(elapsedUS))
}

// closeSocket releases the in-flight socket, if any.
func (ep *Endpoint) closeSocket() {
	if ep.fd != noSocket {
		unix.Close(ep.fd)
		ep.fd = noSocket
	}
}

// Target owns the endpoints resolved for one (host, port) pair. The
// host and port are kept exactly as supplied by the caller.
type Target struct {
	Host      string
	Port      string
	Endpoints []*Endpoint
}

// Active reports whether the target participates in probing. Targets
// whose resolution failed stay registered but are inert everywhere.
func (t *Target) Active() bool {
	return t != nil && t.Host != "" && len(t.Endpoints) > 0
}

// Registry is the ordered, append-only collection of targets for a run.
// Insertion order is the caller's target order and is preserved in the
// report. A Registry value is threaded explicitly through the resolver,
// the round controller, the ranker and the renderers.
type Registry struct {
	targets []*Target
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append adds a target at the end of the registry.
func (r *Registry) Append(t *Target) {
	if t != nil {
		r.targets = append(r.targets, t)
	}
}

// Targets returns the targets in insertion order.
func (r *Registry) Targets() []*Target {
	return r.targets
}

// eachInFlight calls fn for every endpoint with a pending attempt.
func (r *Registry) eachInFlight(fn func(*Endpoint)) {
	for _, t := range r.targets {
		if !t.Active() {
			continue
		}
		for _, ep := range t.Endpoints {
			if ep.Active() && ep.InFlight() {
				fn(ep)
			}
		}
	}
}
