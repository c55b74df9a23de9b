package probe

import (
	"errors"
	"time"

	"github.com/apex/log"
	"golang.org/x/sys/unix"
)

// prober starts one non-blocking connection attempt per endpoint, in
// registry order, with a pacing gap between launches so the tool does
// not fire a burst of SYN packets. Pacing only delays new launches;
// attempts already in flight keep being serviced during the gap.
type prober struct {
	reg       *Registry
	opts      Options
	logger    log.Interface
	collector *collector
}

// launchAll starts this round's attempts for every active endpoint of
// every active target. Per-endpoint launch problems are diagnostics and
// skip the endpoint for the round; only multiplexer or verdict-query
// failures bubbling up from the pacing wait are fatal.
func (p *prober) launchAll() error {
	for _, t := range p.reg.Targets() {
		if !t.Active() {
			continue
		}
		for _, ep := range t.Endpoints {
			if !ep.Active() {
				continue
			}
			if p.opts.Delay > 0 {
				if err := p.pace(); err != nil {
					return err
				}
			}
			p.launch(t, ep)
		}
	}
	return nil
}

// pace waits out the inter-launch delay while servicing the attempts
// already in flight, so their completions and timeouts are not starved
// by the nap. Asynchronous connects may well finish during the gap.
func (p *prober) pace() error {
	start := time.Now()
	for {
		remaining := p.opts.Delay - time.Since(start)
		if remaining <= 0 {
			return nil
		}
		rs, inflight, err := pollInFlight(p.reg, remaining)
		if err != nil {
			return err
		}
		if !inflight {
			// nothing to service, sleep off the rest of the gap
			time.Sleep(remaining)
			return nil
		}
		if err := p.collector.update(rs); err != nil {
			return err
		}
	}
}

// launch opens the socket and issues the asynchronous connect for one
// endpoint, stamping the launch time on success.
func (p *prober) launch(t *Target, ep *Endpoint) {
	fd, err := unix.Socket(ep.Family, ep.Socktype, ep.Protocol)
	if err != nil {
		// a family or protocol the host cannot speak is not an error,
		// the endpoint just sits this round out
		if errors.Is(err, unix.EAFNOSUPPORT) || errors.Is(err, unix.EPROTONOSUPPORT) {
			return
		}
		p.logger.Warnf("socket: %s (skipping %s port %s)", err, t.Host, t.Port)
		return
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		p.logger.Warnf("set nonblocking: %s (skipping %s port %s)", err, t.Host, t.Port)
		unix.Close(fd)
		return
	}

	if err := unix.Connect(fd, ep.Sockaddr); err != nil && !errors.Is(err, unix.EINPROGRESS) {
		p.logger.Warnf("connect: %s (skipping %s port %s)", err, t.Host, t.Port)
		unix.Close(fd)
		return
	}

	ep.fd = fd
	ep.launched = time.Now()
}
