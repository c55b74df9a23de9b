package probe

import (
	"context"
	"net"
	"net/netip"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	errs "happy/pkg/errors"
)

// resolveLimit bounds how many targets are resolved at the same time.
const resolveLimit = 8

// Spec names one (host, port) pair to probe. Ports may be numeric or
// service names.
type Spec struct {
	Host string
	Port string
}

// Resolve expands a (host, port) pair into a target with one endpoint
// per resolved address. Resolution uses the system resolver with a TCP
// stream intent across both address families. On failure the target is
// still returned, with zero endpoints, after emitting a diagnostic; the
// rest of the run proceeds without it.
func Resolve(ctx context.Context, host, port string, rounds int, logger log.Interface) *Target {
	t := &Target{Host: host, Port: port}

	portnum, err := net.DefaultResolver.LookupPort(ctx, "tcp", port)
	if err != nil {
		logger.Warnf("%s (skipping)", &errs.ResolveError{Host: host, Port: port, Err: err})
		return t
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		logger.Warnf("%s (skipping)", &errs.ResolveError{Host: host, Port: port, Err: err})
		return t
	}

	for _, ia := range addrs {
		if ep := endpointForAddr(ia, portnum, rounds); ep != nil {
			t.Endpoints = append(t.Endpoints, ep)
		}
	}
	return t
}

// endpointForAddr builds the endpoint for one resolved address, or nil
// when the address cannot be expressed as a socket address.
func endpointForAddr(ia net.IPAddr, port, rounds int) *Endpoint {
	if v4 := ia.IP.To4(); v4 != nil {
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], v4)
		naddr := netip.AddrFrom4([4]byte(sa.Addr))
		return newEndpoint(unix.AF_INET, sa, netip.AddrPortFrom(naddr, uint16(port)), rounds)
	}
	v6 := ia.IP.To16()
	if v6 == nil {
		return nil
	}
	sa := &unix.SockaddrInet6{Port: port, ZoneId: zoneIndex(ia.Zone)}
	copy(sa.Addr[:], v6)
	naddr := netip.AddrFrom16([16]byte(sa.Addr))
	if ia.Zone != "" {
		naddr = naddr.WithZone(ia.Zone)
	}
	return newEndpoint(unix.AF_INET6, sa, netip.AddrPortFrom(naddr, uint16(port)), rounds)
}

// zoneIndex maps a scoped-address zone to an interface index, or 0 when
// the zone is empty or unknown.
func zoneIndex(zone string) uint32 {
	if zone == "" {
		return 0
	}
	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index)
	}
	return 0
}

// ResolveAll resolves every spec and returns the populated registry.
// Lookups run concurrently under a bounded errgroup, but the registry
// keeps the specs' order: each result lands in its own slot and the
// append happens after all lookups are done.
func ResolveAll(ctx context.Context, specs []Spec, rounds int, logger log.Interface) *Registry {
	resolved := make([]*Target, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveLimit)
	for i, s := range specs {
		g.Go(func() error {
			resolved[i] = Resolve(gctx, s.Host, s.Port, rounds, logger)
			return nil
		})
	}
	g.Wait()

	reg := NewRegistry()
	for _, t := range resolved {
		reg.Append(t)
	}
	return reg
}
