package probe

import (
	"strconv"
	"testing"
	"time"
)

func TestPollInFlightIdle(t *testing.T) {
	reg := NewRegistry()
	reg.Append(&Target{Host: "h", Port: "80", Endpoints: []*Endpoint{localEndpoint(t, 80, 1)}})

	start := time.Now()
	_, inflight, err := pollInFlight(reg, time.Second)
	if err != nil {
		t.Fatalf("pollInFlight: %v", err)
	}
	if inflight {
		t.Fatal("idle registry reported an in-flight attempt")
	}
	// no attempt pending means no wait at all
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("idle poll blocked for %v", elapsed)
	}
}

func TestPollInFlightReportsReadiness(t *testing.T) {
	_, port := localListener(t)
	ep := localEndpoint(t, port, 1)
	tgt := &Target{Host: "localhost", Port: strconv.Itoa(port), Endpoints: []*Endpoint{ep}}
	reg := NewRegistry()
	reg.Append(tgt)

	opts := Options{Queries: 1, Timeout: 2 * time.Second}
	c := &collector{reg: reg, opts: opts, logger: discardLogger()}
	p := &prober{reg: reg, opts: opts, logger: discardLogger(), collector: c}
	if err := p.launchAll(); err != nil {
		t.Fatalf("launchAll: %v", err)
	}

	rs, inflight, err := pollInFlight(reg, 2*time.Second)
	if err != nil {
		t.Fatalf("pollInFlight: %v", err)
	}
	if !inflight {
		t.Fatal("launched attempt not reported as in flight")
	}
	if !rs.ready(ep.fd) {
		t.Fatal("loopback connect did not become writable within budget")
	}

	if err := c.update(rs); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ep.Successes != 1 {
		t.Errorf("Successes = %d, want 1", ep.Successes)
	}
}

func TestReadySetAbsentSocket(t *testing.T) {
	var rs readySet
	if rs.ready(noSocket) {
		t.Fatal("absent socket must never be ready")
	}
}
