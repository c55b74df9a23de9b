package probe

import (
	"strconv"
	"testing"
	"time"
)

func TestLaunchAllPacesLaunches(t *testing.T) {
	_, port := localListener(t)

	eps := make([]*Endpoint, 4)
	for i := range eps {
		eps[i] = localEndpoint(t, port, 1)
	}
	tgt := &Target{Host: "localhost", Port: strconv.Itoa(port), Endpoints: eps}
	reg := NewRegistry()
	reg.Append(tgt)

	opts := Options{Queries: 1, Timeout: 2 * time.Second, Delay: 25 * time.Millisecond}
	c := &collector{reg: reg, opts: opts, logger: discardLogger()}
	p := &prober{reg: reg, opts: opts, logger: discardLogger(), collector: c}

	start := time.Now()
	if err := p.launchAll(); err != nil {
		t.Fatalf("launchAll: %v", err)
	}
	elapsed := time.Since(start)

	// four paced launches mean at least three full inter-launch gaps
	if min := 3 * opts.Delay; elapsed < min {
		t.Errorf("launch phase took %v, want at least %v", elapsed, min)
	}

	if err := c.drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	for i, ep := range eps {
		if ep.InFlight() {
			t.Errorf("endpoint %d still in flight", i)
		}
	}
}

func TestLaunchAllSkipsInertTargets(t *testing.T) {
	reg := NewRegistry()
	reg.Append(&Target{Host: "unresolved", Port: "80"})

	opts := Options{Queries: 1, Timeout: time.Second}
	c := &collector{reg: reg, opts: opts, logger: discardLogger()}
	p := &prober{reg: reg, opts: opts, logger: discardLogger(), collector: c}

	if err := p.launchAll(); err != nil {
		t.Fatalf("launchAll: %v", err)
	}
	if err := c.drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestPacingServicesInFlightAttempts(t *testing.T) {
	_, port := localListener(t)

	first := localEndpoint(t, port, 1)
	second := localEndpoint(t, port, 1)
	tgt := &Target{Host: "localhost", Port: strconv.Itoa(port), Endpoints: []*Endpoint{first, second}}
	reg := NewRegistry()
	reg.Append(tgt)

	// a generous delay gives the first attempt ample time to finish
	// inside the second endpoint's pacing window
	opts := Options{Queries: 1, Timeout: 2 * time.Second, Delay: 200 * time.Millisecond}
	c := &collector{reg: reg, opts: opts, logger: discardLogger()}
	p := &prober{reg: reg, opts: opts, logger: discardLogger(), collector: c}

	if err := p.launchAll(); err != nil {
		t.Fatalf("launchAll: %v", err)
	}
	if first.InFlight() {
		t.Error("first attempt was not serviced during the pacing gap")
	}
	if len(first.Samples) != 1 {
		t.Errorf("first endpoint has %d samples, want 1", len(first.Samples))
	}

	if err := c.drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
}
