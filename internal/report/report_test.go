package report

import (
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"

	"happy/internal/probe"
)

func endpoint(addr string, completed int, samples ...int64) *probe.Endpoint {
	ap := netip.MustParseAddrPort(addr)
	return &probe.Endpoint{
		Family:    unix.AF_INET,
		Socktype:  unix.SOCK_STREAM,
		Protocol:  unix.IPPROTO_TCP,
		Sockaddr:  &unix.SockaddrInet4{Port: int(ap.Port())},
		Addr:      ap,
		Samples:   samples,
		Completed: completed,
	}
}

func testRegistry() *probe.Registry {
	reg := probe.NewRegistry()
	reg.Append(&probe.Target{
		Host: "www.example.org",
		Port: "80",
		Endpoints: []*probe.Endpoint{
			endpoint("192.0.2.1:80", 2, 10000, 2500, -500000),
			endpoint("[2001:db8::1]:80", 0, -1),
		},
	})
	reg.Append(&probe.Target{Host: "fail.example.org", Port: "80"})
	reg.Append(&probe.Target{
		Host: "other.example.net",
		Port: "443",
		Endpoints: []*probe.Endpoint{
			endpoint("198.51.100.7:443", 1, 1234),
		},
	})
	return reg
}

func TestRenderHuman(t *testing.T) {
	var sb strings.Builder
	if err := RenderHuman(&sb, testRegistry()); err != nil {
		t.Fatalf("RenderHuman: %v", err)
	}

	want := "www.example.org:80\n" +
		" 192.0.2.1                                   10.000    2.500     *   \n" +
		" 2001:db8::1                                   *   \n" +
		"\n" +
		"other.example.net:443\n" +
		" 198.51.100.7                                 1.234\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("human report mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMachine(t *testing.T) {
	var sb strings.Builder
	now := time.Unix(1700000000, 0)
	if err := RenderMachine(&sb, testRegistry(), now); err != nil {
		t.Fatalf("RenderMachine: %v", err)
	}

	want := "HAPPY.0;1700000000;OK;www.example.org;80;192.0.2.1;10000;2500;-500000\n" +
		"HAPPY.0;1700000000;FAIL;www.example.org;80;2001:db8::1;-1\n" +
		"HAPPY.0;1700000000;OK;other.example.net;443;198.51.100.7;1234\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("machine report mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmptyRegistry(t *testing.T) {
	var sb strings.Builder
	if err := RenderHuman(&sb, probe.NewRegistry()); err != nil {
		t.Fatalf("RenderHuman: %v", err)
	}
	if err := RenderMachine(&sb, probe.NewRegistry(), time.Now()); err != nil {
		t.Fatalf("RenderMachine: %v", err)
	}
	if sb.Len() != 0 {
		t.Fatalf("empty registry rendered %q", sb.String())
	}
}

func TestRenderMachineNoSamples(t *testing.T) {
	reg := probe.NewRegistry()
	reg.Append(&probe.Target{
		Host:      "h",
		Port:      "80",
		Endpoints: []*probe.Endpoint{endpoint("192.0.2.9:80", 0)},
	})

	var sb strings.Builder
	if err := RenderMachine(&sb, reg, time.Unix(5, 0)); err != nil {
		t.Fatalf("RenderMachine: %v", err)
	}
	want := "HAPPY.0;5;FAIL;h;80;192.0.2.9\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("machine report mismatch (-want +got):\n%s", diff)
	}
}
