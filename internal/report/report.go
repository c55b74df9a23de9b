// Package report renders the final registry state. Two formats exist:
// a human-readable table and a compact machine-readable record stream.
// Diagnostics never pass through here; renderers only ever write the
// report itself.
package report

import (
	"fmt"
	"io"
	"time"

	"happy/internal/probe"
)

// addrWidth is the column reserved for the numeric address in the
// human-readable format.
const addrWidth = 41

// failedField marks a failed or timed-out round in the human format.
const failedField = "     *   "

// RenderHuman writes one header line per target followed by one line
// per endpoint with a fixed-width field per recorded sample. Successful
// samples print as milliseconds with three fractional digits; failures
// and timeouts print a placeholder.
func RenderHuman(w io.Writer, reg *probe.Registry) error {
	first := true
	for _, t := range reg.Targets() {
		if !t.Active() {
			continue
		}
		sep := "\n"
		if first {
			sep = ""
			first = false
		}
		if _, err := fmt.Fprintf(w, "%s%s:%s\n", sep, t.Host, t.Port); err != nil {
			return err
		}
		for _, ep := range t.Endpoints {
			if !ep.Active() {
				continue
			}
			if _, err := fmt.Fprintf(w, " %-*s", addrWidth, ep.Addr.Addr()); err != nil {
				return err
			}
			for _, v := range ep.Samples {
				var err error
				if v >= 0 {
					_, err = fmt.Fprintf(w, " %4d.%03d", v/1000, v%1000)
				} else {
					_, err = io.WriteString(w, failedField)
				}
				if err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderMachine writes one semicolon-delimited record per endpoint:
// tag, timestamp, OK/FAIL, host, port, numeric address, then every
// recorded sample as a signed microsecond value. The verdict is OK when
// at least one attempt ran to completion, even a failed one; endpoints
// that only ever timed out report FAIL.
func RenderMachine(w io.Writer, reg *probe.Registry, now time.Time) error {
	ts := now.Unix()
	for _, t := range reg.Targets() {
		if !t.Active() {
			continue
		}
		for _, ep := range t.Endpoints {
			if !ep.Active() {
				continue
			}
			status := "FAIL"
			if ep.Completed > 0 {
				status = "OK"
			}
			if _, err := fmt.Fprintf(w, "HAPPY.0;%d;%s;%s;%s;%s",
				ts, status, t.Host, t.Port, ep.Addr.Addr()); err != nil {
				return err
			}
			for _, v := range ep.Samples {
				if _, err := fmt.Fprintf(w, ";%d", v); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
