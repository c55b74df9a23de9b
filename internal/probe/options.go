package probe

import (
	"time"

	errs "happy/pkg/errors"
)

// Options is the process-wide probing configuration. It is read-only
// for the duration of a run.
type Options struct {
	// Queries is the number of measurement rounds. Must be positive.
	Queries int
	// Timeout bounds each connection attempt. Zero waits indefinitely.
	Timeout time.Duration
	// Delay is the pacing gap between consecutive launches. Zero
	// disables pacing.
	Delay time.Duration
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.Queries <= 0 {
		return errs.ErrInvalidQueries
	}
	if o.Timeout < 0 {
		return errs.ErrInvalidTimeout
	}
	if o.Delay < 0 {
		return errs.ErrInvalidDelay
	}
	return nil
}
