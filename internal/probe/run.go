package probe

import (
	"github.com/apex/log"
)

// Run executes the configured number of query rounds over the registry.
// Rounds are strictly sequential: a round's launches all resolve to a
// verdict before the next round begins. Endpoints skipped in a round
// simply contribute no sample for it.
func Run(reg *Registry, opts Options, logger log.Interface) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	c := &collector{reg: reg, opts: opts, logger: logger}
	p := &prober{reg: reg, opts: opts, logger: logger, collector: c}

	for round := 0; round < opts.Queries; round++ {
		logger.Debugf("round %d/%d", round+1, opts.Queries)
		if err := p.launchAll(); err != nil {
			return err
		}
		if err := c.drain(); err != nil {
			return err
		}
	}
	return nil
}
