package probe

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Mean returns the mean connect latency in microseconds over the
// endpoint's successful attempts, or 0 when it never succeeded.
func (ep *Endpoint) Mean() float64 {
	if ep.Successes == 0 {
		return 0
	}
	succ := make([]float64, 0, ep.Successes)
	for _, v := range ep.Samples {
		if v >= 0 {
			succ = append(succ, float64(v))
		}
	}
	m, err := stats.Mean(succ)
	if err != nil {
		return 0
	}
	return m
}

// Rank sorts each target's endpoints by mean successful latency,
// ascending. An endpoint that never succeeded compares as equal to
// everything, so endpoints without data keep their relative positions
// rather than sorting to either end. Ranking the same registry again
// yields the same order.
func Rank(reg *Registry) {
	for _, t := range reg.Targets() {
		if !t.Active() {
			continue
		}
		eps := t.Endpoints
		sort.SliceStable(eps, func(i, j int) bool {
			if eps[i].Successes == 0 || eps[j].Successes == 0 {
				return false
			}
			return eps[i].Mean() < eps[j].Mean()
		})
	}
}
