// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint
// when net/http/pprof is imported in the main binary.
package metrics

import "expvar"

// Operation counters.
var (
	LinksEstablished  = expvar.NewInt("hospital_links_established_total")
	LinksSevered      = expvar.NewInt("hospital_links_severed_total")
	EntitiesRenamed   = expvar.NewInt("hospital_links_renamed_total")
	EntitiesDestroyed = expvar.NewInt("hospital_links_destroyed_total")
	// LinkRejections counts refused operations keyed by reason.
	LinkRejections = expvar.NewMap("hospital_links_rejections_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Reject counts one refused operation for reason.
func Reject(reason string) { LinkRejections.Add(reason, 1) }

// Rejections returns the current count for reason.
func Rejections(reason string) int64 {
	if v, ok := LinkRejections.Get(reason).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}
