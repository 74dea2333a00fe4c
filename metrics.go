package selahsdk

import "go.uber.org/atomic"

// Metrics counts resolver activity. Counters are atomic so hot paths never
// contend on a lock; Snapshot is safe to call from a stats endpoint or a
// debug log loop.
type Metrics struct {
	Resolves     atomic.Int64 // successful Resolve calls
	Fallbacks    atomic.Int64 // ResolveSafe calls that used the neutral fallback
	LookupErrors atomic.Int64 // Resolve calls that hit a table miss
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"resolves":      m.Resolves.Load(),
		"fallbacks":     m.Fallbacks.Load(),
		"lookup_errors": m.LookupErrors.Load(),
	}
}
