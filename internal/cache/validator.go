package cache

import (
	"time"
)

// FreshnessWindow is how old a slot may grow before it stops serving the
// primary path. Past the window the slot still serves as a fallback when
// the location source is unavailable; freshness is advisory, not expiry.
const FreshnessWindow = 7 * 24 * time.Hour

// Verdict classifies a cache slot's usability for a resolution.
type Verdict int

const (
	// Unusable slots never serve: absent, or covering a different month.
	Unusable Verdict = iota
	// StaleFallback slots serve only when recomputation is unavailable.
	StaleFallback
	// Usable slots serve the primary path as-is.
	Usable
)

func (v Verdict) String() string {
	switch v {
	case Usable:
		return "usable"
	case StaleFallback:
		return "stale-fallback"
	default:
		return "unusable"
	}
}

// Validate applies the usability rules in order:
//
//  1. no record: Unusable
//  2. record covers a different month/year than today: Unusable
//  3. forced refresh: StaleFallback (primary path must recompute, but the
//     record remains eligible if recomputation fails)
//  4. fetched more than FreshnessWindow ago: StaleFallback
//  5. otherwise: Usable
func Validate(record *MonthlyRecord, today time.Time, forceRefresh bool) Verdict {
	if record == nil {
		return Unusable
	}
	if record.Month != int(today.Month()) || record.Year != today.Year() {
		return Unusable
	}
	if forceRefresh {
		return StaleFallback
	}
	if today.Sub(record.FetchedAt) > FreshnessWindow {
		return StaleFallback
	}
	return Usable
}
