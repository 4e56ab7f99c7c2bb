package pricing

import "time"

// Schedule describes when a time-bounded promotional entity may be shown.
// Banners leave MaxUsage nil; offers set it when redemptions are capped.
type Schedule struct {
	Enabled  bool
	Start    time.Time
	End      time.Time
	MaxUsage *int64 // nil means unlimited
	Usage    int64
}

// Active reports whether the schedule admits now. Both window bounds are
// inclusive. The clock is always injected so the predicate stays
// deterministic.
func (s Schedule) Active(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	if now.Before(s.Start) || now.After(s.End) {
		return false
	}
	if s.MaxUsage != nil && s.Usage >= *s.MaxUsage {
		return false
	}
	return true
}

// UsageLeft reports whether another redemption fits under the cap. It is a
// read-side convenience only; the claim path enforces the cap with an atomic
// conditional increment in storage.
func (s Schedule) UsageLeft() bool {
	return s.MaxUsage == nil || s.Usage < *s.MaxUsage
}
