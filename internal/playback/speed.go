package playback

import "time"

// LineKind classifies a diff line for rendering and pacing.
type LineKind int

const (
	KindContext LineKind = iota
	KindAdded
	KindRemoved
	KindBlank

	// KindAny is only valid in a SpeedRule and matches every line.
	KindAny LineKind = -1
)

func (k LineKind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindBlank:
		return "blank"
	case KindAny:
		return "any"
	}
	return "unknown"
}

// DiffLine is one classified line of a commit diff.
type DiffLine struct {
	Kind LineKind
	Text string
}

// SpeedRule maps a class of diff lines to a per-character reveal interval.
// Interval takes precedence when set; otherwise the base interval is
// divided by Speed (Speed 2.0 reveals twice as fast). MinLen, when
// positive, additionally requires the line to be at least that many runes.
type SpeedRule struct {
	Kind     LineKind
	MinLen   int
	Interval time.Duration
	Speed    float64
}

func (r SpeedRule) matches(line DiffLine) bool {
	if r.Kind != KindAny && r.Kind != line.Kind {
		return false
	}
	if r.MinLen > 0 && len([]rune(line.Text)) < r.MinLen {
		return false
	}
	return true
}

func (r SpeedRule) interval(base time.Duration) time.Duration {
	if r.Interval > 0 {
		return r.Interval
	}
	if r.Speed > 0 {
		return time.Duration(float64(base) / r.Speed)
	}
	return base
}

// SpeedRuleSet resolves a diff line to its reveal interval. Rules are
// checked in declared order and the first match wins; a line matching no
// rule reveals at the base interval. An empty rule set is valid.
type SpeedRuleSet struct {
	base  time.Duration
	rules []SpeedRule
}

func NewSpeedRuleSet(base time.Duration, rules []SpeedRule) *SpeedRuleSet {
	if base <= 0 {
		base = DefaultBaseInterval
	}
	return &SpeedRuleSet{base: base, rules: rules}
}

// DefaultBaseInterval is the per-character pacing used when no base speed
// is configured.
const DefaultBaseInterval = 50 * time.Millisecond

func (s *SpeedRuleSet) Base() time.Duration { return s.base }

func (s *SpeedRuleSet) Resolve(line DiffLine) time.Duration {
	for _, rule := range s.rules {
		if rule.matches(line) {
			return rule.interval(s.base)
		}
	}
	return s.base
}
