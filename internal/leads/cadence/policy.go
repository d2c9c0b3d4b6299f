// Package cadence derives follow-up priorities for leads from their
// interaction history. Assessments are pure functions of (status, notes, now)
// and are recomputed on every read; they are never persisted.
package cadence

import "time"

// Tier is the follow-up priority bucket for a lead.
type Tier string

const (
	TierHigh    Tier = "high"
	TierMedium  Tier = "medium"
	TierLow     Tier = "low"
	TierDormant Tier = "dormant"
)

// Rank returns the sort weight of the tier. Higher means more urgent.
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 4
	case TierMedium:
		return 3
	case TierLow:
		return 2
	case TierDormant:
		return 1
	default:
		return 0
	}
}

// ParseTier converts a string into a Tier. Returns false for unknown values.
func ParseTier(raw string) (Tier, bool) {
	switch Tier(raw) {
	case TierHigh, TierMedium, TierLow, TierDormant:
		return Tier(raw), true
	default:
		return "", false
	}
}

// Action is the recommended next interaction type.
type Action string

const (
	ActionCall  Action = "call"
	ActionEmail Action = "email"
)

// Interaction is the minimal view of a note the engine needs.
type Interaction struct {
	Type       string
	OccurredAt time.Time
}

// Assessment is the derived follow-up recommendation for a lead.
type Assessment struct {
	Priority     Tier
	NextAction   Action
	NextActionAt time.Time
	Reason       string
}

// Policy derives an assessment for a lead. The current time is an explicit
// parameter so evaluation stays deterministic under test.
//
// Evaluate returns false when the policy has no recommendation for the lead
// (for example, closed leads under the pipeline policy).
type Policy interface {
	Name() string
	Evaluate(status string, notes []Interaction, now time.Time) (Assessment, bool)
}

// Lead statuses the engine branches on. The repository owns the full enum;
// the engine only cares about these two.
const (
	statusInterested = "interested"
	statusClosed     = "closed"
)

const day = 24 * time.Hour

// mostRecent returns the interaction with the latest OccurredAt.
// Interactions with a zero timestamp count as no contact at all.
func mostRecent(notes []Interaction) (Interaction, bool) {
	var latest Interaction
	found := false
	for _, note := range notes {
		if note.OccurredAt.IsZero() {
			continue
		}
		if !found || note.OccurredAt.After(latest.OccurredAt) {
			latest = note
			found = true
		}
	}
	return latest, found
}

// daysSince is the number of whole 24h periods elapsed since ts.
// Elapsed wall-clock time, not calendar-day boundaries.
func daysSince(ts, now time.Time) int {
	elapsed := now.Sub(ts)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / day)
}
