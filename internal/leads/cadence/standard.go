package cadence

import (
	"fmt"
	"time"
)

// Reasons produced by the standard policy.
const (
	ReasonNoContact      = "no initial contact made"
	ReasonDormant        = "dormant — follow up when convenient"
	ReasonInterested     = "interested lead needs immediate follow-up"
	ReasonEmailAfterCall = "email follow-up after call"
	ReasonCallAfterEmail = "call follow-up after email"
	ReasonWeeklyCheckIn  = "weekly check-in"
	ReasonOnSchedule     = "on schedule"
)

// Thresholds are the day counts the standard policy branches on.
type Thresholds struct {
	// DormantAfterDays is the age at which a lead is parked as dormant.
	DormantAfterDays int `yaml:"dormantAfterDays"`
	// InterestedReplyDays is how long an interested lead may wait before
	// it becomes high priority.
	InterestedReplyDays int `yaml:"interestedReplyDays"`
	// CallFollowUpDays is the email-after-call delay.
	CallFollowUpDays int `yaml:"callFollowUpDays"`
	// EmailFollowUpDays is the call-after-email delay.
	EmailFollowUpDays int `yaml:"emailFollowUpDays"`
	// CheckInDays is the generic check-in interval.
	CheckInDays int `yaml:"checkInDays"`
}

// DefaultThresholds returns the stock cadence.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DormantAfterDays:    30,
		InterestedReplyDays: 2,
		CallFollowUpDays:    3,
		EmailFollowUpDays:   5,
		CheckInDays:         7,
	}
}

// Validate checks that every threshold is positive.
func (t Thresholds) Validate() error {
	for name, value := range map[string]int{
		"dormantAfterDays":    t.DormantAfterDays,
		"interestedReplyDays": t.InterestedReplyDays,
		"callFollowUpDays":    t.CallFollowUpDays,
		"emailFollowUpDays":   t.EmailFollowUpDays,
		"checkInDays":         t.CheckInDays,
	} {
		if value <= 0 {
			return fmt.Errorf("cadence threshold %s must be positive, got %d", name, value)
		}
	}
	return nil
}

// StandardPolicy is the cadence used by the lead listing view. Rules are
// evaluated in strict order; the first match wins. Every lead, even with zero
// notes, yields a deterministic tier.
type StandardPolicy struct {
	thresholds Thresholds
}

// NewStandardPolicy creates the listing-view policy with the given thresholds.
func NewStandardPolicy(thresholds Thresholds) *StandardPolicy {
	return &StandardPolicy{thresholds: thresholds}
}

// Name returns the policy identifier.
func (p *StandardPolicy) Name() string { return "standard" }

// Evaluate derives the follow-up assessment for a lead.
func (p *StandardPolicy) Evaluate(status string, notes []Interaction, now time.Time) (Assessment, bool) {
	t := p.thresholds

	last, contacted := mostRecent(notes)
	if !contacted {
		return Assessment{
			Priority:     TierHigh,
			NextAction:   ActionCall,
			NextActionAt: now,
			Reason:       ReasonNoContact,
		}, true
	}

	days := daysSince(last.OccurredAt, now)

	if days > t.DormantAfterDays {
		return Assessment{
			Priority:     TierDormant,
			NextAction:   ActionEmail,
			NextActionAt: now.Add(time.Duration(t.CheckInDays) * day),
			Reason:       ReasonDormant,
		}, true
	}

	if status == statusInterested && days >= t.InterestedReplyDays {
		return Assessment{
			Priority:     TierHigh,
			NextAction:   ActionCall,
			NextActionAt: now,
			Reason:       ReasonInterested,
		}, true
	}

	if last.Type == string(ActionCall) && days >= t.CallFollowUpDays {
		return Assessment{
			Priority:     TierMedium,
			NextAction:   ActionEmail,
			NextActionAt: now,
			Reason:       ReasonEmailAfterCall,
		}, true
	}

	if last.Type == string(ActionEmail) && days >= t.EmailFollowUpDays {
		return Assessment{
			Priority:     TierMedium,
			NextAction:   ActionCall,
			NextActionAt: now,
			Reason:       ReasonCallAfterEmail,
		}, true
	}

	if days >= t.CheckInDays {
		return Assessment{
			Priority:     TierLow,
			NextAction:   ActionCall,
			NextActionAt: now,
			Reason:       ReasonWeeklyCheckIn,
		}, true
	}

	return Assessment{
		Priority:     TierLow,
		NextAction:   counterpart(last.Type),
		NextActionAt: now.Add(time.Duration(t.CheckInDays-days) * day),
		Reason:       ReasonOnSchedule,
	}, true
}

// counterpart alternates the channel: a call is followed by an email and
// anything else by a call.
func counterpart(lastType string) Action {
	if lastType == string(ActionCall) {
		return ActionEmail
	}
	return ActionCall
}

var _ Policy = (*StandardPolicy)(nil)
