package cadence

import "time"

// Pipeline policy delays. The pipeline cadence is deliberately tighter than
// the standard one; the two rule sets ship side by side as named policies
// rather than being reconciled into a single guessed compromise.
const (
	pipelineCallFollowUpDays  = 2
	pipelineCallEscalateDays  = 4
	pipelineEmailFollowUpDays = 4
	pipelineEmailEscalateDays = 7
	pipelineCheckInDays       = 7
)

// PipelinePolicy is the cadence behind the "top follow-ups" dashboard widget.
// It only reports leads with a due follow-up, excludes closed leads entirely,
// and escalates follow-ups that have been overdue for too long.
type PipelinePolicy struct{}

// NewPipelinePolicy creates the dashboard widget policy.
func NewPipelinePolicy() *PipelinePolicy {
	return &PipelinePolicy{}
}

// Name returns the policy identifier.
func (p *PipelinePolicy) Name() string { return "pipeline" }

// Evaluate reports the due follow-up for a lead, if any. NextActionAt is the
// moment the follow-up became due, so callers can order by how overdue a lead
// is.
func (p *PipelinePolicy) Evaluate(status string, notes []Interaction, now time.Time) (Assessment, bool) {
	if status == statusClosed {
		return Assessment{}, false
	}

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

	if last.Type == string(ActionCall) && days >= pipelineCallFollowUpDays {
		priority := TierMedium
		if days-pipelineCallFollowUpDays > pipelineCallEscalateDays {
			priority = TierHigh
		}
		return Assessment{
			Priority:     priority,
			NextAction:   ActionEmail,
			NextActionAt: last.OccurredAt.Add(pipelineCallFollowUpDays * day),
			Reason:       ReasonEmailAfterCall,
		}, true
	}

	if last.Type == string(ActionEmail) && days >= pipelineEmailFollowUpDays {
		priority := TierMedium
		if days-pipelineEmailFollowUpDays > pipelineEmailEscalateDays {
			priority = TierHigh
		}
		return Assessment{
			Priority:     priority,
			NextAction:   ActionCall,
			NextActionAt: last.OccurredAt.Add(pipelineEmailFollowUpDays * day),
			Reason:       ReasonCallAfterEmail,
		}, true
	}

	if days >= pipelineCheckInDays {
		return Assessment{
			Priority:     TierLow,
			NextAction:   ActionCall,
			NextActionAt: last.OccurredAt.Add(pipelineCheckInDays * day),
			Reason:       ReasonWeeklyCheckIn,
		}, true
	}

	return Assessment{}, false
}

var _ Policy = (*PipelinePolicy)(nil)
