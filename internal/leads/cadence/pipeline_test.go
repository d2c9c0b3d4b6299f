package cadence

import (
	"testing"
)

func TestPipelinePolicy_ExcludesClosedLeads(t *testing.T) {
	policy := NewPipelinePolicy()

	if _, ok := policy.Evaluate("closed", nil, testNow); ok {
		t.Fatal("closed lead with no notes should be excluded")
	}
	if _, ok := policy.Evaluate("closed", []Interaction{noteAgo("call", days(10))}, testNow); ok {
		t.Fatal("closed lead with stale notes should be excluded")
	}
}

func TestPipelinePolicy_NoNotesIsHighCall(t *testing.T) {
	policy := NewPipelinePolicy()

	got, ok := policy.Evaluate("new", nil, testNow)
	if !ok {
		t.Fatal("expected a due follow-up")
	}
	if got.Priority != TierHigh || got.NextAction != ActionCall {
		t.Errorf("got %q/%q, want high/call", got.Priority, got.NextAction)
	}
}

func TestPipelinePolicy_DueFollowUps(t *testing.T) {
	policy := NewPipelinePolicy()

	cases := []struct {
		name     string
		notes    []Interaction
		due      bool
		priority Tier
		action   Action
		reason   string
	}{
		{
			name:     "call due after two days",
			notes:    []Interaction{noteAgo("call", days(2))},
			due:      true,
			priority: TierMedium,
			action:   ActionEmail,
			reason:   ReasonEmailAfterCall,
		},
		{
			name:  "call not yet due",
			notes: []Interaction{noteAgo("call", days(1))},
			due:   false,
		},
		{
			name:     "call escalates when long overdue",
			notes:    []Interaction{noteAgo("call", days(7))},
			due:      true,
			priority: TierHigh,
			action:   ActionEmail,
			reason:   ReasonEmailAfterCall,
		},
		{
			name:     "call overdue four days stays medium",
			notes:    []Interaction{noteAgo("call", days(6))},
			due:      true,
			priority: TierMedium,
			action:   ActionEmail,
			reason:   ReasonEmailAfterCall,
		},
		{
			name:     "email due after four days",
			notes:    []Interaction{noteAgo("email", days(4))},
			due:      true,
			priority: TierMedium,
			action:   ActionCall,
			reason:   ReasonCallAfterEmail,
		},
		{
			name:  "email not yet due",
			notes: []Interaction{noteAgo("email", days(3))},
			due:   false,
		},
		{
			name:     "email escalates when long overdue",
			notes:    []Interaction{noteAgo("email", days(12))},
			due:      true,
			priority: TierHigh,
			action:   ActionCall,
			reason:   ReasonCallAfterEmail,
		},
		{
			name:     "generic note weekly check-in",
			notes:    []Interaction{noteAgo("note", days(8))},
			due:      true,
			priority: TierLow,
			action:   ActionCall,
			reason:   ReasonWeeklyCheckIn,
		},
		{
			name:  "fresh generic note",
			notes: []Interaction{noteAgo("note", days(3))},
			due:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := policy.Evaluate("contacted", tc.notes, testNow)
			if ok != tc.due {
				t.Fatalf("due = %v, want %v", ok, tc.due)
			}
			if !tc.due {
				return
			}
			if got.Priority != tc.priority {
				t.Errorf("priority = %q, want %q", got.Priority, tc.priority)
			}
			if got.NextAction != tc.action {
				t.Errorf("next action = %q, want %q", got.NextAction, tc.action)
			}
			if got.Reason != tc.reason {
				t.Errorf("reason = %q, want %q", got.Reason, tc.reason)
			}
		})
	}
}

func TestPipelinePolicy_NextActionAtIsDueMoment(t *testing.T) {
	policy := NewPipelinePolicy()

	note := noteAgo("call", days(5))
	got, ok := policy.Evaluate("contacted", []Interaction{note}, testNow)
	if !ok {
		t.Fatal("expected a due follow-up")
	}
	if want := note.OccurredAt.Add(days(2)); !got.NextActionAt.Equal(want) {
		t.Errorf("next action at = %v, want %v", got.NextActionAt, want)
	}
}
