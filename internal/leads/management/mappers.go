package management

import (
	"sort"
	"time"

	"crm_portal_backend/internal/leads/cadence"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
)

func (s *Service) toResponse(lead repository.Lead, notes []repository.LeadNote) transport.LeadResponse {
	assessment, _ := s.policy.Evaluate(lead.Status, toInteractions(notes), s.now())

	resp := transport.LeadResponse{
		ID:              lead.ID,
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Phone:           lead.Phone,
		Email:           lead.Email,
		Company:         lead.Company,
		City:            lead.City,
		Status:          lead.Status,
		AssignedAgentID: lead.AssignedAgentID,
		Source:          lead.Source,
		FollowUp: transport.FollowUpResponse{
			Priority:       string(assessment.Priority),
			NextAction:     string(assessment.NextAction),
			NextActionDate: assessment.NextActionAt,
			Reason:         assessment.Reason,
		},
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}

	if last, ok := lastContact(notes); ok {
		resp.LastContactAt = &last
	}

	return resp
}

func toNoteResponse(note repository.LeadNote) transport.LeadNoteResponse {
	return transport.LeadNoteResponse{
		ID:         note.ID,
		LeadID:     note.LeadID,
		AuthorID:   note.AuthorID,
		Type:       note.Type,
		Body:       note.Body,
		OccurredAt: note.OccurredAt,
		CreatedAt:  note.CreatedAt,
	}
}

func toInteractions(notes []repository.LeadNote) []cadence.Interaction {
	interactions := make([]cadence.Interaction, len(notes))
	for i, note := range notes {
		interactions[i] = cadence.Interaction{Type: note.Type, OccurredAt: note.OccurredAt}
	}
	return interactions
}

func lastContact(notes []repository.LeadNote) (time.Time, bool) {
	var latest time.Time
	for _, note := range notes {
		if note.OccurredAt.After(latest) {
			latest = note.OccurredAt
		}
	}
	return latest, !latest.IsZero()
}

// sortLeads orders the listing. Priority ordering ranks tiers descending and
// breaks ties on the most recent contact; leads never contacted sort last.
// Recent ordering is purely by last contact descending.
func sortLeads(items []transport.LeadResponse, order string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if order == SortPriority {
			rankA := cadence.Tier(a.FollowUp.Priority).Rank()
			rankB := cadence.Tier(b.FollowUp.Priority).Rank()
			if rankA != rankB {
				return rankA > rankB
			}
		}
		return contactTime(a).After(contactTime(b))
	})
}

func contactTime(item transport.LeadResponse) time.Time {
	if item.LastContactAt == nil {
		return time.Time{}
	}
	return *item.LastContactAt
}

func paginate(items []transport.LeadResponse, limit, offset int) []transport.LeadResponse {
	if offset > 0 {
		if offset >= len(items) {
			return []transport.LeadResponse{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
