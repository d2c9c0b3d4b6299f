package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone     string  `json:"phone" validate:"required,min=4,max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Company   *string `json:"company" validate:"omitempty,max=200"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	Source    *string `json:"source" validate:"omitempty,max=100"`
	Status    string  `json:"status" validate:"omitempty,oneof=new contacted interested qualified closed"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted interested qualified closed"`
}

type AssignLeadRequest struct {
	// AgentID is the user to assign; null unassigns the lead.
	AgentID *string `json:"agentId" validate:"omitempty,uuid"`
}

// FollowUpResponse is the derived cadence assessment attached to a lead.
// These fields are recomputed on every read and never persisted.
type FollowUpResponse struct {
	Priority       string    `json:"priority"`
	NextAction     string    `json:"nextAction"`
	NextActionDate time.Time `json:"nextActionDate"`
	Reason         string    `json:"reason"`
}

type LeadResponse struct {
	ID              uuid.UUID        `json:"id"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Phone           string           `json:"phone"`
	Email           *string          `json:"email,omitempty"`
	Company         *string          `json:"company,omitempty"`
	City            *string          `json:"city,omitempty"`
	Status          string           `json:"status"`
	AssignedAgentID *uuid.UUID       `json:"assignedAgentId,omitempty"`
	Source          *string          `json:"source,omitempty"`
	LastContactAt   *time.Time       `json:"lastContactAt,omitempty"`
	FollowUp        FollowUpResponse `json:"followUp"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type LeadsResponse struct {
	Items []LeadResponse `json:"items"`
}

type LeadDetailResponse struct {
	LeadResponse
	Notes []LeadNoteResponse `json:"notes"`
}
