// Package events holds the domain events and aliases the platform bus so
// modules import a single events package.
package events

import (
	platformevents "crm_portal_backend/platform/events"
	"crm_portal_backend/platform/logger"
)

// InMemoryBus aliases the platform implementation.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus builds the in-process bus shared by the API modules.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
