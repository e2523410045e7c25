package infrastructure

import (
	"fmt"

	"pickem/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "wallets.balance_changed"
	case events.EventTypeSlipCreated:
		return "slips.created"
	case events.EventTypeSlipLocked:
		return "slips.locked"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "wallets.balance_changed":
		return events.EventTypeBalanceChange
	case "slips.created":
		return events.EventTypeSlipCreated
	case "slips.locked":
		return events.EventTypeSlipLocked
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"wallets.balance_changed",
		"slips.created",
		"slips.locked",
	}
}
