package entities

import (
	"time"

	"github.com/google/uuid"
)

// PlanEventType represents the type of plan lifecycle event
type PlanEventType string

const (
	PlanEventTypeGenerated   PlanEventType = "plan_generated"
	PlanEventTypeActivated   PlanEventType = "plan_activated"
	PlanEventTypeDeactivated PlanEventType = "plan_deactivated"
	PlanEventTypeDeleted     PlanEventType = "plan_deleted"
)

// PlanEvent is published after a plan changes
type PlanEvent struct {
	ID        string        `json:"id"`
	PlanID    string        `json:"plan_id"`
	OwnerID   string        `json:"owner_id"`
	Kind      PlanKind      `json:"kind,omitempty"`
	Source    PlanSource    `json:"source,omitempty"`
	EventType PlanEventType `json:"event_type"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewPlanEvent creates a new plan event
func NewPlanEvent(plan *PersistedPlan, eventType PlanEventType) *PlanEvent {
	return &PlanEvent{
		ID:        uuid.New().String(),
		PlanID:    plan.ID,
		OwnerID:   plan.OwnerID,
		Kind:      plan.Kind,
		Source:    plan.Source,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}
