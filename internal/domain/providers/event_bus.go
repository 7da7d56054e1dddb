package providers

import (
	"context"

	"github.com/zatekoja/fitai/backend/internal/domain/entities"
)

// EventBus publishes plan lifecycle events
type EventBus interface {
	// Publish publishes an event on a channel
	Publish(ctx context.Context, channel string, event *entities.PlanEvent) error

	// Close releases the underlying connection
	Close() error
}

const (
	// EventChannelPlanUpdates receives every plan event
	EventChannelPlanUpdates = "plans:updates"

	// EventChannelOwnerPrefix is the prefix for per-owner channels
	EventChannelOwnerPrefix = "plans:owner:"
)

// GetOwnerChannel returns the channel carrying one owner's plan events
func GetOwnerChannel(ownerID string) string {
	return EventChannelOwnerPrefix + ownerID
}
