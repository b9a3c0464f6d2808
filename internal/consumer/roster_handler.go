package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"example.com/mergington/internal/events"
)

// RosterHandler logs roster changes and tracks how full each activity is.
type RosterHandler struct {
	logger *slog.Logger
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(logger *slog.Logger) *RosterHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterHandler{logger: logger}
}

// Handle decodes signup events; other event types are acknowledged and ignored.
func (h *RosterHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.EventTypeParticipantSignedUp {
		h.logger.Debug("ignoring event", "event_type", msg.EventType, "event_id", msg.EventID)
		return nil
	}

	var event events.ParticipantSignedUp
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode %s: %w", msg.EventType, err)
	}
	if event.Activity == "" {
		return fmt.Errorf("event %s has no activity", event.EventID)
	}

	recordRoster(event.Activity, event.ParticipantCount, event.MaxParticipants, event.OccurredAt)

	attrs := []any{
		"activity", event.Activity,
		"email", event.Email,
		"participants", event.ParticipantCount,
		"max_participants", event.MaxParticipants,
	}
	if event.MaxParticipants > 0 && event.ParticipantCount > event.MaxParticipants {
		h.logger.Warn("roster over advertised capacity", attrs...)
		return nil
	}
	h.logger.Info("participant signed up", attrs...)
	return nil
}
