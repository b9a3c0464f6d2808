// Package events defines the payloads emitted when rosters change.
package events

import "time"

// EventTypeParticipantSignedUp is carried in the event_type Kafka header.
const EventTypeParticipantSignedUp = "activity.participant_signed_up"

// ParticipantSignedUp is emitted after a student is added to an activity roster.
type ParticipantSignedUp struct {
	EventID          string    `json:"event_id"`
	Activity         string    `json:"activity"`
	Email            string    `json:"email"`
	ParticipantCount int       `json:"participant_count"`
	MaxParticipants  int       `json:"max_participants"`
	OccurredAt       time.Time `json:"occurred_at"`
}
