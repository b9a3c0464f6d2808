// Package domain defines the business logic for the activity signup service.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"example.com/mergington/internal/events"
	"example.com/mergington/internal/observability"
)

var (
	// ErrActivityNotFound is returned when no activity has the requested name.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp is returned when the email is already on the roster.
	ErrAlreadySignedUp = errors.New("student already signed up")
)

// ActivityRepository captures storage operations over the activity directory.
type ActivityRepository interface {
	List(ctx context.Context) ([]Activity, error)
	// AddParticipant appends email to the named roster and returns the updated activity.
	// It returns ErrActivityNotFound or ErrAlreadySignedUp without mutating anything.
	AddParticipant(ctx context.Context, name, email string) (Activity, error)
}

// EventPublisher receives roster change events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.ParticipantSignedUp) error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, events.ParticipantSignedUp) error { return nil }

// Service orchestrates directory reads and signups.
type Service struct {
	repo      ActivityRepository
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service. A nil publisher disables event emission.
func NewService(repo ActivityRepository, publisher EventPublisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListActivities returns every activity in the directory.
func (s *Service) ListActivities(ctx context.Context) ([]Activity, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// RecordRosterSizes publishes the current participant count of every activity.
func (s *Service) RecordRosterSizes(ctx context.Context) error {
	activities, err := s.ListActivities(ctx)
	if err != nil {
		return err
	}
	for _, activity := range activities {
		observability.RecordRosterSize(activity.Name, len(activity.Participants))
	}
	return nil
}

// Signup registers email for the named activity.
func (s *Service) Signup(ctx context.Context, name, email string) (Activity, error) {
	activity, err := s.repo.AddParticipant(ctx, name, email)
	switch {
	case errors.Is(err, ErrActivityNotFound):
		observability.RecordSignup(observability.OutcomeNotFound)
		return Activity{}, err
	case errors.Is(err, ErrAlreadySignedUp):
		observability.RecordSignup(observability.OutcomeDuplicate)
		return Activity{}, err
	case err != nil:
		return Activity{}, fmt.Errorf("add participant: %w", err)
	}

	observability.RecordSignup(observability.OutcomeAccepted)
	observability.RecordRosterSize(activity.Name, len(activity.Participants))

	event := events.ParticipantSignedUp{
		EventID:          uuid.NewString(),
		Activity:         activity.Name,
		Email:            email,
		ParticipantCount: len(activity.Participants),
		MaxParticipants:  activity.MaxParticipants,
		OccurredAt:       s.now(),
	}
	// The roster is already updated; a lost event must not undo the signup.
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("signup event not published",
			"activity", activity.Name,
			"event_id", event.EventID,
			"error", err,
		)
	}
	return activity, nil
}
