// Package memory holds the process-local activity directory.
package memory

import (
	"context"
	"sync"

	"example.com/mergington/internal/domain"
)

// Repository stores activities in memory. Each instance owns its own roster state.
type Repository struct {
	mu         sync.RWMutex
	order      []string
	activities map[string]*domain.Activity
}

// NewRepository constructs a repository seeded with the given activities.
// Later entries with a duplicate name replace earlier ones.
func NewRepository(seed []domain.Activity) *Repository {
	repo := &Repository{
		activities: make(map[string]*domain.Activity, len(seed)),
	}
	for _, activity := range seed {
		clone := activity.Clone()
		if _, ok := repo.activities[clone.Name]; !ok {
			repo.order = append(repo.order, clone.Name)
		}
		repo.activities[clone.Name] = &clone
	}
	return repo
}

// List implements domain.ActivityRepository. Activities are returned in seed order.
func (r *Repository) List(ctx context.Context) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Activity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.activities[name].Clone())
	}
	return out, nil
}

// AddParticipant implements domain.ActivityRepository.
func (r *Repository) AddParticipant(ctx context.Context, name, email string) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return domain.Activity{}, domain.ErrAlreadySignedUp
	}
	activity.Participants = append(activity.Participants, email)
	return activity.Clone(), nil
}
