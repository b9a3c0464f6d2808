package memory

import (
	"context"

	"example.com/mergington/internal/domain"
)

// Get returns a copy of the named activity.
func (r *Repository) Get(ctx context.Context, name string) (domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	return activity.Clone(), nil
}
