package task

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Repository interface {
	Create(ctx context.Context, t *Task) (primitive.ObjectID, error)
	// ListRecent returns tasks ordered by created_at desc.
	ListRecent(ctx context.Context, limit int) ([]Task, error)
	// ToggleActive flips is_active (a missing flag counts as active) and returns the new
	// value. found is false when no task has the id.
	ToggleActive(ctx context.Context, id primitive.ObjectID) (active bool, found bool, err error)
}
