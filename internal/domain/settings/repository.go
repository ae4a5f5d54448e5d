package settings

import (
	"context"
	"time"
)

type Repository interface {
	// Get returns (nil, nil) when the singleton is missing.
	Get(ctx context.Context) (*Settings, error)
	// SetMaintenance reports false when there is no settings document.
	SetMaintenance(ctx context.Context, on bool, at time.Time) (bool, error)
}
