package user

import (
	"context"
	"time"
)

// Repository defines persistence operations for users. Lookups return (nil, nil) when
// the user does not exist.
type Repository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	ListRecent(ctx context.Context, limit int) ([]User, error)
	// NotBannedIDs returns the Telegram IDs of every user that is not banned.
	NotBannedIDs(ctx context.Context) ([]int64, error)
	Stats(ctx context.Context, activeSince time.Time) (Stats, error)
	// IncrementDiamonds adds delta to the balance. It reports false when no user matched.
	IncrementDiamonds(ctx context.Context, telegramID int64, delta int64) (bool, error)
	SetDiamonds(ctx context.Context, telegramID int64, value int64) (bool, error)
	// Ban and Unban report whether a document was modified.
	Ban(ctx context.Context, telegramID int64, reason string, at time.Time) (bool, error)
	Unban(ctx context.Context, telegramID int64) (bool, error)
}
