package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a bot participant keyed by Telegram ID. Documents are created by the
// user-facing bot; the admin surface only reads and mutates them.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TelegramID int64              `bson:"telegram_id" json:"telegram_id"`
	Username   string             `bson:"username,omitempty" json:"username,omitempty"`
	FirstName  string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName   string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	// Not floored; admin subtractions may drive it negative.
	Diamonds   int64      `bson:"diamonds" json:"diamonds"`
	IsBanned   bool       `bson:"is_banned" json:"is_banned"`
	BanReason  string     `bson:"ban_reason,omitempty" json:"ban_reason,omitempty"`
	BannedAt   *time.Time `bson:"banned_at,omitempty" json:"banned_at,omitempty"`
	ReferrerID int64      `bson:"referrer_id,omitempty" json:"referrer_id,omitempty"`
	Referrals  []int64    `bson:"referrals,omitempty" json:"referrals,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	LastActive *time.Time `bson:"last_active,omitempty" json:"last_active,omitempty"`
}

// DisplayName returns the best human label for the user.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "N/A"
	}
}

// Stats is a point-in-time aggregate over the users collection.
type Stats struct {
	TotalUsers    int64
	ActiveToday   int64
	BannedUsers   int64
	TotalDiamonds int64
}
