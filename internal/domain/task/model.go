package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationType tells the user-facing bot how to check a completion.
type VerificationType string

const (
	VerificationTelegramJoin VerificationType = "telegram_join"
	VerificationURLVisit     VerificationType = "url_visit"
)

type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Reward           int64              `bson:"reward" json:"reward"`
	URL              string             `bson:"url" json:"url"`
	VerificationType VerificationType   `bson:"verification_type" json:"verification_type"`
	IsActive         bool               `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

// Samples returns the starter tasks inserted into an empty tasks collection.
func Samples(now time.Time) []Task {
	return []Task{
		{
			Title:            "🎉 Join our official channel",
			Description:      "Follow our official Telegram channel to get updates",
			Reward:           5000,
			URL:              "https://t.me/ZoolbotChannel",
			VerificationType: VerificationTelegramJoin,
			IsActive:         true,
			CreatedAt:        now,
		},
		{
			Title:            "👍 Like our latest post",
			Description:      "Like the latest post in our channel",
			Reward:           2500,
			URL:              "https://t.me/ZoolbotChannel",
			VerificationType: VerificationURLVisit,
			IsActive:         true,
			CreatedAt:        now,
		},
		{
			Title:            "📱 Follow us on Twitter",
			Description:      "Follow us on Twitter for more updates",
			Reward:           3000,
			URL:              "https://twitter.com/zoolbot",
			VerificationType: VerificationURLVisit,
			IsActive:         true,
			CreatedAt:        now,
		},
	}
}
