package announcement

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement summarises one broadcast run.
type Announcement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BroadcastID string             `bson:"broadcast_id" json:"broadcast_id"`
	Message     string             `bson:"message" json:"message"`
	Sent        int                `bson:"sent" json:"sent"`
	Failed      int                `bson:"failed" json:"failed"`
	StartedAt   time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt  time.Time          `bson:"finished_at" json:"finished_at"`
}

type Repository interface {
	Record(ctx context.Context, a *Announcement) error
}
