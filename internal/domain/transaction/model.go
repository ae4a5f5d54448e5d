package transaction

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeAdminAdjustment = "admin_adjustment"
	CurrencyDiamonds    = "diamonds"
	StatusCompleted     = "completed"
)

// Transaction is an append-only ledger entry. Amount is the literal, non-negative value
// the operation was applied with.
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    int64              `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`
	Amount    int64              `bson:"amount" json:"amount"`
	Currency  string             `bson:"currency" json:"currency"`
	Status    string             `bson:"status" json:"status"`
	Operation string             `bson:"operation,omitempty" json:"operation,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
