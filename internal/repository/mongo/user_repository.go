package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "zoolbot-admin/internal/domain/user"
	"zoolbot-admin/internal/platform/mongodb"
)

// UserRepository reads and mutates user documents keyed by telegram_id.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(mongodb.CollectionUsers)}
}

// GetByTelegramID returns nil when the user does not exist.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	err := r.coll.FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListRecent returns users ordered by created_at desc.
func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) NotBannedIDs(ctx context.Context) ([]int64, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "telegram_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"is_banned": bson.M{"$ne": true}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []int64
	for cur.Next(ctx) {
		var row struct {
			TelegramID int64 `bson:"telegram_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.TelegramID)
	}
	return ids, cur.Err()
}

// Stats scans the collection on every call; nothing is cached.
func (r *UserRepository) Stats(ctx context.Context, activeSince time.Time) (domain.Stats, error) {
	var s domain.Stats
	var err error
	if s.TotalUsers, err = r.coll.CountDocuments(ctx, bson.D{}); err != nil {
		return domain.Stats{}, err
	}
	if s.ActiveToday, err = r.coll.CountDocuments(ctx, bson.M{"last_active": bson.M{"$gte": activeSince}}); err != nil {
		return domain.Stats{}, err
	}
	if s.BannedUsers, err = r.coll.CountDocuments(ctx, bson.M{"is_banned": true}); err != nil {
		return domain.Stats{}, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$diamonds"}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Stats{}, err
	}
	defer cur.Close(ctx)
	if cur.Next(ctx) {
		var row struct {
			Total int64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return domain.Stats{}, err
		}
		s.TotalDiamonds = row.Total
	}
	return s, cur.Err()
}

func (r *UserRepository) IncrementDiamonds(ctx context.Context, telegramID int64, delta int64) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"telegram_id": telegramID},
		bson.M{"$inc": bson.M{"diamonds": delta}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) SetDiamonds(ctx context.Context, telegramID int64, value int64) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"telegram_id": telegramID},
		bson.M{"$set": bson.M{"diamonds": value}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Ban only matches users that are not banned yet, so a repeated ban modifies nothing.
func (r *UserRepository) Ban(ctx context.Context, telegramID int64, reason string, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"telegram_id": telegramID, "is_banned": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"is_banned": true, "ban_reason": reason, "banned_at": at}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserRepository) Unban(ctx context.Context, telegramID int64) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"telegram_id": telegramID, "is_banned": true},
		bson.M{
			"$set":   bson.M{"is_banned": false},
			"$unset": bson.M{"ban_reason": "", "banned_at": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
