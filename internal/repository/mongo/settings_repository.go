package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zoolbot-admin/internal/domain/settings"
	"zoolbot-admin/internal/platform/mongodb"
)

type SettingsRepository struct {
	coll *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{coll: db.Collection(mongodb.CollectionSettings)}
}

func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	var s settings.Settings
	if err := r.coll.FindOne(ctx, bson.D{}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) SetMaintenance(ctx context.Context, on bool, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, bson.D{}, bson.M{
		"$set": bson.M{"maintenance_mode": on, "updated_at": at},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
