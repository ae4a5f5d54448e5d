package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zoolbot-admin/internal/domain/announcement"
	"zoolbot-admin/internal/platform/mongodb"
)

type AnnouncementRepository struct {
	coll *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{coll: db.Collection(mongodb.CollectionAnnouncements)}
}

func (r *AnnouncementRepository) Record(ctx context.Context, a *announcement.Announcement) error {
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}
