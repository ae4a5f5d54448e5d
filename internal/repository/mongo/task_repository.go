package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zoolbot-admin/internal/domain/task"
	"zoolbot-admin/internal/platform/mongodb"
)

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(mongodb.CollectionTasks)}
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	t.ID = id
	return id, nil
}

func (r *TaskRepository) ListRecent(ctx context.Context, limit int) ([]task.Task, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var tasks []task.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ToggleActive flips the flag server-side in a single update pipeline. The new value is
// true only when the stored flag is explicitly false.
func (r *TaskRepository) ToggleActive(ctx context.Context, id primitive.ObjectID) (bool, bool, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_active", Value: bson.D{{Key: "$eq", Value: bson.A{"$is_active", false}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"is_active": 1})

	var row struct {
		IsActive bool `bson:"is_active"`
	}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, false, nil
		}
		return false, false, err
	}
	return row.IsActive, true, nil
}
