package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zoolbot-admin/internal/domain/transaction"
	"zoolbot-admin/internal/platform/mongodb"
)

// TransactionRepository only ever inserts; ledger entries are never updated.
type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(mongodb.CollectionTransactions)}
}

func (r *TransactionRepository) Append(ctx context.Context, tx *transaction.Transaction) error {
	res, err := r.coll.InsertOne(ctx, tx)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = id
	}
	return nil
}

func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]transaction.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var txs []transaction.Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
