package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrIndexExists is returned by CreateIndex when an equivalent or conflicting index is
// already present.
var ErrIndexExists = errors.New("index already exists")

const codeNamespaceNotFound = 26

// Server error codes treated as "already exists".
const (
	codeNamespaceExists       = 48
	codeIndexAlreadyExists    = 68
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// IndexKey is one field of an index; Desc selects descending order.
type IndexKey struct {
	Field string
	Desc  bool
}

type IndexSpec struct {
	Collection string
	Keys       []IndexKey
	Unique     bool
}

// Name follows the server's default naming: field_1_other_-1.
func (s IndexSpec) Name() string {
	parts := make([]string, 0, len(s.Keys)*2)
	for _, k := range s.Keys {
		dir := "1"
		if k.Desc {
			dir = "-1"
		}
		parts = append(parts, k.Field, dir)
	}
	return strings.Join(parts, "_")
}

func (s IndexSpec) model() mongo.IndexModel {
	keys := bson.D{}
	for _, k := range s.Keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		keys = append(keys, bson.E{Key: k.Field, Value: dir})
	}
	opts := options.Index().SetName(s.Name())
	if s.Unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// Database exposes the collection-agnostic operations used by the provisioner.
type Database struct {
	db *mongo.Database
}

func NewDatabase(db *mongo.Database) *Database {
	return &Database{db: db}
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.Client().Ping(ctx, nil)
}

func (d *Database) CollectionNames(ctx context.Context) ([]string, error) {
	return d.db.ListCollectionNames(ctx, bson.D{})
}

// CreateCollection tolerates a concurrent creation of the same collection.
func (d *Database) CreateCollection(ctx context.Context, name string) error {
	err := d.db.CreateCollection(ctx, name)
	if hasCode(err, codeNamespaceExists) {
		return nil
	}
	return err
}

// IndexNames lists the index names of a collection; a missing collection has none.
func (d *Database) IndexNames(ctx context.Context, collection string) ([]string, error) {
	cur, err := d.db.Collection(collection).Indexes().List(ctx)
	if hasCode(err, codeNamespaceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}

func (d *Database) CreateIndex(ctx context.Context, spec IndexSpec) error {
	_, err := d.db.Collection(spec.Collection).Indexes().CreateOne(ctx, spec.model())
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) || hasCode(err, codeIndexAlreadyExists, codeIndexOptionsConflict, codeIndexKeySpecsConflict) {
		return fmt.Errorf("%s.%s: %w", spec.Collection, spec.Name(), ErrIndexExists)
	}
	return err
}

func (d *Database) Count(ctx context.Context, collection string) (int64, error) {
	return d.db.Collection(collection).CountDocuments(ctx, bson.D{})
}

func (d *Database) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	_, err := d.db.Collection(collection).InsertOne(ctx, doc)
	return err
}

func (d *Database) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := d.db.Collection(collection).InsertMany(ctx, docs)
	return err
}

func hasCode(err error, codes ...int32) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	for _, c := range codes {
		if cmdErr.Code == c {
			return true
		}
	}
	return false
}
