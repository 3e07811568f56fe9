package gallery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkbloom/inkbloom/pkg/errors"
)

// collectionName is the MongoDB collection holding paintings.
const collectionName = "paintings"

// MongoStore is a MongoDB-backed gallery for deployments.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI      string
	Database string
}

// NewMongoStore connects to MongoDB and verifies connectivity.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "pinging mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(collectionName),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, p *Painting) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "saving painting %s", p.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Painting, error) {
	var p Painting
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodePaintingNotFound, "painting %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "loading painting %s", id)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Metadata, error) {
	// Exclude the image blobs so listings stay small.
	opts := options.Find().
		SetProjection(bson.M{"png": 0, "thumbnail": 0}).
		SetSort(bson.M{"created_at": -1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "listing paintings")
	}
	defer cursor.Close(ctx)

	var metas []Metadata
	if err := cursor.All(ctx, &metas); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decoding painting list")
	}
	return metas, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "deleting painting %s", id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
