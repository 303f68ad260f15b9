package repository

import (
	"context"
	"fmt"
	"time"

	"skinsense-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	feedbackCollection = "feedback"
	countersCollection = "counters"
)

// MongoFeedbackRepo stores feedback as documents keyed by an integer id
// drawn from an atomically incremented counter.
type MongoFeedbackRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
	counters   *mongo.Collection
	now        func() time.Time
}

func NewMongoFeedbackRepo(db *mongo.Database) *MongoFeedbackRepo {
	return &MongoFeedbackRepo{
		db:         db,
		collection: db.Collection(feedbackCollection),
		counters:   db.Collection(countersCollection),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (r *MongoFeedbackRepo) withSession(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.EndSession(ctx)
	return fn(mongo.NewSessionContext(ctx, sess))
}

// Init creates the timestamp index; the collection itself is created lazily.
func (r *MongoFeedbackRepo) Init(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create feedback indexes: %w", err)
	}
	return nil
}

func (r *MongoFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.withSession(ctx, func(ctx context.Context) error {
		id, err := r.nextID(ctx)
		if err != nil {
			return err
		}
		doc := *feedback
		doc.ID = id
		doc.Timestamp = r.now()
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}
		*feedback = doc
		return nil
	})
}

func (r *MongoFeedbackRepo) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": feedbackCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate feedback id: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoFeedbackRepo) List(ctx context.Context) ([]models.Feedback, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *MongoFeedbackRepo) ListNewestFirst(ctx context.Context) ([]models.Feedback, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	}))
}

func (r *MongoFeedbackRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.withSession(ctx, func(ctx context.Context) error {
		var err error
		n, err = r.collection.CountDocuments(ctx, bson.D{})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

func (r *MongoFeedbackRepo) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}

func (r *MongoFeedbackRepo) find(ctx context.Context, opts *options.FindOptionsBuilder) ([]models.Feedback, error) {
	out := []models.Feedback{}
	err := r.withSession(ctx, func(ctx context.Context) error {
		cursor, err := r.collection.Find(ctx, bson.D{}, opts)
		if err != nil {
			return err
		}
		return cursor.All(ctx, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}
