package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	NotificationDbName  = "patinhas"
	NotificationColName = "notification_attempts"
	NotificationTTL     = 90 * 24 * time.Hour
)

// NotificationAttempt records one confirmation email attempt.
type NotificationAttempt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID   string             `bson:"booking_id" json:"booking_id"`
	Recipient   string             `bson:"recipient" json:"recipient"`
	Provider    string             `bson:"provider" json:"provider"`
	MessageID   string             `bson:"message_id,omitempty" json:"message_id,omitempty"`
	Sent        bool               `bson:"sent" json:"sent"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	AttemptedAt time.Time          `bson:"attempted_at" json:"attempted_at"`
	ExpiresAt   time.Time          `bson:"expires_at" json:"-"`
}

// stamp fills the id and attempt time when unset and derives the TTL
// expiry from the attempt time.
func (a *NotificationAttempt) stamp(now time.Time) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = now
	}
	a.ExpiresAt = a.AttemptedAt.Add(NotificationTTL)
}

type NotificationLog interface {
	RecordAttempt(ctx context.Context, attempt *NotificationAttempt) error
	ListAttempts(ctx context.Context, bookingID string) ([]NotificationAttempt, error)
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

// EnsureNotificationIndexes creates the TTL index on expires_at and the
// lookup index on booking_id.
func (mdb *MongodbRepo) EnsureNotificationIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, NotificationDbName, NotificationColName)
	if err != nil {
		return err
	}

	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "attempted_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) RecordAttempt(ctx context.Context, attempt *NotificationAttempt) error {
	col, err := mdb.GetCollection(ctx, NotificationDbName, NotificationColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	attempt.stamp(time.Now().UTC())

	if _, err := col.InsertOne(ctx, attempt); err != nil {
		return fmt.Errorf("failed to insert notification attempt: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) ListAttempts(ctx context.Context, bookingID string) ([]NotificationAttempt, error) {
	col, err := mdb.GetCollection(ctx, NotificationDbName, NotificationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "attempted_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding notification attempts: %v", err)
	}
	defer cursor.Close(ctx)

	attempts := []NotificationAttempt{}
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("error decoding notification attempts: %v", err)
	}
	return attempts, nil
}
