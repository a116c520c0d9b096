// Package diagnostics records messages the pipeline recognized but could
// not fully process, so operators can audit new or changed game output.
package diagnostics

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is one audit entry. MessageText carries enough of the original
// message to reproduce the failure.
type Record struct {
	Kind        string    `bson:"kind"`
	Activity    string    `bson:"activity,omitempty"`
	MessageID   string    `bson:"message_id"`
	ChannelID   string    `bson:"channel_id"`
	GuildID     string    `bson:"guild_id,omitempty"`
	MessageText string    `bson:"message_text"`
	Detail      string    `bson:"detail,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

// Failure kinds stored in the audit collection.
const (
	KindMalformedDuration = "malformed_duration"
	KindIdentityNotFound  = "identity_not_found"
	KindDeliveryDropped   = "delivery_dropped"
	KindUnknownBoost      = "unknown_boost"
)

// Tracker writes audit records to a capped Mongo collection. A nil Tracker
// is valid and logs instead, so the bot runs without Mongo configured.
type Tracker struct {
	coll *mongo.Collection
}

// New connects to Mongo and prepares the audit collection. An empty URI
// returns a nil tracker.
func New(ctx context.Context, uri, database string) (*Tracker, error) {
	if uri == "" {
		return nil, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &Tracker{coll: client.Database(database).Collection("pipeline_failures")}, nil
}

// Track stores one record. Failures to store are logged and swallowed; the
// audit trail must never take the pipeline down with it.
func (t *Tracker) Track(ctx context.Context, record Record) {
	record.CreatedAt = time.Now()
	if t == nil || t.coll == nil {
		slog.Warn("Pipeline failure",
			slog.String("kind", record.Kind),
			slog.String("activity", record.Activity),
			slog.String("message_id", record.MessageID),
			slog.String("detail", record.Detail))
		return
	}
	insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := t.coll.InsertOne(insertCtx, record); err != nil {
		slog.Error("Failed to store pipeline failure",
			slog.String("kind", record.Kind),
			slog.Any("error", err))
	}
}

// Close disconnects the underlying client.
func (t *Tracker) Close(ctx context.Context) error {
	if t == nil || t.coll == nil {
		return nil
	}
	return t.coll.Database().Client().Disconnect(ctx)
}
