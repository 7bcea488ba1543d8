package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditCollection = "audit_events"

// AuditEvent records a single admin-surface mutation.
type AuditEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActorID    string             `bson:"actor_id" json:"actor_id"`
	ActorEmail string             `bson:"actor_email" json:"actor_email"`
	Action     string             `bson:"action" json:"action"`
	Target     string             `bson:"target" json:"target"`
	Detail     string             `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// AuditService persists admin actions (role changes, user removals, admin
// entry deletions) to MongoDB. A nil service is a no-op recorder so the app
// runs without Mongo in development.
type AuditService struct {
	db *mongo.Database
}

func NewAuditService(db *mongo.Database) *AuditService {
	return &AuditService{db: db}
}

// EnsureAuditIndexes creates the created_at index used by ListRecent.
func (s *AuditService) EnsureAuditIndexes(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

// Record stores an audit event. Failures are logged, never surfaced: an
// audit write must not roll back the admin action it describes.
func (s *AuditService) Record(ctx context.Context, event AuditEvent) {
	if s == nil || s.db == nil {
		return
	}
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.Collection(auditCollection).InsertOne(ctx, event); err != nil {
		log.Printf("failed to record audit event %q: %v", event.Action, err)
	}
}

// ListRecent returns the newest audit events, newest first.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]AuditEvent, error) {
	if s == nil || s.db == nil {
		return []AuditEvent{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(auditCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]AuditEvent, 0, limit)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
