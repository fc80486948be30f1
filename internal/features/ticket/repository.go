package ticket

import (
	"context"
	"errors"
	"time"

	"go-placement/internal/database"
	"go-placement/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, t *Ticket) error
	FindByTicketID(ctx context.Context, ticketID string) (*Ticket, error)
	FindByUser(ctx context.Context, userID string) ([]Ticket, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	PushMessage(ctx context.Context, id primitive.ObjectID, msg ThreadMessage) error
	Delete(ctx context.Context, ticketID string) error

	// FindStale returns unresolved tickets created at or before cutoff that
	// have not yet been escalated.
	FindStale(ctx context.Context, cutoff time.Time) ([]Ticket, error)

	// MarkEscalated flips escalated_to_manager exactly once; returns false
	// when another pass already claimed the ticket.
	MarkEscalated(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type TicketRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTicketRepository(db *database.MongodbDB) TicketRepository {
	return &TicketRepositoryImpl{
		collection: db.DB.Collection("tickets"),
	}
}

// EnsureIndexes creates the unique index on the public ticket id.
func (r *TicketRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ticket_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, t *Ticket) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return err
	}

	t.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TicketRepositoryImpl) FindByTicketID(ctx context.Context, ticketID string) (*Ticket, error) {
	var t Ticket
	err := r.collection.FindOne(ctx, bson.M{"ticket_id": ticketID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.Hex()})
	}
	return nil
}

func (r *TicketRepositoryImpl) PushMessage(ctx context.Context, id primitive.ObjectID, msg ThreadMessage) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"thread": msg},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.Hex()})
	}
	return nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, ticketID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"ticket_id": ticketID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return nil
}

func (r *TicketRepositoryImpl) FindStale(ctx context.Context, cutoff time.Time) ([]Ticket, error) {
	filter := bson.M{
		"status":               bson.M{"$nin": []TicketStatus{TicketStatusResolved, TicketStatusClosed}},
		"created_at":           bson.M{"$lte": cutoff},
		"escalated_to_manager": bson.M{"$ne": true},
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) MarkEscalated(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "escalated_to_manager": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"escalated_to_manager": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
