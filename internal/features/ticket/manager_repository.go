package ticket

import (
	"context"

	"go-placement/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ManagerTicketRepository defines the interface for the manager queue
type ManagerTicketRepository interface {
	Create(ctx context.Context, mt *ManagerTicket) error
	FindAll(ctx context.Context, page, limit int64) ([]ManagerTicket, int64, error)

	// FindAllUnpaged returns the whole queue, oldest escalation first.
	FindAllUnpaged(ctx context.Context) ([]ManagerTicket, error)
}

type ManagerTicketRepositoryImpl struct {
	collection *mongo.Collection
}

func NewManagerTicketRepository(db *database.MongodbDB) ManagerTicketRepository {
	return &ManagerTicketRepositoryImpl{
		collection: db.DB.Collection("manager_tickets"),
	}
}

func (r *ManagerTicketRepositoryImpl) Create(ctx context.Context, mt *ManagerTicket) error {
	result, err := r.collection.InsertOne(ctx, mt)
	if err != nil {
		return err
	}

	mt.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ManagerTicketRepositoryImpl) FindAll(ctx context.Context, page, limit int64) ([]ManagerTicket, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "escalated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tickets []ManagerTicket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ManagerTicketRepositoryImpl) FindAllUnpaged(ctx context.Context) ([]ManagerTicket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "escalated_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []ManagerTicket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}
