package sales

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

// SalesRepository defines the interface for sales rep data operations
type SalesRepository interface {
	Create(ctx context.Context, user *SalesUser) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*SalesUser, error)
	FindBySalesID(ctx context.Context, salesID string) (*SalesUser, error)
	FindAll(ctx context.Context) ([]SalesUser, error)

	// AcquireLeastLoaded selects the rep with the minimum workload and
	// increments that workload in the same document update, so two
	// concurrent assignments cannot both act on a stale minimum.
	AcquireLeastLoaded(ctx context.Context) (*SalesUser, error)

	AdjustWorkload(ctx context.Context, id primitive.ObjectID, delta int64) error
}

type SalesRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSalesRepository(db *database.MongodbDB) SalesRepository {
	return &SalesRepositoryImpl{
		collection: db.DB.Collection("sales_users"),
	}
}

func (r *SalesRepositoryImpl) Create(ctx context.Context, user *SalesUser) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if !user.IsFree {
		user.IsFree = true
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *SalesRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*SalesUser, error) {
	var user SalesUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("sales user", map[string]any{"id": id.Hex()})
		}
		return nil, err
	}
	return &user, nil
}

func (r *SalesRepositoryImpl) FindBySalesID(ctx context.Context, salesID string) (*SalesUser, error) {
	var user SalesUser
	err := r.collection.FindOne(ctx, bson.M{"sales_id": salesID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("sales user", map[string]any{"sales_id": salesID})
		}
		return nil, err
	}
	return &user, nil
}

func (r *SalesRepositoryImpl) FindAll(ctx context.Context) ([]SalesUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "workload", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []SalesUser
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *SalesRepositoryImpl) AcquireLeastLoaded(ctx context.Context) (*SalesUser, error) {
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "workload", Value: 1}}).
		SetReturnDocument(options.After)

	update := bson.M{
		"$inc": bson.M{"workload": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	var user SalesUser
	err := r.collection.FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNoCapacity("no sales representative available")
		}
		return nil, err
	}
	return &user, nil
}

func (r *SalesRepositoryImpl) AdjustWorkload(ctx context.Context, id primitive.ObjectID, delta int64) error {
	if delta == 0 {
		return nil
	}
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"workload": delta},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("sales user", map[string]any{"id": id.Hex()})
	}
	return nil
}
