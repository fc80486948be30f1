package email

import (
	"context"
	"time"

	"go-placement/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type EmailRepository struct {
	collection *mongo.Collection
}

func NewEmailRepository(db *database.MongodbDB) *EmailRepository {
	return &EmailRepository{
		collection: db.DB.Collection("emails"),
	}
}

func (r *EmailRepository) Create(ctx context.Context, e *Email) error {
	e.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, e)
	if err != nil {
		return err
	}
	e.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *EmailRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status EmailStatus, errMsg string) error {
	updates := bson.M{"status": status, "error_message": errMsg}
	if status == EmailSent {
		updates["sent_at"] = time.Now()
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}
