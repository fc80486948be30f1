package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is the persisted outbox record wrapped around each SMTP send.
type Email struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From       string             `bson:"from" json:"from"`
	To         []string           `bson:"to" json:"to"`
	Subject    string             `bson:"subject" json:"subject"`
	Body       string             `bson:"body,omitempty" json:"body,omitempty"`
	Status     EmailStatus        `bson:"status" json:"status"`
	EntityType string             `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID   string             `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	ErrorMsg   string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	SentAt     *time.Time         `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
}
