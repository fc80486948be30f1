package notification

import (
	"time"

	common_models "go-placement/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeUrgent  NotificationType = "urgent"
)

type Notification struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	SenderID      string                `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	SenderRole    common_models.UserRole `bson:"sender_role,omitempty" json:"sender_role,omitempty"`
	RecipientID   string                `bson:"recipient_id" json:"recipient_id"`
	RecipientRole common_models.UserRole `bson:"recipient_role" json:"recipient_role"`

	Title    string           `bson:"title" json:"title"`
	Message  string           `bson:"message" json:"message"`
	Category string           `bson:"category,omitempty" json:"category,omitempty"`
	Type     NotificationType `bson:"type" json:"type"`
	Priority string           `bson:"priority,omitempty" json:"priority,omitempty"`

	ActionURL  string `bson:"action_url,omitempty" json:"action_url,omitempty"`
	ActionText string `bson:"action_text,omitempty" json:"action_text,omitempty"`

	IsRead    bool       `bson:"is_read" json:"is_read"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}
