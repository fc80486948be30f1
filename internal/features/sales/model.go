package sales

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SalesUser is a sales representative eligible for ticket assignment.
type SalesUser struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName string             `json:"first_name" bson:"first_name"`
	LastName  string             `json:"last_name" bson:"last_name"`
	Email     string             `json:"email" bson:"email"`

	// SalesID is the rep's public code, distinct from the storage id.
	SalesID string `json:"sales_id" bson:"sales_id"`

	// Workload counts assignments. The observed system never decrements it;
	// see WorkloadPolicy.
	Workload int64 `json:"workload" bson:"workload"`
	IsFree   bool  `json:"is_free" bson:"is_free"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DisplayName returns the rep's full name.
func (u *SalesUser) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
