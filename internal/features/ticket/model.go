package ticket

import (
	"time"

	common_models "go-placement/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus represents the status of a support ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Terminal reports whether no further status transition is allowed.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority represents the priority level of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// SenderRole tags who authored a thread message
type SenderRole string

const (
	SenderRoleUser  SenderRole = "user"
	SenderRoleBot   SenderRole = "bot"
	SenderRoleAdmin SenderRole = "admin"
)

// ThreadMessage is one entry of a ticket's ordered message thread
type ThreadMessage struct {
	Sender     string     `json:"sender" bson:"sender"`
	SenderRole SenderRole `json:"sender_role" bson:"sender_role"`
	Message    string     `json:"message" bson:"message"`
	Timestamp  time.Time  `json:"timestamp" bson:"timestamp"`
}

// Attachment is an optional file submitted with the ticket
type Attachment struct {
	Data        []byte `json:"-" bson:"data"`
	ContentType string `json:"content_type" bson:"content_type"`
	Filename    string `json:"filename,omitempty" bson:"filename,omitempty"`
}

// Ticket represents a support request from a student, college or company
type Ticket struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// TicketID is the public, human-readable identifier; immutable and
	// unique, distinct from the storage id.
	TicketID string `json:"ticket_id" bson:"ticket_id"`

	// Submitter
	UserID    string                `json:"user_id" bson:"user_id"`
	UserType  common_models.UserRole `json:"user_type" bson:"user_type"`
	UserName  string                `json:"user_name" bson:"user_name"`
	UserEmail string                `json:"user_email" bson:"user_email"`
	UserPhone string                `json:"user_phone,omitempty" bson:"user_phone,omitempty"`

	Subject     string         `json:"subject" bson:"subject"`
	Description string         `json:"description" bson:"description"`
	Category    string         `json:"category,omitempty" bson:"category,omitempty"`
	Priority    TicketPriority `json:"priority" bson:"priority"`
	Status      TicketStatus   `json:"status" bson:"status"`

	Thread []ThreadMessage `json:"thread" bson:"thread"`

	// SecretCode is the 4-digit code disclosed to the submitter at
	// creation; required on the normal close path.
	SecretCode string `json:"secret_code" bson:"secret_code"`

	// Assignment
	AssignedTo   string `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	SalesPerson  string `json:"sales_person,omitempty" bson:"sales_person,omitempty"`
	NeedsRouting bool   `json:"needs_routing,omitempty" bson:"needs_routing,omitempty"`

	EscalatedToManager bool `json:"escalated_to_manager" bson:"escalated_to_manager"`

	Closed     bool       `json:"closed" bson:"closed"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	Evaluation bool       `json:"evaluation" bson:"evaluation"`

	Attachment *Attachment `json:"attachment,omitempty" bson:"attachment,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ManagerTicket is the manager-queue copy of an escalated ticket. It
// duplicates the ticket's fields under its own storage id; the rest of the
// system treats it as read-only.
type ManagerTicket struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	TicketID string `json:"ticket_id" bson:"ticket_id"`

	UserID    string                `json:"user_id" bson:"user_id"`
	UserType  common_models.UserRole `json:"user_type" bson:"user_type"`
	UserName  string                `json:"user_name" bson:"user_name"`
	UserEmail string                `json:"user_email" bson:"user_email"`
	UserPhone string                `json:"user_phone,omitempty" bson:"user_phone,omitempty"`

	Subject     string         `json:"subject" bson:"subject"`
	Description string         `json:"description" bson:"description"`
	Category    string         `json:"category,omitempty" bson:"category,omitempty"`
	Priority    TicketPriority `json:"priority" bson:"priority"`
	Status      TicketStatus   `json:"status" bson:"status"`

	Thread []ThreadMessage `json:"thread" bson:"thread"`

	SecretCode  string `json:"secret_code" bson:"secret_code"`
	AssignedTo  string `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	SalesPerson string `json:"sales_person,omitempty" bson:"sales_person,omitempty"`

	Closed     bool       `json:"closed" bson:"closed"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	Evaluation bool       `json:"evaluation" bson:"evaluation"`

	TicketCreatedAt time.Time `json:"ticket_created_at" bson:"ticket_created_at"`
	EscalatedAt     time.Time `json:"escalated_at" bson:"escalated_at"`
}

// NewManagerTicket copies a ticket into its manager-queue shape, dropping
// the storage-internal id.
func NewManagerTicket(t *Ticket, escalatedAt time.Time) *ManagerTicket {
	return &ManagerTicket{
		TicketID:        t.TicketID,
		UserID:          t.UserID,
		UserType:        t.UserType,
		UserName:        t.UserName,
		UserEmail:       t.UserEmail,
		UserPhone:       t.UserPhone,
		Subject:         t.Subject,
		Description:     t.Description,
		Category:        t.Category,
		Priority:        t.Priority,
		Status:          t.Status,
		Thread:          t.Thread,
		SecretCode:      t.SecretCode,
		AssignedTo:      t.AssignedTo,
		SalesPerson:     t.SalesPerson,
		Closed:          t.Closed,
		ClosedAt:        t.ClosedAt,
		Evaluation:      t.Evaluation,
		TicketCreatedAt: t.CreatedAt,
		EscalatedAt:     escalatedAt,
	}
}
