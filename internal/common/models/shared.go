package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	TenantIDKey ContextKey = "tenant_id"
)

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionDelete   AuditAction = "DELETE"
	AuditActionLogin    AuditAction = "LOGIN"
	AuditActionApproval AuditAction = "APPROVAL"
	AuditActionReminder AuditAction = "REMINDER"
	AuditActionSync     AuditAction = "SYNC"
	AuditActionReport   AuditAction = "REPORT"
	AuditActionSeed     AuditAction = "SEED"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// DocumentKind tells the approval engine which parent aggregate a document
// instance belongs to. The engine itself is generic over the kind.
type DocumentKind string

const (
	KindWorkOrder   DocumentKind = "work_order"
	KindProcurement DocumentKind = "procurement"
)

// DocumentStatus is the lifecycle status of one uploaded/generated document.
type DocumentStatus string

const (
	DocumentStatusUploaded DocumentStatus = "uploaded"
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
	DocumentStatusReplaced DocumentStatus = "replaced"
)

// DecisionStatus is the status of one approval ledger entry. Entries move
// from pending to approved/rejected exactly once and never back.
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// ParentStatus is the overall status of a work order or procurement.
type ParentStatus string

const (
	ParentStatusOpen       ParentStatus = "open"
	ParentStatusInProgress ParentStatus = "in_progress"
	ParentStatusCompleted  ParentStatus = "completed"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status    string             `bson:"status" json:"status"` // active, inactive, suspended
	Roles     []string           `bson:"roles" json:"roles"`   // Role names (opaque strings)
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Log is the record shape written by the async DB log writer.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	IpAddress    string    `bson:"ip_address" json:"ip_address"`
	ActorID      string    `bson:"actor_id" json:"actor_id"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
