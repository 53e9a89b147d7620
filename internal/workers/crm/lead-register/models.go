package leadregister

import (
	"context"
	"time"

	"leadflow/internal/common/logger"
	"leadflow/internal/common/zoho"
)

type Input struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Company      string `json:"company,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Message      string `json:"message,omitempty"`
	FormID       string `json:"formId,omitempty"`
	SubmissionID string `json:"submissionId,omitempty"`
	Source       string `json:"source,omitempty"`
}

type Output struct {
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	SubmissionID    string    `json:"submissionId"`
	LeadRecordID    int64     `json:"leadRecordId,omitempty"`
	CRMLeadID       string    `json:"crmLeadId,omitempty"`
	CRMProvider     string    `json:"crmProvider,omitempty"`
	ExistingCRMLead bool      `json:"existingCrmLead"`
	Duplicate       bool      `json:"duplicate"`
	Notified        []string  `json:"notified,omitempty"`
	RegisteredAt    time.Time `json:"registeredAt"`
}

// LeadRecord is one row of lead_submissions.
type LeadRecord struct {
	ID           int64
	SubmissionID string
	FormID       string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Company      string
	Industry     string
	Message      string
	Source       string
	CRMLeadID    string
	CreatedAt    time.Time
}

// LeadStore persists submissions idempotently by submission id.
type LeadStore interface {
	// Insert returns inserted=false when the submission id already exists.
	Insert(ctx context.Context, rec *LeadRecord) (id int64, inserted bool, err error)
	Find(ctx context.Context, submissionID string) (*LeadRecord, error)
	SetCRMLeadID(ctx context.Context, submissionID, crmLeadID string) error
}

type CRM interface {
	SearchLeads(ctx context.Context, email string) ([]zoho.Lead, error)
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
}

type Mailer interface {
	SendText(ctx context.Context, from string, to []string, subject, body string) (string, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, topicARN, eventType string, payload interface{}) (string, error)
}

// ServiceDependencies wires the integrations. Store is required; a nil
// CRM, Mailer or Publisher skips that step.
type ServiceDependencies struct {
	Logger    logger.Logger
	Store     LeadStore
	CRM       CRM
	Mailer    Mailer
	Publisher Publisher
}

// RegisteredEvent is the payload published to SNS.
type RegisteredEvent struct {
	Type         string    `json:"type"`
	SubmissionID string    `json:"submissionId"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Company      string    `json:"company,omitempty"`
	Industry     string    `json:"industry,omitempty"`
	Source       string    `json:"source,omitempty"`
	CRMLeadID    string    `json:"crmLeadId,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}
