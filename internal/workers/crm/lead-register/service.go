package leadregister

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/common/errors"
	"leadflow/internal/common/logger"
	"leadflow/internal/common/metrics"
	"leadflow/internal/common/validation"
	"leadflow/internal/common/zoho"
)

const (
	EventLeadRegistered = "lead.registered"
	crmProviderZoho     = "zoho"
)

// Executor is what the job handler and the webhook need from Service.
type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Service struct {
	config    *Config
	logger    logger.Logger
	store     LeadStore
	crm       CRM
	mailer    Mailer
	publisher Publisher
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		config:    config,
		logger:    log,
		store:     deps.Store,
		crm:       deps.CRM,
		mailer:    deps.Mailer,
		publisher: deps.Publisher,
		now:       time.Now,
	}
}

// Execute records the submission once, mirrors it into the CRM and tells
// sales about it. Re-running a submission whose CRM step already succeeded
// is a no-op reported as a duplicate.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	lead := normalize(input)
	source := lead.Source

	if !validation.ValidateEmail(lead.Email) {
		metrics.LeadsRegistered.WithLabelValues(source, "invalid").Inc()
		return nil, errors.NewInputValidationError(fmt.Sprintf("invalid email address %q", lead.Email))
	}
	if s.store == nil {
		return nil, errors.NewLeadStoreFailedError(fmt.Errorf("lead store not configured"))
	}

	s.logger.Info("Registering lead", map[string]interface{}{
		"submissionId": lead.SubmissionID,
		"formId":       lead.FormID,
		"source":       source,
	})

	rec := &LeadRecord{
		SubmissionID: lead.SubmissionID,
		FormID:       lead.FormID,
		Email:        lead.Email,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Phone:        lead.Phone,
		Company:      lead.Company,
		Industry:     lead.Industry,
		Message:      lead.Message,
		Source:       source,
	}

	id, inserted, err := s.store.Insert(ctx, rec)
	if err != nil {
		metrics.LeadsRegistered.WithLabelValues(source, "store_failed").Inc()
		return nil, errors.NewLeadStoreFailedError(err)
	}

	output := &Output{
		Success:      true,
		SubmissionID: lead.SubmissionID,
		LeadRecordID: id,
		RegisteredAt: s.now(),
	}

	if !inserted {
		existing, err := s.store.Find(ctx, lead.SubmissionID)
		if err != nil {
			return nil, errors.NewLeadStoreFailedError(err)
		}
		output.LeadRecordID = existing.ID
		output.RegisteredAt = existing.CreatedAt

		// A previous attempt may have stored the row and then failed at the CRM.
		if existing.CRMLeadID != "" || s.crm == nil {
			output.Duplicate = true
			output.CRMLeadID = existing.CRMLeadID
			if existing.CRMLeadID != "" {
				output.CRMProvider = crmProviderZoho
			}
			output.Message = "Submission already registered"
			metrics.LeadsRegistered.WithLabelValues(source, "duplicate").Inc()
			s.logger.Info("Duplicate submission skipped", map[string]interface{}{
				"submissionId": lead.SubmissionID,
			})
			return output, nil
		}
	}

	if s.crm != nil {
		crmID, existingLead, err := s.syncCRM(ctx, lead)
		if err != nil {
			metrics.LeadsRegistered.WithLabelValues(source, "crm_failed").Inc()
			return nil, err
		}
		output.CRMLeadID = crmID
		output.CRMProvider = crmProviderZoho
		output.ExistingCRMLead = existingLead

		if err := s.store.SetCRMLeadID(ctx, lead.SubmissionID, crmID); err != nil {
			metrics.LeadsRegistered.WithLabelValues(source, "store_failed").Inc()
			return nil, errors.NewLeadStoreFailedError(err)
		}
	}

	output.Notified = s.notify(ctx, lead, output)
	output.Message = "Lead registered"
	metrics.LeadsRegistered.WithLabelValues(source, "registered").Inc()

	s.logger.Info("Lead registered", map[string]interface{}{
		"submissionId": lead.SubmissionID,
		"leadRecordId": output.LeadRecordID,
		"crmLeadId":    output.CRMLeadID,
		"notified":     output.Notified,
	})

	return output, nil
}

// syncCRM reuses a Zoho lead with the same email or creates one.
func (s *Service) syncCRM(ctx context.Context, lead *Input) (string, bool, error) {
	existing, err := s.crm.SearchLeads(ctx, lead.Email)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, errors.NewCRMTimeoutError("search leads")
		}
		return "", false, errors.NewCRMAPIError("search leads", err)
	}
	if len(existing) > 0 && existing[0].ID != "" {
		s.logger.Info("Lead already exists in CRM", map[string]interface{}{
			"submissionId": lead.SubmissionID,
			"crmLeadId":    existing[0].ID,
		})
		return existing[0].ID, true, nil
	}

	// Zoho rejects leads without Last_Name.
	lastName := lead.LastName
	if lastName == "" {
		lastName = strings.SplitN(lead.Email, "@", 2)[0]
	}

	crmID, err := s.crm.CreateLead(ctx, &zoho.Lead{
		Email:       lead.Email,
		FirstName:   lead.FirstName,
		LastName:    lastName,
		Phone:       lead.Phone,
		Company:     lead.Company,
		Industry:    lead.Industry,
		Description: lead.Message,
		Source:      lead.Source,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", false, errors.NewCRMTimeoutError("create lead")
		}
		return "", false, errors.NewCRMAPIError("create lead", err)
	}
	return crmID, false, nil
}

// notify emails sales and publishes the registration event. Failures are
// logged only; the lead is already stored.
func (s *Service) notify(ctx context.Context, lead *Input, output *Output) []string {
	var sent []string

	if s.mailer != nil && len(s.config.SalesTo) > 0 {
		subject, body := salesEmail(lead, output)
		if _, err := s.mailer.SendText(ctx, s.config.FromEmail, s.config.SalesTo, subject, body); err != nil {
			s.logNotifyFailure("email", lead.SubmissionID, err)
		} else {
			sent = append(sent, "email")
		}
	}

	if s.publisher != nil && s.config.TopicARN != "" {
		event := RegisteredEvent{
			Type:         EventLeadRegistered,
			SubmissionID: lead.SubmissionID,
			Email:        lead.Email,
			Name:         fullName(lead),
			Company:      lead.Company,
			Industry:     lead.Industry,
			Source:       lead.Source,
			CRMLeadID:    output.CRMLeadID,
			OccurredAt:   s.now().UTC(),
		}
		if _, err := s.publisher.PublishEvent(ctx, s.config.TopicARN, EventLeadRegistered, event); err != nil {
			s.logNotifyFailure("sns", lead.SubmissionID, err)
		} else {
			sent = append(sent, "sns")
		}
	}

	return sent
}

func (s *Service) logNotifyFailure(channel, submissionID string, err error) {
	stdErr := errors.NewNotificationSendFailedError(channel, err)
	s.logger.Warn("Lead notification failed", map[string]interface{}{
		"submissionId": submissionID,
		"channel":      channel,
		"errorCode":    stdErr.Code,
		"error":        err.Error(),
	})
}

func salesEmail(lead *Input, output *Output) (string, string) {
	name := fullName(lead)
	if name == "" {
		name = lead.Email
	}
	subject := "New strategy call lead: " + name
	if lead.Company != "" {
		subject += " (" + lead.Company + ")"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	for _, line := range [][2]string{
		{"Phone", lead.Phone},
		{"Company", lead.Company},
		{"Industry", lead.Industry},
		{"Source", lead.Source},
		{"CRM lead", output.CRMLeadID},
	} {
		if line[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", line[0], line[1])
		}
	}
	if lead.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", lead.Message)
	}
	fmt.Fprintf(&b, "\nSubmission: %s\n", lead.SubmissionID)
	return subject, b.String()
}

func fullName(lead *Input) string {
	return strings.TrimSpace(lead.FirstName + " " + lead.LastName)
}

// normalize trims every field and fills the submission id and source.
func normalize(in *Input) *Input {
	out := &Input{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Industry:     strings.TrimSpace(in.Industry),
		Message:      strings.TrimSpace(in.Message),
		FormID:       strings.TrimSpace(in.FormID),
		SubmissionID: strings.TrimSpace(in.SubmissionID),
		Source:       strings.TrimSpace(in.Source),
	}
	if out.SubmissionID == "" {
		out.SubmissionID = uuid.New().String()
	}
	if out.Source == "" {
		out.Source = "website"
	}
	return out
}

// TestConnection checks the CRM when one is configured.
func (s *Service) TestConnection(ctx context.Context) error {
	if s.crm == nil {
		return nil
	}
	_, err := s.crm.SearchLeads(ctx, "healthcheck@example.com")
	return err
}
