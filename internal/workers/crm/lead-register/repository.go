package leadregister

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS lead_submissions (
	id            BIGSERIAL PRIMARY KEY,
	submission_id TEXT NOT NULL UNIQUE,
	form_id       TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	company       TEXT NOT NULL DEFAULT '',
	industry      TEXT NOT NULL DEFAULT '',
	message       TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL DEFAULT '',
	crm_lead_id   TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS lead_submissions_email_idx ON lead_submissions (email);`

// ErrRecordNotFound is returned by Find for unknown submission ids.
var ErrRecordNotFound = errors.New("lead submission not found")

// PostgresStore is the lib/pq backed LeadStore.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create lead_submissions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec *LeadRecord) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lead_submissions (
			submission_id, form_id, email, first_name, last_name,
			phone, company, industry, message, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (submission_id) DO NOTHING
		RETURNING id`,
		rec.SubmissionID, rec.FormID, rec.Email, rec.FirstName, rec.LastName,
		rec.Phone, rec.Company, rec.Industry, rec.Message, rec.Source,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *PostgresStore) Find(ctx context.Context, submissionID string) (*LeadRecord, error) {
	var (
		rec   LeadRecord
		crmID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, submission_id, form_id, email, first_name, last_name,
		       phone, company, industry, message, source, crm_lead_id, created_at
		FROM lead_submissions WHERE submission_id = $1`, submissionID,
	).Scan(
		&rec.ID, &rec.SubmissionID, &rec.FormID, &rec.Email, &rec.FirstName, &rec.LastName,
		&rec.Phone, &rec.Company, &rec.Industry, &rec.Message, &rec.Source, &crmID, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.CRMLeadID = crmID.String
	return &rec, nil
}

func (s *PostgresStore) SetCRMLeadID(ctx context.Context, submissionID, crmLeadID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE lead_submissions SET crm_lead_id = $2, updated_at = now()
		WHERE submission_id = $1`, submissionID, crmLeadID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
