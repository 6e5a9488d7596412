package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	"github.com/ridgelinefuels/fuel_credit_app/internal/models"
)

type PgxApplicationRepository struct {
	BaseRepository
}

func newPgxApplicationRepository(db *pgxpool.Pool) portsrepo.ApplicationRepositoryFacade {
	return &PgxApplicationRepository{BaseRepository{Pool: db}}
}

// Ensure PgxApplicationRepository implements the facade
var _ portsrepo.ApplicationRepositoryFacade = (*PgxApplicationRepository)(nil)

// toModelApplication converts the domain aggregate into its row form,
// serializing the structured form sections to JSON.
func toModelApplication(d domain.CreditApplication) (models.CreditApplication, error) {
	m := models.CreditApplication{
		ApplicationID:   d.ApplicationID,
		Status:          string(d.Status),
		LegalName:       d.CompanyInfo.LegalName,
		EntityType:      string(d.CompanyInfo.EntityType),
		SubmittedAt:     d.Agreements.SubmittedAt,
		SubmittedFromIP: d.Agreements.SubmittedFromIP,
		DocumentPath:    d.DocumentPath,
		InternalNotes:   d.InternalNotes,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.ReviewedBy != "" {
		m.ReviewedBy.String = d.ReviewedBy
		m.ReviewedBy.Valid = true
	}
	if d.ReviewedAt != nil {
		m.ReviewedAt.Time = *d.ReviewedAt
		m.ReviewedAt.Valid = true
	}

	var err error
	if m.CompanyInfo, err = json.Marshal(d.CompanyInfo); err != nil {
		return m, fmt.Errorf("failed to marshal company info: %w", err)
	}
	if m.Owners, err = json.Marshal(d.Owners); err != nil {
		return m, fmt.Errorf("failed to marshal owners: %w", err)
	}
	if m.BankReference, err = json.Marshal(d.BankReference); err != nil {
		return m, fmt.Errorf("failed to marshal bank reference: %w", err)
	}
	if m.TradeReferences, err = json.Marshal(d.TradeReferences); err != nil {
		return m, fmt.Errorf("failed to marshal trade references: %w", err)
	}
	if m.SalesProfile, err = json.Marshal(d.SalesProfile); err != nil {
		return m, fmt.Errorf("failed to marshal sales profile: %w", err)
	}
	if m.Agreements, err = json.Marshal(d.Agreements); err != nil {
		return m, fmt.Errorf("failed to marshal agreements: %w", err)
	}
	return m, nil
}

// toDomainApplication converts a row back into the domain aggregate.
func toDomainApplication(m models.CreditApplication) (domain.CreditApplication, error) {
	d := domain.CreditApplication{
		ApplicationID: m.ApplicationID,
		Status:        domain.ApplicationStatus(m.Status),
		InternalNotes: m.InternalNotes,
		DocumentPath:  m.DocumentPath,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ReviewedBy.Valid {
		d.ReviewedBy = m.ReviewedBy.String
	}
	if m.ReviewedAt.Valid {
		t := m.ReviewedAt.Time
		d.ReviewedAt = &t
	}

	if err := json.Unmarshal(m.CompanyInfo, &d.CompanyInfo); err != nil {
		return d, fmt.Errorf("failed to unmarshal company info: %w", err)
	}
	if err := json.Unmarshal(m.Owners, &d.Owners); err != nil {
		return d, fmt.Errorf("failed to unmarshal owners: %w", err)
	}
	if err := json.Unmarshal(m.BankReference, &d.BankReference); err != nil {
		return d, fmt.Errorf("failed to unmarshal bank reference: %w", err)
	}
	if err := json.Unmarshal(m.TradeReferences, &d.TradeReferences); err != nil {
		return d, fmt.Errorf("failed to unmarshal trade references: %w", err)
	}
	if err := json.Unmarshal(m.SalesProfile, &d.SalesProfile); err != nil {
		return d, fmt.Errorf("failed to unmarshal sales profile: %w", err)
	}
	if err := json.Unmarshal(m.Agreements, &d.Agreements); err != nil {
		return d, fmt.Errorf("failed to unmarshal agreements: %w", err)
	}
	return d, nil
}

func toDomainAttachment(m models.Attachment) domain.Attachment {
	return domain.Attachment{
		AttachmentID:  m.AttachmentID,
		ApplicationID: m.ApplicationID,
		Kind:          m.Kind,
		FileName:      m.FileName,
		ContentType:   m.ContentType,
		SizeBytes:     m.SizeBytes,
		StoragePath:   m.StoragePath,
		CreatedAt:     m.CreatedAt,
	}
}

// SaveApplication inserts the application row and its attachment rows in a
// single transaction.
func (r *PgxApplicationRepository) SaveApplication(ctx context.Context, app domain.CreditApplication) error {
	m, err := toModelApplication(app)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	appQuery := `
        INSERT INTO credit_applications (
            application_id, status, legal_name, entity_type,
            company_info, owners, bank_reference, trade_references, sales_profile, agreements,
            submitted_at, submitted_from_ip, document_path, internal_notes,
            reviewed_by, reviewed_at,
            created_at, created_by, last_updated_at, last_updated_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
    `
	_, err = tx.Exec(ctx, appQuery,
		m.ApplicationID, m.Status, m.LegalName, m.EntityType,
		m.CompanyInfo, m.Owners, m.BankReference, m.TradeReferences, m.SalesProfile, m.Agreements,
		m.SubmittedAt, m.SubmittedFromIP, m.DocumentPath, m.InternalNotes,
		m.ReviewedBy, m.ReviewedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("application %s already exists: %w", app.ApplicationID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save application: %w", err)
	}

	attQuery := `
        INSERT INTO application_attachments (
            attachment_id, application_id, kind, file_name, content_type, size_bytes, storage_path, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	for _, a := range app.Attachments {
		_, err = tx.Exec(ctx, attQuery,
			a.AttachmentID, a.ApplicationID, a.Kind, a.FileName, a.ContentType, a.SizeBytes, a.StoragePath, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save attachment %s: %w", a.Kind, err)
		}
	}

	return r.Commit(ctx, tx)
}

const applicationColumns = `
    application_id, status, legal_name, entity_type,
    company_info, owners, bank_reference, trade_references, sales_profile, agreements,
    submitted_at, submitted_from_ip, document_path, internal_notes,
    reviewed_by, reviewed_at,
    created_at, created_by, last_updated_at, last_updated_by
`

func scanApplication(row pgx.Row) (models.CreditApplication, error) {
	var m models.CreditApplication
	err := row.Scan(
		&m.ApplicationID, &m.Status, &m.LegalName, &m.EntityType,
		&m.CompanyInfo, &m.Owners, &m.BankReference, &m.TradeReferences, &m.SalesProfile, &m.Agreements,
		&m.SubmittedAt, &m.SubmittedFromIP, &m.DocumentPath, &m.InternalNotes,
		&m.ReviewedBy, &m.ReviewedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindApplicationByID retrieves an application with its attachments.
func (r *PgxApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications WHERE application_id = $1;`
	m, err := scanApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find application %s: %w", applicationID, err)
	}

	app, err := toDomainApplication(m)
	if err != nil {
		return nil, err
	}

	attachments, err := r.findAttachments(ctx, []string{applicationID})
	if err != nil {
		return nil, err
	}
	app.Attachments = attachments[applicationID]
	return &app, nil
}

// FindApplications retrieves a page of applications, newest first,
// optionally filtered by status.
func (r *PgxApplicationRepository) FindApplications(ctx context.Context, status string, limit int, offset int) ([]domain.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + `
        FROM credit_applications
        WHERE ($1 = '' OR status = $1)
        ORDER BY submitted_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.CreditApplication
	var ids []string
	for rows.Next() {
		m, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		app, err := toDomainApplication(m)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
		ids = append(ids, app.ApplicationID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate application rows: %w", err)
	}

	if len(ids) == 0 {
		return apps, nil
	}
	attachments, err := r.findAttachments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].Attachments = attachments[apps[i].ApplicationID]
	}
	return apps, nil
}

// findAttachments loads attachment rows for a set of applications, keyed by
// application ID.
func (r *PgxApplicationRepository) findAttachments(ctx context.Context, applicationIDs []string) (map[string][]domain.Attachment, error) {
	query := `
        SELECT attachment_id, application_id, kind, file_name, content_type, size_bytes, storage_path, created_at
        FROM application_attachments
        WHERE application_id = ANY($1)
        ORDER BY created_at, kind;
    `
	rows, err := r.Pool.Query(ctx, query, applicationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.Attachment)
	for rows.Next() {
		var m models.Attachment
		if err := rows.Scan(&m.AttachmentID, &m.ApplicationID, &m.Kind, &m.FileName, &m.ContentType, &m.SizeBytes, &m.StoragePath, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		result[m.ApplicationID] = append(result[m.ApplicationID], toDomainAttachment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachment rows: %w", err)
	}
	return result, nil
}

// UpdateReview applies an operator's status change and/or internal notes.
// A nil internalNotes leaves the stored notes untouched; a nil reviewedAt
// means the status did not change, so reviewed_by/reviewed_at keep their
// stored values while the audit columns still record the acting operator.
func (r *PgxApplicationRepository) UpdateReview(ctx context.Context, applicationID string, status domain.ApplicationStatus, internalNotes *string, reviewedBy string, reviewedAt *time.Time) error {
	query := `
        UPDATE credit_applications
        SET status = $2,
            internal_notes = COALESCE($3, internal_notes),
            reviewed_by = CASE WHEN $5::timestamptz IS NULL THEN reviewed_by ELSE $4 END,
            reviewed_at = COALESCE($5, reviewed_at),
            last_updated_at = NOW(),
            last_updated_by = $4
        WHERE application_id = $1;
    `
	tag, err := r.Pool.Exec(ctx, query, applicationID, string(status), internalNotes, reviewedBy, reviewedAt)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", applicationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
