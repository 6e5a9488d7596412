package models

import (
	"database/sql"
	"time"
)

// CreditApplication is the persisted form of a submitted application.
// The structured sections of the form (company info, owners, references,
// sales profile, agreements) are stored as JSONB documents; review and
// lifecycle metadata live in flat columns so they can be filtered on.
type CreditApplication struct {
	ApplicationID   string `db:"application_id"`
	Status          string `db:"status"`
	LegalName       string `db:"legal_name"` // Denormalized from company_info for listing
	EntityType      string `db:"entity_type"`
	CompanyInfo     []byte `db:"company_info"`
	Owners          []byte `db:"owners"`
	BankReference   []byte `db:"bank_reference"`
	TradeReferences []byte `db:"trade_references"`
	SalesProfile    []byte `db:"sales_profile"`
	Agreements      []byte `db:"agreements"`

	SubmittedAt     time.Time `db:"submitted_at"`
	SubmittedFromIP string    `db:"submitted_from_ip"`
	DocumentPath    string    `db:"document_path"`

	InternalNotes string         `db:"internal_notes"`
	ReviewedBy    sql.NullString `db:"reviewed_by"`
	ReviewedAt    sql.NullTime   `db:"reviewed_at"`

	AuditFields
}

// Attachment is a persisted uploaded document row.
type Attachment struct {
	AttachmentID  string    `db:"attachment_id"`
	ApplicationID string    `db:"application_id"`
	Kind          string    `db:"kind"`
	FileName      string    `db:"file_name"`
	ContentType   string    `db:"content_type"`
	SizeBytes     int64     `db:"size_bytes"`
	StoragePath   string    `db:"storage_path"`
	CreatedAt     time.Time `db:"created_at"`
}
