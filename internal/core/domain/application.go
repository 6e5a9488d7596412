package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType defines the legal structure of the applying business.
type EntityType string

const (
	SoleProprietor EntityType = "SoleProprietor"
	LLC            EntityType = "LLC"
	Corporation    EntityType = "Corporation"
	Partnership    EntityType = "Partnership"
	OtherEntity    EntityType = "Other"
)

// ApplicationStatus tracks the review lifecycle of a submitted application.
type ApplicationStatus string

const (
	StatusNew         ApplicationStatus = "New"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusApproved    ApplicationStatus = "Approved"
	StatusDeclined    ApplicationStatus = "Declined"
)

// CanTransitionTo reports whether a status change is allowed.
// New -> Under Review -> {Approved, Declined}; nothing else.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case StatusNew:
		return next == StatusUnderReview
	case StatusUnderReview:
		return next == StatusApproved || next == StatusDeclined
	default:
		return false
	}
}

// IsValidStatus reports whether s is one of the known application statuses.
func IsValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusNew, StatusUnderReview, StatusApproved, StatusDeclined:
		return true
	}
	return false
}

// Address is a US postal address used for billing and owner homes.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// CompanyInfo holds the applicant business identity and billing details.
type CompanyInfo struct {
	LegalName        string     `json:"legalName"`
	DBA              string     `json:"dba,omitempty"`
	EntityType       EntityType `json:"entityType"`
	TaxID            string     `json:"taxId"`
	YearsInBusiness  int        `json:"yearsInBusiness"`
	BillingAddress   Address    `json:"billingAddress"`
	APContactName    string     `json:"apContactName"`
	APContactEmail   string     `json:"apContactEmail"`
	APContactPhone   string     `json:"apContactPhone"`
	PORequired       bool       `json:"poRequired"`
}

// Owner is one principal of the applying business.
type Owner struct {
	Name             string          `json:"name"`
	Title            string          `json:"title"`
	HomeAddress      Address         `json:"homeAddress"`
	OwnershipPercent decimal.Decimal `json:"ownershipPercent"` // [0,100]
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	PersonalGuaranty bool            `json:"personalGuaranty"`
	// GuarantySignature is an opaque serialized image artifact, present only
	// when PersonalGuaranty is set and the owner signed.
	GuarantySignature string `json:"guarantySignature,omitempty"`
}

// BankReference identifies the applicant's bank contact. Only the last four
// digits of the account number are ever held; the full number is never
// collected or stored.
type BankReference struct {
	BankName           string `json:"bankName"`
	ContactName        string `json:"contactName"`
	Phone              string `json:"phone"`
	City               string `json:"city"`
	State              string `json:"state"`
	AccountNumberLast4 string `json:"accountNumberLast4"`
}

// TradeReference is one of the exactly three required trade references.
type TradeReference struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// SalesProfile captures what the applicant wants delivered and where.
type SalesProfile struct {
	Products               []string        `json:"products"` // non-empty set of product categories
	EstimatedMonthlyVolume decimal.Decimal `json:"estimatedMonthlyVolume"`
	DeliveryCities         string          `json:"deliveryCities"`
	TaxExempt              bool            `json:"taxExempt"`
}

// Agreements carries the consent flags and the signing block.
type Agreements struct {
	PrivacyPolicyConsent  bool      `json:"privacyPolicyConsent"`
	CreditInquiryConsent  bool      `json:"creditInquiryConsent"`
	CommunicationsConsent bool      `json:"communicationsConsent"`
	SMSConsent            bool      `json:"smsConsent"`
	SignerName            string    `json:"signerName"`
	SignerTitle           string    `json:"signerTitle"`
	Signature             string    `json:"signature"` // serialized image or typed attestation
	SubmittedAt           time.Time `json:"submittedAt"`
	SubmittedFromIP       string    `json:"submittedFromIP"`
}

// CreditApplication is the aggregate root. It exists as a persisted entity
// only after a fully validated submission; after creation only an operator
// may mutate it (status and internal notes).
type CreditApplication struct {
	ApplicationID   string            `json:"applicationID"`
	CompanyInfo     CompanyInfo       `json:"companyInfo"`
	Owners          []Owner           `json:"owners"` // at least one
	BankReference   BankReference     `json:"bankReference"`
	TradeReferences []TradeReference  `json:"tradeReferences"` // exactly three
	SalesProfile    SalesProfile      `json:"salesProfile"`
	Agreements      Agreements        `json:"agreements"`
	Status          ApplicationStatus `json:"status"`
	InternalNotes   string            `json:"internalNotes,omitempty"`
	DocumentPath    string            `json:"documentPath,omitempty"`
	Attachments     []Attachment      `json:"attachments,omitempty"`
	ReviewedBy      string            `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewedAt,omitempty"`
	AuditFields
}

// Attachment is an opaque binary document associated with a submission,
// keyed by logical kind and stored out-of-band in the file store.
type Attachment struct {
	AttachmentID  string    `json:"attachmentID"`
	ApplicationID string    `json:"applicationID"`
	Kind          string    `json:"kind"` // w9, taxExemptionCert, coi, otherDoc{N}
	FileName      string    `json:"fileName"`
	ContentType   string    `json:"contentType"`
	SizeBytes     int64     `json:"sizeBytes"`
	StoragePath   string    `json:"storagePath"`
	CreatedAt     time.Time `json:"createdAt"`
}
