package dto

import (
	"time"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// The step payloads below are the canonical field schemas for the credit
// application. The same validate tags are run by the wizard before submission
// and again by the server behind the trust boundary, so the two passes cannot
// drift. Field paths in validation errors follow the json tag names.

// AddressPayload is a US postal address.
type AddressPayload struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required"`
	Zip    string `json:"zip" validate:"required,zipcode"`
}

// CompanyInfoPayload is the company-info step.
type CompanyInfoPayload struct {
	LegalName       string         `json:"legalName" validate:"required"`
	DBA             string         `json:"dba" validate:"omitempty"`
	EntityType      string         `json:"entityType" validate:"required,oneof=SoleProprietor LLC Corporation Partnership Other"`
	TaxID           string         `json:"taxId" validate:"required"`
	YearsInBusiness int            `json:"yearsInBusiness" validate:"gte=0"`
	BillingAddress  AddressPayload `json:"billingAddress" validate:"required"`
	APContactName   string         `json:"apContactName" validate:"required"`
	APContactEmail  string         `json:"apContactEmail" validate:"required,email"`
	APContactPhone  string         `json:"apContactPhone" validate:"required,usphone"`
	PORequired      bool           `json:"poRequired"`
}

// OwnerPayload is one entry of the owners step.
type OwnerPayload struct {
	Name             string          `json:"name" validate:"required"`
	Title            string          `json:"title" validate:"required"`
	HomeAddress      AddressPayload  `json:"homeAddress" validate:"required"`
	OwnershipPercent decimal.Decimal `json:"ownershipPercent" validate:"gte=0,lte=100"`
	Phone            string          `json:"phone" validate:"required,usphone"`
	Email            string          `json:"email" validate:"required,email"`
	PersonalGuaranty bool            `json:"personalGuaranty"`
	// Optional base64-encoded signature image backing the personal guaranty.
	GuarantySignature string `json:"guarantySignature" validate:"omitempty"`
}

// OwnersPayload is the owners step: an ordered list with at least one entry.
type OwnersPayload struct {
	Owners []OwnerPayload `json:"owners" validate:"required,min=1,dive"`
}

// BankReferencePayload is the bank-reference step. Only the last four digits
// of the account number are accepted; a full account number is rejected by
// the last4 rule before it can ever reach storage.
type BankReferencePayload struct {
	BankName           string `json:"bankName" validate:"required"`
	ContactName        string `json:"contactName" validate:"required"`
	Phone              string `json:"phone" validate:"required,usphone"`
	City               string `json:"city" validate:"required"`
	State              string `json:"state" validate:"required"`
	AccountNumberLast4 string `json:"accountNumberLast4" validate:"required,last4"`
}

// TradeReferencePayload is one of the exactly three trade references.
type TradeReferencePayload struct {
	CompanyName string `json:"companyName" validate:"required"`
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,usphone"`
}

// TradeReferencesPayload is the trade-references step: fixed arity of three.
type TradeReferencesPayload struct {
	TradeReferences []TradeReferencePayload `json:"tradeReferences" validate:"required,len=3,dive"`
}

// SalesProfilePayload is the sales-profile step.
type SalesProfilePayload struct {
	Products               []string        `json:"products" validate:"required,min=1,dive,required"`
	EstimatedMonthlyVolume decimal.Decimal `json:"estimatedMonthlyVolume" validate:"gte=0"`
	DeliveryCities         string          `json:"deliveryCities" validate:"omitempty"`
	TaxExempt              bool            `json:"taxExempt"`
}

// AgreementsPayload is the final consent-and-signature step. The three
// required consents must be affirmatively true; SMS consent is optional.
type AgreementsPayload struct {
	PrivacyPolicyConsent  bool   `json:"privacyPolicyConsent" validate:"required"`
	CreditInquiryConsent  bool   `json:"creditInquiryConsent" validate:"required"`
	CommunicationsConsent bool   `json:"communicationsConsent" validate:"required"`
	SMSConsent            bool   `json:"smsConsent"`
	SignerName            string `json:"signerName" validate:"required"`
	SignerTitle           string `json:"signerTitle" validate:"required"`
	Signature             string `json:"signature" validate:"required"`
}

// CreditApplicationRequest is the aggregate assembled by the wizard at submit
// time and re-validated server-side. It is the JSON part named "application"
// in the multipart submission request.
type CreditApplicationRequest struct {
	CompanyInfo     CompanyInfoPayload      `json:"companyInfo" validate:"required"`
	Owners          []OwnerPayload          `json:"owners" validate:"required,min=1,dive"`
	BankReference   BankReferencePayload    `json:"bankReference" validate:"required"`
	TradeReferences []TradeReferencePayload `json:"tradeReferences" validate:"required,len=3,dive"`
	SalesProfile    SalesProfilePayload     `json:"salesProfile" validate:"required"`
	Agreements      AgreementsPayload       `json:"agreements" validate:"required"`
}

// SubmissionResponse is returned to the applicant on a successful submission.
type SubmissionResponse struct {
	SubmissionID string `json:"submissionId"`
	PDFURL       string `json:"pdfUrl"`
}

// FieldErrorResponse is the structured body for a rejected submission.
type FieldErrorResponse struct {
	Error  string              `json:"error"`
	Fields []FieldErrorPayload `json:"fields"`
}

// FieldErrorPayload mirrors apperrors.FieldError on the wire.
type FieldErrorPayload struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// AttachmentResponse describes one stored attachment for the admin surface.
type AttachmentResponse struct {
	AttachmentID string `json:"attachmentID"`
	Kind         string `json:"kind"`
	FileName     string `json:"fileName"`
	ContentType  string `json:"contentType"`
	SizeBytes    int64  `json:"sizeBytes"`
}

// ApplicationResponse is the admin view of a persisted application.
type ApplicationResponse struct {
	ApplicationID   string                  `json:"applicationID"`
	CompanyInfo     CompanyInfoPayload      `json:"companyInfo"`
	Owners          []OwnerPayload          `json:"owners"`
	BankReference   BankReferencePayload    `json:"bankReference"`
	TradeReferences []TradeReferencePayload `json:"tradeReferences"`
	SalesProfile    SalesProfilePayload     `json:"salesProfile"`
	Agreements      AgreementsResponse      `json:"agreements"`
	Status          string                  `json:"status"`
	InternalNotes   string                  `json:"internalNotes,omitempty"`
	Attachments     []AttachmentResponse    `json:"attachments"`
	ReviewedBy      string                  `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time              `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// AgreementsResponse extends the agreements payload with the server-recorded
// submission metadata.
type AgreementsResponse struct {
	AgreementsPayload
	SubmittedAt     time.Time `json:"submittedAt"`
	SubmittedFromIP string    `json:"submittedFromIP"`
}

// UpdateApplicationRequest is the operator PATCH body. Pointers distinguish
// omitted fields from zero values.
type UpdateApplicationRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof='New' 'Under Review' 'Approved' 'Declined'"`
	InternalNotes *string `json:"internalNotes"`
}

// ListApplicationsParams defines query parameters for listing applications.
type ListApplicationsParams struct {
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
	Status string `form:"status"`
}

// ListApplicationsResponse wraps the admin application list.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
}

// ToApplicationResponse converts a domain.CreditApplication to its admin DTO.
func ToApplicationResponse(app *domain.CreditApplication) ApplicationResponse {
	owners := make([]OwnerPayload, len(app.Owners))
	for i, o := range app.Owners {
		owners[i] = OwnerPayload{
			Name:              o.Name,
			Title:             o.Title,
			HomeAddress:       toAddressPayload(o.HomeAddress),
			OwnershipPercent:  o.OwnershipPercent,
			Phone:             o.Phone,
			Email:             o.Email,
			PersonalGuaranty:  o.PersonalGuaranty,
			GuarantySignature: o.GuarantySignature,
		}
	}
	trades := make([]TradeReferencePayload, len(app.TradeReferences))
	for i, t := range app.TradeReferences {
		trades[i] = TradeReferencePayload{
			CompanyName: t.CompanyName,
			ContactName: t.ContactName,
			Email:       t.Email,
			Phone:       t.Phone,
		}
	}
	attachments := make([]AttachmentResponse, len(app.Attachments))
	for i, a := range app.Attachments {
		attachments[i] = AttachmentResponse{
			AttachmentID: a.AttachmentID,
			Kind:         a.Kind,
			FileName:     a.FileName,
			ContentType:  a.ContentType,
			SizeBytes:    a.SizeBytes,
		}
	}
	return ApplicationResponse{
		ApplicationID: app.ApplicationID,
		CompanyInfo: CompanyInfoPayload{
			LegalName:       app.CompanyInfo.LegalName,
			DBA:             app.CompanyInfo.DBA,
			EntityType:      string(app.CompanyInfo.EntityType),
			TaxID:           app.CompanyInfo.TaxID,
			YearsInBusiness: app.CompanyInfo.YearsInBusiness,
			BillingAddress:  toAddressPayload(app.CompanyInfo.BillingAddress),
			APContactName:   app.CompanyInfo.APContactName,
			APContactEmail:  app.CompanyInfo.APContactEmail,
			APContactPhone:  app.CompanyInfo.APContactPhone,
			PORequired:      app.CompanyInfo.PORequired,
		},
		Owners: owners,
		BankReference: BankReferencePayload{
			BankName:           app.BankReference.BankName,
			ContactName:        app.BankReference.ContactName,
			Phone:              app.BankReference.Phone,
			City:               app.BankReference.City,
			State:              app.BankReference.State,
			AccountNumberLast4: app.BankReference.AccountNumberLast4,
		},
		TradeReferences: trades,
		SalesProfile: SalesProfilePayload{
			Products:               app.SalesProfile.Products,
			EstimatedMonthlyVolume: app.SalesProfile.EstimatedMonthlyVolume,
			DeliveryCities:         app.SalesProfile.DeliveryCities,
			TaxExempt:              app.SalesProfile.TaxExempt,
		},
		Agreements: AgreementsResponse{
			AgreementsPayload: AgreementsPayload{
				PrivacyPolicyConsent:  app.Agreements.PrivacyPolicyConsent,
				CreditInquiryConsent:  app.Agreements.CreditInquiryConsent,
				CommunicationsConsent: app.Agreements.CommunicationsConsent,
				SMSConsent:            app.Agreements.SMSConsent,
				SignerName:            app.Agreements.SignerName,
				SignerTitle:           app.Agreements.SignerTitle,
				Signature:             app.Agreements.Signature,
			},
			SubmittedAt:     app.Agreements.SubmittedAt,
			SubmittedFromIP: app.Agreements.SubmittedFromIP,
		},
		Status:        string(app.Status),
		InternalNotes: app.InternalNotes,
		Attachments:   attachments,
		ReviewedBy:    app.ReviewedBy,
		ReviewedAt:    app.ReviewedAt,
		CreatedAt:     app.CreatedAt,
	}
}

func toAddressPayload(a domain.Address) AddressPayload {
	return AddressPayload{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip}
}

// ToListApplicationsResponse converts a slice of domain applications.
func ToListApplicationsResponse(apps []domain.CreditApplication) ListApplicationsResponse {
	res := make([]ApplicationResponse, len(apps))
	for i := range apps {
		res[i] = ToApplicationResponse(&apps[i])
	}
	return ListApplicationsResponse{Applications: res}
}

// ToDomainApplication builds the domain aggregate from a validated request.
// Server-side metadata (id, status, timestamps, IP) is stamped by the service.
func ToDomainApplication(req CreditApplicationRequest) domain.CreditApplication {
	owners := make([]domain.Owner, len(req.Owners))
	for i, o := range req.Owners {
		owners[i] = domain.Owner{
			Name:              o.Name,
			Title:             o.Title,
			HomeAddress:       toDomainAddress(o.HomeAddress),
			OwnershipPercent:  o.OwnershipPercent,
			Phone:             o.Phone,
			Email:             o.Email,
			PersonalGuaranty:  o.PersonalGuaranty,
			GuarantySignature: o.GuarantySignature,
		}
	}
	trades := make([]domain.TradeReference, len(req.TradeReferences))
	for i, t := range req.TradeReferences {
		trades[i] = domain.TradeReference{
			CompanyName: t.CompanyName,
			ContactName: t.ContactName,
			Email:       t.Email,
			Phone:       t.Phone,
		}
	}
	return domain.CreditApplication{
		CompanyInfo: domain.CompanyInfo{
			LegalName:       req.CompanyInfo.LegalName,
			DBA:             req.CompanyInfo.DBA,
			EntityType:      domain.EntityType(req.CompanyInfo.EntityType),
			TaxID:           req.CompanyInfo.TaxID,
			YearsInBusiness: req.CompanyInfo.YearsInBusiness,
			BillingAddress:  toDomainAddress(req.CompanyInfo.BillingAddress),
			APContactName:   req.CompanyInfo.APContactName,
			APContactEmail:  req.CompanyInfo.APContactEmail,
			APContactPhone:  req.CompanyInfo.APContactPhone,
			PORequired:      req.CompanyInfo.PORequired,
		},
		Owners: owners,
		BankReference: domain.BankReference{
			BankName:           req.BankReference.BankName,
			ContactName:        req.BankReference.ContactName,
			Phone:              req.BankReference.Phone,
			City:               req.BankReference.City,
			State:              req.BankReference.State,
			AccountNumberLast4: req.BankReference.AccountNumberLast4,
		},
		TradeReferences: trades,
		SalesProfile: domain.SalesProfile{
			Products:               req.SalesProfile.Products,
			EstimatedMonthlyVolume: req.SalesProfile.EstimatedMonthlyVolume,
			DeliveryCities:         req.SalesProfile.DeliveryCities,
			TaxExempt:              req.SalesProfile.TaxExempt,
		},
		Agreements: domain.Agreements{
			PrivacyPolicyConsent:  req.Agreements.PrivacyPolicyConsent,
			CreditInquiryConsent:  req.Agreements.CreditInquiryConsent,
			CommunicationsConsent: req.Agreements.CommunicationsConsent,
			SMSConsent:            req.Agreements.SMSConsent,
			SignerName:            req.Agreements.SignerName,
			SignerTitle:           req.Agreements.SignerTitle,
			Signature:             req.Agreements.Signature,
		},
	}
}

func toDomainAddress(a AddressPayload) domain.Address {
	return domain.Address{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip}
}
