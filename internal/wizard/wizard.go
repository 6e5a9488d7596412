// Package wizard implements the multi-step credit application flow as an
// explicit owned-state container. One Session per applicant sitting; the
// Session is the single source of truth for the current step, the
// accumulated per-step partials, and the attached files. Nothing is
// persisted anywhere until Submit succeeds.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/validation"
)

// Step identifies one page of the wizard, in fixed order.
type Step int

const (
	StepCompanyInfo Step = iota
	StepOwners
	StepBankReference
	StepTradeReferences
	StepSalesProfile
	StepAgreements
)

const (
	firstStep = StepCompanyInfo
	lastStep  = StepAgreements
)

// TradeReferenceCount is the fixed arity of the trade-references step.
const TradeReferenceCount = 3

func (s Step) String() string {
	switch s {
	case StepCompanyInfo:
		return "companyInfo"
	case StepOwners:
		return "owners"
	case StepBankReference:
		return "bankReference"
	case StepTradeReferences:
		return "tradeReferences"
	case StepSalesProfile:
		return "salesProfile"
	case StepAgreements:
		return "agreements"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	// ErrAlreadySubmitted is returned by any mutation or Submit after the
	// session reached its terminal submitted state.
	ErrAlreadySubmitted = errors.New("application already submitted")

	// ErrSubmitInFlight guards against double-submission while a request is
	// running.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrForwardJump rejects JumpTo targets at or past the current step.
	ErrForwardJump = errors.New("cannot jump forward")

	// ErrLastOwner enforces the at-least-one-owner invariant at the
	// mutation boundary.
	ErrLastOwner = errors.New("cannot remove the last remaining owner")

	// ErrIndexOutOfRange is returned for bad owner or trade-reference
	// indexes.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSubmitFailed wraps transport or server failures; the session stays
	// editable and the submission may be retried.
	ErrSubmitFailed = errors.New("submission failed")

	// ErrUnknownFileKind is returned by AttachFile for a kind the
	// submission endpoint would silently ignore.
	ErrUnknownFileKind = errors.New("unknown file kind")
)

// File is an attachment staged for upload with the submission.
type File struct {
	Kind     string // w9, taxExemptionCert, coi, otherDoc
	FileName string
	Content  []byte
}

// Attachment field names recognised by the submission endpoint.
const (
	FileW9               = "w9"
	FileTaxExemptionCert = "taxExemptionCert"
	FileCOI              = "coi"
	FileOtherDoc         = "otherDoc"
)

// Result carries the server-issued reference for a successful submission.
type Result struct {
	SubmissionID string
	PDFURL       string
}

// Submitter delivers a validated aggregate plus attachments to the backend.
type Submitter interface {
	Submit(ctx context.Context, app dto.CreditApplicationRequest, files []File) (*Result, error)
}

// ProgressFunc is notified with each step as it is completed via Advance.
// It exists for external analytics and must not block.
type ProgressFunc func(completed Step)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithProgressFunc registers an analytics callback for step completion.
func WithProgressFunc(fn ProgressFunc) SessionOption {
	return func(s *Session) {
		s.onProgress = fn
	}
}

// Session holds the in-memory state of one applicant's wizard run.
type Session struct {
	mu sync.Mutex

	current    Step
	company    dto.CompanyInfoPayload
	owners     []dto.OwnerPayload
	bank       dto.BankReferencePayload
	trades     [TradeReferenceCount]dto.TradeReferencePayload
	sales      dto.SalesProfilePayload
	agreements dto.AgreementsPayload
	files      []File

	submitter  Submitter
	onProgress ProgressFunc

	submitting bool
	result     *Result
}

// NewSession creates a wizard session positioned at the first step with a
// single blank owner row.
func NewSession(submitter Submitter, options ...SessionOption) *Session {
	s := &Session{
		current:   firstStep,
		owners:    []dto.OwnerPayload{{}},
		submitter: submitter,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Current returns the step the applicant is on.
func (s *Session) Current() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Submitted reports whether the session reached its terminal state, along
// with the server-issued result when it has.
func (s *Session) Submitted() (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// Advance moves to the next step, capped at the last. Forward navigation is
// not gated on per-step validity; only Submit enforces the full schemas.
// The progress callback receives the step just completed.
func (s *Session) Advance() Step {
	s.mu.Lock()
	if s.result != nil || s.current >= lastStep {
		cur := s.current
		s.mu.Unlock()
		return cur
	}
	completed := s.current
	s.current++
	cur := s.current
	fn := s.onProgress
	s.mu.Unlock()

	if fn != nil {
		fn(completed)
	}
	return cur
}

// Retreat moves to the previous step, floored at the first. Data entered on
// the step being left is retained.
func (s *Session) Retreat() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil && s.current > firstStep {
		s.current--
	}
	return s.current
}

// JumpTo moves directly to an earlier step for review. Jumping forward past
// the current step is rejected and leaves the position unchanged, keeping
// progress linear.
func (s *Session) JumpTo(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return ErrAlreadySubmitted
	}
	if step >= s.current || step < firstStep {
		return ErrForwardJump
	}
	s.current = step
	return nil
}

// editable returns ErrAlreadySubmitted once the session is terminal.
// Callers must hold s.mu.
func (s *Session) editable() error {
	if s.result != nil {
		return ErrAlreadySubmitted
	}
	return nil
}

// SetCompanyInfo replaces the company-info partial.
func (s *Session) SetCompanyInfo(p dto.CompanyInfoPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.company = p
	return nil
}

// CompanyInfo returns the current company-info partial.
func (s *Session) CompanyInfo() dto.CompanyInfoPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company
}

// AddOwner appends a blank owner row and returns its index.
func (s *Session) AddOwner() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return 0, err
	}
	s.owners = append(s.owners, dto.OwnerPayload{})
	return len(s.owners) - 1, nil
}

// UpdateOwner replaces the owner at index i.
func (s *Session) UpdateOwner(i int, p dto.OwnerPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.owners) {
		return ErrIndexOutOfRange
	}
	s.owners[i] = p
	return nil
}

// RemoveOwner removes the owner at index i, re-packing the remaining rows.
// Removing the last remaining owner is disallowed.
func (s *Session) RemoveOwner(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.owners) {
		return ErrIndexOutOfRange
	}
	if len(s.owners) == 1 {
		return ErrLastOwner
	}
	s.owners = append(s.owners[:i], s.owners[i+1:]...)
	return nil
}

// Owners returns a copy of the current owner rows.
func (s *Session) Owners() []dto.OwnerPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.OwnerPayload, len(s.owners))
	copy(out, s.owners)
	return out
}

// SetBankReference replaces the bank-reference partial.
func (s *Session) SetBankReference(p dto.BankReferencePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.bank = p
	return nil
}

// BankReference returns the current bank-reference partial.
func (s *Session) BankReference() dto.BankReferencePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank
}

// SetTradeReference updates the trade reference at index i. The list is a
// fixed arity of three; entries can only be edited in place, never added or
// removed.
func (s *Session) SetTradeReference(i int, p dto.TradeReferencePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= TradeReferenceCount {
		return ErrIndexOutOfRange
	}
	s.trades[i] = p
	return nil
}

// TradeReferences returns the three trade-reference slots.
func (s *Session) TradeReferences() []dto.TradeReferencePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.TradeReferencePayload(nil), s.trades[:]...)
}

// SetSalesProfile replaces the sales-profile partial.
func (s *Session) SetSalesProfile(p dto.SalesProfilePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.sales = p
	return nil
}

// SalesProfile returns the current sales-profile partial.
func (s *Session) SalesProfile() dto.SalesProfilePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales
}

// SetAgreements replaces the consent-and-signature partial. The signature is
// whatever serialized image artifact the drawing surface produced.
func (s *Session) SetAgreements(p dto.AgreementsPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.agreements = p
	return nil
}

// Agreements returns the current consent-and-signature partial.
func (s *Session) Agreements() dto.AgreementsPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agreements
}

// ClearSignature supports the clear-and-redraw operation of the signature
// surface.
func (s *Session) ClearSignature() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.agreements.Signature = ""
	return nil
}

// AttachFile stages an uploaded document. The singleton kinds (w9,
// taxExemptionCert, coi) replace any previous file of the same kind; other
// documents accumulate.
func (s *Session) AttachFile(kind, fileName string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	switch kind {
	case FileW9, FileTaxExemptionCert, FileCOI, FileOtherDoc:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFileKind, kind)
	}
	if kind != FileOtherDoc {
		for i, f := range s.files {
			if f.Kind == kind {
				s.files[i] = File{Kind: kind, FileName: fileName, Content: content}
				return nil
			}
		}
	}
	s.files = append(s.files, File{Kind: kind, FileName: fileName, Content: content})
	return nil
}

// Files returns the staged attachments.
func (s *Session) Files() []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]File(nil), s.files...)
}

// Aggregate assembles the cross-step payload. It exists only transiently at
// submission time; callers must hold s.mu.
func (s *Session) aggregate() dto.CreditApplicationRequest {
	return dto.CreditApplicationRequest{
		CompanyInfo:     s.company,
		Owners:          append([]dto.OwnerPayload(nil), s.owners...),
		BankReference:   s.bank,
		TradeReferences: append([]dto.TradeReferencePayload(nil), s.trades[:]...),
		SalesProfile:    s.sales,
		Agreements:      s.agreements,
	}
}

// Submit runs the full canonical schema over every step's accumulated data
// and, only if everything passes, sends the aggregate plus attachments to
// the backend in a single request. Any validation failure aborts before
// anything is sent. A transport or server failure leaves the session
// editable with all data intact. On success the session becomes terminal
// and returns the server-issued result; a session submits at most once.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.result != nil {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.submitting = true
	app := s.aggregate()
	files := append([]File(nil), s.files...)
	s.mu.Unlock()

	reset := func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}

	if err := validation.Application(app); err != nil {
		reset()
		return nil, err
	}

	res, err := s.submitter.Submit(ctx, app, files)
	if err != nil {
		reset()
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	s.mu.Lock()
	s.submitting = false
	s.result = res
	s.mu.Unlock()
	return res, nil
}
