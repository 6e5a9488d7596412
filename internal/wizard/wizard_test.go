package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/wizard"
)

// MockSubmitter is a mock type for the Submitter interface
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, app dto.CreditApplicationRequest, files []wizard.File) (*wizard.Result, error) {
	args := m.Called(ctx, app, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Result), args.Error(1)
}

type WizardTestSuite struct {
	suite.Suite
	submitter *MockSubmitter
	session   *wizard.Session
	completed []wizard.Step
}

func (s *WizardTestSuite) SetupTest() {
	s.submitter = new(MockSubmitter)
	s.completed = nil
	s.session = wizard.NewSession(s.submitter, wizard.WithProgressFunc(func(step wizard.Step) {
		s.completed = append(s.completed, step)
	}))
}

func (s *WizardTestSuite) fillValid() {
	addr := dto.AddressPayload{Street: "100 Terminal Rd", City: "Harrisburg", State: "PA", Zip: "17101"}
	s.Require().NoError(s.session.SetCompanyInfo(dto.CompanyInfoPayload{
		LegalName:       "Acme LLC",
		EntityType:      "LLC",
		TaxID:           "12-3456789",
		YearsInBusiness: 5,
		BillingAddress:  addr,
		APContactName:   "Pat Jones",
		APContactEmail:  "ap@acmellc.com",
		APContactPhone:  "717-555-0100",
	}))
	s.Require().NoError(s.session.UpdateOwner(0, dto.OwnerPayload{
		Name:             "Jane Doe",
		Title:            "President",
		HomeAddress:      addr,
		OwnershipPercent: decimal.NewFromInt(100),
		Phone:            "717-555-0142",
		Email:            "jane@acmellc.com",
		PersonalGuaranty: true,
	}))
	s.Require().NoError(s.session.SetBankReference(dto.BankReferencePayload{
		BankName:           "First Keystone Bank",
		ContactName:        "Mary Teller",
		Phone:              "717-555-0150",
		City:               "Harrisburg",
		State:              "PA",
		AccountNumberLast4: "1234",
	}))
	for i := 0; i < wizard.TradeReferenceCount; i++ {
		s.Require().NoError(s.session.SetTradeReference(i, dto.TradeReferencePayload{
			CompanyName: "Keystone Lubricants",
			ContactName: "Bob Smith",
			Email:       "ap@keystonelube.com",
			Phone:       "7175550188",
		}))
	}
	s.Require().NoError(s.session.SetSalesProfile(dto.SalesProfilePayload{
		Products:               []string{"Fuel", "DEF"},
		EstimatedMonthlyVolume: decimal.NewFromInt(8000),
	}))
	s.Require().NoError(s.session.SetAgreements(dto.AgreementsPayload{
		PrivacyPolicyConsent:  true,
		CreditInquiryConsent:  true,
		CommunicationsConsent: true,
		SignerName:            "Jane Doe",
		SignerTitle:           "President",
		Signature:             "data:image/png;base64,iVBORw0KGgo=",
	}))
}

func (s *WizardTestSuite) TestNavigation_AdvanceCapsAtLastStep() {
	s.Equal(wizard.StepCompanyInfo, s.session.Current())
	for i := 0; i < 10; i++ {
		s.session.Advance()
	}
	s.Equal(wizard.StepAgreements, s.session.Current())
	// One progress event per actually-completed step, none for the capped calls.
	s.Equal([]wizard.Step{
		wizard.StepCompanyInfo,
		wizard.StepOwners,
		wizard.StepBankReference,
		wizard.StepTradeReferences,
		wizard.StepSalesProfile,
	}, s.completed)
}

func (s *WizardTestSuite) TestNavigation_RetreatFloorsAtFirstStep() {
	s.session.Retreat()
	s.Equal(wizard.StepCompanyInfo, s.session.Current())

	s.session.Advance()
	s.session.Advance()
	s.Equal(wizard.StepBankReference, s.session.Current())
	s.session.Retreat()
	s.Equal(wizard.StepOwners, s.session.Current())
}

func (s *WizardTestSuite) TestNavigation_ForwardJumpRejected() {
	s.session.Advance() // at owners
	err := s.session.JumpTo(wizard.StepSalesProfile)
	s.ErrorIs(err, wizard.ErrForwardJump)
	s.Equal(wizard.StepOwners, s.session.Current())

	// Jumping to the current step is also rejected.
	s.ErrorIs(s.session.JumpTo(wizard.StepOwners), wizard.ErrForwardJump)
	s.Equal(wizard.StepOwners, s.session.Current())
}

func (s *WizardTestSuite) TestNavigation_BackwardJumpAllowed() {
	s.session.Advance()
	s.session.Advance()
	s.session.Advance() // at tradeReferences
	s.NoError(s.session.JumpTo(wizard.StepCompanyInfo))
	s.Equal(wizard.StepCompanyInfo, s.session.Current())
}

func (s *WizardTestSuite) TestStepData_SurvivesBackNavigation() {
	bank := dto.BankReferencePayload{
		BankName:           "First Keystone Bank",
		ContactName:        "Mary Teller",
		Phone:              "717-555-0150",
		City:               "Harrisburg",
		State:              "PA",
		AccountNumberLast4: "1234",
	}
	s.session.Advance()
	s.session.Advance() // at bankReference
	s.Require().NoError(s.session.SetBankReference(bank))

	s.session.Retreat()
	s.session.Retreat()
	s.session.Advance()
	s.session.Advance()
	s.Equal(bank, s.session.BankReference())
}

func (s *WizardTestSuite) TestOwners_StartsWithOneRow() {
	s.Len(s.session.Owners(), 1)
}

func (s *WizardTestSuite) TestOwners_AddThenRemoveIsInverse() {
	s.Require().NoError(s.session.UpdateOwner(0, dto.OwnerPayload{Name: "Jane Doe"}))
	before := s.session.Owners()

	idx, err := s.session.AddOwner()
	s.Require().NoError(err)
	s.Equal(1, idx)
	s.Require().NoError(s.session.UpdateOwner(idx, dto.OwnerPayload{Name: "John Roe"}))
	s.Len(s.session.Owners(), 2)

	s.Require().NoError(s.session.RemoveOwner(idx))
	s.Equal(before, s.session.Owners())
}

func (s *WizardTestSuite) TestOwners_RemoveReindexes() {
	s.Require().NoError(s.session.UpdateOwner(0, dto.OwnerPayload{Name: "A"}))
	_, err := s.session.AddOwner()
	s.Require().NoError(err)
	s.Require().NoError(s.session.UpdateOwner(1, dto.OwnerPayload{Name: "B"}))
	_, err = s.session.AddOwner()
	s.Require().NoError(err)
	s.Require().NoError(s.session.UpdateOwner(2, dto.OwnerPayload{Name: "C"}))

	s.Require().NoError(s.session.RemoveOwner(1))
	owners := s.session.Owners()
	s.Require().Len(owners, 2)
	s.Equal("A", owners[0].Name)
	s.Equal("C", owners[1].Name)
}

func (s *WizardTestSuite) TestOwners_CannotRemoveLast() {
	s.ErrorIs(s.session.RemoveOwner(0), wizard.ErrLastOwner)
	s.Len(s.session.Owners(), 1)
}

func (s *WizardTestSuite) TestOwners_IndexBounds() {
	s.ErrorIs(s.session.UpdateOwner(5, dto.OwnerPayload{}), wizard.ErrIndexOutOfRange)
	s.ErrorIs(s.session.RemoveOwner(-1), wizard.ErrIndexOutOfRange)
}

func (s *WizardTestSuite) TestTradeReferences_FixedArity() {
	s.Len(s.session.TradeReferences(), wizard.TradeReferenceCount)
	s.ErrorIs(s.session.SetTradeReference(3, dto.TradeReferencePayload{}), wizard.ErrIndexOutOfRange)

	ref := dto.TradeReferencePayload{CompanyName: "Keystone Lubricants"}
	s.Require().NoError(s.session.SetTradeReference(1, ref))
	refs := s.session.TradeReferences()
	s.Len(refs, wizard.TradeReferenceCount)
	s.Equal(ref, refs[1])
}

func (s *WizardTestSuite) TestSignature_ClearAndRedraw() {
	s.Require().NoError(s.session.SetAgreements(dto.AgreementsPayload{Signature: "artifact-1"}))
	s.Require().NoError(s.session.ClearSignature())
	s.Empty(s.session.Agreements().Signature)

	agr := s.session.Agreements()
	agr.Signature = "artifact-2"
	s.Require().NoError(s.session.SetAgreements(agr))
	s.Equal("artifact-2", s.session.Agreements().Signature)
}

func (s *WizardTestSuite) TestAttachFile_SingletonsReplaceOthersAccumulate() {
	s.Require().NoError(s.session.AttachFile(wizard.FileW9, "w9-v1.pdf", []byte("a")))
	s.Require().NoError(s.session.AttachFile(wizard.FileW9, "w9-v2.pdf", []byte("b")))
	s.Require().NoError(s.session.AttachFile(wizard.FileOtherDoc, "contract.pdf", []byte("c")))
	s.Require().NoError(s.session.AttachFile(wizard.FileOtherDoc, "permit.pdf", []byte("d")))

	files := s.session.Files()
	s.Require().Len(files, 3)
	s.Equal("w9-v2.pdf", files[0].FileName)
}

func (s *WizardTestSuite) TestAttachFile_UnknownKindRejected() {
	err := s.session.AttachFile("resume", "resume.pdf", []byte("x"))
	s.ErrorIs(err, wizard.ErrUnknownFileKind)
	s.Empty(s.session.Files())
}

func (s *WizardTestSuite) TestSubmit_ValidAggregateSubmitsOnce() {
	s.fillValid()
	s.Require().NoError(s.session.AttachFile(wizard.FileW9, "w9.pdf", []byte("pdf")))

	want := &wizard.Result{SubmissionID: "sub-123", PDFURL: "https://example.com/doc"}
	s.submitter.On("Submit", mock.Anything, mock.AnythingOfType("dto.CreditApplicationRequest"), mock.Anything).
		Return(want, nil).Once()

	res, err := s.session.Submit(context.Background())
	s.Require().NoError(err)
	s.Equal("sub-123", res.SubmissionID)

	got, ok := s.session.Submitted()
	s.True(ok)
	s.Equal(want, got)

	// Terminal state: further edits and a second submit are rejected.
	s.ErrorIs(s.session.SetCompanyInfo(dto.CompanyInfoPayload{}), wizard.ErrAlreadySubmitted)
	_, err = s.session.Submit(context.Background())
	s.ErrorIs(err, wizard.ErrAlreadySubmitted)

	s.submitter.AssertExpectations(s.T())
}

func (s *WizardTestSuite) TestSubmit_ValidationFailureSendsNothing() {
	s.fillValid()
	agr := s.session.Agreements()
	agr.PrivacyPolicyConsent = false
	s.Require().NoError(s.session.SetAgreements(agr))

	_, err := s.session.Submit(context.Background())
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)

	var verr *apperrors.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.NotEmpty(verr.Fields)

	_, ok := s.session.Submitted()
	s.False(ok)
	s.submitter.AssertNotCalled(s.T(), "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func (s *WizardTestSuite) TestSubmit_ServerFailureKeepsDataIntact() {
	s.fillValid()
	s.submitter.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	_, err := s.session.Submit(context.Background())
	s.ErrorIs(err, wizard.ErrSubmitFailed)

	// Still editable with data intact; a retry can succeed.
	_, ok := s.session.Submitted()
	s.False(ok)
	s.Equal("Acme LLC", s.session.CompanyInfo().LegalName)

	s.submitter.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(&wizard.Result{SubmissionID: "sub-456", PDFURL: "u"}, nil).Once()
	res, err := s.session.Submit(context.Background())
	s.Require().NoError(err)
	s.Equal("sub-456", res.SubmissionID)
	s.submitter.AssertExpectations(s.T())
}

func (s *WizardTestSuite) TestSubmit_InFlightGuard() {
	s.fillValid()

	started := make(chan struct{})
	release := make(chan struct{})
	s.submitter.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&wizard.Result{SubmissionID: "sub-789", PDFURL: "u"}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.session.Submit(context.Background())
		done <- err
	}()

	<-started
	_, err := s.session.Submit(context.Background())
	s.ErrorIs(err, wizard.ErrSubmitInFlight)

	close(release)
	s.NoError(<-done)
}

func TestWizardTestSuite(t *testing.T) {
	suite.Run(t, new(WizardTestSuite))
}
