package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/handlers"
	"github.com/ridgelinefuels/fuel_credit_app/internal/middleware"
	"github.com/ridgelinefuels/fuel_credit_app/internal/platform/config"
)

// --- Mock ApplicationService ---
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) SubmitApplication(ctx context.Context, req dto.CreditApplicationRequest, files []portssvc.SubmittedFile, remoteIP string) (*domain.CreditApplication, error) {
	args := m.Called(ctx, req, files, remoteIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditApplication), args.Error(1)
}

func (m *MockApplicationService) ReviewApplication(ctx context.Context, applicationID string, req dto.UpdateApplicationRequest, reviewerID string) (*domain.CreditApplication, error) {
	args := m.Called(ctx, applicationID, req, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditApplication), args.Error(1)
}

func (m *MockApplicationService) GetApplicationByID(ctx context.Context, applicationID string) (*domain.CreditApplication, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditApplication), args.Error(1)
}

func (m *MockApplicationService) ListApplications(ctx context.Context, status string, limit, offset int) ([]domain.CreditApplication, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditApplication), args.Error(1)
}

func (m *MockApplicationService) OpenDocument(ctx context.Context, applicationID string) (io.ReadCloser, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockApplicationService) OpenAttachment(ctx context.Context, applicationID string, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	args := m.Called(ctx, applicationID, attachmentID)
	var att *domain.Attachment
	if args.Get(0) != nil {
		att = args.Get(0).(*domain.Attachment)
	}
	var rc io.ReadCloser
	if args.Get(1) != nil {
		rc = args.Get(1).(io.ReadCloser)
	}
	return att, rc, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.ApplicationSvcFacade = (*MockApplicationService)(nil)

// --- Test Suite ---
type ApplicationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockApplicationService
	jwtSecret   string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ApplicationHandlerTestSuite) generateTestToken(operatorID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fca-test",
		Subject:   operatorID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ApplicationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockService = new(MockApplicationService)

	cfg := &config.Config{PublicBaseURL: "https://credit.example.com"}

	public := suite.router.Group("/api/v1")
	handlers.RegisterApplicationIntakeRoutes(public, suite.mockService, cfg)

	admin := suite.router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterApplicationAdminRoutes(admin, suite.mockService, cfg)
}

// submissionBody builds a multipart form with the given application JSON and
// optional file parts keyed by part name.
func (suite *ApplicationHandlerTestSuite) submissionBody(applicationJSON string, fileParts map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if applicationJSON != "" {
		err := writer.WriteField("application", applicationJSON)
		suite.Require().NoError(err)
	}
	for name, content := range fileParts {
		part, err := writer.CreateFormFile(name, name+".pdf")
		suite.Require().NoError(err)
		_, err = part.Write([]byte(content))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())
	return body, writer.FormDataContentType()
}

func validRequestJSON() string {
	return `{
		"companyInfo": {
			"legalName": "Acme LLC",
			"entityType": "LLC",
			"taxId": "12-3456789",
			"yearsInBusiness": 7,
			"billingAddress": {"street": "100 Terminal Rd", "city": "Harrisburg", "state": "PA", "zip": "17101"},
			"apContactName": "Pat Jones",
			"apContactEmail": "ap@acmellc.com",
			"apContactPhone": "717-555-0100"
		},
		"owners": [{
			"name": "Jane Doe", "title": "President",
			"homeAddress": {"street": "100 Terminal Rd", "city": "Harrisburg", "state": "PA", "zip": "17101"},
			"ownershipPercent": "100", "phone": "(717) 555-0142", "email": "jane@acmellc.com",
			"personalGuaranty": true
		}],
		"bankReference": {
			"bankName": "First Keystone Bank", "contactName": "Mary Teller",
			"phone": "717.555.0150", "city": "Harrisburg", "state": "PA",
			"accountNumberLast4": "1234"
		},
		"tradeReferences": [
			{"companyName": "Keystone Lubricants", "contactName": "Bob Smith", "email": "ap@keystonelube.com", "phone": "7175550188"},
			{"companyName": "Keystone Lubricants", "contactName": "Bob Smith", "email": "ap@keystonelube.com", "phone": "7175550188"},
			{"companyName": "Keystone Lubricants", "contactName": "Bob Smith", "email": "ap@keystonelube.com", "phone": "7175550188"}
		],
		"salesProfile": {"products": ["Fuel", "DEF"], "estimatedMonthlyVolume": "8000", "deliveryCities": "Harrisburg, York"},
		"agreements": {
			"privacyPolicyConsent": true, "creditInquiryConsent": true, "communicationsConsent": true,
			"signerName": "Jane Doe", "signerTitle": "President",
			"signature": "data:image/png;base64,iVBORw0KGgo="
		}
	}`
}

// --- Submission Tests ---

func (suite *ApplicationHandlerTestSuite) TestSubmitApplication_Success() {
	appID := uuid.NewString()
	submitted := &domain.CreditApplication{ApplicationID: appID, Status: domain.StatusNew}

	suite.mockService.On("SubmitApplication",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreditApplicationRequest) bool {
			return req.CompanyInfo.LegalName == "Acme LLC" && len(req.Owners) == 1
		}),
		mock.MatchedBy(func(files []portssvc.SubmittedFile) bool {
			return len(files) == 2 && files[0].Kind == "w9" && files[1].Kind == "otherDoc1"
		}),
		mock.AnythingOfType("string"),
	).Return(submitted, nil).Once()

	body, contentType := suite.submissionBody(validRequestJSON(), map[string]string{
		"w9":        "w9 content",
		"otherDoc1": "supporting doc",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credit-applications", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.SubmissionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(appID, resp.SubmissionID)
	suite.Equal(fmt.Sprintf("https://credit.example.com/api/v1/credit-applications/%s/document", appID), resp.PDFURL)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestSubmitApplication_OtherDocsNumericOrder() {
	appID := uuid.NewString()
	submitted := &domain.CreditApplication{ApplicationID: appID, Status: domain.StatusNew}

	suite.mockService.On("SubmitApplication",
		mock.Anything,
		mock.Anything,
		mock.MatchedBy(func(files []portssvc.SubmittedFile) bool {
			return len(files) == 3 &&
				files[0].Kind == "w9" &&
				files[1].Kind == "otherDoc2" &&
				files[2].Kind == "otherDoc10"
		}),
		mock.AnythingOfType("string"),
	).Return(submitted, nil).Once()

	body, contentType := suite.submissionBody(validRequestJSON(), map[string]string{
		"otherDoc10": "tenth doc",
		"w9":         "w9 content",
		"otherDoc2":  "second doc",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credit-applications", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestSubmitApplication_BodyTooLarge() {
	oversized := string(bytes.Repeat([]byte("x"), 33<<20))
	body, contentType := suite.submissionBody(validRequestJSON(), map[string]string{"w9": oversized})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credit-applications", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "SubmitApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApplicationHandlerTestSuite) TestSubmitApplication_ValidationFailure() {
	vErr := apperrors.NewValidationError(
		apperrors.FieldError{Field: "bankReference.accountNumberLast4", Reason: "must be exactly 4 digits"},
		apperrors.FieldError{Field: "agreements.creditInquiryConsent", Reason: "must be accepted"},
	)
	suite.mockService.On("SubmitApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, vErr).Once()

	body, contentType := suite.submissionBody(validRequestJSON(), nil)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credit-applications", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.FieldErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("validation failed", resp.Error)
	suite.Require().Len(resp.Fields, 2)
	suite.Equal("bankReference.accountNumberLast4", resp.Fields[0].Field)
	suite.Equal("must be exactly 4 digits", resp.Fields[0].Reason)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestSubmitApplication_MissingApplicationPart() {
	body, contentType := suite.submissionBody("", map[string]string{"w9": "w9 content"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credit-applications", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.FieldErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Fields, 1)
	suite.Equal("application", resp.Fields[0].Field)
	suite.mockService.AssertNotCalled(suite.T(), "SubmitApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApplicationHandlerTestSuite) TestSubmitApplication_MalformedJSON() {
	body, contentType := suite.submissionBody("{not json", nil)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credit-applications", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "SubmitApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Admin Route Tests ---

func (suite *ApplicationHandlerTestSuite) TestListApplications_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/applications", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListApplications", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApplicationHandlerTestSuite) TestListApplications_Success() {
	operatorID := uuid.NewString()
	expected := []domain.CreditApplication{{
		ApplicationID: uuid.NewString(),
		Status:        domain.StatusNew,
		CompanyInfo:   domain.CompanyInfo{LegalName: "Acme LLC", EntityType: domain.LLC},
	}}

	suite.mockService.On("ListApplications", mock.Anything, "New", 10, 0).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/applications?status=New&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(operatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListApplicationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Applications, 1)
	suite.Equal("Acme LLC", resp.Applications[0].CompanyInfo.LegalName)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestGetApplication_NotFound() {
	appID := uuid.NewString()
	suite.mockService.On("GetApplicationByID", mock.Anything, appID).Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/applications/"+appID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestUpdateApplication_Success() {
	appID := uuid.NewString()
	operatorID := uuid.NewString()
	newStatus := string(domain.StatusUnderReview)
	updated := &domain.CreditApplication{ApplicationID: appID, Status: domain.StatusUnderReview}

	suite.mockService.On("ReviewApplication",
		mock.Anything,
		appID,
		mock.MatchedBy(func(req dto.UpdateApplicationRequest) bool {
			return req.Status != nil && *req.Status == newStatus
		}),
		operatorID,
	).Return(updated, nil).Once()

	payload, _ := json.Marshal(dto.UpdateApplicationRequest{Status: &newStatus})
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/admin/applications/"+appID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(operatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ApplicationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusUnderReview), resp.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestUpdateApplication_InvalidTransition() {
	appID := uuid.NewString()
	newStatus := string(domain.StatusApproved)
	transitionErr := fmt.Errorf("cannot transition from %q to %q: %w", domain.StatusNew, domain.StatusApproved, apperrors.ErrValidation)

	suite.mockService.On("ReviewApplication", mock.Anything, appID, mock.Anything, mock.AnythingOfType("string")).
		Return(nil, transitionErr).Once()

	payload, _ := json.Marshal(dto.UpdateApplicationRequest{Status: &newStatus})
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/admin/applications/"+appID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestUpdateApplication_EmptyBody() {
	appID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/admin/applications/"+appID, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ReviewApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApplicationHandlerTestSuite) TestDownloadAttachment_Success() {
	appID := uuid.NewString()
	attID := uuid.NewString()
	att := &domain.Attachment{
		AttachmentID: attID,
		Kind:         "w9",
		FileName:     "w9.pdf",
		ContentType:  "application/pdf",
	}
	body := io.NopCloser(strings.NewReader("w9 content"))

	suite.mockService.On("OpenAttachment", mock.Anything, appID, attID).Return(att, body, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/applications/"+appID+"/attachments/"+attID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "w9.pdf")
	suite.Equal("w9 content", w.Body.String())
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestDownloadDocument_PublicWithoutToken() {
	appID := uuid.NewString()
	doc := io.NopCloser(strings.NewReader("<html>confirmation</html>"))

	suite.mockService.On("OpenDocument", mock.Anything, appID).Return(doc, nil).Once()

	// The link handed back to the applicant must work without operator
	// credentials.
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/credit-applications/"+appID+"/document", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "text/html")
	suite.Equal("<html>confirmation</html>", w.Body.String())
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApplicationHandlerTestSuite) TestDownloadDocument_NotFound() {
	appID := uuid.NewString()
	suite.mockService.On("OpenDocument", mock.Anything, appID).Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/applications/"+appID+"/document", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func TestApplicationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationHandlerTestSuite))
}
