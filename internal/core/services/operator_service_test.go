package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/services"
)

// --- Mock Operator Repository ---
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindOperatorByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) SaveOperator(ctx context.Context, operator domain.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, expiryTime time.Time) error {
	args := m.Called(ctx, operatorID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockOperatorRepository) ClearRefreshToken(ctx context.Context, operatorID string) error {
	args := m.Called(ctx, operatorID)
	return args.Error(0)
}

var _ portsrepo.OperatorRepositoryFacade = (*MockOperatorRepository)(nil)

type OperatorServiceTestSuite struct {
	suite.Suite
	mockRepo *MockOperatorRepository
	service  portssvc.OperatorSvcFacade
}

func (suite *OperatorServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockOperatorRepository)
	suite.service = services.NewOperatorService(suite.mockRepo)
}

func (suite *OperatorServiceTestSuite) TestResolveOperatorFromGoogle_KnownEmail() {
	ctx := context.Background()
	operator := &domain.Operator{
		OperatorID: uuid.NewString(),
		Username:   "dispatch1",
		Email:      "dispatch@ridgelinefuels.com",
	}

	suite.mockRepo.On("FindOperatorByEmail", ctx, "dispatch@ridgelinefuels.com").Return(operator, nil).Once()

	got, err := suite.service.ResolveOperatorFromGoogle(ctx, &domain.GoogleUserInfo{
		Email:         "Dispatch@RidgelineFuels.com",
		VerifiedEmail: true,
	})

	suite.Require().NoError(err)
	suite.Equal(operator.OperatorID, got.OperatorID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *OperatorServiceTestSuite) TestResolveOperatorFromGoogle_UnknownEmailRejected() {
	ctx := context.Background()

	suite.mockRepo.On("FindOperatorByEmail", ctx, "stranger@gmail.com").Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.ResolveOperatorFromGoogle(ctx, &domain.GoogleUserInfo{
		Email:         "stranger@gmail.com",
		VerifiedEmail: true,
	})

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	// A sign-in from an unrecognised account must never create one.
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveOperator", mock.Anything, mock.Anything)
}

func (suite *OperatorServiceTestSuite) TestResolveOperatorFromGoogle_UnverifiedEmailRejected() {
	got, err := suite.service.ResolveOperatorFromGoogle(context.Background(), &domain.GoogleUserInfo{
		Email:         "dispatch@ridgelinefuels.com",
		VerifiedEmail: false,
	})

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindOperatorByEmail", mock.Anything, mock.Anything)
}

func (suite *OperatorServiceTestSuite) TestAuthenticateOperator_WrongPassword() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	suite.Require().NoError(err)
	operator := &domain.Operator{
		OperatorID:   uuid.NewString(),
		Username:     "dispatch1",
		PasswordHash: string(hash),
	}

	suite.mockRepo.On("FindOperatorByUsername", ctx, "dispatch1").Return(operator, nil).Once()

	got, err := suite.service.AuthenticateOperator(ctx, "dispatch1", "battery-staple")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *OperatorServiceTestSuite) TestAuthenticateOperator_Success() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	suite.Require().NoError(err)
	operator := &domain.Operator{
		OperatorID:   uuid.NewString(),
		Username:     "dispatch1",
		PasswordHash: string(hash),
	}

	suite.mockRepo.On("FindOperatorByUsername", ctx, "dispatch1").Return(operator, nil).Once()

	got, err := suite.service.AuthenticateOperator(ctx, "dispatch1", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal(operator.OperatorID, got.OperatorID)
}

func TestOperatorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OperatorServiceTestSuite))
}
