package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/core/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements the full facade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, pumpID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, pumpID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, pumpID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, pumpID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, pumpID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, pumpID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, pumpID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, pumpID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindActiveAccounts(ctx context.Context, pumpID string) ([]domain.Account, error) {
	args := m.Called(ctx, pumpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, pumpID string, accountID string) error {
	args := m.Called(ctx, pumpID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateReconciliation(ctx context.Context, pumpID string, accountID string, reconciledBy string, at time.Time) error {
	args := m.Called(ctx, pumpID, accountID, reconciledBy, at)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	pumpID   string
	actorID  string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.pumpID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "DIESELSALES",
		Name:           "Diesel Sales",
		AccountType:    "INCOME",
		AccountGroup:   string(domain.GroupDirectIncome),
		OpeningBalance: decimal.Zero,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, "DIESELSALES").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.pumpID, account.PumpID)
	suite.Equal(domain.Income, account.AccountType)
	suite.Equal(domain.CreditBalance, account.BalanceType)
	suite.True(account.IsActive)
	suite.False(account.IsSystemAccount)
	suite.Equal(suite.actorID, account.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DerivesDebitBalanceForAssets() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "PUMPCASH",
		Name:           "Pump Cash",
		AccountType:    "ASSET",
		AccountGroup:   string(domain.GroupCurrentAssets),
		OpeningBalance: decimal.NewFromInt(5000),
	}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, "PUMPCASH").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DebitBalance, account.BalanceType)
	suite.True(account.CurrentBalance.Equal(decimal.NewFromInt(5000)))
	suite.True(account.OpeningBalance.Equal(decimal.NewFromInt(5000)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidCodeFormat() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "bad-code!",
		Name:        "Bad",
		AccountType: "ASSET",
	}

	_, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidFormat)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidGSTNumber() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "VENDOR01",
		Name:        "Vendor",
		AccountType: "LIABILITY",
		GSTNumber:   "NOTAGSTNUMBER",
	}

	_, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidFormat)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ValidGSTAndPAN() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "VENDOR01",
		Name:        "Vendor",
		AccountType: "LIABILITY",
		GSTNumber:   "27ABCDE1234F1Z5",
		PANNumber:   "ABCDE1234F",
	}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, "VENDOR01").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("27ABCDE1234F1Z5", account.GSTNumber)
	suite.Equal("ABCDE1234F", account.PANNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeOpeningBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "CASH01",
		Name:           "Cash",
		AccountType:    "ASSET",
		OpeningBalance: decimal.NewFromInt(-100),
	}

	_, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "CASH",
		Name:        "Cash",
		AccountType: "ASSET",
	}
	existing := &domain.Account{AccountID: uuid.NewString(), PumpID: suite.pumpID, Code: "CASH"}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, "CASH").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.pumpID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateCode)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_LockedAccountRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	locked := &domain.Account{
		AccountID: accountID,
		PumpID:    suite.pumpID,
		Code:      "CAPITAL",
		IsLocked:  true,
	}
	newName := "Renamed"

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(locked, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.pumpID, accountID, dto.UpdateAccountRequest{Name: &newName}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLocked)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CodeAndTypeChange() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		PumpID:      suite.pumpID,
		Code:        "MISC",
		AccountType: domain.Expense,
		BalanceType: domain.DebitBalance,
	}
	newCode := "RENT"
	newType := "LIABILITY"

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(account, nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, "RENT").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.pumpID, accountID, dto.UpdateAccountRequest{Code: &newCode, AccountType: &newType}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("RENT", updated.Code)
	suite.Equal(domain.Liability, updated.AccountType)
	// Changing the type re-derives the natural balance side.
	suite.Equal(domain.CreditBalance, updated.BalanceType)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CodeChangeDuplicateRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, PumpID: suite.pumpID, Code: "MISC"}
	taken := &domain.Account{AccountID: uuid.NewString(), PumpID: suite.pumpID, Code: "RENT"}
	newCode := "RENT"

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(account, nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, "RENT").Return(taken, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.pumpID, accountID, dto.UpdateAccountRequest{Code: &newCode}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateCode)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SystemAccountIdentityProtected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	system := &domain.Account{
		AccountID:       accountID,
		PumpID:          suite.pumpID,
		Code:            "CASH",
		IsSystemAccount: true,
	}
	newType := "LIABILITY"

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(system, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.pumpID, accountID, dto.UpdateAccountRequest{AccountType: &newType}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSystemAccountProtected)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_OpeningBalanceShiftsCurrentBalance() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:      accountID,
		PumpID:         suite.pumpID,
		Code:           "CASH",
		AccountType:    domain.Asset,
		BalanceType:    domain.DebitBalance,
		OpeningBalance: decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1500),
	}
	newOpening := decimal.NewFromInt(2000)

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(account, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.pumpID, accountID, dto.UpdateAccountRequest{OpeningBalance: &newOpening}, suite.actorID)

	suite.Require().NoError(err)
	suite.True(updated.OpeningBalance.Equal(decimal.NewFromInt(2000)))
	// Ledger movement of +500 is preserved on top of the new opening.
	suite.True(updated.CurrentBalance.Equal(decimal.NewFromInt(2500)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_SystemAccountProtected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	system := &domain.Account{
		AccountID:       accountID,
		PumpID:          suite.pumpID,
		Code:            "CASH",
		IsSystemAccount: true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(system, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.pumpID, accountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSystemAccountProtected)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_LockedRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	locked := &domain.Account{AccountID: accountID, PumpID: suite.pumpID, Code: "BANK", IsLocked: true}

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(locked, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.pumpID, accountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLocked)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, PumpID: suite.pumpID, Code: "TEMP"}

	suite.mockRepo.On("FindAccountByID", ctx, suite.pumpID, accountID).Return(account, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, suite.pumpID, accountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.pumpID, accountID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSeedDefaultChart_CreatesAllWhenEmpty() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Times(8)
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Times(8)

	created, err := suite.service.SeedDefaultChart(ctx, suite.pumpID, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(created, 8)
	codes := make(map[string]domain.Account, len(created))
	for _, a := range created {
		suite.True(a.IsSystemAccount)
		suite.True(a.IsActive)
		suite.True(a.OpeningBalance.IsZero())
		codes[a.Code] = a
	}
	suite.Contains(codes, "CASH")
	suite.Contains(codes, "SALES")
	suite.Equal(domain.DebitBalance, codes["CASH"].BalanceType)
	suite.Equal(domain.CreditBalance, codes["SALES"].BalanceType)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSeedDefaultChart_Idempotent() {
	ctx := context.Background()
	// Every code already exists, so nothing is created.
	suite.mockRepo.On("FindAccountByCode", ctx, suite.pumpID, mock.AnythingOfType("string")).
		Return(&domain.Account{AccountID: uuid.NewString()}, nil).Times(8)

	created, err := suite.service.SeedDefaultChart(ctx, suite.pumpID, suite.actorID)

	suite.Require().NoError(err)
	suite.Empty(created)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
