package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/handlers"
	"github.com/pumpledger/pump_ledger_app/internal/platform/config"
)

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

// Ensure mock implements the interface
var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

func (m *MockVoucherService) GetVoucherByID(ctx context.Context, pumpID string, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) ListVouchers(ctx context.Context, pumpID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, pumpID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, pumpID string, req dto.CreateVoucherRequest, creatorID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) UpdateVoucher(ctx context.Context, pumpID string, voucherID string, req dto.UpdateVoucherRequest, updaterID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID, req, updaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) ApproveVoucher(ctx context.Context, pumpID string, voucherID string, approverID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) PostVoucher(ctx context.Context, pumpID string, voucherID string, posterID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID, posterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) CancelVoucher(ctx context.Context, pumpID string, voucherID string, cancellerID string, reason string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID, cancellerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) ReconcileVoucher(ctx context.Context, pumpID string, voucherID string, reconcilerID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID, reconcilerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) UnreconcileVoucher(ctx context.Context, pumpID string, voucherID string, reconcilerID string) (*domain.Voucher, error) {
	args := m.Called(ctx, pumpID, voucherID, reconcilerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

// --- Test Suite ---
type VoucherHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockVoucherService *MockVoucherService
	pumpID             string
	actorID            string
}

func (suite *VoucherHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockVoucherService = new(MockVoucherService)
	container := &portssvc.ServiceContainer{Voucher: suite.mockVoucherService}
	handlers.RegisterRoutes(suite.router, &config.Config{}, container)

	suite.pumpID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *VoucherHandlerTestSuite) serve(method, url string, body any, withActor bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if withActor {
		req.Header.Set("X-Actor-ID", suite.actorID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *VoucherHandlerTestSuite) sampleVoucher() *domain.Voucher {
	return &domain.Voucher{
		VoucherID:     uuid.NewString(),
		PumpID:        suite.pumpID,
		VoucherNumber: "CRV202608280001",
		VoucherType:   domain.CustomerReceipt,
		VoucherDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.NewFromInt(500),
		Status:        domain.StatusDraft,
	}
}

func (suite *VoucherHandlerTestSuite) sampleCreateRequest() dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		VoucherType: string(domain.CustomerReceipt),
		VoucherDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Entries: []dto.CreateVoucherEntryRequest{
			{AccountID: uuid.NewString(), EntryType: "DEBIT", Amount: decimal.NewFromInt(500)},
			{AccountID: uuid.NewString(), EntryType: "CREDIT", Amount: decimal.NewFromInt(500)},
		},
	}
}

// --- Test Cases ---

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_Success() {
	expected := suite.sampleVoucher()
	suite.mockVoucherService.On("CreateVoucher",
		mock.Anything, suite.pumpID, mock.AnythingOfType("dto.CreateVoucherRequest"), suite.actorID).
		Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers", suite.pumpID)
	w := suite.serve(http.MethodPost, url, suite.sampleCreateRequest(), true)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.VoucherID, resp.VoucherID)
	suite.Equal(expected.VoucherNumber, resp.VoucherNumber)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_MissingActorHeader() {
	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers", suite.pumpID)
	w := suite.serve(http.MethodPost, url, suite.sampleCreateRequest(), false)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CreateVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_SingleEntryFailsBinding() {
	req := suite.sampleCreateRequest()
	req.Entries = req.Entries[:1]

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers", suite.pumpID)
	w := suite.serve(http.MethodPost, url, req, true)

	// The min=2 binding rule rejects the payload before the service runs.
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CreateVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherHandlerTestSuite) TestGetVoucher_NotFound() {
	voucherID := uuid.NewString()
	suite.mockVoucherService.On("GetVoucherByID", mock.Anything, suite.pumpID, voucherID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers/%s", suite.pumpID, voucherID)
	w := suite.serve(http.MethodGet, url, nil, false)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestPostVoucher_AlreadyPostedConflicts() {
	voucherID := uuid.NewString()
	suite.mockVoucherService.On("PostVoucher", mock.Anything, suite.pumpID, voucherID, suite.actorID).
		Return(nil, fmt.Errorf("%w: voucher CRV202608280001", apperrors.ErrAlreadyPosted)).Once()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers/%s/post", suite.pumpID, voucherID)
	w := suite.serve(http.MethodPost, url, nil, true)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestApproveVoucher_Success() {
	voucher := suite.sampleVoucher()
	voucher.Status = domain.StatusApproved
	suite.mockVoucherService.On("ApproveVoucher", mock.Anything, suite.pumpID, voucher.VoucherID, suite.actorID).
		Return(voucher, nil).Once()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers/%s/approve", suite.pumpID, voucher.VoucherID)
	w := suite.serve(http.MethodPost, url, nil, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusApproved), resp.Status)
}

func (suite *VoucherHandlerTestSuite) TestCancelVoucher_ReasonRequired() {
	voucherID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers/%s/cancel", suite.pumpID, voucherID)
	w := suite.serve(http.MethodPost, url, map[string]string{}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CancelVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherHandlerTestSuite) TestCancelVoucher_ReturnsReversal() {
	voucherID := uuid.NewString()
	reversal := suite.sampleVoucher()
	reversal.VoucherType = domain.JournalVoucher
	reversal.Status = domain.StatusPosted
	reversal.ReversalOfVoucherID = &voucherID

	suite.mockVoucherService.On("CancelVoucher", mock.Anything, suite.pumpID, voucherID, suite.actorID, "duplicate entry").
		Return(reversal, nil).Once()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers/%s/cancel", suite.pumpID, voucherID)
	w := suite.serve(http.MethodPost, url, dto.CancelVoucherRequest{Reason: "duplicate entry"}, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.JournalVoucher), resp.VoucherType)
	suite.Require().NotNil(resp.ReversalOfVoucherID)
	suite.Equal(voucherID, *resp.ReversalOfVoucherID)
}

func (suite *VoucherHandlerTestSuite) TestListVouchers_PassesFilters() {
	status := "POSTED"
	suite.mockVoucherService.On("ListVouchers", mock.Anything, suite.pumpID, mock.MatchedBy(func(p dto.ListVouchersParams) bool {
		return p.Limit == 10 && p.Status != nil && *p.Status == status
	})).Return(&dto.ListVouchersResponse{Vouchers: []dto.VoucherResponse{}}, nil).Once()

	url := fmt.Sprintf("/api/v1/pumps/%s/vouchers?limit=10&status=POSTED", suite.pumpID)
	w := suite.serve(http.MethodGet, url, nil, false)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func TestVoucherHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherHandlerTestSuite))
}
