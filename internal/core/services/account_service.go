package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
)

var (
	accountCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)
	gstPattern         = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern         = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
)

// defaultChartSpec describes one account of the standard system chart seeded
// for every pump.
type defaultChartSpec struct {
	Code         string
	Name         string
	AccountType  domain.AccountType
	AccountGroup domain.AccountGroup
}

var defaultChart = []defaultChartSpec{
	{"CASH", "Cash in Hand", domain.Asset, domain.GroupCurrentAssets},
	{"BANK", "Bank Accounts", domain.Asset, domain.GroupCurrentAssets},
	{"INVENTORY", "Fuel & Lubricant Inventory", domain.Asset, domain.GroupCurrentAssets},
	{"ACCOUNTSPAYABLE", "Accounts Payable", domain.Liability, domain.GroupCurrentLiabilities},
	{"CAPITAL", "Owner Capital", domain.Equity, domain.GroupCapitalAccount},
	{"SALES", "Fuel Sales", domain.Income, domain.GroupDirectIncome},
	{"PURCHASES", "Fuel Purchases", domain.Expense, domain.GroupDirectExpenses},
	{"OPERATINGEXPENSES", "Operating Expenses", domain.Expense, domain.GroupIndirectExpenses},
}

// accountService implements the AccountSvcFacade interface.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account registry service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// validateIdentifiers checks account code and the optional tax identifiers
// against their formats.
func validateIdentifiers(code, gstNumber, panNumber string) error {
	if !accountCodePattern.MatchString(code) {
		return fmt.Errorf("%w: account code %q must match [A-Z0-9]{2,20}", apperrors.ErrInvalidFormat, code)
	}
	if gstNumber != "" && !gstPattern.MatchString(gstNumber) {
		return fmt.Errorf("%w: malformed GST number %q", apperrors.ErrInvalidFormat, gstNumber)
	}
	if panNumber != "" && !panPattern.MatchString(panNumber) {
		return fmt.Errorf("%w: malformed PAN %q", apperrors.ErrInvalidFormat, panNumber)
	}
	return nil
}

// normalizeOpeningBalance enforces the sign convention: opening balances are
// stored in the account's natural sign and must not be negative in it.
func normalizeOpeningBalance(opening decimal.Decimal, balanceType domain.BalanceType) (decimal.Decimal, error) {
	if opening.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: opening balance %s conflicts with %s-natured account",
			apperrors.ErrValidation, opening.String(), balanceType)
	}
	return opening, nil
}

func (s *accountService) CreateAccount(ctx context.Context, pumpID string, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	if err := validateIdentifiers(req.Code, req.GSTNumber, req.PANNumber); err != nil {
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)
	balanceType := accountType.NaturalBalanceType()

	opening, err := normalizeOpeningBalance(req.OpeningBalance, balanceType)
	if err != nil {
		return nil, err
	}

	// Uniqueness of (pumpID, code)
	existing, err := s.accountRepo.FindAccountByCode(ctx, pumpID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code uniqueness", slog.String("pump_id", pumpID), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: code %s in pump %s", apperrors.ErrDuplicateCode, req.Code, pumpID)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		PumpID:         pumpID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    accountType,
		AccountGroup:   domain.AccountGroup(req.AccountGroup),
		BalanceType:    balanceType,
		ParentCode:     req.ParentCode,
		GSTNumber:      req.GSTNumber,
		PANNumber:      req.PANNumber,
		OpeningBalance: opening,
		CurrentBalance: opening,
		IsLocked:       req.IsLocked,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("pump_id", pumpID), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code), slog.String("pump_id", pumpID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, pumpID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, pumpID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, pumpID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("pump_id", pumpID), slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, pumpID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, pumpID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, pumpID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, pumpID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, pumpID string, accountID string, req dto.UpdateAccountRequest, updaterID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID)
	if err != nil {
		return nil, err
	}

	if account.IsLocked {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrLocked, account.Code)
	}

	// Identity changes are off limits for seeded system accounts.
	if (req.Code != nil || req.AccountType != nil) && account.IsSystemAccount {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrSystemAccountProtected, account.Code)
	}
	if req.Code != nil && *req.Code != account.Code {
		if !accountCodePattern.MatchString(*req.Code) {
			return nil, fmt.Errorf("%w: account code %q must match [A-Z0-9]{2,20}", apperrors.ErrInvalidFormat, *req.Code)
		}
		existing, err := s.accountRepo.FindAccountByCode(ctx, pumpID, *req.Code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check account code uniqueness", slog.String("pump_id", pumpID), slog.String("code", *req.Code))
			return nil, fmt.Errorf("failed to check account code: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: code %s in pump %s", apperrors.ErrDuplicateCode, *req.Code, pumpID)
		}
		account.Code = *req.Code
	}
	if req.AccountType != nil {
		account.AccountType = domain.AccountType(*req.AccountType)
		account.BalanceType = account.AccountType.NaturalBalanceType()
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountGroup != nil {
		account.AccountGroup = domain.AccountGroup(*req.AccountGroup)
	}
	if req.ParentCode != nil {
		account.ParentCode = *req.ParentCode
	}
	if req.GSTNumber != nil || req.PANNumber != nil {
		gst, pan := account.GSTNumber, account.PANNumber
		if req.GSTNumber != nil {
			gst = *req.GSTNumber
		}
		if req.PANNumber != nil {
			pan = *req.PANNumber
		}
		if err := validateIdentifiers(account.Code, gst, pan); err != nil {
			return nil, err
		}
		account.GSTNumber = gst
		account.PANNumber = pan
	}
	if req.OpeningBalance != nil {
		opening, err := normalizeOpeningBalance(*req.OpeningBalance, account.BalanceType)
		if err != nil {
			return nil, err
		}
		// Shift the cached current balance by the opening delta so it stays
		// consistent with the ledger fold.
		account.CurrentBalance = account.CurrentBalance.Add(opening.Sub(account.OpeningBalance))
		account.OpeningBalance = opening
	}
	if req.IsLocked != nil {
		account.IsLocked = *req.IsLocked
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = updaterID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, pumpID string, accountID string, deleterID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID)
	if err != nil {
		return err
	}

	if account.IsSystemAccount {
		return fmt.Errorf("%w: account %s", apperrors.ErrSystemAccountProtected, account.Code)
	}
	if account.IsLocked {
		return fmt.Errorf("%w: account %s", apperrors.ErrLocked, account.Code)
	}

	if err := s.accountRepo.DeleteAccount(ctx, pumpID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("deleted_by", deleterID))
	return nil
}

// SeedDefaultChart idempotently creates the standard system account set for a
// pump. Accounts whose code already exists are left untouched.
func (s *accountService) SeedDefaultChart(ctx context.Context, pumpID string, creatorID string) ([]domain.Account, error) {
	now := time.Now().UTC()
	created := make([]domain.Account, 0, len(defaultChart))

	for _, spec := range defaultChart {
		existing, err := s.accountRepo.FindAccountByCode(ctx, pumpID, spec.Code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check existing chart account", slog.String("pump_id", pumpID), slog.String("code", spec.Code))
			return nil, fmt.Errorf("failed to check existing account %s: %w", spec.Code, err)
		}
		if existing != nil {
			continue
		}

		account := domain.Account{
			AccountID:       uuid.NewString(),
			PumpID:          pumpID,
			Code:            spec.Code,
			Name:            spec.Name,
			AccountType:     spec.AccountType,
			AccountGroup:    spec.AccountGroup,
			BalanceType:     spec.AccountType.NaturalBalanceType(),
			OpeningBalance:  decimal.Zero,
			CurrentBalance:  decimal.Zero,
			IsSystemAccount: true,
			IsActive:        true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			s.LogError(ctx, err, "Failed to seed chart account", slog.String("pump_id", pumpID), slog.String("code", spec.Code))
			return nil, fmt.Errorf("failed to seed account %s: %w", spec.Code, err)
		}
		created = append(created, account)
	}

	s.LogInfo(ctx, "Default chart seeded", slog.String("pump_id", pumpID), slog.Int("created", len(created)))
	return created, nil
}
