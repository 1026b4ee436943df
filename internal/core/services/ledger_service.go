package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
)

// ledgerService implements the LedgerSvcFacade interface.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger projection/balance service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ListEntries(ctx context.Context, pumpID string, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	// Account must exist within the pump; a bad ID is a 404, not an empty list.
	if _, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID); err != nil {
		return nil, err
	}

	if params.Limit <= 0 {
		params.Limit = 100
	}
	entries, nextToken, err := s.ledgerRepo.FindEntriesByAccount(ctx, pumpID, accountID, params.From, params.To, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// BalanceAsOf folds the opening balance with the natural-signed movement up to
// and including the date.
func (s *ledgerService) BalanceAsOf(ctx context.Context, pumpID string, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	movement, err := s.ledgerRepo.SumSignedMovement(ctx, pumpID, accountID, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger movement", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}

	return account.OpeningBalance.Add(movement), nil
}

// BalanceForPeriod returns the net natural-signed movement inside the range,
// excluding the opening balance.
func (s *ledgerService) BalanceForPeriod(ctx context.Context, pumpID string, accountID string, from, to time.Time) (decimal.Decimal, error) {
	if to.Before(from) {
		return decimal.Zero, fmt.Errorf("period end %s precedes start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID); err != nil {
		return decimal.Zero, err
	}

	movement, err := s.ledgerRepo.SumSignedMovement(ctx, pumpID, accountID, &from, &to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum period movement", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute period movement: %w", err)
	}
	return movement, nil
}

func (s *ledgerService) RecalculateRunningBalances(ctx context.Context, pumpID string, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID); err != nil {
		return err
	}
	if err := s.ledgerRepo.RecalculateRunningBalances(ctx, pumpID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to recalculate running balances", slog.String("account_id", accountID))
		return fmt.Errorf("failed to recalculate running balances: %w", err)
	}
	s.LogInfo(ctx, "Running balances recalculated", slog.String("account_id", accountID), slog.String("pump_id", pumpID))
	return nil
}
