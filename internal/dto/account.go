package dto

import (
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code           string          `json:"code" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	AccountType    string          `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	AccountGroup   string          `json:"accountGroup" binding:"required"`
	ParentCode     string          `json:"parentCode"`
	GSTNumber      string          `json:"gstNumber"`
	PANNumber      string          `json:"panNumber"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsLocked       bool            `json:"isLocked"`
}

// UpdateAccountRequest defines the payload for a full-field account update.
// Nil pointers leave the field unchanged.
type UpdateAccountRequest struct {
	Code           *string          `json:"code"`
	Name           *string          `json:"name"`
	AccountType    *string          `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	AccountGroup   *string          `json:"accountGroup"`
	ParentCode     *string          `json:"parentCode"`
	GSTNumber      *string          `json:"gstNumber"`
	PANNumber      *string          `json:"panNumber"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	IsLocked       *bool            `json:"isLocked"`
	IsActive       *bool            `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	PumpID          string          `json:"pumpID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	AccountGroup    string          `json:"accountGroup"`
	BalanceType     string          `json:"balanceType"`
	ParentCode      string          `json:"parentCode,omitempty"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	IsSystemAccount bool            `json:"isSystemAccount"`
	IsLocked        bool            `json:"isLocked"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListAccountsResponse wraps a paginated account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		PumpID:          a.PumpID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		AccountGroup:    string(a.AccountGroup),
		BalanceType:     string(a.BalanceType),
		ParentCode:      a.ParentCode,
		OpeningBalance:  a.OpeningBalance,
		CurrentBalance:  a.CurrentBalance,
		IsSystemAccount: a.IsSystemAccount,
		IsLocked:        a.IsLocked,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
