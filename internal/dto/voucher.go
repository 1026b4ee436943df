package dto

import (
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherEntryRequest is one debit/credit line in a voucher payload.
type CreateVoucherEntryRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	EntryType string          `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Narration string          `json:"narration"`
	Reference string          `json:"reference"`
	PartyName string          `json:"partyName"`
}

// CreateVoucherRequest defines the payload for creating a voucher. When
// VoucherNumber is empty a number is allocated from the per-day sequence.
type CreateVoucherRequest struct {
	VoucherType   string                      `json:"voucherType" binding:"required"`
	VoucherNumber string                      `json:"voucherNumber"`
	VoucherDate   time.Time                   `json:"voucherDate" binding:"required"`
	Narration     string                      `json:"narration"`
	Reference     string                      `json:"reference"`
	PartyName     string                      `json:"partyName"`
	PaymentMode   string                      `json:"paymentMode"`
	ChequeNumber  string                      `json:"chequeNumber"`
	ChequeDate    *time.Time                  `json:"chequeDate"`
	BankName      string                      `json:"bankName"`
	Entries       []CreateVoucherEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// UpdateVoucherRequest replaces a non-posted voucher's header fields and entry
// set wholesale.
type UpdateVoucherRequest struct {
	VoucherDate  *time.Time                  `json:"voucherDate"`
	Narration    *string                     `json:"narration"`
	Reference    *string                     `json:"reference"`
	PartyName    *string                     `json:"partyName"`
	PaymentMode  *string                     `json:"paymentMode"`
	ChequeNumber *string                     `json:"chequeNumber"`
	ChequeDate   *time.Time                  `json:"chequeDate"`
	BankName     *string                     `json:"bankName"`
	Entries      []CreateVoucherEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// CancelVoucherRequest carries the mandatory cancellation reason.
type CancelVoucherRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListVouchersParams holds filters for listing vouchers.
type ListVouchersParams struct {
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Status    *string    `form:"status"`
}

// VoucherEntryResponse defines the data returned for a voucher entry.
type VoucherEntryResponse struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	EntryType string          `json:"entryType"`
	Amount    decimal.Decimal `json:"amount"`
	Narration string          `json:"narration,omitempty"`
	PartyName string          `json:"partyName,omitempty"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID           string                 `json:"voucherID"`
	PumpID              string                 `json:"pumpID"`
	VoucherNumber       string                 `json:"voucherNumber"`
	VoucherType         string                 `json:"voucherType"`
	VoucherDate         time.Time              `json:"voucherDate"`
	Narration           string                 `json:"narration"`
	Reference           string                 `json:"reference,omitempty"`
	PartyName           string                 `json:"partyName,omitempty"`
	PaymentMode         string                 `json:"paymentMode,omitempty"`
	TotalAmount         decimal.Decimal        `json:"totalAmount"`
	Status              string                 `json:"status"`
	IsPosted            bool                   `json:"isPosted"`
	IsCancelled         bool                   `json:"isCancelled"`
	IsReconciled        bool                   `json:"isReconciled"`
	PostedAt            *time.Time             `json:"postedAt,omitempty"`
	PostedBy            string                 `json:"postedBy,omitempty"`
	CancellationReason  string                 `json:"cancellationReason,omitempty"`
	ReversalOfVoucherID *string                `json:"reversalOfVoucherID,omitempty"`
	ReversedByVoucherID *string                `json:"reversedByVoucherID,omitempty"`
	Entries             []VoucherEntryResponse `json:"entries,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	CreatedBy           string                 `json:"createdBy"`
}

// ListVouchersResponse wraps a token-paginated voucher listing.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherEntryResponse converts a domain.VoucherEntry to its DTO.
func ToVoucherEntryResponse(e *domain.VoucherEntry) VoucherEntryResponse {
	return VoucherEntryResponse{
		EntryID:   e.EntryID,
		AccountID: e.AccountID,
		EntryType: string(e.EntryType),
		Amount:    e.Amount,
		Narration: e.Narration,
		PartyName: e.PartyName,
	}
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:           v.VoucherID,
		PumpID:              v.PumpID,
		VoucherNumber:       v.VoucherNumber,
		VoucherType:         string(v.VoucherType),
		VoucherDate:         v.VoucherDate,
		Narration:           v.Narration,
		Reference:           v.Reference,
		PartyName:           v.PartyName,
		PaymentMode:         v.PaymentMode,
		TotalAmount:         v.TotalAmount,
		Status:              string(v.Status),
		IsPosted:            v.IsPosted,
		IsCancelled:         v.IsCancelled,
		IsReconciled:        v.IsReconciled,
		PostedAt:            v.PostedAt,
		PostedBy:            v.PostedBy,
		CancellationReason:  v.CancellationReason,
		ReversalOfVoucherID: v.ReversalOfVoucherID,
		ReversedByVoucherID: v.ReversedByVoucherID,
		CreatedAt:           v.CreatedAt,
		CreatedBy:           v.CreatedBy,
	}
	if len(v.Entries) > 0 {
		resp.Entries = make([]VoucherEntryResponse, len(v.Entries))
		for i := range v.Entries {
			resp.Entries[i] = ToVoucherEntryResponse(&v.Entries[i])
		}
	}
	return resp
}

// ToVoucherResponses converts a slice of domain.Voucher to []VoucherResponse.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses
}
