package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event type tags carried on voucher lifecycle events.
const (
	TypeVoucherPosted    = "VOUCHER_POSTED"
	TypeVoucherCancelled = "VOUCHER_CANCELLED"
)

// VoucherEvent is emitted after a voucher posting or cancellation commits.
// Consumers (notification dispatch, exports) are external collaborators; the
// engine only emits.
type VoucherEvent struct {
	Type          string          `json:"type"`
	PumpID        string          `json:"pump_id"`
	VoucherID     string          `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   string          `json:"voucher_type"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ActorID       string          `json:"actor_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Publisher delivers voucher lifecycle events to an external transport.
// Publish failures must not roll back the committed posting; callers log and
// continue.
type Publisher interface {
	Publish(ctx context.Context, event VoucherEvent) error
	Close() error
}

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event VoucherEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
