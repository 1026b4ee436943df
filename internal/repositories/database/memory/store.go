package memory

import (
	"sync"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
)

// store is the shared mutex-guarded state behind the in-memory repositories.
// It implements the same atomicity contract as the SQL backend: posting either
// applies the voucher flip, the ledger projection and the balance updates
// together under the lock, or not at all.
type store struct {
	mu sync.RWMutex

	accounts       map[string]domain.Account      // accountID -> account
	vouchers       map[string]domain.Voucher      // voucherID -> header
	voucherEntries map[string][]domain.VoucherEntry
	ledgerEntries  []domain.LedgerEntry           // append-only, entry_seq ordered
	sequences      map[string]int                 // pump|type|day -> next value
	nextEntrySeq   int64
}

func newStore() *store {
	return &store{
		accounts:       make(map[string]domain.Account),
		vouchers:       make(map[string]domain.Voucher),
		voucherEntries: make(map[string][]domain.VoucherEntry),
		sequences:      make(map[string]int),
		nextEntrySeq:   1,
	}
}

// NewRepositoryProvider builds a fully in-memory repository set. Used by tests
// and by deployments running with the memory storage driver.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := newStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:   &memAccountRepository{store: s},
		VoucherRepo:   &memVoucherRepository{store: s},
		LedgerRepo:    &memLedgerRepository{store: s},
		ReportingRepo: &memReportingRepository{store: s},
	}
}
