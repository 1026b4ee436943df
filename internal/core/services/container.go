package services

import (
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/events"
)

// NewServiceContainer wires every service against the repository provider and
// the event publisher.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.AccountRepo),
		Voucher:   NewVoucherService(repos.VoucherRepo, repos.AccountRepo, repos.LedgerRepo, publisher),
		Ledger:    NewLedgerService(repos.LedgerRepo, repos.AccountRepo),
		Reporting: NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.LedgerRepo),
	}
}
