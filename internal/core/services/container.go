package services

import (
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// NewContainer wires every service against one ledger repository.
func NewContainer(repo portsrepo.LedgerRepository) *portssvc.ServiceContainer {
	ledger := newLedgerService(repo)
	return &portssvc.ServiceContainer{
		Ledger:      ledger,
		Balance:     NewBalanceService(repo),
		Search:      NewSearchService(repo),
		Consumption: NewConsumptionService(repo, ledger),
	}
}
