package repositories

// LedgerRepository is the full contract of the transactional relational
// store backing the ledger: per-entity readers/writers plus transaction
// management. Adapters implement all of it; services should depend on the
// narrowest slice they need.
type LedgerRepository interface {
	TransactionManager
	MoneyNodeRepository
	BillRepository
	CardTypeRepository
	MassageServiceRepository
}
