// Package memory provides an in-memory implementation of the ledger store
// ports. A single mutex serializes transactions, giving the same
// no-interleaving guarantee the SQL adapter gets from serializable
// transactions. It backs the service test suites.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
)

type ledgerData struct {
	nodes     []domain.MoneyNode
	bills     []domain.Bill
	cardTypes []domain.CardType
	services  []domain.MassageService

	nextNodeID     int64
	nextBillID     int64
	nextCardTypeID int64
	nextServiceID  int64
}

func (d *ledgerData) clone() ledgerData {
	c := *d
	c.nodes = slices.Clone(d.nodes)
	c.bills = slices.Clone(d.bills)
	c.cardTypes = slices.Clone(d.cardTypes)
	c.services = slices.Clone(d.services)
	return c
}

// Store is the in-memory ledger store.
type Store struct {
	mu   sync.Mutex
	data ledgerData
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: ledgerData{nextNodeID: 1, nextBillID: 1, nextCardTypeID: 1, nextServiceID: 1}}
}

var _ portsrepo.LedgerRepository = (*Store)(nil)

type memTx struct {
	store *Store
	data  ledgerData
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.store.data = t.data
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// Begin locks the store; the transaction works on a private copy that is
// published on commit and discarded on rollback.
func (s *Store) Begin(ctx context.Context) (portsrepo.Tx, error) {
	s.mu.Lock()
	return &memTx{store: s, data: s.data.clone()}, nil
}

// view resolves the data set for an optional transaction handle. The
// release function must be called when done.
func (s *Store) view(tx portsrepo.Tx) (*ledgerData, func(), error) {
	if tx == nil {
		s.mu.Lock()
		return &s.data, s.mu.Unlock, nil
	}
	t, ok := tx.(*memTx)
	if !ok || t.store != s {
		return nil, nil, fmt.Errorf("transaction handle %T does not belong to the memory adapter", tx)
	}
	if t.done {
		return nil, nil, fmt.Errorf("transaction already finished")
	}
	return &t.data, func() {}, nil
}

// --- money nodes ---

func (s *Store) GetAllMoneyNodes(ctx context.Context, tx portsrepo.Tx) ([]domain.MoneyNode, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	return slices.Clone(d.nodes), nil
}

func (s *Store) GetMoneyNode(ctx context.Context, tx portsrepo.Tx, id int64) (*domain.MoneyNode, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	for _, n := range d.nodes {
		if n.ID == id {
			node := n
			return &node, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) GetUniqueMoneyNodeByType(ctx context.Context, tx portsrepo.Tx, nodeType domain.MoneyNodeType) (*domain.MoneyNode, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	var matches []domain.MoneyNode
	for _, n := range d.nodes {
		if n.Type == nodeType {
			matches = append(matches, n)
		}
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one %s node, found %d", apperrors.ErrInvariant, nodeType, len(matches))
	}
	return &matches[0], nil
}

func (s *Store) MoneyNodeExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return false, err
	}
	defer release()
	for _, n := range d.nodes {
		if n.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveMoneyNodes(ctx context.Context, tx portsrepo.Tx, nodes []domain.MoneyNode) ([]int64, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	// Enforce the partial unique indexes of the SQL schema.
	for _, node := range nodes {
		if node.Type == domain.Public || node.Type == domain.Outside {
			for _, existing := range d.nodes {
				if existing.Type == node.Type {
					return nil, fmt.Errorf("%w: a node of type %s already exists", apperrors.ErrDuplicate, node.Type)
				}
			}
		}
	}
	ids := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		node.ID = d.nextNodeID
		d.nextNodeID++
		d.nodes = append(d.nodes, node)
		ids = append(ids, node.ID)
	}
	return ids, nil
}

func (s *Store) SetCardValid(ctx context.Context, tx portsrepo.Tx, id int64, valid bool) error {
	d, release, err := s.view(tx)
	if err != nil {
		return err
	}
	defer release()
	for i, n := range d.nodes {
		if n.ID == id && n.Type == domain.Card {
			v := valid
			d.nodes[i].CardValid = &v
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// --- bills ---

func (s *Store) GetAllBills(ctx context.Context, tx portsrepo.Tx) ([]domain.Bill, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	return slices.Clone(d.bills), nil
}

func (s *Store) SaveBills(ctx context.Context, tx portsrepo.Tx, bills []domain.Bill) ([]int64, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	ids := make([]int64, 0, len(bills))
	for _, bill := range bills {
		bill.ID = d.nextBillID
		d.nextBillID++
		d.bills = append(d.bills, bill)
		ids = append(ids, bill.ID)
	}
	return ids, nil
}

func (s *Store) BillExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return false, err
	}
	defer release()
	for _, b := range d.bills {
		if b.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- card types ---

func (s *Store) GetAllCardTypes(ctx context.Context, tx portsrepo.Tx) ([]domain.CardType, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	return slices.Clone(d.cardTypes), nil
}

func (s *Store) GetCardType(ctx context.Context, tx portsrepo.Tx, id int64) (*domain.CardType, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	for _, ct := range d.cardTypes {
		if ct.ID == id {
			cardType := ct
			return &cardType, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) SaveCardTypes(ctx context.Context, tx portsrepo.Tx, cardTypes []domain.CardType) ([]int64, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	ids := make([]int64, 0, len(cardTypes))
	for _, ct := range cardTypes {
		ct.ID = d.nextCardTypeID
		d.nextCardTypeID++
		d.cardTypes = append(d.cardTypes, ct)
		ids = append(ids, ct.ID)
	}
	return ids, nil
}

func (s *Store) CardTypeExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return false, err
	}
	defer release()
	for _, ct := range d.cardTypes {
		if ct.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- massage services ---

func (s *Store) GetAllMassageServices(ctx context.Context, tx portsrepo.Tx) ([]domain.MassageService, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	return slices.Clone(d.services), nil
}

func (s *Store) SaveMassageServices(ctx context.Context, tx portsrepo.Tx, services []domain.MassageService) ([]int64, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()
	ids := make([]int64, 0, len(services))
	for _, svc := range services {
		svc.ID = d.nextServiceID
		d.nextServiceID++
		d.services = append(d.services, svc)
		ids = append(ids, svc.ID)
	}
	return ids, nil
}

func (s *Store) MassageServiceExists(ctx context.Context, tx portsrepo.Tx, id int64) (bool, error) {
	d, release, err := s.view(tx)
	if err != nil {
		return false, err
	}
	defer release()
	for _, svc := range d.services {
		if svc.ID == id {
			return true, nil
		}
	}
	return false, nil
}
