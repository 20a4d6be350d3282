package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// ledgerService is the account store: validated inserts, lookups,
// existence checks and reactive views over the four entity kinds, plus the
// one-public/one-outside startup invariant.
type ledgerService struct {
	repo portsrepo.LedgerRepository

	initMu      sync.Mutex
	initialized bool

	moneyNodes      *watcher[domain.MoneyNode]
	bills           *watcher[domain.Bill]
	cardTypes       *watcher[domain.CardType]
	massageServices *watcher[domain.MassageService]
}

// NewLedgerService creates the account store service.
func NewLedgerService(repo portsrepo.LedgerRepository) portssvc.LedgerSvcFacade {
	return newLedgerService(repo)
}

func newLedgerService(repo portsrepo.LedgerRepository) *ledgerService {
	return &ledgerService{
		repo:            repo,
		moneyNodes:      newWatcher[domain.MoneyNode](),
		bills:           newWatcher[domain.Bill](),
		cardTypes:       newWatcher[domain.CardType](),
		massageServices: newWatcher[domain.MassageService](),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// InitIfNeeded seeds the public and outside nodes when the whole store is
// empty, otherwise verifies exactly one of each exists. The mutex makes
// concurrent store-open events run this at most once.
func (s *ledgerService) InitIfNeeded(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return nil
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	nodes, err := s.repo.GetAllMoneyNodes(ctx, tx)
	if err != nil {
		return err
	}
	services, err := s.repo.GetAllMassageServices(ctx, tx)
	if err != nil {
		return err
	}
	bills, err := s.repo.GetAllBills(ctx, tx)
	if err != nil {
		return err
	}

	if len(nodes) == 0 && len(services) == 0 && len(bills) == 0 {
		publicNode, err := domain.NewMoneyNode("public", domain.Public, nil, nil, nil)
		if err != nil {
			return err
		}
		outsideNode, err := domain.NewMoneyNode("outside", domain.Outside, nil, nil, nil)
		if err != nil {
			return err
		}
		if _, err := s.repo.SaveMoneyNodes(ctx, tx, []domain.MoneyNode{publicNode, outsideNode}); err != nil {
			return fmt.Errorf("failed to seed public/outside nodes: %w", err)
		}
		slog.InfoContext(ctx, "Seeded empty ledger with public and outside nodes")
	} else if err := checkHealthy(nodes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.initialized = true
	return s.refreshAll(ctx)
}

// checkHealthy verifies the one-public/one-outside invariant on a node set.
func checkHealthy(nodes []domain.MoneyNode) error {
	for _, t := range []domain.MoneyNodeType{domain.Public, domain.Outside} {
		count := 0
		for _, n := range nodes {
			if n.Type == t {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("%w: expected exactly one %s node, found %d", apperrors.ErrInvariant, t, count)
		}
	}
	return nil
}

// refreshAll re-reads every entity kind and publishes fresh snapshots.
func (s *ledgerService) refreshAll(ctx context.Context) error {
	nodes, err := s.repo.GetAllMoneyNodes(ctx, nil)
	if err != nil {
		return err
	}
	s.moneyNodes.publish(nodes)

	bills, err := s.repo.GetAllBills(ctx, nil)
	if err != nil {
		return err
	}
	s.bills.publish(bills)

	cardTypes, err := s.repo.GetAllCardTypes(ctx, nil)
	if err != nil {
		return err
	}
	s.cardTypes.publish(cardTypes)

	services, err := s.repo.GetAllMassageServices(ctx, nil)
	if err != nil {
		return err
	}
	s.massageServices.publish(services)
	return nil
}

func (s *ledgerService) refreshMoneyNodes(ctx context.Context) {
	nodes, err := s.repo.GetAllMoneyNodes(ctx, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to refresh money node snapshot", slog.String("error", err.Error()))
		return
	}
	s.moneyNodes.publish(nodes)
}

func (s *ledgerService) InsertMoneyNodes(ctx context.Context, nodes ...domain.MoneyNode) ([]int64, error) {
	for _, n := range nodes {
		if n.Type == domain.None {
			return nil, fmt.Errorf("%w: money node type is none", apperrors.ErrValidation)
		}
	}
	ids, err := s.repo.SaveMoneyNodes(ctx, nil, nodes)
	if err != nil {
		return nil, err
	}
	s.refreshMoneyNodes(ctx)
	return ids, nil
}

func (s *ledgerService) insertOne(ctx context.Context, name string, nodeType domain.MoneyNodeType, keys []string, cardTypeID *int64, cardValid *bool) (int64, error) {
	node, err := domain.NewMoneyNode(name, nodeType, keys, cardTypeID, cardValid)
	if err != nil {
		return 0, err
	}
	ids, err := s.InsertMoneyNodes(ctx, node)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *ledgerService) InsertCustomer(ctx context.Context, name string, phoneNumbers []string) (int64, error) {
	return s.insertOne(ctx, name, domain.Customer, phoneNumbers, nil, nil)
}

func (s *ledgerService) InsertEmployee(ctx context.Context, name string, phoneNumbers []string) (int64, error) {
	return s.insertOne(ctx, name, domain.Employee, phoneNumbers, nil, nil)
}

func (s *ledgerService) InsertEmployer(ctx context.Context, name string, phoneNumbers []string) (int64, error) {
	return s.insertOne(ctx, name, domain.Employer, phoneNumbers, nil, nil)
}

func (s *ledgerService) InsertThirdParty(ctx context.Context, name string) (int64, error) {
	return s.insertOne(ctx, name, domain.Third, nil, nil, nil)
}

func (s *ledgerService) InsertCard(ctx context.Context, name string, phoneNumbers []string, cardTypeID int64) (int64, error) {
	exists, err := s.repo.CardTypeExists(ctx, nil, cardTypeID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: card type %d does not exist", apperrors.ErrValidation, cardTypeID)
	}
	valid := true
	return s.insertOne(ctx, name, domain.Card, phoneNumbers, &cardTypeID, &valid)
}

func (s *ledgerService) InsertCardTypes(ctx context.Context, cardTypes ...domain.CardType) ([]int64, error) {
	ids, err := s.repo.SaveCardTypes(ctx, nil, cardTypes)
	if err != nil {
		return nil, err
	}
	if snapshot, err := s.repo.GetAllCardTypes(ctx, nil); err == nil {
		s.cardTypes.publish(snapshot)
	}
	return ids, nil
}

func (s *ledgerService) InsertMassageServices(ctx context.Context, services ...domain.MassageService) ([]int64, error) {
	ids, err := s.repo.SaveMassageServices(ctx, nil, services)
	if err != nil {
		return nil, err
	}
	if snapshot, err := s.repo.GetAllMassageServices(ctx, nil); err == nil {
		s.massageServices.publish(snapshot)
	}
	return ids, nil
}

func (s *ledgerService) InsertBills(ctx context.Context, bills ...domain.Bill) ([]int64, error) {
	for _, b := range bills {
		if b.FromID == 0 || b.ToID == 0 {
			return nil, fmt.Errorf("%w: bill endpoints must reference persisted nodes", apperrors.ErrValidation)
		}
		if b.Money.IsZero() {
			return nil, fmt.Errorf("%w: bill amount must be non-zero", apperrors.ErrValidation)
		}
	}
	ids, err := s.repo.SaveBills(ctx, nil, bills)
	if err != nil {
		return nil, err
	}
	if snapshot, err := s.repo.GetAllBills(ctx, nil); err == nil {
		s.bills.publish(snapshot)
	}
	return ids, nil
}

func (s *ledgerService) GetAllMoneyNodes(ctx context.Context) ([]domain.MoneyNode, error) {
	return s.repo.GetAllMoneyNodes(ctx, nil)
}

func (s *ledgerService) GetAllBills(ctx context.Context) ([]domain.Bill, error) {
	return s.repo.GetAllBills(ctx, nil)
}

func (s *ledgerService) GetAllCardTypes(ctx context.Context) ([]domain.CardType, error) {
	return s.repo.GetAllCardTypes(ctx, nil)
}

func (s *ledgerService) GetAllMassageServices(ctx context.Context) ([]domain.MassageService, error) {
	return s.repo.GetAllMassageServices(ctx, nil)
}

func (s *ledgerService) GetMoneyNode(ctx context.Context, id int64) (*domain.MoneyNode, error) {
	return s.repo.GetMoneyNode(ctx, nil, id)
}

func (s *ledgerService) GetPublic(ctx context.Context) (*domain.MoneyNode, error) {
	return s.repo.GetUniqueMoneyNodeByType(ctx, nil, domain.Public)
}

func (s *ledgerService) GetOutside(ctx context.Context) (*domain.MoneyNode, error) {
	return s.repo.GetUniqueMoneyNodeByType(ctx, nil, domain.Outside)
}

func (s *ledgerService) MoneyNodeExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.MoneyNodeExists(ctx, nil, id)
}

func (s *ledgerService) BillExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.BillExists(ctx, nil, id)
}

func (s *ledgerService) CardTypeExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.CardTypeExists(ctx, nil, id)
}

func (s *ledgerService) MassageServiceExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.MassageServiceExists(ctx, nil, id)
}

func (s *ledgerService) FindCardType(ctx context.Context, card domain.MoneyNode) (*domain.CardType, error) {
	if card.CardTypeID == nil {
		return nil, nil
	}
	return s.repo.GetCardType(ctx, nil, *card.CardTypeID)
}

func (s *ledgerService) SetCardValid(ctx context.Context, id int64, valid bool) error {
	if err := s.repo.SetCardValid(ctx, nil, id, valid); err != nil {
		return err
	}
	s.refreshMoneyNodes(ctx)
	return nil
}

func (s *ledgerService) SubscribeMoneyNodes() *portssvc.Subscription[domain.MoneyNode] {
	return s.moneyNodes.subscribe()
}

func (s *ledgerService) SubscribeBills() *portssvc.Subscription[domain.Bill] {
	return s.bills.subscribe()
}

func (s *ledgerService) SubscribeCardTypes() *portssvc.Subscription[domain.CardType] {
	return s.cardTypes.subscribe()
}

func (s *ledgerService) SubscribeMassageServices() *portssvc.Subscription[domain.MassageService] {
	return s.massageServices.subscribe()
}
