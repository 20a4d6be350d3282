package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// snapshotRefresher is notified after a committed batch so cached entity
// views can be re-read. The ledger service implements it.
type snapshotRefresher interface {
	refreshAll(ctx context.Context) error
}

// stagedGroup holds the brand-new accounts captured for one consumption
// entry, in staging order.
type stagedGroup struct {
	entry *domain.Consumption
	nodes []domain.MoneyNode
}

// consumptionService assembles consumption batches: it stages new accounts
// without persisting them, previews the balance movements, and on submit
// flushes accounts and synthesized bills in one transaction.
type consumptionService struct {
	repo      portsrepo.LedgerRepository
	refresher snapshotRefresher

	mu     sync.Mutex
	staged map[string]*stagedGroup
	order  []string
}

// NewConsumptionService creates the consumption workflow service. The
// refresher may be nil when no cached views need invalidation.
func NewConsumptionService(repo portsrepo.LedgerRepository, refresher snapshotRefresher) portssvc.ConsumptionSvcFacade {
	return &consumptionService{
		repo:      repo,
		refresher: refresher,
		staged:    make(map[string]*stagedGroup),
	}
}

var _ portssvc.ConsumptionSvcFacade = (*consumptionService)(nil)

// stagedContainsLocked reports whether an equal node is already staged under
// any entry. Callers hold s.mu.
func (s *consumptionService) stagedContainsLocked(node domain.MoneyNode) bool {
	for _, g := range s.staged {
		for _, staged := range g.nodes {
			if staged.Equal(node) {
				return true
			}
		}
	}
	return false
}

func (s *consumptionService) Stage(ctx context.Context, c *domain.Consumption, nodes ...domain.MoneyNode) error {
	// Check persistence before taking the cache lock: holding it across a
	// store call would order the locks opposite to a preview in flight.
	fresh := make([]domain.MoneyNode, 0, len(nodes))
	for _, node := range nodes {
		if node.ID != 0 {
			exists, err := s.repo.MoneyNodeExists(ctx, nil, node.ID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
		}
		fresh = append(fresh, node)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, node := range fresh {
		if s.stagedContainsLocked(node) {
			continue
		}
		g, ok := s.staged[c.ID]
		if !ok {
			g = &stagedGroup{entry: c}
			s.staged[c.ID] = g
			s.order = append(s.order, c.ID)
		}
		g.nodes = append(g.nodes, node)
	}
	return nil
}

func (s *consumptionService) MergeStaged(target []domain.MoneyNode, nodeType domain.MoneyNodeType, customer *domain.MoneyNode) []domain.MoneyNode {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		g := s.staged[id]
		if nodeType == domain.Card {
			if customer == nil || g.entry.Customer == nil || !g.entry.Customer.Equal(*customer) {
				continue
			}
		}
		for _, node := range g.nodes {
			if node.Type != nodeType {
				continue
			}
			dup := false
			for _, t := range target {
				if t.Equal(node) {
					dup = true
					break
				}
			}
			if !dup {
				target = append(target, node)
			}
		}
	}
	return target
}

// cardTrace accumulates one (customer, card) pair's movements during preview.
type cardTraceBuilder struct {
	card  domain.MoneyNode
	trace portssvc.BalanceTrace
}

type customerTraceBuilder struct {
	customer domain.MoneyNode
	cards    []*cardTraceBuilder
}

// stagedNodesSnapshot copies the currently staged accounts so preview can
// test membership without touching the cache lock again.
func (s *consumptionService) stagedNodesSnapshot() []domain.MoneyNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	var nodes []domain.MoneyNode
	for _, id := range s.order {
		nodes = append(nodes, s.staged[id].nodes...)
	}
	return nodes
}

// nodeIsStaged reports whether node is brand new: not yet persisted or equal
// to a staged account.
func nodeIsStaged(staged []domain.MoneyNode, node domain.MoneyNode) bool {
	if node.ID == 0 {
		return true
	}
	for _, n := range staged {
		if n.Equal(node) {
			return true
		}
	}
	return false
}

// checkPairing rejects a brand-new customer attached to a pre-existing card.
// A card can only ever be funded by one customer, so pairing a card that
// already has history with a customer that has none is always wrong.
func checkPairing(staged []domain.MoneyNode, customer, card domain.MoneyNode) error {
	if nodeIsStaged(staged, customer) && !nodeIsStaged(staged, card) {
		return fmt.Errorf("%w: new customer %q cannot use pre-existing card %q", apperrors.ErrValidation, customer.Name, card.Name)
	}
	return nil
}

// pairBuilder finds or creates the trace builder for the (customer, card)
// pair, resolving the card's current balance and owner on first sight.
func (s *consumptionService) pairBuilder(ctx context.Context, tx portsrepo.Tx, staged []domain.MoneyNode, builders *[]*customerTraceBuilder, customer, card domain.MoneyNode) (*cardTraceBuilder, error) {
	var cb *customerTraceBuilder
	for _, b := range *builders {
		if b.customer.Equal(customer) {
			cb = b
			break
		}
	}
	if cb == nil {
		cb = &customerTraceBuilder{customer: customer}
		*builders = append(*builders, cb)
	}
	for _, tb := range cb.cards {
		if tb.card.Equal(card) {
			return tb, nil
		}
	}

	origin := decimal.Zero
	if !nodeIsStaged(staged, card) {
		owner, err := resolveOwnerInTx(ctx, s.repo, tx, card)
		if err != nil {
			return nil, err
		}
		if !owner.Equal(customer) {
			return nil, fmt.Errorf("%w: card %q belongs to %q, not %q", apperrors.ErrInvariant, card.Name, owner.Name, customer.Name)
		}
		origin, err = resolveBalanceInTx(ctx, s.repo, tx, card)
		if err != nil {
			return nil, err
		}
	}
	tb := &cardTraceBuilder{card: card, trace: portssvc.BalanceTrace{OriginBalance: origin, Balance: origin}}
	cb.cards = append(cb.cards, tb)
	return tb, nil
}

func (s *consumptionService) GetPreviewInfo(ctx context.Context, consumptions []*domain.Consumption) ([]portssvc.CustomerTrace, error) {
	staged := s.stagedNodesSnapshot()

	// One read transaction for the whole preview, so every owner and
	// balance resolution sees the same bill set.
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	builders := []*customerTraceBuilder{}

	// Deposits apply before uses so a card funded and spent in the same
	// batch previews in the order the money actually moves.
	for _, c := range consumptions {
		if c.Type != domain.ConsumptionDeposit || c.Customer == nil || c.Card == nil || c.Money == nil {
			continue
		}
		if err := checkPairing(staged, *c.Customer, *c.Card); err != nil {
			return nil, err
		}
		tb, err := s.pairBuilder(ctx, tx, staged, &builders, *c.Customer, *c.Card)
		if err != nil {
			return nil, err
		}
		tb.trace.Deposits = append(tb.trace.Deposits, *c.Money)
		tb.trace.Balance = tb.trace.Balance.Add(*c.Money)
	}

	for _, c := range consumptions {
		if c.Type != domain.ConsumptionUseCard || c.Customer == nil || c.Card == nil || c.Money == nil {
			continue
		}
		if err := checkPairing(staged, *c.Customer, *c.Card); err != nil {
			return nil, err
		}
		tb, err := s.pairBuilder(ctx, tx, staged, &builders, *c.Customer, *c.Card)
		if err != nil {
			return nil, err
		}
		if nodeIsStaged(staged, *c.Card) && len(tb.trace.Deposits) == 0 {
			return nil, fmt.Errorf("%w: new card %q is used without a deposit in the same batch", apperrors.ErrValidation, c.Card.Name)
		}
		tb.trace.Uses = append(tb.trace.Uses, *c.Money)
		tb.trace.Balance = tb.trace.Balance.Sub(*c.Money)
	}

	traces := make([]portssvc.CustomerTrace, 0, len(builders))
	for _, cb := range builders {
		ct := portssvc.CustomerTrace{Customer: cb.customer}
		for _, tb := range cb.cards {
			ct.Cards = append(ct.Cards, portssvc.CardTrace{Card: tb.card, Trace: tb.trace})
		}
		traces = append(traces, ct)
	}
	return traces, nil
}

// rebind replaces every account field equal to old with the persisted node.
func rebind(consumptions []*domain.Consumption, old, persisted domain.MoneyNode) {
	for _, c := range consumptions {
		for _, field := range []**domain.MoneyNode{&c.Customer, &c.Card, &c.Servant, &c.Third} {
			if *field != nil && (*field).Equal(old) {
				node := persisted
				*field = &node
			}
		}
	}
}

// flushStaged inserts every staged account inside the transaction and
// rebinds the entries' fields to the persisted rows.
func (s *consumptionService) flushStaged(ctx context.Context, tx portsrepo.Tx, consumptions []*domain.Consumption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		g := s.staged[id]
		for _, node := range g.nodes {
			if node.ID != 0 {
				exists, err := s.repo.MoneyNodeExists(ctx, tx, node.ID)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("%w: staged node %q is already persisted", apperrors.ErrDuplicate, node.Name)
				}
			}
			ids, err := s.repo.SaveMoneyNodes(ctx, tx, []domain.MoneyNode{node})
			if err != nil {
				return err
			}
			persisted, err := s.repo.GetMoneyNode(ctx, tx, ids[0])
			if err != nil {
				return err
			}
			rebind(consumptions, node, *persisted)
		}
	}
	return nil
}

func checkMoney(m *decimal.Decimal, what string) (decimal.Decimal, error) {
	if m == nil || m.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s amount is missing or zero", apperrors.ErrValidation, what)
	}
	return *m, nil
}

func checkNode(n *domain.MoneyNode, what string) (*domain.MoneyNode, error) {
	if n == nil || n.ID == 0 {
		return nil, fmt.Errorf("%w: %s is missing or not persisted", apperrors.ErrValidation, what)
	}
	return n, nil
}

func checkService(svc *domain.MassageService) (int64, error) {
	if svc == nil || svc.ID == 0 {
		return 0, fmt.Errorf("%w: massage service is missing or not persisted", apperrors.ErrValidation)
	}
	return svc.ID, nil
}

// billsFor synthesizes the bill recipe of one ready entry.
func billsFor(c *domain.Consumption, publicID, outsideID int64) ([]domain.Bill, error) {
	remark := ""
	if c.Remark != nil {
		remark = *c.Remark
	}
	money, err := checkMoney(c.Money, "consumption")
	if err != nil {
		return nil, err
	}
	customer, err := checkNode(c.Customer, "customer")
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case domain.ConsumptionPurchase:
		serviceID, err := checkService(c.Service)
		if err != nil {
			return nil, err
		}
		servant, err := checkNode(c.Servant, "servant")
		if err != nil {
			return nil, err
		}
		b, err := domain.NewBill(customer.ID, publicID, money, []string{domain.TagPurchase}, remark, serviceID, servant.ID)
		if err != nil {
			return nil, err
		}
		return []domain.Bill{b}, nil

	case domain.ConsumptionDeposit:
		card, err := checkNode(c.Card, "card")
		if err != nil {
			return nil, err
		}
		toShop, err := domain.NewBill(customer.ID, publicID, money, []string{domain.TagDeposit}, remark, 0, 0)
		if err != nil {
			return nil, err
		}
		toCard, err := domain.NewBill(customer.ID, card.ID, money, []string{domain.TagDepositCard}, remark, 0, 0)
		if err != nil {
			return nil, err
		}
		return []domain.Bill{toShop, toCard}, nil

	case domain.ConsumptionUseCard:
		serviceID, err := checkService(c.Service)
		if err != nil {
			return nil, err
		}
		servant, err := checkNode(c.Servant, "servant")
		if err != nil {
			return nil, err
		}
		card, err := checkNode(c.Card, "card")
		if err != nil {
			return nil, err
		}
		b, err := domain.NewBill(card.ID, outsideID, money, []string{domain.TagUseCard}, remark, serviceID, servant.ID)
		if err != nil {
			return nil, err
		}
		return []domain.Bill{b}, nil

	case domain.ConsumptionThirdParty:
		serviceID, err := checkService(c.Service)
		if err != nil {
			return nil, err
		}
		servant, err := checkNode(c.Servant, "servant")
		if err != nil {
			return nil, err
		}
		third, err := checkNode(c.Third, "third party")
		if err != nil {
			return nil, err
		}
		moneyThird, err := checkMoney(c.MoneyThird, "third party")
		if err != nil {
			return nil, err
		}
		display, err := domain.NewBill(customer.ID, third.ID, moneyThird, []string{domain.TagThirdPartyDisplay}, remark, serviceID, servant.ID)
		if err != nil {
			return nil, err
		}
		real, err := domain.NewBill(third.ID, publicID, money, []string{domain.TagThirdPartyReal}, remark, serviceID, servant.ID)
		if err != nil {
			return nil, err
		}
		return []domain.Bill{display, real}, nil

	default:
		return nil, fmt.Errorf("%w: consumption has no type", apperrors.ErrValidation)
	}
}

func (s *consumptionService) Submit(ctx context.Context, consumptions []*domain.Consumption) error {
	// Re-run the preview checks so a batch that would not preview cleanly
	// never reaches the store.
	if _, err := s.GetPreviewInfo(ctx, consumptions); err != nil {
		return err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.flushStaged(ctx, tx, consumptions); err != nil {
		return err
	}

	publicNode, err := s.repo.GetUniqueMoneyNodeByType(ctx, tx, domain.Public)
	if err != nil {
		return err
	}
	outsideNode, err := s.repo.GetUniqueMoneyNodeByType(ctx, tx, domain.Outside)
	if err != nil {
		return err
	}

	bills := []domain.Bill{}
	ready := 0
	for _, c := range consumptions {
		if !c.Ready() {
			continue
		}
		ready++
		bs, err := billsFor(c, publicNode.ID, outsideNode.ID)
		if err != nil {
			return err
		}
		bills = append(bills, bs...)
	}
	if _, err := s.repo.SaveBills(ctx, tx, bills); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Committed consumption batch",
		slog.Int("entries", ready), slog.Int("bills", len(bills)))

	if err := s.Clear(ctx); err != nil {
		return err
	}
	if s.refresher != nil {
		return s.refresher.refreshAll(ctx)
	}
	return nil
}

func (s *consumptionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[string]*stagedGroup)
	s.order = nil
	return nil
}
