package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/spread/footspa_backend/internal/adapters/database/memory"
	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/core/services"
)

type ConsumptionServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer

	alice      domain.MoneyNode
	employee   domain.MoneyNode
	massage    domain.MassageService
	cardTypeID int64
}

func (s *ConsumptionServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = services.NewContainer(s.store)
	s.Require().NoError(s.svc.Ledger.InitIfNeeded(s.ctx))

	aliceID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Alice", []string{"13800000000"})
	s.Require().NoError(err)
	alice, err := s.svc.Ledger.GetMoneyNode(s.ctx, aliceID)
	s.Require().NoError(err)
	s.alice = *alice

	employeeID, err := s.svc.Ledger.InsertEmployee(s.ctx, "Wang", nil)
	s.Require().NoError(err)
	employee, err := s.svc.Ledger.GetMoneyNode(s.ctx, employeeID)
	s.Require().NoError(err)
	s.employee = *employee

	serviceIDs, err := s.svc.Ledger.InsertMassageServices(s.ctx, domain.MassageService{
		Name:  "足底按摩",
		Desc:  "classic foot massage",
		Price: decimal.NewFromInt(88),
	})
	s.Require().NoError(err)
	massageServices, err := s.svc.Ledger.GetAllMassageServices(s.ctx)
	s.Require().NoError(err)
	for _, m := range massageServices {
		if m.ID == serviceIDs[0] {
			s.massage = m
		}
	}

	ctIDs, err := s.svc.Ledger.InsertCardTypes(s.ctx, domain.CardType{Name: "gold", Valid: true})
	s.Require().NoError(err)
	s.cardTypeID = ctIDs[0]
}

func TestConsumptionServiceSuite(t *testing.T) {
	suite.Run(t, new(ConsumptionServiceSuite))
}

// newCard builds an unpersisted card node for staging.
func (s *ConsumptionServiceSuite) newCard(name string) domain.MoneyNode {
	valid := true
	card, err := domain.NewMoneyNode(name, domain.Card, nil, &s.cardTypeID, &valid)
	s.Require().NoError(err)
	return card
}

func (s *ConsumptionServiceSuite) depositEntry(customer, card domain.MoneyNode, amount int64, stageCard bool) *domain.Consumption {
	c := domain.NewConsumption()
	s.Require().NoError(c.SelectType(domain.ConsumptionDeposit))
	s.Require().NoError(c.SetCustomer(customer))
	if stageCard {
		s.Require().NoError(s.svc.Consumption.Stage(s.ctx, c, card))
	}
	s.Require().NoError(c.SetCard(card))
	s.Require().NoError(c.SetMoney(decimal.NewFromInt(amount)))
	s.Require().NoError(c.SetRemark(""))
	return c
}

func (s *ConsumptionServiceSuite) useCardEntry(customer, card domain.MoneyNode, amount int64) *domain.Consumption {
	c := domain.NewConsumption()
	s.Require().NoError(c.SelectType(domain.ConsumptionUseCard))
	s.Require().NoError(c.SetCustomer(customer))
	s.Require().NoError(c.SetService(s.massage))
	s.Require().NoError(c.SetServant(s.employee))
	s.Require().NoError(c.SetCard(card))
	s.Require().NoError(c.SetMoney(decimal.NewFromInt(amount)))
	s.Require().NoError(c.SetRemark(""))
	return c
}

func (s *ConsumptionServiceSuite) TestDepositAndUseNewCardInOneBatch() {
	card := s.newCard("Gold-001")
	deposit := s.depositEntry(s.alice, card, 100, true)
	use := s.useCardEntry(s.alice, card, 30)
	batch := []*domain.Consumption{deposit, use}

	traces, err := s.svc.Consumption.GetPreviewInfo(s.ctx, batch)
	s.Require().NoError(err)
	s.Require().Len(traces, 1)
	s.Equal(s.alice.ID, traces[0].Customer.ID)
	s.Require().Len(traces[0].Cards, 1)

	trace := traces[0].Cards[0].Trace
	s.True(trace.OriginBalance.IsZero())
	s.Require().Len(trace.Deposits, 1)
	s.True(trace.Deposits[0].Equal(decimal.NewFromInt(100)))
	s.Require().Len(trace.Uses, 1)
	s.True(trace.Uses[0].Equal(decimal.NewFromInt(30)))
	s.True(trace.Balance.Equal(decimal.NewFromInt(70)), "got %s", trace.Balance)

	s.Require().NoError(s.svc.Consumption.Submit(s.ctx, batch))

	// Two deposit bills plus one use bill.
	bills, err := s.svc.Ledger.GetAllBills(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(bills, 3)
	tagCount := map[string]int{}
	for _, b := range bills {
		for _, t := range b.Tags {
			tagCount[t]++
		}
	}
	s.Equal(1, tagCount[domain.TagDeposit])
	s.Equal(1, tagCount[domain.TagDepositCard])
	s.Equal(1, tagCount[domain.TagUseCard])

	nodes, err := s.svc.Ledger.GetAllMoneyNodes(s.ctx)
	s.Require().NoError(err)
	var persisted *domain.MoneyNode
	for _, n := range nodes {
		if n.Type == domain.Card && n.Name == "Gold-001" {
			node := n
			persisted = &node
		}
	}
	s.Require().NotNil(persisted, "card was not flushed")

	owner, err := s.svc.Balance.ResolveOwner(s.ctx, *persisted)
	s.Require().NoError(err)
	s.Equal(s.alice.ID, owner.ID)

	balance, err := s.svc.Balance.ResolveBalance(s.ctx, *persisted)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(70)), "got %s", balance)
}

func (s *ConsumptionServiceSuite) TestNewCustomerWithExistingCardRejected() {
	// Persist a card owned by Alice first.
	card := s.newCard("Gold-001")
	batch := []*domain.Consumption{s.depositEntry(s.alice, card, 100, true)}
	s.Require().NoError(s.svc.Consumption.Submit(s.ctx, batch))

	nodes, err := s.svc.Ledger.GetAllMoneyNodes(s.ctx)
	s.Require().NoError(err)
	var persisted domain.MoneyNode
	for _, n := range nodes {
		if n.Type == domain.Card {
			persisted = n
		}
	}
	s.Require().NotZero(persisted.ID)

	carol, err := domain.NewMoneyNode("Carol", domain.Customer, nil, nil, nil)
	s.Require().NoError(err)
	entry := s.depositEntry(carol, persisted, 50, false)

	_, err = s.svc.Consumption.GetPreviewInfo(s.ctx, []*domain.Consumption{entry})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ConsumptionServiceSuite) TestOwnerMismatchRejected() {
	card := s.newCard("Gold-001")
	s.Require().NoError(s.svc.Consumption.Submit(s.ctx,
		[]*domain.Consumption{s.depositEntry(s.alice, card, 100, true)}))

	bobID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Bob", nil)
	s.Require().NoError(err)
	bob, err := s.svc.Ledger.GetMoneyNode(s.ctx, bobID)
	s.Require().NoError(err)

	nodes, err := s.svc.Ledger.GetAllMoneyNodes(s.ctx)
	s.Require().NoError(err)
	var persisted domain.MoneyNode
	for _, n := range nodes {
		if n.Type == domain.Card {
			persisted = n
		}
	}

	entry := s.depositEntry(*bob, persisted, 50, false)
	_, err = s.svc.Consumption.GetPreviewInfo(s.ctx, []*domain.Consumption{entry})
	s.ErrorIs(err, apperrors.ErrInvariant)
}

func (s *ConsumptionServiceSuite) TestUseOfNewCardWithoutDepositRejected() {
	card := s.newCard("Gold-001")
	use := s.useCardEntry(s.alice, card, 30)
	s.Require().NoError(s.svc.Consumption.Stage(s.ctx, use, card))

	_, err := s.svc.Consumption.GetPreviewInfo(s.ctx, []*domain.Consumption{use})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ConsumptionServiceSuite) TestSubmitIsAtomic() {
	// A broken purchase entry in the batch must roll back the staged card.
	card := s.newCard("Gold-001")
	deposit := s.depositEntry(s.alice, card, 100, true)

	broken := domain.NewConsumption()
	s.Require().NoError(broken.SelectType(domain.ConsumptionPurchase))
	s.Require().NoError(broken.SetCustomer(s.alice))
	s.Require().NoError(broken.SetService(domain.MassageService{Name: "unsaved"}))
	s.Require().NoError(broken.SetServant(s.employee))
	s.Require().NoError(broken.SetMoney(decimal.NewFromInt(88)))
	s.Require().NoError(broken.SetRemark(""))

	err := s.svc.Consumption.Submit(s.ctx, []*domain.Consumption{deposit, broken})
	s.ErrorIs(err, apperrors.ErrValidation)

	bills, err := s.svc.Ledger.GetAllBills(s.ctx)
	s.Require().NoError(err)
	s.Empty(bills)

	nodes, err := s.svc.Ledger.GetAllMoneyNodes(s.ctx)
	s.Require().NoError(err)
	for _, n := range nodes {
		s.NotEqual(domain.Card, n.Type)
	}
}

func (s *ConsumptionServiceSuite) TestFailedPreviewLeavesStoreWritable() {
	// Preview reads on a transaction snapshot that must be released on
	// every exit path, error returns included.
	card := s.newCard("Gold-001")
	s.Require().NoError(s.svc.Consumption.Submit(s.ctx,
		[]*domain.Consumption{s.depositEntry(s.alice, card, 100, true)}))

	bobID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Bob", nil)
	s.Require().NoError(err)
	bob, err := s.svc.Ledger.GetMoneyNode(s.ctx, bobID)
	s.Require().NoError(err)

	nodes, err := s.svc.Ledger.GetAllMoneyNodes(s.ctx)
	s.Require().NoError(err)
	var persisted domain.MoneyNode
	for _, n := range nodes {
		if n.Type == domain.Card {
			persisted = n
		}
	}

	entry := s.depositEntry(*bob, persisted, 50, false)
	_, err = s.svc.Consumption.GetPreviewInfo(s.ctx, []*domain.Consumption{entry})
	s.Require().ErrorIs(err, apperrors.ErrInvariant)

	_, err = s.svc.Ledger.InsertCustomer(s.ctx, "Carol", nil)
	s.Require().NoError(err)
}

func (s *ConsumptionServiceSuite) TestStageSkipsPersistedAndDuplicateNodes() {
	c := domain.NewConsumption()
	s.Require().NoError(c.SelectType(domain.ConsumptionDeposit))
	s.Require().NoError(c.SetCustomer(s.alice))

	card := s.newCard("Gold-001")
	s.Require().NoError(s.svc.Consumption.Stage(s.ctx, c, s.alice, card, card))

	merged := s.svc.Consumption.MergeStaged(nil, domain.Card, &s.alice)
	s.Require().Len(merged, 1)
	s.True(merged[0].Equal(card))

	// The persisted customer must not have been staged.
	s.Empty(s.svc.Consumption.MergeStaged(nil, domain.Customer, nil))
}

func (s *ConsumptionServiceSuite) TestMergeStagedFiltersCardsByCustomer() {
	c := domain.NewConsumption()
	s.Require().NoError(c.SelectType(domain.ConsumptionDeposit))
	s.Require().NoError(c.SetCustomer(s.alice))
	card := s.newCard("Gold-001")
	s.Require().NoError(s.svc.Consumption.Stage(s.ctx, c, card))

	bobID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Bob", nil)
	s.Require().NoError(err)
	bob, err := s.svc.Ledger.GetMoneyNode(s.ctx, bobID)
	s.Require().NoError(err)

	s.Len(s.svc.Consumption.MergeStaged(nil, domain.Card, &s.alice), 1)
	s.Empty(s.svc.Consumption.MergeStaged(nil, domain.Card, bob))
}

func (s *ConsumptionServiceSuite) TestClearDropsStagedNodes() {
	c := domain.NewConsumption()
	s.Require().NoError(c.SelectType(domain.ConsumptionDeposit))
	s.Require().NoError(c.SetCustomer(s.alice))
	s.Require().NoError(s.svc.Consumption.Stage(s.ctx, c, s.newCard("Gold-001")))

	s.Require().NoError(s.svc.Consumption.Clear(s.ctx))
	s.Empty(s.svc.Consumption.MergeStaged(nil, domain.Card, &s.alice))
}
