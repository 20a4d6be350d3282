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

type BalanceServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer

	alice   domain.MoneyNode
	card    domain.MoneyNode
	outside domain.MoneyNode
}

func (s *BalanceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = services.NewContainer(s.store)
	s.Require().NoError(s.svc.Ledger.InitIfNeeded(s.ctx))

	outside, err := s.svc.Ledger.GetOutside(s.ctx)
	s.Require().NoError(err)
	s.outside = *outside

	aliceID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Alice", nil)
	s.Require().NoError(err)
	alice, err := s.svc.Ledger.GetMoneyNode(s.ctx, aliceID)
	s.Require().NoError(err)
	s.alice = *alice

	ctIDs, err := s.svc.Ledger.InsertCardTypes(s.ctx, domain.CardType{Name: "gold", Valid: true})
	s.Require().NoError(err)
	cardID, err := s.svc.Ledger.InsertCard(s.ctx, "Gold-001", nil, ctIDs[0])
	s.Require().NoError(err)
	card, err := s.svc.Ledger.GetMoneyNode(s.ctx, cardID)
	s.Require().NoError(err)
	s.card = *card
}

func TestBalanceServiceSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceSuite))
}

func (s *BalanceServiceSuite) insertBill(fromID, toID int64, amount int64) {
	bill, err := domain.NewBill(fromID, toID, decimal.NewFromInt(amount), nil, "", 0, 0)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.InsertBills(s.ctx, bill)
	s.Require().NoError(err)
}

func (s *BalanceServiceSuite) TestResolveOwner() {
	s.insertBill(s.alice.ID, s.card.ID, 100)

	owner, err := s.svc.Balance.ResolveOwner(s.ctx, s.card)
	s.Require().NoError(err)
	s.Equal(s.alice.ID, owner.ID)
}

func (s *BalanceServiceSuite) TestResolveOwnerFailsWithoutDeposits() {
	_, err := s.svc.Balance.ResolveOwner(s.ctx, s.card)
	s.ErrorIs(err, apperrors.ErrInvariant)
}

func (s *BalanceServiceSuite) TestResolveOwnerFailsWithTwoFunders() {
	bobID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Bob", nil)
	s.Require().NoError(err)
	s.insertBill(s.alice.ID, s.card.ID, 100)
	s.insertBill(bobID, s.card.ID, 50)

	_, err = s.svc.Balance.ResolveOwner(s.ctx, s.card)
	s.ErrorIs(err, apperrors.ErrInvariant)
}

func (s *BalanceServiceSuite) TestResolveOwnerRejectsNonCard() {
	_, err := s.svc.Balance.ResolveOwner(s.ctx, s.alice)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BalanceServiceSuite) TestResolveBalance() {
	s.insertBill(s.alice.ID, s.card.ID, 100)
	s.insertBill(s.card.ID, s.outside.ID, 30)
	s.insertBill(s.alice.ID, s.card.ID, 50)

	balance, err := s.svc.Balance.ResolveBalance(s.ctx, s.card)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(120)), "got %s", balance)
}

func (s *BalanceServiceSuite) TestBalanceIgnoresInvalidBills() {
	s.insertBill(s.alice.ID, s.card.ID, 100)

	invalid, err := domain.NewBill(s.card.ID, s.outside.ID, decimal.NewFromInt(30), nil, "", 0, 0)
	s.Require().NoError(err)
	invalid.Valid = false
	_, err = s.store.SaveBills(s.ctx, nil, []domain.Bill{invalid})
	s.Require().NoError(err)

	balance, err := s.svc.Balance.ResolveBalance(s.ctx, s.card)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(100)), "got %s", balance)
}

func (s *BalanceServiceSuite) TestOwnerSurvivesBillInvalidation() {
	// Ownership counts invalidated bills; only the balance fold skips them.
	deposit, err := domain.NewBill(s.alice.ID, s.card.ID, decimal.NewFromInt(100), nil, "", 0, 0)
	s.Require().NoError(err)
	deposit.Valid = false
	_, err = s.store.SaveBills(s.ctx, nil, []domain.Bill{deposit})
	s.Require().NoError(err)

	owner, err := s.svc.Balance.ResolveOwner(s.ctx, s.card)
	s.Require().NoError(err)
	s.Equal(s.alice.ID, owner.ID)

	balance, err := s.svc.Balance.ResolveBalance(s.ctx, s.card)
	s.Require().NoError(err)
	s.True(balance.IsZero(), "got %s", balance)
}

func (s *BalanceServiceSuite) TestBalanceIsOrderIndependent() {
	// Replay the same bills in reverse order on a second store; the derived
	// balance must not change.
	forward := []struct{ from, to, amount int64 }{
		{s.alice.ID, s.card.ID, 100},
		{s.card.ID, s.outside.ID, 30},
		{s.alice.ID, s.card.ID, 50},
		{s.card.ID, s.outside.ID, 40},
	}
	for _, b := range forward {
		s.insertBill(b.from, b.to, b.amount)
	}
	want, err := s.svc.Balance.ResolveBalance(s.ctx, s.card)
	s.Require().NoError(err)

	other := &BalanceServiceSuite{}
	other.SetT(s.T())
	other.SetupTest()
	remap := map[int64]int64{
		s.alice.ID:   other.alice.ID,
		s.card.ID:    other.card.ID,
		s.outside.ID: other.outside.ID,
	}
	for i := len(forward) - 1; i >= 0; i-- {
		other.insertBill(remap[forward[i].from], remap[forward[i].to], forward[i].amount)
	}
	got, err := other.svc.Balance.ResolveBalance(other.ctx, other.card)
	s.Require().NoError(err)
	s.True(want.Equal(got), "forward %s, reverse %s", want, got)
}
