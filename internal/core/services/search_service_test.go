package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/spread/footspa_backend/internal/adapters/database/memory"
	"github.com/spread/footspa_backend/internal/core/domain"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/core/services"
)

type SearchServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer

	alice domain.MoneyNode
}

func (s *SearchServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = services.NewContainer(s.store)
	s.Require().NoError(s.svc.Ledger.InitIfNeeded(s.ctx))

	aliceID, err := s.svc.Ledger.InsertCustomer(s.ctx, "Alice", []string{"13800000000"})
	s.Require().NoError(err)
	alice, err := s.svc.Ledger.GetMoneyNode(s.ctx, aliceID)
	s.Require().NoError(err)
	s.alice = *alice

	_, err = s.svc.Ledger.InsertCustomer(s.ctx, "Bob", []string{"13900000000"})
	s.Require().NoError(err)
	_, err = s.svc.Ledger.InsertCustomer(s.ctx, "张三", nil)
	s.Require().NoError(err)
}

func TestSearchServiceSuite(t *testing.T) {
	suite.Run(t, new(SearchServiceSuite))
}

func (s *SearchServiceSuite) customers(query string, minScore, top int) []domain.MoneyNode {
	results, err := s.svc.Search.QueryMoneyNodes(s.ctx, query, portssvc.MoneyNodeQuery{
		MinScore: minScore,
		Top:      top,
		Types:    []domain.MoneyNodeType{domain.Customer},
	})
	s.Require().NoError(err)
	return results
}

func (s *SearchServiceSuite) TestQueryByNameRanksExactMatchFirst() {
	results := s.customers("Alice", 60, 10)
	s.Require().NotEmpty(results)
	s.Equal("Alice", results[0].Name)
}

func (s *SearchServiceSuite) TestResultsAreDeduplicated() {
	// "Alice" scores 100 on both the name and the phonetic field; the node
	// must still appear only once.
	results := s.customers("Alice", 60, 10)
	count := 0
	for _, n := range results {
		if n.Name == "Alice" {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *SearchServiceSuite) TestQueryByPhoneticName() {
	results := s.customers("zhangsan", 80, 10)
	s.Require().NotEmpty(results)
	s.Equal("张三", results[0].Name)
}

func (s *SearchServiceSuite) TestQueryByContactKey() {
	results := s.customers("13800000000", 80, 10)
	s.Require().NotEmpty(results)
	s.Equal("Alice", results[0].Name)
}

func (s *SearchServiceSuite) TestTopBoundsResultCount() {
	results := s.customers("a", 0, 1)
	s.LessOrEqual(len(results), 1)
}

func (s *SearchServiceSuite) TestMinScoreFilters() {
	results := s.customers("qqqzzzxxx", 90, 10)
	s.Empty(results)
}

func (s *SearchServiceSuite) TestTypeRestriction() {
	for _, n := range s.customers("o", 0, 20) {
		s.Equal(domain.Customer, n.Type)
	}
}

func (s *SearchServiceSuite) fundCard(name string) domain.MoneyNode {
	ctIDs, err := s.svc.Ledger.InsertCardTypes(s.ctx, domain.CardType{Name: "gold", Valid: true})
	s.Require().NoError(err)
	cardID, err := s.svc.Ledger.InsertCard(s.ctx, name, nil, ctIDs[0])
	s.Require().NoError(err)
	card, err := s.svc.Ledger.GetMoneyNode(s.ctx, cardID)
	s.Require().NoError(err)

	bill, err := domain.NewBill(s.alice.ID, card.ID, decimal.NewFromInt(100), nil, "", 0, 0)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.InsertBills(s.ctx, bill)
	s.Require().NoError(err)
	return *card
}

func (s *SearchServiceSuite) TestQueryCardsEmptyQueryReturnsFundedCards() {
	card := s.fundCard("Gold-001")

	results, err := s.svc.Search.QueryCards(s.ctx, "", s.alice, 60, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(card.ID, results[0].ID)
}

func (s *SearchServiceSuite) TestQueryCardsSkipsInvalidatedCards() {
	card := s.fundCard("Gold-001")
	s.Require().NoError(s.svc.Ledger.SetCardValid(s.ctx, card.ID, false))

	results, err := s.svc.Search.QueryCards(s.ctx, "", s.alice, 60, 10)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *SearchServiceSuite) TestQueryCardsWithBalance() {
	card := s.fundCard("Gold-001")

	results, err := s.svc.Search.QueryCardsWithBalance(s.ctx, "Gold", s.alice, 60, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(card.ID, results[0].Card.ID)
	s.True(results[0].Balance.Equal(decimal.NewFromInt(100)), "got %s", results[0].Balance)
}

func (s *SearchServiceSuite) TestCardQueriesReleaseTheirSnapshot() {
	// Both card queries read on a transaction snapshot; a snapshot left
	// open would block the write below forever.
	card := s.fundCard("Gold-001")

	_, err := s.svc.Search.QueryCards(s.ctx, "", s.alice, 60, 10)
	s.Require().NoError(err)
	_, err = s.svc.Search.QueryCardsWithBalance(s.ctx, "", s.alice, 60, 10)
	s.Require().NoError(err)

	bill, err := domain.NewBill(s.alice.ID, card.ID, decimal.NewFromInt(10), nil, "", 0, 0)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.InsertBills(s.ctx, bill)
	s.Require().NoError(err)

	results, err := s.svc.Search.QueryCardsWithBalance(s.ctx, "", s.alice, 60, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.True(results[0].Balance.Equal(decimal.NewFromInt(110)), "got %s", results[0].Balance)
}

func (s *SearchServiceSuite) TestQueryMassageServicesMatchesPrice() {
	massageServices := []domain.MassageService{
		{Name: "足底按摩", Desc: "classic foot massage", Price: decimal.NewFromInt(88)},
		{Name: "肩颈按摩", Desc: "neck and shoulders", Price: decimal.NewFromInt(128)},
	}

	results, err := s.svc.Search.QueryMassageServices(s.ctx, "88", massageServices, 80, 10)
	s.Require().NoError(err)
	s.Require().NotEmpty(results)
	s.Equal("足底按摩", results[0].Name)
}
