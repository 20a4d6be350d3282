package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/spread/footspa_backend/internal/core/domain"
	portsrepo "github.com/spread/footspa_backend/internal/core/ports/repositories"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/utils/textmatch"
)

// searchService ranks money nodes and massage services against free text.
// Every candidate is scored against several derived fields; per-field
// rankings are merged with earlier fields winning ties and each candidate
// kept once at its best position.
type searchService struct {
	repo portsrepo.LedgerRepository
}

// NewSearchService creates the fuzzy search service.
func NewSearchService(repo portsrepo.LedgerRepository) portssvc.SearchSvcFacade {
	return &searchService{repo: repo}
}

var _ portssvc.SearchSvcFacade = (*searchService)(nil)

// moneyNodeFields derives the searchable text fields of a node set. Field
// order matters: it is the tie-break order of the merged ranking.
func moneyNodeFields(nodes []domain.MoneyNode) [][]string {
	names := make([]string, len(nodes))
	keys := make([]string, len(nodes))
	phonetic := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
		keys[i] = strings.Join(n.Keys, ", ")
		phonetic[i] = textmatch.Transliterate(n.Name)
	}
	return [][]string{names, keys, phonetic}
}

func massageServiceFields(services []domain.MassageService) [][]string {
	names := make([]string, len(services))
	descs := make([]string, len(services))
	phonetic := make([]string, len(services))
	prices := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
		descs[i] = s.Desc
		phonetic[i] = textmatch.Transliterate(s.Name)
		prices[i] = s.Price.String()
	}
	return [][]string{names, descs, phonetic, prices}
}

// rankFields scores the query against each field concurrently and merges the
// rankings into candidate indexes.
func rankFields(ctx context.Context, query string, fields [][]string, minScore, top int) ([]int, error) {
	lists := make([][]textmatch.Candidate, len(fields))
	g, _ := errgroup.WithContext(ctx)
	for i, field := range fields {
		i, field := i, field
		g.Go(func() error {
			lists[i] = textmatch.ExtractAll(query, field)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return textmatch.RankAndDedup(lists, minScore, top), nil
}

func (s *searchService) QueryMoneyNodes(ctx context.Context, query string, q portssvc.MoneyNodeQuery) ([]domain.MoneyNode, error) {
	nodes, err := s.repo.GetAllMoneyNodes(ctx, nil)
	if err != nil {
		return nil, err
	}

	candidates := nodes[:0:0]
	for _, n := range nodes {
		if len(q.Types) > 0 {
			found := false
			for _, t := range q.Types {
				if n.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if q.Filter != nil && !q.Filter(n) {
			continue
		}
		candidates = append(candidates, n)
	}

	indexes, err := rankFields(ctx, query, moneyNodeFields(candidates), q.MinScore, q.Top)
	if err != nil {
		return nil, err
	}
	results := make([]domain.MoneyNode, 0, len(indexes))
	for _, i := range indexes {
		results = append(results, candidates[i])
	}
	return results, nil
}

// fundedCards returns the valid cards the customer has sent money to. Both
// reads happen on the caller's transaction snapshot.
func (s *searchService) fundedCards(ctx context.Context, tx portsrepo.Tx, customer domain.MoneyNode) ([]domain.MoneyNode, error) {
	bills, err := s.repo.GetAllBills(ctx, tx)
	if err != nil {
		return nil, err
	}
	nodes, err := s.repo.GetAllMoneyNodes(ctx, tx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.MoneyNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	cards := []domain.MoneyNode{}
	seen := map[int64]struct{}{}
	for _, b := range bills {
		if !b.Valid || b.FromID != customer.ID {
			continue
		}
		if _, dup := seen[b.ToID]; dup {
			continue
		}
		if to, ok := byID[b.ToID]; ok && to.IsValidCard() {
			seen[to.ID] = struct{}{}
			cards = append(cards, to)
		}
	}
	return cards, nil
}

func (s *searchService) QueryCards(ctx context.Context, query string, customer domain.MoneyNode, minScore, top int) ([]domain.MoneyNode, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	return s.queryCardsInTx(ctx, tx, query, customer, minScore, top)
}

func (s *searchService) queryCardsInTx(ctx context.Context, tx portsrepo.Tx, query string, customer domain.MoneyNode, minScore, top int) ([]domain.MoneyNode, error) {
	cards, err := s.fundedCards(ctx, tx, customer)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return cards, nil
	}

	indexes, err := rankFields(ctx, query, moneyNodeFields(cards), minScore, top)
	if err != nil {
		return nil, err
	}
	results := make([]domain.MoneyNode, 0, len(indexes))
	for _, i := range indexes {
		results = append(results, cards[i])
	}
	return results, nil
}

// QueryCardsWithBalance runs the card lookup and every balance fold on one
// transaction snapshot, so a bill committed mid-query cannot skew a balance.
func (s *searchService) QueryCardsWithBalance(ctx context.Context, query string, customer domain.MoneyNode, minScore, top int) ([]portssvc.CardBalance, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cards, err := s.queryCardsInTx(ctx, tx, query, customer, minScore, top)
	if err != nil {
		return nil, err
	}
	results := make([]portssvc.CardBalance, 0, len(cards))
	for _, card := range cards {
		balance, err := resolveBalanceInTx(ctx, s.repo, tx, card)
		if err != nil {
			return nil, err
		}
		results = append(results, portssvc.CardBalance{Card: card, Balance: balance})
	}
	return results, nil
}

func (s *searchService) QueryMassageServices(ctx context.Context, query string, services []domain.MassageService, minScore, top int) ([]domain.MassageService, error) {
	indexes, err := rankFields(ctx, query, massageServiceFields(services), minScore, top)
	if err != nil {
		return nil, err
	}
	results := make([]domain.MassageService, 0, len(indexes))
	for _, i := range indexes {
		results = append(results, services[i])
	}
	return results, nil
}
