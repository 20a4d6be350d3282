package services

import (
	"context"

	"github.com/spread/footspa_backend/internal/core/domain"
)

// Subscription is a continuously updated view over one entity kind: the
// snapshot current at subscribe time plus a channel of subsequent full
// snapshots. Consumers must treat received slices as read-only and call
// Cancel when done.
type Subscription[T any] struct {
	Snapshot []T
	Updates  <-chan []T
	Cancel   func()
}

// LedgerSvcFacade is the account store: inserts, lookups, existence checks
// and reactive views over money nodes, bills, card types and massage
// services, plus the startup invariant check.
type LedgerSvcFacade interface {
	// InitIfNeeded seeds the public and outside nodes when the store is
	// empty, or verifies exactly one of each exists. Safe against
	// concurrent re-entry; an invariant failure is fatal for the store.
	InitIfNeeded(ctx context.Context) error

	InsertMoneyNodes(ctx context.Context, nodes ...domain.MoneyNode) ([]int64, error)
	InsertCustomer(ctx context.Context, name string, phoneNumbers []string) (int64, error)
	InsertEmployee(ctx context.Context, name string, phoneNumbers []string) (int64, error)
	InsertEmployer(ctx context.Context, name string, phoneNumbers []string) (int64, error)
	InsertThirdParty(ctx context.Context, name string) (int64, error)
	InsertCard(ctx context.Context, name string, phoneNumbers []string, cardTypeID int64) (int64, error)
	InsertCardTypes(ctx context.Context, cardTypes ...domain.CardType) ([]int64, error)
	InsertMassageServices(ctx context.Context, services ...domain.MassageService) ([]int64, error)
	InsertBills(ctx context.Context, bills ...domain.Bill) ([]int64, error)

	GetAllMoneyNodes(ctx context.Context) ([]domain.MoneyNode, error)
	GetAllBills(ctx context.Context) ([]domain.Bill, error)
	GetAllCardTypes(ctx context.Context) ([]domain.CardType, error)
	GetAllMassageServices(ctx context.Context) ([]domain.MassageService, error)

	// GetMoneyNode returns apperrors.ErrNotFound when the id is absent.
	GetMoneyNode(ctx context.Context, id int64) (*domain.MoneyNode, error)
	GetPublic(ctx context.Context) (*domain.MoneyNode, error)
	GetOutside(ctx context.Context) (*domain.MoneyNode, error)

	MoneyNodeExists(ctx context.Context, id int64) (bool, error)
	BillExists(ctx context.Context, id int64) (bool, error)
	CardTypeExists(ctx context.Context, id int64) (bool, error)
	MassageServiceExists(ctx context.Context, id int64) (bool, error)

	// FindCardType resolves the card type a card node references; nil when
	// the node carries no card type reference.
	FindCardType(ctx context.Context, card domain.MoneyNode) (*domain.CardType, error)

	// SetCardValid toggles a card node's soft-invalidation flag.
	SetCardValid(ctx context.Context, id int64, valid bool) error

	SubscribeMoneyNodes() *Subscription[domain.MoneyNode]
	SubscribeBills() *Subscription[domain.Bill]
	SubscribeCardTypes() *Subscription[domain.CardType]
	SubscribeMassageServices() *Subscription[domain.MassageService]
}
