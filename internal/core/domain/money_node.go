package domain

import (
	"fmt"
	"slices"

	"github.com/spread/footspa_backend/internal/apperrors"
)

// MoneyNodeType tags a money node with its role in the ledger graph.
type MoneyNodeType string

const (
	None     MoneyNodeType = ""
	Public   MoneyNodeType = "public"
	Outside  MoneyNodeType = "outside"
	Third    MoneyNodeType = "third"
	Employer MoneyNodeType = "employer"
	Employee MoneyNodeType = "employee"
	Customer MoneyNodeType = "customer"
	Card     MoneyNodeType = "card"
)

// MoneyNodeTypeOf parses a string into a MoneyNodeType, mapping unknown
// values to None.
func MoneyNodeTypeOf(s string) MoneyNodeType {
	switch MoneyNodeType(s) {
	case Public, Outside, Third, Employer, Employee, Customer, Card:
		return MoneyNodeType(s)
	default:
		return None
	}
}

// MoneyNode is a typed balance-tracking entity in the ledger graph.
// Balances are never stored on the node; they are derived by folding bills.
type MoneyNode struct {
	ID   int64
	Name string
	Type MoneyNodeType
	// Keys holds free-form contact keys (e.g. phone numbers) used for
	// fuzzy matching. Order is preserved on round-trip.
	Keys []string
	// CardTypeID references a CardType; only set for Card nodes.
	CardTypeID *int64
	// CardValid is the soft-invalidation flag for Card nodes; nil means
	// not applicable (the node is not a card).
	CardValid *bool
}

// NewMoneyNode validates and constructs a MoneyNode. A node with an unset
// type is rejected; id stays zero until the store assigns one on insert.
func NewMoneyNode(name string, nodeType MoneyNodeType, keys []string, cardTypeID *int64, cardValid *bool) (MoneyNode, error) {
	if nodeType == None {
		return MoneyNode{}, fmt.Errorf("%w: money node type is none", apperrors.ErrValidation)
	}
	if nodeType == Card && cardTypeID == nil {
		return MoneyNode{}, fmt.Errorf("%w: card node requires a card type", apperrors.ErrValidation)
	}
	return MoneyNode{
		Name:       name,
		Type:       nodeType,
		Keys:       keys,
		CardTypeID: cardTypeID,
		CardValid:  cardValid,
	}, nil
}

// ContainsKey reports whether the node carries the given contact key.
func (n MoneyNode) ContainsKey(key string) bool {
	return slices.Contains(n.Keys, key)
}

// IsValidCard reports whether the node is a card that has not been soft-invalidated.
func (n MoneyNode) IsValidCard() bool {
	return n.Type == Card && n.CardValid != nil && *n.CardValid
}

// Equal is the structural equality used everywhere a staged node has to be
// matched against another node (staging cache, preview, flush rebinding).
func (n MoneyNode) Equal(other MoneyNode) bool {
	if n.ID != other.ID || n.Name != other.Name || n.Type != other.Type {
		return false
	}
	if !slices.Equal(n.Keys, other.Keys) {
		return false
	}
	if !equalPtr(n.CardTypeID, other.CardTypeID) {
		return false
	}
	return equalPtr(n.CardValid, other.CardValid)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
