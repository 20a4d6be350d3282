package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
)

func TestNewMoneyNodeRejectsUnsetType(t *testing.T) {
	_, err := domain.NewMoneyNode("x", domain.None, nil, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewMoneyNodeCardRequiresCardType(t *testing.T) {
	_, err := domain.NewMoneyNode("Gold-001", domain.Card, nil, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	ctID := int64(1)
	valid := true
	card, err := domain.NewMoneyNode("Gold-001", domain.Card, nil, &ctID, &valid)
	require.NoError(t, err)
	assert.True(t, card.IsValidCard())
}

func TestMoneyNodeTypeOf(t *testing.T) {
	assert.Equal(t, domain.Customer, domain.MoneyNodeTypeOf("customer"))
	assert.Equal(t, domain.None, domain.MoneyNodeTypeOf("bogus"))
}

func TestMoneyNodeEqual(t *testing.T) {
	keys := []string{"138", "139"}
	a, err := domain.NewMoneyNode("Alice", domain.Customer, keys, nil, nil)
	require.NoError(t, err)

	b := a
	assert.True(t, a.Equal(b))

	b.Keys = []string{"139", "138"}
	assert.False(t, a.Equal(b), "key order is part of identity")

	c := a
	c.ID = 7
	assert.False(t, a.Equal(c))

	ctID := int64(1)
	d := a
	d.CardTypeID = &ctID
	assert.False(t, a.Equal(d))
}

func TestIsValidCard(t *testing.T) {
	ctID := int64(1)
	valid := true
	invalid := false

	card, err := domain.NewMoneyNode("Gold-001", domain.Card, nil, &ctID, &valid)
	require.NoError(t, err)
	assert.True(t, card.IsValidCard())

	card.CardValid = &invalid
	assert.False(t, card.IsValidCard())

	customer, err := domain.NewMoneyNode("Alice", domain.Customer, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, customer.IsValidCard())
}

func TestNewBillValidation(t *testing.T) {
	_, err := domain.NewBill(0, 2, decimal.NewFromInt(10), nil, "", 0, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewBill(1, 2, decimal.Zero, nil, "", 0, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bill, err := domain.NewBill(1, 2, decimal.NewFromInt(10), []string{domain.TagDeposit}, "first deposit", 0, 0)
	require.NoError(t, err)
	assert.True(t, bill.Valid)
	assert.False(t, bill.Date.IsZero())
}

func TestMassageServiceEqualIgnoresPrice(t *testing.T) {
	now := time.Now()
	a := domain.MassageService{ID: 1, Name: "足底按摩", Desc: "foot", Price: decimal.NewFromInt(88), CreateTime: now}
	b := a
	b.Price = decimal.NewFromInt(98)
	assert.True(t, a.Equal(b))

	b.Desc = "hands"
	assert.False(t, a.Equal(b))
}
