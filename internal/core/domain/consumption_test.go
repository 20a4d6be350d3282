package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
)

func customer(t *testing.T, name string) domain.MoneyNode {
	t.Helper()
	n, err := domain.NewMoneyNode(name, domain.Customer, nil, nil, nil)
	require.NoError(t, err)
	return n
}

func employee(t *testing.T, name string) domain.MoneyNode {
	t.Helper()
	n, err := domain.NewMoneyNode(name, domain.Employee, nil, nil, nil)
	require.NoError(t, err)
	return n
}

func TestSelectTypeOnlyOnce(t *testing.T) {
	c := domain.NewConsumption()
	assert.ErrorIs(t, c.SelectType(domain.ConsumptionNone), apperrors.ErrValidation)
	require.NoError(t, c.SelectType(domain.ConsumptionPurchase))
	assert.ErrorIs(t, c.SelectType(domain.ConsumptionDeposit), apperrors.ErrValidation)
}

func TestStepsMustFollowTypeOrder(t *testing.T) {
	c := domain.NewConsumption()
	require.NoError(t, c.SelectType(domain.ConsumptionPurchase))

	// Money before customer is a skip.
	assert.ErrorIs(t, c.SetMoney(decimal.NewFromInt(88)), apperrors.ErrValidation)

	require.NoError(t, c.SetCustomer(customer(t, "Alice")))
	assert.ErrorIs(t, c.SetServant(employee(t, "Wang")), apperrors.ErrValidation)
	require.NoError(t, c.SetService(domain.MassageService{ID: 1, Name: "足底按摩"}))
	require.NoError(t, c.SetServant(employee(t, "Wang")))
	require.NoError(t, c.SetMoney(decimal.NewFromInt(88)))

	assert.False(t, c.Ready())
	require.NoError(t, c.SetRemark(""))
	assert.True(t, c.Ready())

	assert.ErrorIs(t, c.SetRemark("again"), apperrors.ErrValidation)
}

func TestNextStepWalksDepositOrder(t *testing.T) {
	c := domain.NewConsumption()

	_, ok := c.NextStep()
	assert.False(t, ok, "no steps before a type is selected")

	require.NoError(t, c.SelectType(domain.ConsumptionDeposit))
	step, ok := c.NextStep()
	require.True(t, ok)
	assert.Equal(t, domain.StepCustomer, step)

	require.NoError(t, c.SetCustomer(customer(t, "Alice")))
	step, _ = c.NextStep()
	assert.Equal(t, domain.StepCard, step)

	ctID := int64(1)
	valid := true
	card, err := domain.NewMoneyNode("Gold-001", domain.Card, nil, &ctID, &valid)
	require.NoError(t, err)
	require.NoError(t, c.SetCard(card))

	step, _ = c.NextStep()
	assert.Equal(t, domain.StepMoney, step)
}

func TestSetCustomerRejectsWrongNodeType(t *testing.T) {
	c := domain.NewConsumption()
	require.NoError(t, c.SelectType(domain.ConsumptionPurchase))
	assert.ErrorIs(t, c.SetCustomer(employee(t, "Wang")), apperrors.ErrValidation)
}

func TestSetMoneyRejectsZero(t *testing.T) {
	c := domain.NewConsumption()
	require.NoError(t, c.SelectType(domain.ConsumptionDeposit))
	require.NoError(t, c.SetCustomer(customer(t, "Alice")))
	ctID := int64(1)
	valid := true
	card, err := domain.NewMoneyNode("Gold-001", domain.Card, nil, &ctID, &valid)
	require.NoError(t, err)
	require.NoError(t, c.SetCard(card))

	assert.ErrorIs(t, c.SetMoney(decimal.Zero), apperrors.ErrValidation)
	require.NoError(t, c.SetMoney(decimal.NewFromInt(100)))
}

func TestThirdPartySteps(t *testing.T) {
	steps := domain.ConsumptionThirdParty.Steps()
	assert.Equal(t, []domain.ConsumptionStep{
		domain.StepCustomer, domain.StepService, domain.StepServant,
		domain.StepThird, domain.StepMoneyThird, domain.StepMoney, domain.StepRemark,
	}, steps)

	assert.Nil(t, domain.ConsumptionNone.Steps())
}

func TestConsumptionTypeOf(t *testing.T) {
	assert.Equal(t, domain.ConsumptionUseCard, domain.ConsumptionTypeOf("use_card"))
	assert.Equal(t, domain.ConsumptionNone, domain.ConsumptionTypeOf("bogus"))
}
