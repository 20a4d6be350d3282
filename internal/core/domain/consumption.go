package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/apperrors"
)

// ConsumptionType selects which bill recipe a consumption entry produces.
type ConsumptionType string

const (
	ConsumptionNone       ConsumptionType = ""
	ConsumptionPurchase   ConsumptionType = "purchase"
	ConsumptionDeposit    ConsumptionType = "deposit"
	ConsumptionUseCard    ConsumptionType = "use_card"
	ConsumptionThirdParty ConsumptionType = "third_party"
)

// ConsumptionTypeOf parses a string into a ConsumptionType, mapping unknown
// values to ConsumptionNone.
func ConsumptionTypeOf(s string) ConsumptionType {
	switch ConsumptionType(s) {
	case ConsumptionPurchase, ConsumptionDeposit, ConsumptionUseCard, ConsumptionThirdParty:
		return ConsumptionType(s)
	default:
		return ConsumptionNone
	}
}

// ConsumptionStep identifies one field-collection step of an entry.
type ConsumptionStep string

const (
	StepCustomer   ConsumptionStep = "customer"
	StepService    ConsumptionStep = "service"
	StepServant    ConsumptionStep = "servant"
	StepCard       ConsumptionStep = "card"
	StepThird      ConsumptionStep = "third"
	StepMoneyThird ConsumptionStep = "money_third"
	StepMoney      ConsumptionStep = "money"
	StepRemark     ConsumptionStep = "remark"
)

// Steps returns the ordered field-collection steps for the type. Steps must
// be completed in this order; the state machine disallows skipping.
func (t ConsumptionType) Steps() []ConsumptionStep {
	switch t {
	case ConsumptionPurchase:
		return []ConsumptionStep{StepCustomer, StepService, StepServant, StepMoney, StepRemark}
	case ConsumptionDeposit:
		return []ConsumptionStep{StepCustomer, StepCard, StepMoney, StepRemark}
	case ConsumptionUseCard:
		return []ConsumptionStep{StepCustomer, StepService, StepServant, StepCard, StepMoney, StepRemark}
	case ConsumptionThirdParty:
		return []ConsumptionStep{StepCustomer, StepService, StepServant, StepThird, StepMoneyThird, StepMoney, StepRemark}
	default:
		return nil
	}
}

// Consumption is one in-flight consumption entry: a type plus its ordered
// field steps. Account-valued fields may hold nodes that are not persisted
// yet (staged through the consumption service's cache); every field is nil
// until its step completes.
type Consumption struct {
	ID         string
	Type       ConsumptionType
	Customer   *MoneyNode
	Card       *MoneyNode
	Servant    *MoneyNode
	Third      *MoneyNode
	Service    *MassageService
	Money      *decimal.Decimal
	MoneyThird *decimal.Decimal
	Remark     *string
}

// NewConsumption returns an entry with no type selected.
func NewConsumption() *Consumption {
	return &Consumption{ID: uuid.NewString()}
}

// SelectType fixes the entry's type. It may only be called once.
func (c *Consumption) SelectType(t ConsumptionType) error {
	if t == ConsumptionNone {
		return fmt.Errorf("%w: consumption type is none", apperrors.ErrValidation)
	}
	if c.Type != ConsumptionNone {
		return fmt.Errorf("%w: consumption type already selected", apperrors.ErrValidation)
	}
	c.Type = t
	return nil
}

// NextStep returns the first incomplete step. ok is false when the type is
// unselected or every step is done.
func (c *Consumption) NextStep() (step ConsumptionStep, ok bool) {
	for _, s := range c.Type.Steps() {
		if !c.stepDone(s) {
			return s, true
		}
	}
	return "", false
}

// Ready reports whether the type is selected and every step has a value.
func (c *Consumption) Ready() bool {
	if c.Type == ConsumptionNone {
		return false
	}
	_, pending := c.NextStep()
	return !pending
}

func (c *Consumption) stepDone(step ConsumptionStep) bool {
	switch step {
	case StepCustomer:
		return c.Customer != nil
	case StepService:
		return c.Service != nil
	case StepServant:
		return c.Servant != nil
	case StepCard:
		return c.Card != nil
	case StepThird:
		return c.Third != nil
	case StepMoneyThird:
		return c.MoneyThird != nil
	case StepMoney:
		return c.Money != nil
	case StepRemark:
		return c.Remark != nil
	default:
		return false
	}
}

func (c *Consumption) require(step ConsumptionStep) error {
	next, ok := c.NextStep()
	if !ok {
		return fmt.Errorf("%w: all steps already complete", apperrors.ErrValidation)
	}
	if next != step {
		return fmt.Errorf("%w: step %s is not next (expected %s)", apperrors.ErrValidation, step, next)
	}
	return nil
}

// SetCustomer completes the customer step.
func (c *Consumption) SetCustomer(n MoneyNode) error {
	if err := c.require(StepCustomer); err != nil {
		return err
	}
	if n.Type != Customer {
		return fmt.Errorf("%w: node %q is not a customer", apperrors.ErrValidation, n.Name)
	}
	c.Customer = &n
	return nil
}

// SetService completes the service step.
func (c *Consumption) SetService(s MassageService) error {
	if err := c.require(StepService); err != nil {
		return err
	}
	c.Service = &s
	return nil
}

// SetServant completes the servant step.
func (c *Consumption) SetServant(n MoneyNode) error {
	if err := c.require(StepServant); err != nil {
		return err
	}
	if n.Type != Employee {
		return fmt.Errorf("%w: node %q is not an employee", apperrors.ErrValidation, n.Name)
	}
	c.Servant = &n
	return nil
}

// SetCard completes the card step.
func (c *Consumption) SetCard(n MoneyNode) error {
	if err := c.require(StepCard); err != nil {
		return err
	}
	if n.Type != Card {
		return fmt.Errorf("%w: node %q is not a card", apperrors.ErrValidation, n.Name)
	}
	c.Card = &n
	return nil
}

// SetThird completes the third-party step.
func (c *Consumption) SetThird(n MoneyNode) error {
	if err := c.require(StepThird); err != nil {
		return err
	}
	if n.Type != Third {
		return fmt.Errorf("%w: node %q is not a third party", apperrors.ErrValidation, n.Name)
	}
	c.Third = &n
	return nil
}

// SetMoneyThird completes the third-party-received amount step.
func (c *Consumption) SetMoneyThird(m decimal.Decimal) error {
	if err := c.require(StepMoneyThird); err != nil {
		return err
	}
	if m.IsZero() {
		return fmt.Errorf("%w: amount must be non-zero", apperrors.ErrValidation)
	}
	c.MoneyThird = &m
	return nil
}

// SetMoney completes the amount step.
func (c *Consumption) SetMoney(m decimal.Decimal) error {
	if err := c.require(StepMoney); err != nil {
		return err
	}
	if m.IsZero() {
		return fmt.Errorf("%w: amount must be non-zero", apperrors.ErrValidation)
	}
	c.Money = &m
	return nil
}

// SetRemark completes the remark step. An empty remark is allowed.
func (c *Consumption) SetRemark(r string) error {
	if err := c.require(StepRemark); err != nil {
		return err
	}
	c.Remark = &r
	return nil
}
