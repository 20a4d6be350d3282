package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spread/footspa_backend/internal/apperrors"
)

// Tags stamped on bills synthesized by the consumption workflow.
const (
	TagPurchase          = "purchase"
	TagDeposit           = "deposit"
	TagDepositCard       = "deposit_card"
	TagUseCard           = "use_card"
	TagThirdPartyDisplay = "third_party_display"
	TagThirdPartyReal    = "third_party_real"
)

// Bill is an immutable transfer record between two money nodes. It is the
// sole mutation primitive for money: every balance is derived by summing
// bills, never by updating a stored balance.
type Bill struct {
	ID     int64
	Date   time.Time
	FromID int64
	ToID   int64
	Money  decimal.Decimal
	Valid  bool
	Tags   []string
	Remark string
	// ServiceID and ServantID reference the massage service performed and
	// the employee who performed it; zero means not applicable.
	ServiceID int64
	ServantID int64
}

// NewBill validates and constructs a Bill dated now. Both endpoints must be
// persisted nodes and the amount must be non-zero.
func NewBill(fromID, toID int64, money decimal.Decimal, tags []string, remark string, serviceID, servantID int64) (Bill, error) {
	if fromID == 0 || toID == 0 {
		return Bill{}, fmt.Errorf("%w: bill endpoints must reference persisted nodes", apperrors.ErrValidation)
	}
	if money.IsZero() {
		return Bill{}, fmt.Errorf("%w: bill amount must be non-zero", apperrors.ErrValidation)
	}
	return Bill{
		Date:      time.Now().UTC(),
		FromID:    fromID,
		ToID:      toID,
		Money:     money,
		Valid:     true,
		Tags:      tags,
		Remark:    remark,
		ServiceID: serviceID,
		ServantID: servantID,
	}, nil
}
