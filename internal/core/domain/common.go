package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the absolute difference under which debits and credits
// are considered equal.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// IsBalanced reports whether two totals agree within BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThan(BalanceTolerance)
}
