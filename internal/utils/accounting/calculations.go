package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinEntries is the smallest number of lines a transaction may have.
const MinEntries = 2

// AmountPlaces is the number of decimal places an entry amount may carry.
// With whole cents a difference below BalanceTolerance is exactly zero, so
// accepted postings never accumulate drift.
const AmountPlaces = 2

// CheckEntrySides reports the side rule violations of one entry: amounts are
// never negative, carry at most AmountPlaces decimals, and exactly one side
// is strictly positive.
func CheckEntrySides(index int, debit, credit decimal.Decimal) []apperrors.ValidationError {
	var errs []apperrors.ValidationError
	if debit.IsNegative() {
		errs = append(errs, apperrors.ValidationError{Index: index, Field: "debitAmount", Message: "must not be negative"})
	} else if !hasCents(debit) {
		errs = append(errs, apperrors.ValidationError{Index: index, Field: "debitAmount", Message: "must not have more than 2 decimal places"})
	}
	if credit.IsNegative() {
		errs = append(errs, apperrors.ValidationError{Index: index, Field: "creditAmount", Message: "must not be negative"})
	} else if !hasCents(credit) {
		errs = append(errs, apperrors.ValidationError{Index: index, Field: "creditAmount", Message: "must not have more than 2 decimal places"})
	}
	if len(errs) > 0 {
		return errs
	}

	switch {
	case debit.IsPositive() && credit.IsPositive():
		return []apperrors.ValidationError{{Index: index, Message: "must have either a debit or a credit amount, not both"}}
	case !debit.IsPositive() && !credit.IsPositive():
		return []apperrors.ValidationError{{Index: index, Message: "must have a positive debit or credit amount"}}
	}
	return nil
}

func hasCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(AmountPlaces))
}

// CheckBalance returns an aggregate validation error when the totals differ
// by the tolerance or more.
func CheckBalance(debit, credit decimal.Decimal) *apperrors.ValidationError {
	if domain.IsBalanced(debit, credit) {
		return nil
	}
	return &apperrors.ValidationError{
		Index: -1,
		Message: fmt.Sprintf("debits (%s) do not equal credits (%s): difference %s",
			debit.StringFixed(2), credit.StringFixed(2), debit.Sub(credit).Abs().StringFixed(2)),
	}
}

// DisplayColumns places a signed balance in the trial balance column of the
// account's normal side. A negative balance moves to the opposite column as
// its absolute value.
func DisplayColumns(account domain.Account, balance decimal.Decimal) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	normalDebit := account.NormalBalance == domain.NormalDebit
	if balance.IsNegative() {
		normalDebit = !normalDebit
	}
	if normalDebit {
		debit = balance.Abs()
	} else {
		credit = balance.Abs()
	}
	return debit, credit
}

// ValidateTrialBalance sums both display columns of a trial balance.
func ValidateTrialBalance(rows []domain.TrialBalanceRow) domain.TrialBalanceCheck {
	debit, credit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	return domain.TrialBalanceCheck{
		DebitTotal:  debit,
		CreditTotal: credit,
		IsBalanced:  domain.IsBalanced(debit, credit),
		Difference:  debit.Sub(credit).Abs(),
	}
}
