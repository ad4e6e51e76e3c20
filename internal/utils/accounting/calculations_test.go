package accounting

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckEntrySides(t *testing.T) {
	tests := []struct {
		name     string
		debit    string
		credit   string
		wantMsgs []string
	}{
		{name: "debit only", debit: "10", credit: "0"},
		{name: "credit only", debit: "0", credit: "0.01"},
		{name: "both sides", debit: "10", credit: "10", wantMsgs: []string{"must have either a debit or a credit amount, not both"}},
		{name: "neither side", debit: "0", credit: "0", wantMsgs: []string{"must have a positive debit or credit amount"}},
		{name: "negative debit", debit: "-5", credit: "0", wantMsgs: []string{"must not be negative"}},
		{name: "both negative", debit: "-5", credit: "-1", wantMsgs: []string{"must not be negative", "must not be negative"}},
		{name: "trailing zeros", debit: "10.500", credit: "0"},
		{name: "sub-cent debit", debit: "100.009", credit: "0", wantMsgs: []string{"must not have more than 2 decimal places"}},
		{name: "sub-cent credit", debit: "0", credit: "0.001", wantMsgs: []string{"must not have more than 2 decimal places"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckEntrySides(3, d(tt.debit), d(tt.credit))
			require.Len(t, errs, len(tt.wantMsgs))
			for i, e := range errs {
				assert.Equal(t, 3, e.Index)
				assert.Equal(t, tt.wantMsgs[i], e.Message)
			}
		})
	}
}

func TestCheckBalance(t *testing.T) {
	assert.Nil(t, CheckBalance(d("100.00"), d("100.00")))
	assert.Nil(t, CheckBalance(d("100.005"), d("100.00")))

	verr := CheckBalance(d("100.00"), d("90.00"))
	require.NotNil(t, verr)
	assert.Equal(t, -1, verr.Index)
	assert.Contains(t, verr.Message, "difference 10.00")

	verr = CheckBalance(d("100.01"), d("100.00"))
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "difference 0.01")
}

func TestDisplayColumns(t *testing.T) {
	cash := domain.Account{NormalBalance: domain.NormalDebit}
	sales := domain.Account{NormalBalance: domain.NormalCredit}

	debit, credit := DisplayColumns(cash, d("150"))
	assert.True(t, debit.Equal(d("150")))
	assert.True(t, credit.IsZero())

	debit, credit = DisplayColumns(cash, d("-20"))
	assert.True(t, debit.IsZero())
	assert.True(t, credit.Equal(d("20")))

	debit, credit = DisplayColumns(sales, d("80"))
	assert.True(t, debit.IsZero())
	assert.True(t, credit.Equal(d("80")))

	debit, credit = DisplayColumns(sales, d("-5"))
	assert.True(t, debit.Equal(d("5")))
	assert.True(t, credit.IsZero())
}

func TestValidateTrialBalance(t *testing.T) {
	rows := []domain.TrialBalanceRow{
		{Debit: d("100"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: d("60")},
		{Debit: decimal.Zero, Credit: d("40")},
	}
	check := ValidateTrialBalance(rows)
	assert.True(t, check.IsBalanced)
	assert.True(t, check.DebitTotal.Equal(d("100")))
	assert.True(t, check.Difference.IsZero())

	rows = append(rows, domain.TrialBalanceRow{Debit: d("0.5")})
	check = ValidateTrialBalance(rows)
	assert.False(t, check.IsBalanced)
	assert.True(t, check.Difference.Equal(d("0.5")))

	assert.True(t, ValidateTrialBalance(nil).IsBalanced)
}
