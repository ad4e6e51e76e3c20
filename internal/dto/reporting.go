package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// DateLayout is the calendar date format accepted in query strings.
const DateLayout = "2006-01-02"

// AsOfParams carries an optional as-of date.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// LedgerQueryParams defines query parameters for the general ledger.
type LedgerQueryParams struct {
	AccountID string  `form:"accountId"`
	From      string  `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string  `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// GeneralLedgerPage is one page of ledger lines.
type GeneralLedgerPage struct {
	Lines     []domain.LedgerLine `json:"lines"`
	NextToken *string             `json:"nextToken,omitempty"`
}
