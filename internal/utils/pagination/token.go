package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeMultiFieldToken creates a token with any number of string fields
// This provides flexibility for different pagination strategies
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// TransactionPosition is where a page of transaction headers stopped.
type TransactionPosition struct {
	PostingDate       time.Time
	TransactionNumber int64
}

// EncodeTransactionToken creates a token from the last header of a page.
func EncodeTransactionToken(pos TransactionPosition) string {
	return EncodeMultiFieldToken(pos.PostingDate.Format(timeFormat), strconv.FormatInt(pos.TransactionNumber, 10))
}

// DecodeTransactionToken parses a token produced by EncodeTransactionToken.
func DecodeTransactionToken(token string) (TransactionPosition, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return TransactionPosition{}, err
	}
	if len(parts) != 2 {
		return TransactionPosition{}, fmt.Errorf("invalid pagination token format (split)")
	}

	postingDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return TransactionPosition{}, fmt.Errorf("invalid pagination token format (posting date parse): %w", err)
	}
	number, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return TransactionPosition{}, fmt.Errorf("invalid pagination token format (transaction number parse): %w", err)
	}
	return TransactionPosition{PostingDate: postingDate, TransactionNumber: number}, nil
}

// LedgerPosition is where a page of general ledger lines stopped. RunningBalance
// is the balance the next line starts from and is nil for unfiltered ledgers.
type LedgerPosition struct {
	PostingDate       time.Time
	TransactionNumber int64
	LineNumber        int
	RunningBalance    *decimal.Decimal
}

// EncodeLedgerToken creates a token from the last line of a ledger page.
func EncodeLedgerToken(pos LedgerPosition) string {
	balance := ""
	if pos.RunningBalance != nil {
		balance = pos.RunningBalance.String()
	}
	return EncodeMultiFieldToken(
		pos.PostingDate.Format(timeFormat),
		strconv.FormatInt(pos.TransactionNumber, 10),
		strconv.Itoa(pos.LineNumber),
		balance,
	)
}

// DecodeLedgerToken parses a token produced by EncodeLedgerToken.
func DecodeLedgerToken(token string) (LedgerPosition, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return LedgerPosition{}, err
	}
	if len(parts) != 4 {
		return LedgerPosition{}, fmt.Errorf("invalid pagination token format (split)")
	}

	var pos LedgerPosition
	if pos.PostingDate, err = time.Parse(timeFormat, parts[0]); err != nil {
		return LedgerPosition{}, fmt.Errorf("invalid pagination token format (posting date parse): %w", err)
	}
	if pos.TransactionNumber, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return LedgerPosition{}, fmt.Errorf("invalid pagination token format (transaction number parse): %w", err)
	}
	if pos.LineNumber, err = strconv.Atoi(parts[2]); err != nil {
		return LedgerPosition{}, fmt.Errorf("invalid pagination token format (line number parse): %w", err)
	}
	if parts[3] != "" {
		balance, err := decimal.NewFromString(parts[3])
		if err != nil {
			return LedgerPosition{}, fmt.Errorf("invalid pagination token format (running balance parse): %w", err)
		}
		pos.RunningBalance = &balance
	}
	return pos, nil
}
