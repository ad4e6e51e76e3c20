package pagination

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMultiFieldToken(t *testing.T) {
	// Test with simple fields
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decodedFields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, fields, decodedFields, "Fields should match after decode")

	// When splitting an empty string with strings.Split, we get a slice with one empty string
	decodedEmpty, err := DecodeMultiFieldToken(EncodeMultiFieldToken())
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)

	_, err = DecodeMultiFieldToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")
}

func TestTransactionToken(t *testing.T) {
	pos := TransactionPosition{
		PostingDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TransactionNumber: 42,
	}

	decoded, err := DecodeTransactionToken(EncodeTransactionToken(pos))
	require.NoError(t, err)
	assert.True(t, pos.PostingDate.Equal(decoded.PostingDate))
	assert.Equal(t, int64(42), decoded.TransactionNumber)

	_, err = DecodeTransactionToken(EncodeMultiFieldToken("2024-03-31T00:00:00Z"))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeTransactionToken(EncodeMultiFieldToken("notadate", "1"))
	assert.ErrorContains(t, err, "posting date parse")

	_, err = DecodeTransactionToken(EncodeMultiFieldToken("2024-03-31T00:00:00Z", "x"))
	assert.ErrorContains(t, err, "transaction number parse")
}

func TestLedgerToken(t *testing.T) {
	balance := decimal.RequireFromString("-125.40")
	pos := LedgerPosition{
		PostingDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TransactionNumber: 7,
		LineNumber:        2,
		RunningBalance:    &balance,
	}

	decoded, err := DecodeLedgerToken(EncodeLedgerToken(pos))
	require.NoError(t, err)
	assert.True(t, pos.PostingDate.Equal(decoded.PostingDate))
	assert.Equal(t, int64(7), decoded.TransactionNumber)
	assert.Equal(t, 2, decoded.LineNumber)
	require.NotNil(t, decoded.RunningBalance)
	assert.True(t, balance.Equal(*decoded.RunningBalance))

	pos.RunningBalance = nil
	decoded, err = DecodeLedgerToken(EncodeLedgerToken(pos))
	require.NoError(t, err)
	assert.Nil(t, decoded.RunningBalance)

	_, err = DecodeLedgerToken(EncodeMultiFieldToken("2024-01-15T00:00:00Z", "7", "two", ""))
	assert.ErrorContains(t, err, "line number parse")

	_, err = DecodeLedgerToken(EncodeMultiFieldToken("2024-01-15T00:00:00Z", "7", "2", "abc"))
	assert.ErrorContains(t, err, "running balance parse")

	_, err = DecodeLedgerToken(EncodeMultiFieldToken("a", "b"))
	assert.ErrorContains(t, err, "split")
}
