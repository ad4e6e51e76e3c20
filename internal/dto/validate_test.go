package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CreateAgentRequest(t *testing.T) {
	err := Validate(CreateAgentRequest{Name: "bookkeeper", Provider: "mock"})
	assert.NoError(t, err)

	err = Validate(CreateAgentRequest{Provider: "gpt-unknown"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	var verrs apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := []string{}
	for _, v := range verrs {
		fields = append(fields, v.Field)
		assert.Equal(t, -1, v.Index)
	}
	assert.ElementsMatch(t, []string{"name", "provider"}, fields)
}

func TestValidate_CreateSuggestionRequest(t *testing.T) {
	err := Validate(CreateSuggestionRequest{AgentID: "a1", TransactionDate: time.Now()})
	var verrs apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "suggestedEntries", verrs[0].Field)
}

func TestToValidationErrors_NonFieldError(t *testing.T) {
	verrs := ToValidationErrors(errors.New("unexpected EOF"))
	require.Len(t, verrs, 1)
	assert.Equal(t, -1, verrs[0].Index)
	assert.Equal(t, "unexpected EOF", verrs[0].Message)
	assert.True(t, errors.Is(verrs, apperrors.ErrValidation))
}
