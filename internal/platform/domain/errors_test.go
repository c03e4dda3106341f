package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_KindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("loading booking: %w", NewNotFoundError("Booking", "42"))

	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "loading booking: Booking 42 not found", err.Error())
}

func TestDomainError_Messages(t *testing.T) {
	assert.Equal(t, "cannot transition from CANCELLED to PAID", NewInvalidStateError("CANCELLED", "PAID").Error())
	assert.Equal(t, "adults must be at least 1", NewValidationError("adults must be at least %d", 1).Error())

	bare := &DomainError{Err: ErrConflict}
	assert.Equal(t, "conflict", bare.Error())
}
