package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("bad dates"), http.StatusBadRequest},
		{"not found", domain.NewNotFoundError("Room", "1"), http.StatusNotFound},
		{"state", domain.NewStateError("cannot cancel"), http.StatusConflict},
		{"conflict wrapped", fmt.Errorf("saving: %w", domain.NewConflictError("overlap")), http.StatusConflict},
		{"not owner", domain.NewNotFoundError("Booking", "someone else's"), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}
