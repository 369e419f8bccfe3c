package negotiations

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrMatchNotFound, fiber.StatusNotFound},
		{ErrNegotiationNotFound, fiber.StatusNotFound},
		{ErrOfferNotFound, fiber.StatusNotFound},
		{ErrActiveNegotiationExists, fiber.StatusBadRequest},
		{ErrNegotiationNotActive, fiber.StatusBadRequest},
		{ErrOfferNotPending, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		var fe *fiber.Error
		require.ErrorAs(t, mapServiceError(tc.err), &fe)
		assert.Equal(t, tc.code, fe.Code)
	}
}

func TestMapServiceErrorPassesThroughUnexpected(t *testing.T) {
	// Unknown errors must reach the central error handler unwrapped so they
	// get logged instead of silently becoming a canned 500.
	boom := errors.New("connection reset by peer")

	got := mapServiceError(boom)
	assert.Equal(t, boom, got)

	var fe *fiber.Error
	assert.False(t, errors.As(got, &fe))
}
