package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapToHTTPStatus(t *testing.T) {
	req := require.New(t)
	req.Equal(http.StatusOK, MapToHTTPStatus(nil))
	req.Equal(http.StatusUnauthorized, MapToHTTPStatus(ErrNoCredential))
	req.Equal(http.StatusUnauthorized, MapToHTTPStatus(fmt.Errorf("%w: %w", ErrInvalidCredential, ErrVerifierTimeout)))
	req.Equal(http.StatusBadRequest, MapToHTTPStatus(fmt.Errorf("%w: too long", ErrInvalidConfession)))
	req.Equal(http.StatusInternalServerError, MapToHTTPStatus(fmt.Errorf("%w: disk full", ErrConversationLookup)))
}
