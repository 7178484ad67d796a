package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrNoCredential       = fmt.Errorf("no credential")
	ErrInvalidCredential  = fmt.Errorf("invalid credential")
	ErrVerifierTimeout    = fmt.Errorf("identity verification timed out")
	ErrMalformedFrame     = fmt.Errorf("malformed frame")
	ErrStore              = fmt.Errorf("message store failure")
	ErrQueue              = fmt.Errorf("offline queue failure")
	ErrConversationLookup = fmt.Errorf("conversation lookup failed")
	ErrSessionNotActive   = fmt.Errorf("session is not connected")
	ErrOutboundClosed     = fmt.Errorf("outbound channel closed")
	ErrInvalidConfession  = fmt.Errorf("invalid confession")
	ErrShuttingDown       = fmt.Errorf("relay is shutting down")
)

// MapToHTTPStatus translates a domain error into the status code returned by the HTTP handlers.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrNoCredential), stderrors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrInvalidConfession), stderrors.Is(err, ErrMalformedFrame):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
