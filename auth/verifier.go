package auth

import (
	"bytes"
	"chat-relay/errors"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Decoded *struct {
		Name string `json:"name"`
	} `json:"decoded"`
}

// RemoteVerifier asks the identity service to decode a credential.
// The service answers {"decoded": {"name": "..."}} for a valid token and a non-2xx status otherwise.
type RemoteVerifier struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

func NewRemoteVerifier(endpoint string, timeout time.Duration, log *slog.Logger) *RemoteVerifier {
	return &RemoteVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, credential string) (string, error) {
	body, err := json.Marshal(verifyRequest{Token: credential})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.Warn("Identity service call failed", "error", err)
		var netErr net.Error
		if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
			return "", fmt.Errorf("%w: %w", errors.ErrInvalidCredential, errors.ErrVerifierTimeout)
		}
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCredential, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: identity service answered %s", errors.ErrInvalidCredential, resp.Status)
	}

	var out verifyResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCredential, err)
	}
	if out.Decoded == nil || out.Decoded.Name == "" {
		return "", errors.ErrInvalidCredential
	}
	return out.Decoded.Name, nil
}
