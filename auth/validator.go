package auth

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseFrame decodes and validates a text frame written by a connected client.
func ParseFrame(data []byte) (domain.InboundFrame, error) {
	var frame domain.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return domain.InboundFrame{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}
	frame.To = strings.TrimSpace(frame.To)
	if err := validate.Struct(frame); err != nil {
		return domain.InboundFrame{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}
	return frame, nil
}

func ValidateConfession(cmd domain.PostConfessionCommand) error {
	if strings.TrimSpace(cmd.Text) == "" {
		return fmt.Errorf("%w: empty text", errors.ErrInvalidConfession)
	}
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfession, err)
	}
	return nil
}
