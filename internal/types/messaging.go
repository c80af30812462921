package types

import "encoding/json"

// Transport headers attached to deduplicated bulk sends. These map onto the
// provider's custom header passthrough.
const (
	HeaderEntityRef   = "X-Entity-Ref-ID"
	HeaderUnsubscribe = "List-Unsubscribe"
	HeaderPrecedence  = "Precedence"
)

// Envelope is the fully-assembled outbound email message, constructed
// fresh per send and never persisted. Every envelope must carry at least
// one non-empty recipient address before dispatch is attempted.
type Envelope struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Validate checks the envelope invariants: a sender, a subject, a body,
// and at least one non-empty recipient.
func (e *Envelope) Validate() error {
	if e.From == "" {
		return NewAppError(ErrCodeValidationMissingField, "envelope sender address is empty", nil)
	}
	if e.Subject == "" {
		return NewAppError(ErrCodeValidationMissingField, "envelope subject is empty", nil)
	}
	if e.HTML == "" {
		return NewAppError(ErrCodeValidationMissingField, "envelope body is empty", nil)
	}
	if len(e.To) == 0 {
		return NewAppError(ErrCodeNotFoundRecipient, "envelope has no recipients", nil)
	}
	for _, addr := range e.To {
		if addr == "" {
			return NewAppError(ErrCodeNotFoundRecipient, "envelope has an empty recipient address", nil)
		}
	}
	return nil
}

// ProviderReceipt is the email provider's acknowledgment of an accepted
// message. Raw preserves the provider's response body for endpoints that
// pass it through to the caller.
type ProviderReceipt struct {
	ID  string          `json:"id"`
	Raw json.RawMessage `json:"-"`
}
