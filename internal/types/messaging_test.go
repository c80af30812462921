package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnvelope() Envelope {
	return Envelope{
		From:    "Kudosky <no-reply@kudosky.com>",
		To:      []string{"user@example.com"},
		Subject: "New Kudos Received! 🌟",
		HTML:    "<html><body>hi</body></html>",
	}
}

func TestEnvelope_Validate(t *testing.T) {
	env := validEnvelope()
	assert.NoError(t, env.Validate())
}

func TestEnvelope_Validate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Envelope)
		wantCode ErrorCode
	}{
		{
			name:     "missing sender",
			mutate:   func(e *Envelope) { e.From = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "missing subject",
			mutate:   func(e *Envelope) { e.Subject = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "missing body",
			mutate:   func(e *Envelope) { e.HTML = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "no recipients",
			mutate:   func(e *Envelope) { e.To = nil },
			wantCode: ErrCodeNotFoundRecipient,
		},
		{
			name:     "empty recipient address",
			mutate:   func(e *Envelope) { e.To = []string{"ok@example.com", ""} },
			wantCode: ErrCodeNotFoundRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnvelope()
			tt.mutate(&env)

			err := env.Validate()
			require.Error(t, err)

			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}
