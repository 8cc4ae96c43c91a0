package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "coach-ai/backend/internal/errors"
)

func TestValidateRequest_NotMasked(t *testing.T) {
	require.NotPanics(t, func() { getInstance() })

	testCases := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "Plain key", key: "sk-test-12345678"},
		{name: "Masked key", key: "sk-t...5678", wantErr: true},
		{name: "Empty key", key: "", wantErr: true},
		{name: "Too long", key: strings.Repeat("k", 513), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRequest(&UpdateKeyRequest{APIKey: tc.key})
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, app_errors.ErrValidation)
		})
	}

	err := validateRequest(&UpdateKeyRequest{APIKey: "sk-t...5678"})
	assert.Contains(t, err.Error(), "'notmasked'")
}

func TestDecodeAndValidate_MalformedBody(t *testing.T) {
	var req SendMessageRequest
	err := decodeAndValidate(strings.NewReader("{not json"), &req)
	assert.ErrorIs(t, err, app_errors.ErrValidation)
}
