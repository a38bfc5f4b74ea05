package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKeyName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "payments"},
		{name: "with separators", input: "rsa_otus_aes.v1-prod"},
		{name: "max length", input: strings.Repeat("a", 128)},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 129), wantErr: true},
		{name: "path traversal", input: "../etc", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeyName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKeyName)
				return
			}
			assert.NoError(t, err)
		})
	}
}
