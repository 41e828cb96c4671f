package secrets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/secrets"
)

func TestValidatePassword(t *testing.T) {
	for _, tt := range []struct {
		name  string
		value string
		valid bool
	}{
		{name: "meets the policy", value: "Sommer2026!", valid: true},
		{name: "exactly minimum length", value: "Ab1!Ab1!", valid: true},
		{name: "too short", value: "Ab1!", valid: false},
		{name: "no upper case", value: "sommer2026!", valid: false},
		{name: "no lower case", value: "SOMMER2026!", valid: false},
		{name: "no digit", value: "Sommertid!", valid: false},
		{name: "no special character", value: "Sommer2026", valid: false},
		{name: "empty", value: "", valid: false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := secrets.ValidatePassword(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	t.Run("matching entries are accepted", func(t *testing.T) {
		in := strings.NewReader("Sommer2026!\nSommer2026!\n")

		value, err := secrets.Prompt(in, &strings.Builder{})
		require.NoError(t, err)
		assert.Equal(t, "Sommer2026!", value)
	})

	t.Run("mismatch never proceeds, it re-prompts", func(t *testing.T) {
		in := strings.NewReader("Sommer2026!\nVinter2026!\nSommer2026!\nSommer2026!\n")
		out := &strings.Builder{}

		value, err := secrets.Prompt(in, out)
		require.NoError(t, err)
		assert.Equal(t, "Sommer2026!", value)
		assert.Contains(t, out.String(), "do not match")
	})

	t.Run("weak value is rejected before confirmation", func(t *testing.T) {
		in := strings.NewReader("hunter2\nSommer2026!\nSommer2026!\n")
		out := &strings.Builder{}

		value, err := secrets.Prompt(in, out)
		require.NoError(t, err)
		assert.Equal(t, "Sommer2026!", value)
		assert.Contains(t, out.String(), "at least 8 characters")
	})

	t.Run("exhausted input is an error", func(t *testing.T) {
		_, err := secrets.Prompt(strings.NewReader(""), &strings.Builder{})
		assert.Error(t, err)
	})
}
