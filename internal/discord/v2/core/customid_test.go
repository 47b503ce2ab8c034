package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID_Encode(t *testing.T) {
	tests := []struct {
		name     string
		customID *CustomID
		expected string
		wantErr  bool
	}{
		{
			name:     "domain and action",
			customID: NewCustomID("profile", "expired"),
			expected: "profile:expired",
		},
		{
			name:     "with target",
			customID: NewCustomID("profile", "view").WithTarget("2PP"),
			expected: "profile:view:2PP",
		},
		{
			name:     "missing action",
			customID: NewCustomID("profile", ""),
			wantErr:  true,
		},
		{
			name:     "separator in domain",
			customID: NewCustomID("pro:file", "view"),
			wantErr:  true,
		},
		{
			name:     "exceeds max length",
			customID: NewCustomID("profile", "view").WithTarget(strings.Repeat("P", MaxCustomIDLength)),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.customID.Encode()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCustomID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *CustomID
		wantErr  bool
	}{
		{
			name:     "domain and action",
			input:    "profile:view",
			expected: &CustomID{Domain: "profile", Action: "view"},
		},
		{
			name:     "target keeps separators",
			input:    "profile:view:clan:2PP",
			expected: &CustomID{Domain: "profile", Action: "view", Target: "clan:2PP"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "domain only",
			input:   "profile",
			wantErr: true,
		},
		{
			name:    "empty action",
			input:   "profile:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseCustomID(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCustomID_RoundTrip(t *testing.T) {
	original := NewCustomID("profile", "view").WithTarget("#2PP")

	parsed, err := ParseCustomID(original.MustEncode())
	require.NoError(t, err)

	assert.Equal(t, original, parsed)
	assert.Equal(t, "profile:view:#2PP", parsed.String())
}

func TestCustomIDBuilder_Select(t *testing.T) {
	builder := NewCustomIDBuilder("profile")

	assert.Equal(t, "profile:view", builder.Select("view"))
	assert.Panics(t, func() { builder.Select("") })
}
