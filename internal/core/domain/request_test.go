package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantField   string
		severity    int
		wantErr     bool
	}{
		{name: "most urgent", severity: 1, description: "printer jam"},
		{name: "least urgent", severity: int(MaxSeverity), description: "feature request"},
		{name: "description trimmed", severity: 2, description: "  vpn down  "},
		{name: "zero severity", severity: 0, description: "x", wantErr: true, wantField: "severity"},
		{name: "negative severity", severity: -3, description: "x", wantErr: true, wantField: "severity"},
		{name: "severity above max", severity: int(MaxSeverity) + 1, description: "x", wantErr: true, wantField: "severity"},
		{name: "blank description", severity: 1, description: "   ", wantErr: true, wantField: "description"},
		{name: "oversized description", severity: 1, description: strings.Repeat("a", MaxDescriptionLength+1), wantErr: true, wantField: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest(tt.severity, tt.description)
			if tt.wantErr {
				require.Error(t, err)
				var verr *RequestValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantField, verr.Field)
				assert.True(t, req.IsZero())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, Severity(tt.severity), req.Severity())
			assert.Equal(t, strings.TrimSpace(tt.description), req.Description())
			assert.NotEmpty(t, req.ID())
			assert.False(t, req.CreatedAt().IsZero())
			assert.False(t, req.IsZero())
		})
	}
}

func TestNewRequest_UniqueIDs(t *testing.T) {
	a := MustRequest(1, "a")
	b := MustRequest(1, "a")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestMustRequest_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustRequest(0, "nope") })
}

func TestSeverityRange(t *testing.T) {
	r := SeverityRange{Min: 2, Max: 4}
	assert.True(t, r.Valid())
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
	assert.Equal(t, "2-4", r.String())
	assert.Equal(t, "3", SeverityRange{Min: 3, Max: 3}.String())

	assert.False(t, SeverityRange{Min: 4, Max: 2}.Valid())
	assert.False(t, SeverityRange{Min: 0, Max: 2}.Valid())
}
