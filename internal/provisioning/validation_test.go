package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dwhprov/internal/config"
)

func validationContext(port, cidr string, maxPolls int) (*Context, *MockObserver) {
	cfg := &config.ProvisioningConfig{
		Redshift: config.RedshiftConfig{DBPort: port},
		Wait:     config.WaitConfig{MaxPolls: maxPolls},
	}
	observer := NewMockObserver()
	return NewContext(context.Background(), cfg, config.Inputs{SourceCIDR: cidr}, observer), observer
}

func TestValidationPhase_Passes(t *testing.T) {
	t.Parallel()
	ctx, observer := validationContext("5439", "203.0.113.7/32", 10)

	require.NoError(t, NewValidationPhase().Provision(ctx))
	assert.Empty(t, observer.events)
}

func TestValidationPhase_Port(t *testing.T) {
	t.Parallel()
	tests := []struct {
		port    string
		wantErr bool
	}{
		{"5439", false},
		{"1150", false},
		{"65535", false},
		{"1149", true},
		{"70000", true},
		{"abc", true},
		{"", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.port, func(t *testing.T) {
			t.Parallel()
			ctx, _ := validationContext(tt.port, "203.0.113.7/32", 10)
			err := NewValidationPhase().Provision(ctx)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrConfigInvalid))
			assert.Contains(t, err.Error(), "redshift.db_port")
		})
	}
}

func TestValidationPhase_Warnings(t *testing.T) {
	t.Parallel()
	ctx, observer := validationContext("5439", "0.0.0.0/0", 0)

	require.NoError(t, NewValidationPhase().Provision(ctx))
	require.Len(t, observer.events, 2)
	for _, e := range observer.events {
		assert.Equal(t, EventValidationWarning, e.Type)
	}
	assert.Equal(t, config.EnvSourceCIDR, observer.events[0].Fields["field"])
	assert.Equal(t, "wait.max_polls", observer.events[1].Fields["field"])
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	ve := ValidationError{Field: "f", Message: "m", Severity: "warning"}
	assert.Equal(t, "[warning] f: m", ve.Error())
	assert.False(t, ve.IsError())
}
