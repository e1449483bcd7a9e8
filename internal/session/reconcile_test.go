package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	fedErr := errors.New("federated provider rejected the password")
	backendErr := errors.New("backend 500")

	fedUser := &UserProfile{ID: "uid-1", Email: "a@b.c", FirstName: "Fed", Role: "consumer"}
	backendUser := &UserProfile{ID: "42", Email: "a@b.c", FirstName: "Back", LastName: "End", Role: "admin"}

	tests := []struct {
		name     string
		fed      ProviderOutcome
		backend  ProviderOutcome
		wantUser *UserProfile
		wantErr  error
	}{
		{
			name:    "both succeed, backend supersedes field-wise",
			fed:     ProviderOutcome{User: fedUser},
			backend: ProviderOutcome{User: backendUser},
			wantUser: &UserProfile{
				ID: "42", Email: "a@b.c", FirstName: "Back", LastName: "End", Role: "admin",
			},
		},
		{
			name:     "federated failed, backend succeeded: backend user verbatim",
			fed:      ProviderOutcome{Err: fedErr},
			backend:  ProviderOutcome{User: backendUser},
			wantUser: backendUser,
		},
		{
			name:     "backend failed, federated succeeded: federated user",
			fed:      ProviderOutcome{User: fedUser},
			backend:  ProviderOutcome{Err: backendErr},
			wantUser: fedUser,
		},
		{
			name:    "both failed: federated error wins",
			fed:     ProviderOutcome{Err: fedErr},
			backend: ProviderOutcome{Err: backendErr},
			wantErr: fedErr,
		},
		{
			name:    "only backend failed, federated never ran",
			backend: ProviderOutcome{Err: backendErr},
			wantErr: backendErr,
		},
		{
			name:    "neither provider ran: generic failure",
			wantErr: ErrLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := Reconcile(tt.fed, tt.backend)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantUser, user); diff != "" {
				t.Errorf("reconciled user mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProviderOutcome_Ran(t *testing.T) {
	assert.False(t, ProviderOutcome{}.Ran())
	assert.True(t, ProviderOutcome{Err: errors.New("x")}.Ran())
	assert.True(t, ProviderOutcome{User: &UserProfile{}}.Ran())
}
