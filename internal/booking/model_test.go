package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusActive.Terminal())

	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestNoTransitionsOutOfTerminalStates(t *testing.T) {
	terminal := []Status{StatusRejected, StatusCompleted, StatusCancelled}
	all := []Status{
		StatusPending, StatusConfirmed, StatusRejected,
		StatusActive, StatusCompleted, StatusCancelled,
	}

	for _, from := range terminal {
		for _, to := range all {
			_, ok := RequiredRole(from, to)
			assert.False(t, ok, "terminal state %s must not allow transition to %s", from, to)
		}
	}
}

func TestRequiredRoleTable(t *testing.T) {
	cases := []struct {
		from, to Status
		role     Role
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, RoleOwner, true},
		{StatusPending, StatusRejected, RoleOwner, true},
		{StatusPending, StatusCancelled, RoleRenter, true},
		{StatusConfirmed, StatusActive, RoleOwner, true},
		{StatusConfirmed, StatusCancelled, RoleRenter, true},
		{StatusActive, StatusCompleted, RoleOwner, true},
		{StatusActive, StatusCancelled, RoleEither, true},

		{StatusPending, StatusActive, 0, false},
		{StatusPending, StatusCompleted, 0, false},
		{StatusConfirmed, StatusRejected, 0, false},
		{StatusConfirmed, StatusCompleted, 0, false},
		{StatusActive, StatusConfirmed, 0, false},
		{StatusConfirmed, StatusPending, 0, false},
	}

	for _, tc := range cases {
		role, ok := RequiredRole(tc.from, tc.to)
		assert.Equal(t, tc.allowed, ok, "%s -> %s", tc.from, tc.to)
		if tc.allowed {
			assert.Equal(t, tc.role, role, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestTransitionErrorMessageNamesTransition(t *testing.T) {
	err := errInvalidTransition(StatusCompleted, StatusActive)
	assert.Contains(t, err.Error(), "completed")
	assert.Contains(t, err.Error(), "active")
}
