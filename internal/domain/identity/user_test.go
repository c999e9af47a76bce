package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Alice ", "secret123", RoleCashier)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.VerifyPassword("secret123"))
	assert.False(t, u.VerifyPassword("secret124"))

	_, err = NewUser("al", "secret123", RoleCashier)
	assert.Error(t, err)

	_, err = NewUser("alice", "short1", RoleCashier)
	assert.Error(t, err)

	_, err = NewUser("alice", "lettersonly", RoleCashier)
	assert.Error(t, err)

	_, err = NewUser("alice", "secret123", Role("owner"))
	assert.Error(t, err)
}

func TestUser_Lockout(t *testing.T) {
	u, err := NewUser("bob", "secret123", RoleAdmin)
	require.NoError(t, err)
	now := time.Now()

	for i := 0; i < MaxFailedAttempts-1; i++ {
		assert.False(t, u.RecordLoginFailure(now))
	}
	assert.True(t, u.CanLogin(now))

	assert.True(t, u.RecordLoginFailure(now))
	assert.False(t, u.CanLogin(now))
	assert.True(t, u.CanLogin(now.Add(LockDuration+time.Second)))

	u.RecordLoginSuccess(now.Add(LockDuration + time.Second))
	assert.Nil(t, u.LockedUntil)
	assert.Equal(t, 0, u.FailedLoginAttempts)
}
