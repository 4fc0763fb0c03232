package user_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/elan19/vteam/user"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := user.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	u := user.User{PasswordHash: hash}
	require.True(t, u.CheckPassword("correct horse battery staple"))
	require.False(t, u.CheckPassword("Tr0ub4dor&3"))
}

func TestPasswordHashNotSerialized(t *testing.T) {
	hash, err := user.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	b, err := json.Marshal(user.User{Username: "anna", PasswordHash: hash})
	require.NoError(t, err)
	require.NotContains(t, string(b), hash)
}
