package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/profiles"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/verifications"
	"github.com/KirkDiggler/clash-profile-bot/internal/services"
	"github.com/KirkDiggler/clash-profile-bot/internal/testutils"
)

func newTestStores() *services.Stores {
	return &services.Stores{
		Defaults:      profiles.NewInMemoryRepository(),
		Verifications: verifications.NewInMemoryRepository(),
	}
}

func runCmd(t *testing.T, stores *services.Stores, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(func(context.Context) (*services.Stores, error) {
		return stores, nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVerify_LinkCheckUnlink(t *testing.T) {
	stores := newTestStores()

	out, err := runCmd(t, stores, "verify", "link", "#2pqlv9", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "is now a verified owner of #2PQLV9")

	owner, err := stores.Verifications.IsOwner(context.Background(), "2PQLV9", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.True(t, owner)

	out, err = runCmd(t, stores, "verify", "check", "2PQLV9", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "verified: ")

	out, err = runCmd(t, stores, "verify", "list", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Equal(t, "#2PQLV9\n", out)

	out, err = runCmd(t, stores, "verify", "unlink", "2PQLV9", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	out, err = runCmd(t, stores, "verify", "check", "2PQLV9", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "not verified")
}

func TestVerify_RejectsBadArguments(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad tag", args: []string{"verify", "link", "#!!", testutils.TestOwnerID}, want: "invalid tag"},
		{name: "bad user", args: []string{"verify", "link", "2PQLV9", "someone"}, want: "invalid user id"},
		{name: "missing user", args: []string{"verify", "check", "2PQLV9"}, want: "accepts 2 arg(s)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCmd(t, newTestStores(), tc.args...)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestDefault_SetGetRemove(t *testing.T) {
	stores := newTestStores()

	out, err := runCmd(t, stores, "default", "get", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "has no default profile")

	out, err = runCmd(t, stores, "default", "set", testutils.TestOwnerID, "#2pqlv9")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved #2PQLV9")

	out, err = runCmd(t, stores, "default", "get", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Equal(t, "#2PQLV9\n", out)

	out, err = runCmd(t, stores, "default", "remove", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed the default profile")

	out, err = runCmd(t, stores, "default", "remove", testutils.TestOwnerID)
	require.NoError(t, err)
	assert.Contains(t, out, "has no default profile")
}

func TestRoot_StoreOpenFailure(t *testing.T) {
	cmd := newRootCmd(func(context.Context) (*services.Stores, error) {
		return nil, errors.New("connection refused")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"default", "get", testutils.TestOwnerID})

	assert.ErrorContains(t, cmd.Execute(), "connection refused")
}
