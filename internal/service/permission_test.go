package service

import (
	"fmt"
	"path/filepath"
	"testing"

	"funtools/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeResolver struct {
	roles map[string][]string
	err   error
}

func (f *fakeResolver) MemberRoles(guildID, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[guildID+"/"+userID], nil
}

func newPermissions(t *testing.T, resolver RoleResolver) (*Permissions, *storage.OverrideStore) {
	t.Helper()
	overrides := storage.NewOverrideStore(filepath.Join(t.TempDir(), "overrides.json"), zap.NewNop())
	perms := NewPermissions(overrides, "op-role", []string{"poster", "oracle", "birthday"}, resolver, zap.NewNop())
	return perms, overrides
}

func TestPermissions_PublicCommandsSkipLookups(t *testing.T) {
	perms, _ := newPermissions(t, &fakeResolver{err: fmt.Errorf("must not be called")})

	// Публичная команда не требует ни гильдии, ни ролей
	assert.True(t, perms.CanRun("", "u1", nil, "poster"))
	assert.True(t, perms.CanRun("g1", "u1", nil, "oracle"))
}

func TestPermissions_Monotonicity(t *testing.T) {
	perms, overrides := newPermissions(t, nil)
	roles := []string{"member-role"}

	assert.False(t, perms.CanRun("g1", "u1", roles, "quote"))

	require.NoError(t, overrides.Grant("g1", "quote", "member-role"))
	assert.True(t, perms.CanRun("g1", "u1", roles, "quote"))

	require.NoError(t, overrides.Revoke("g1", "quote", "member-role"))
	assert.False(t, perms.CanRun("g1", "u1", roles, "quote"))
}

func TestPermissions_OperatorAlwaysAllowed(t *testing.T) {
	perms, overrides := newPermissions(t, nil)
	operator := []string{"op-role"}

	assert.True(t, perms.CanRun("g1", "u1", operator, "quote"))

	require.NoError(t, overrides.Grant("g1", "quote", "other-role"))
	require.NoError(t, overrides.Revoke("g1", "quote", "other-role"))
	assert.True(t, perms.CanRun("g1", "u1", operator, "quote"))
}

func TestPermissions_DirectMessage(t *testing.T) {
	perms, _ := newPermissions(t, nil)

	// Вне гильдии роли взять неоткуда
	assert.False(t, perms.CanRun("", "u1", nil, "quote"))
	// Кроме операторской роли из закэшированного участника
	assert.True(t, perms.CanRun("", "u1", []string{"op-role"}, "quote"))
}

func TestPermissions_ResolvesMembershipWhenUncached(t *testing.T) {
	resolver := &fakeResolver{roles: map[string][]string{"g1/u1": {"member-role"}}}
	perms, overrides := newPermissions(t, resolver)
	require.NoError(t, overrides.Grant("g1", "quote", "member-role"))

	assert.True(t, perms.CanRun("g1", "u1", nil, "quote"))
}

func TestPermissions_ResolverFailureDenies(t *testing.T) {
	perms, overrides := newPermissions(t, &fakeResolver{err: fmt.Errorf("api down")})
	require.NoError(t, overrides.Grant("g1", "quote", "member-role"))

	assert.False(t, perms.CanRun("g1", "u1", nil, "quote"))
}

func TestPermissions_NoOperatorRoleConfigured(t *testing.T) {
	overrides := storage.NewOverrideStore(filepath.Join(t.TempDir(), "overrides.json"), zap.NewNop())
	perms := NewPermissions(overrides, "", nil, nil, zap.NewNop())

	// Пустая операторская роль никого не делает оператором
	assert.False(t, perms.CanRun("g1", "u1", []string{""}, "quote"))
}
