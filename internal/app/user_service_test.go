package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/user"
	"github.com/angelous0/erp-textil/pkg/logger"
)

func newUserTestService(t *testing.T) (*UserService, *fakeUserRepo, *fakePermRepo, *fakeSessionStore, *fakeAuditRepo) {
	t.Helper()

	users := newFakeUserRepo()
	perms := newFakePermRepo()
	sessions := newFakeSessionStore()
	auditSvc, auditRepo := newTestAudit()
	svc := NewUserService(users, perms, sessions, auditSvc, logger.NewNop())
	return svc, users, perms, sessions, auditRepo
}

func TestReplaceGrantsUpdatesActiveSessions(t *testing.T) {
	svc, users, perms, sessions, _ := newUserTestService(t)
	u := seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	sess := &Session{ID: "s1", UserID: u.ID.String(), Username: u.Username,
		Role: string(u.Role), Grants: permission.DefaultsForEditor()}
	require.NoError(t, sessions.Save(t.Context(), sess))

	grants := permission.NewGrants()
	grants.SetRaw("telas.ver", true)
	require.NoError(t, svc.ReplaceGrants(t.Context(), testActor(), u.ID, grants))

	stored, err := perms.GetGrants(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, grants.Wire(), stored.Wire())

	pushed, ok := sessions.grantsUpdates[u.ID.String()]
	require.True(t, ok, "active sessions were not updated")
	assert.Equal(t, grants.Wire(), pushed.Wire())
	assert.Equal(t, grants.Wire(), sess.Grants.Wire())
}

func TestReplaceGrantsRecordsBeforeAndAfter(t *testing.T) {
	svc, users, perms, _, auditRepo := newUserTestService(t)
	u := seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	old := permission.NewGrants()
	old.SetRaw("telas.ver", true)
	require.NoError(t, perms.ReplaceGrants(t.Context(), u.ID, old))

	grants := permission.NewGrants()
	grants.SetRaw("telas.ver", true)
	grants.SetRaw("telas.editar", true)
	require.NoError(t, svc.ReplaceGrants(t.Context(), testActor(), u.ID, grants))

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Contains(t, entry.DataBefore, "telas.ver")
	assert.NotContains(t, entry.DataBefore, "telas.editar")
	assert.Contains(t, entry.DataAfter, "telas.editar")
}

func TestUpdateUserNeverAuditsPasswordHash(t *testing.T) {
	svc, users, _, _, auditRepo := newUserTestService(t)
	u := seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	_, err := svc.Update(t.Context(), testActor(), u.ID, UpdateUserInput{
		Email:       "ana@example.com",
		DisplayName: "Ana",
		Password:    "otraclave123",
		Role:        user.RoleEditor,
		Active:      true,
	})
	require.NoError(t, err)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.NotEmpty(t, entry.DataBefore)
	assert.NotEmpty(t, entry.DataAfter)
	assert.NotContains(t, entry.DataBefore, "password")
	assert.NotContains(t, entry.DataAfter, "password")
	assert.Contains(t, entry.DataAfter, "ana@example.com")
}
