package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
)

func TestRecordCarriesClientMetadata(t *testing.T) {
	svc, repo := newTestAudit()

	actor := testActor()
	actor.IP = "192.168.1.44"
	actor.UserAgent = "Mozilla/5.0"
	svc.Record(t.Context(), actor, audit.ActionCreate, "telas", "abc", "Jersey 30/1")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "192.168.1.44", entry.IP)
	assert.Equal(t, "Mozilla/5.0", entry.UserAgent)
	assert.Empty(t, entry.DataBefore)
	assert.Empty(t, entry.DataAfter)
}

func TestRecordChangeStoresSnapshots(t *testing.T) {
	svc, repo := newTestAudit()

	before := map[string]any{"nombre": "Jersey 30/1", "activo": true}
	after := map[string]any{"nombre": "Jersey 24/1", "activo": true}
	svc.RecordChange(t.Context(), testActor(), audit.ActionEdit, "telas", "abc", "Jersey 24/1",
		before, after)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(entry.DataBefore), &got))
	assert.Equal(t, "Jersey 30/1", got["nombre"])
	require.NoError(t, json.Unmarshal([]byte(entry.DataAfter), &got))
	assert.Equal(t, "Jersey 24/1", got["nombre"])
}

func TestRecordRejectsUnknownAction(t *testing.T) {
	svc, repo := newTestAudit()

	svc.Record(t.Context(), testActor(), audit.Action("purgar"), "telas", "abc", "")

	assert.Empty(t, repo.entries)
}
