package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/logger"
)

func TestUploadKeyIsNamespacedByCategory(t *testing.T) {
	store := &fakeStore{}
	auditSvc, _ := newTestAudit()
	svc := NewFileService(store, auditSvc, logger.NewNop())

	key, err := svc.Upload(t.Context(), testActor(), permission.CategoryPatrones,
		"Molde Frontal.PDF", "application/pdf", strings.NewReader("contents"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "patrones/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"), "extension must be lowercased")

	got, ok := CategoryFromKey(key)
	require.True(t, ok)
	assert.Equal(t, permission.CategoryPatrones, got)
}

func TestUploadKeysAreUniquePerCall(t *testing.T) {
	store := &fakeStore{}
	auditSvc, _ := newTestAudit()
	svc := NewFileService(store, auditSvc, logger.NewNop())

	k1, err := svc.Upload(t.Context(), testActor(), permission.CategoryImagenes,
		"foto.jpg", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	k2, err := svc.Upload(t.Context(), testActor(), permission.CategoryImagenes,
		"foto.jpg", "image/jpeg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestCategoryFromKey(t *testing.T) {
	tests := []struct {
		key    string
		want   permission.FileCategory
		wantOK bool
	}{
		{"patrones/abc.pdf", permission.CategoryPatrones, true},
		{"patron/abc.pdf", permission.CategoryPatrones, true},
		{"costos/abc.xlsx", permission.CategoryCostos, true},
		{"planos/abc.pdf", "", false},
		{"sin-separador", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := CategoryFromKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDeleteRemovesFromStore(t *testing.T) {
	store := &fakeStore{}
	auditSvc, _ := newTestAudit()
	svc := NewFileService(store, auditSvc, logger.NewNop())

	require.NoError(t, svc.Delete(t.Context(), testActor(), "imagenes/x.jpg"))
	assert.Equal(t, []string{"imagenes/x.jpg"}, store.deleted)
}
