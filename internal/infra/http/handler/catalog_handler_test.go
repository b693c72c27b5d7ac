package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/catalog"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

type fakeBrandRepo struct {
	brands map[string]*catalog.Brand
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{brands: make(map[string]*catalog.Brand)}
}

func (r *fakeBrandRepo) Create(_ context.Context, b *catalog.Brand) error {
	r.brands[b.ID.String()] = b
	return nil
}

func (r *fakeBrandRepo) GetByID(_ context.Context, id shared.ID) (*catalog.Brand, error) {
	b, ok := r.brands[id.String()]
	if !ok {
		return nil, shared.NotFoundError("marca", id.String())
	}
	return b, nil
}

func (r *fakeBrandRepo) Update(_ context.Context, b *catalog.Brand) error {
	if _, ok := r.brands[b.ID.String()]; !ok {
		return shared.NotFoundError("marca", b.ID.String())
	}
	r.brands[b.ID.String()] = b
	return nil
}

func (r *fakeBrandRepo) Delete(_ context.Context, id shared.ID) error {
	if _, ok := r.brands[id.String()]; !ok {
		return shared.NotFoundError("marca", id.String())
	}
	delete(r.brands, id.String())
	return nil
}

func (r *fakeBrandRepo) List(_ context.Context) ([]*catalog.Brand, error) {
	out := make([]*catalog.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		out = append(out, b)
	}
	return out, nil
}

type fakeProductTypeRepo struct{}

func (fakeProductTypeRepo) Create(context.Context, *catalog.ProductType) error { return nil }
func (fakeProductTypeRepo) GetByID(_ context.Context, id shared.ID) (*catalog.ProductType, error) {
	return nil, shared.NotFoundError("tipo de producto", id.String())
}
func (fakeProductTypeRepo) Update(context.Context, *catalog.ProductType) error { return nil }
func (fakeProductTypeRepo) Delete(context.Context, shared.ID) error            { return nil }
func (fakeProductTypeRepo) List(context.Context) ([]*catalog.ProductType, error) {
	return nil, nil
}

type fakeFitRepo struct{}

func (fakeFitRepo) Create(context.Context, *catalog.Fit) error { return nil }
func (fakeFitRepo) GetByID(_ context.Context, id shared.ID) (*catalog.Fit, error) {
	return nil, shared.NotFoundError("entalle", id.String())
}
func (fakeFitRepo) Update(context.Context, *catalog.Fit) error { return nil }
func (fakeFitRepo) Delete(context.Context, shared.ID) error    { return nil }
func (fakeFitRepo) List(context.Context) ([]*catalog.Fit, error) {
	return nil, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Create(context.Context, *audit.Entry) error { return nil }
func (nopAuditRepo) List(context.Context, audit.Filter, int, int) ([]*audit.Entry, error) {
	return nil, nil
}
func (nopAuditRepo) Count(context.Context, audit.Filter) (int64, error) { return 0, nil }
func (nopAuditRepo) Stats(context.Context) (*audit.Stats, error)        { return &audit.Stats{}, nil }
func (nopAuditRepo) Tables(context.Context) ([]string, error)           { return nil, nil }

// newCatalogTestServer wires a handler onto a real router so path parameters
// resolve the same way they do in production.
func newCatalogTestServer(t *testing.T) (infrahttp.Router, *fakeBrandRepo) {
	t.Helper()

	log := logger.NewNop()
	brands := newFakeBrandRepo()
	svc := app.NewCatalogService(brands, fakeProductTypeRepo{}, fakeFitRepo{}, app.NewAuditService(nopAuditRepo{}, log), log)
	h := NewCatalogHandler(svc, validator.New(), log)

	r := infrahttp.NewChiRouter()
	r.GET("/api/v1/marcas", h.ListBrands)
	r.GET("/api/v1/marcas/{id}", h.GetBrand)
	r.POST("/api/v1/marcas", h.CreateBrand)
	r.PUT("/api/v1/marcas/{id}", h.UpdateBrand)
	r.DELETE("/api/v1/marcas/{id}", h.DeleteBrand)
	return r, brands
}

func TestBrandCreateAndGet(t *testing.T) {
	r, _ := newCatalogTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/marcas", strings.NewReader(`{"nombre":"Nordic"}`))
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created NamedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Nordic", created.Name)
	assert.NotEmpty(t, created.ID)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/marcas/"+created.ID, nil)
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got NamedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Nordic", got.Name)
}

func TestBrandCreateValidation(t *testing.T) {
	r, _ := newCatalogTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"nombre":""}`},
		{"missing name", `{}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/marcas", strings.NewReader(tt.body))
			r.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBrandGetNotFound(t *testing.T) {
	r, _ := newCatalogTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/marcas/"+shared.NewID().String(), nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBrandGetInvalidID(t *testing.T) {
	r, _ := newCatalogTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/marcas/not-a-uuid", nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrandUpdateAndDelete(t *testing.T) {
	r, repo := newCatalogTestServer(t)

	b, err := catalog.NewBrand("Old")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/marcas/"+b.ID.String(), strings.NewReader(`{"nombre":"New"}`))
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated NamedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "New", updated.Name)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/marcas/"+b.ID.String(), nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.brands)
}

func TestBrandList(t *testing.T) {
	r, repo := newCatalogTestServer(t)

	for _, name := range []string{"Uno", "Dos"} {
		b, err := catalog.NewBrand(name)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), b))
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/marcas", nil)
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []NamedResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
}
