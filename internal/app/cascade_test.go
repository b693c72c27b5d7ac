package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/sample"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
)

type fakeStore struct {
	deleted []string
	failAll bool
}

func (f *fakeStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(nil)), "application/octet-stream", nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.failAll {
		return errors.New("bucket unreachable")
	}
	return nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://example.com/" + key, nil
}

type fakeSampleRepo struct {
	sample    *sample.Sample
	deleted   int
	deleteErr error
}

func (f *fakeSampleRepo) Create(ctx context.Context, s *sample.Sample) error { return nil }
func (f *fakeSampleRepo) Update(ctx context.Context, s *sample.Sample) error { return nil }
func (f *fakeSampleRepo) List(ctx context.Context) ([]*sample.Sample, error) { return nil, nil }

func (f *fakeSampleRepo) GetByID(ctx context.Context, id shared.ID) (*sample.Sample, error) {
	if f.sample == nil || !f.sample.ID.Equals(id) {
		return nil, shared.NotFoundError("muestra", id.String())
	}
	return f.sample, nil
}

func (f *fakeSampleRepo) Delete(ctx context.Context, id shared.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted++
	return nil
}

type fakeBaseRepo struct {
	bases     []*base.Base
	deleted   int
	deleteErr error
}

func (f *fakeBaseRepo) Create(ctx context.Context, b *base.Base) error { return nil }
func (f *fakeBaseRepo) Update(ctx context.Context, b *base.Base) error { return nil }
func (f *fakeBaseRepo) List(ctx context.Context) ([]*base.Base, error) { return f.bases, nil }

func (f *fakeBaseRepo) GetByID(ctx context.Context, id shared.ID) (*base.Base, error) {
	for _, b := range f.bases {
		if b.ID.Equals(id) {
			return b, nil
		}
	}
	return nil, shared.NotFoundError("base", id.String())
}

func (f *fakeBaseRepo) Delete(ctx context.Context, id shared.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted++
	return nil
}

func (f *fakeBaseRepo) ListBySample(ctx context.Context, sampleID shared.ID) ([]*base.Base, error) {
	var out []*base.Base
	for _, b := range f.bases {
		if b.SampleID.Equals(sampleID) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeSheetRepo struct {
	sheets []*base.TechSheet
}

func (f *fakeSheetRepo) Create(ctx context.Context, t *base.TechSheet) error { return nil }
func (f *fakeSheetRepo) Update(ctx context.Context, t *base.TechSheet) error { return nil }
func (f *fakeSheetRepo) Delete(ctx context.Context, id shared.ID) error      { return nil }
func (f *fakeSheetRepo) List(ctx context.Context) ([]*base.TechSheet, error) { return f.sheets, nil }

func (f *fakeSheetRepo) GetByID(ctx context.Context, id shared.ID) (*base.TechSheet, error) {
	return nil, shared.NotFoundError("ficha", id.String())
}

func (f *fakeSheetRepo) ListByBase(ctx context.Context, baseID shared.ID) ([]*base.TechSheet, error) {
	var out []*base.TechSheet
	for _, t := range f.sheets {
		if t.BaseID.Equals(baseID) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeGradingRepo struct {
	gradings []*base.Grading
}

func (f *fakeGradingRepo) Create(ctx context.Context, g *base.Grading) error { return nil }
func (f *fakeGradingRepo) Update(ctx context.Context, g *base.Grading) error { return nil }
func (f *fakeGradingRepo) Delete(ctx context.Context, id shared.ID) error    { return nil }
func (f *fakeGradingRepo) List(ctx context.Context) ([]*base.Grading, error) {
	return f.gradings, nil
}

func (f *fakeGradingRepo) GetByID(ctx context.Context, id shared.ID) (*base.Grading, error) {
	return nil, shared.NotFoundError("tizado", id.String())
}

func (f *fakeGradingRepo) ListByBase(ctx context.Context, baseID shared.ID) ([]*base.Grading, error) {
	var out []*base.Grading
	for _, g := range f.gradings {
		if g.BaseID.Equals(baseID) {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*audit.Entry
}

func (f *fakeAuditRepo) Create(ctx context.Context, e *audit.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, fl audit.Filter, limit, offset int) ([]*audit.Entry, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) Count(ctx context.Context, fl audit.Filter) (int64, error) {
	return int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) Stats(ctx context.Context) (*audit.Stats, error) { return &audit.Stats{}, nil }
func (f *fakeAuditRepo) Tables(ctx context.Context) ([]string, error)    { return nil, nil }

func testActor() Actor {
	return Actor{UserID: shared.NewID(), Username: "tester"}
}

func newTestAudit() (*AuditService, *fakeAuditRepo) {
	repo := &fakeAuditRepo{}
	return NewAuditService(repo, logger.NewNop()), repo
}

func deletedFields(results []FileDeleteResult) []string {
	fields := make([]string, 0, len(results))
	for _, r := range results {
		fields = append(fields, r.Field)
	}
	return fields
}

func TestSampleDeleteCascadesFilesAndRow(t *testing.T) {
	sm, err := sample.New(shared.NewID(), shared.NewID(), shared.NewID())
	require.NoError(t, err)
	sm.CostDocument = "costos/doc.pdf"

	b, err := base.New(sm.ID)
	require.NoError(t, err)
	b.Pattern = "patrones/p.dxf"
	b.Image = "imagenes/i.jpg"

	sheetWithFile, err := base.NewTechSheet(b.ID, "medidas")
	require.NoError(t, err)
	sheetWithFile.File = "fichas/f.pdf"
	sheetWithout, err := base.NewTechSheet(b.ID, "confeccion")
	require.NoError(t, err)

	g, err := base.NewGrading(b.ID)
	require.NoError(t, err)
	g.File = "tizados/t.plt"

	store := &fakeStore{}
	samples := &fakeSampleRepo{sample: sm}
	bases := &fakeBaseRepo{bases: []*base.Base{b}}
	auditSvc, auditRepo := newTestAudit()

	svc := NewSampleService(samples, bases,
		&fakeSheetRepo{sheets: []*base.TechSheet{sheetWithFile, sheetWithout}},
		&fakeGradingRepo{gradings: []*base.Grading{g}},
		store, auditSvc, logger.NewNop())

	res, err := svc.Delete(context.Background(), testActor(), sm.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"costos/doc.pdf", "patrones/p.dxf", "imagenes/i.jpg", "fichas/f.pdf", "tizados/t.plt"},
		store.deleted)
	assert.Len(t, res.Files, 5)
	assert.Equal(t, int64(1), res.RowsDeleted)
	assert.Equal(t, 1, samples.deleted)
	for _, r := range res.Files {
		assert.True(t, r.OK)
		assert.Empty(t, r.Error)
	}

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionDelete, auditRepo.entries[0].Action)
	assert.Equal(t, "muestras_base", auditRepo.entries[0].Table)
}

func TestSampleDeleteWithNoFilesSkipsStorage(t *testing.T) {
	sm, err := sample.New(shared.NewID(), shared.NewID(), shared.NewID())
	require.NoError(t, err)

	store := &fakeStore{}
	samples := &fakeSampleRepo{sample: sm}
	auditSvc, _ := newTestAudit()

	svc := NewSampleService(samples, &fakeBaseRepo{}, &fakeSheetRepo{}, &fakeGradingRepo{},
		store, auditSvc, logger.NewNop())

	res, err := svc.Delete(context.Background(), testActor(), sm.ID)
	require.NoError(t, err)

	assert.Empty(t, store.deleted)
	assert.Empty(t, res.Files)
	assert.Equal(t, int64(1), res.RowsDeleted)
	assert.Equal(t, 1, samples.deleted)
}

func TestSampleDeleteProceedsWhenStorageFails(t *testing.T) {
	sm, err := sample.New(shared.NewID(), shared.NewID(), shared.NewID())
	require.NoError(t, err)
	sm.CostDocument = "costos/doc.pdf"

	store := &fakeStore{failAll: true}
	samples := &fakeSampleRepo{sample: sm}
	auditSvc, _ := newTestAudit()

	svc := NewSampleService(samples, &fakeBaseRepo{}, &fakeSheetRepo{}, &fakeGradingRepo{},
		store, auditSvc, logger.NewNop())

	res, err := svc.Delete(context.Background(), testActor(), sm.ID)
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].OK)
	assert.NotEmpty(t, res.Files[0].Error)
	assert.Equal(t, 1, samples.deleted)
}

func TestSampleDeleteRowFailureReturnsError(t *testing.T) {
	sm, err := sample.New(shared.NewID(), shared.NewID(), shared.NewID())
	require.NoError(t, err)
	sm.CostDocument = "costos/doc.pdf"

	store := &fakeStore{}
	samples := &fakeSampleRepo{sample: sm, deleteErr: errors.New("connection reset")}
	auditSvc, auditRepo := newTestAudit()

	svc := NewSampleService(samples, &fakeBaseRepo{}, &fakeSheetRepo{}, &fakeGradingRepo{},
		store, auditSvc, logger.NewNop())

	res, err := svc.Delete(context.Background(), testActor(), sm.ID)
	require.Error(t, err)
	assert.Nil(t, res)

	// Files were already attempted; there is no compensation.
	assert.Equal(t, []string{"costos/doc.pdf"}, store.deleted)
	assert.Equal(t, 0, samples.deleted)
	assert.Empty(t, auditRepo.entries)
}

func TestSampleDeleteNotFound(t *testing.T) {
	auditSvc, _ := newTestAudit()
	svc := NewSampleService(&fakeSampleRepo{}, &fakeBaseRepo{}, &fakeSheetRepo{}, &fakeGradingRepo{},
		&fakeStore{}, auditSvc, logger.NewNop())

	_, err := svc.Delete(context.Background(), testActor(), shared.NewID())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBaseDeleteCollectsDescendantFiles(t *testing.T) {
	b, err := base.New(shared.NewID())
	require.NoError(t, err)
	b.Pattern = "patrones/p.dxf"

	sheet, err := base.NewTechSheet(b.ID, "medidas")
	require.NoError(t, err)
	sheet.File = "fichas/f.pdf"

	g, err := base.NewGrading(b.ID)
	require.NoError(t, err)
	g.File = "tizados/t.plt"

	store := &fakeStore{}
	bases := &fakeBaseRepo{bases: []*base.Base{b}}
	auditSvc, _ := newTestAudit()

	svc := NewBaseService(bases,
		&fakeSheetRepo{sheets: []*base.TechSheet{sheet}},
		&fakeGradingRepo{gradings: []*base.Grading{g}},
		store, auditSvc, logger.NewNop())

	res, err := svc.Delete(context.Background(), testActor(), b.ID)
	require.NoError(t, err)

	// Image is empty on this base, so only three attempts are made.
	assert.ElementsMatch(t,
		[]string{"patrones/p.dxf", "fichas/f.pdf", "tizados/t.plt"},
		store.deleted)
	assert.ElementsMatch(t,
		[]string{"patron", "archivo", "archivo_tizado"},
		deletedFields(res.Files))
	assert.Equal(t, 1, bases.deleted)
}
