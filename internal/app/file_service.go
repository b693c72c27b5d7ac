package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/angelous0/erp-textil/internal/metrics"
	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// FileService handles direct file operations against object storage.
// Keys are namespaced by category: "<categoria>/<uuid><ext>".
type FileService struct {
	store  ObjectStore
	audit  *AuditService
	logger *logger.Logger
}

// NewFileService creates a new FileService.
func NewFileService(store ObjectStore, auditSvc *AuditService, log *logger.Logger) *FileService {
	return &FileService{
		store:  store,
		audit:  auditSvc,
		logger: log.With("service", "files"),
	}
}

// Upload stores a file under a fresh key in the category's namespace and
// returns the key for the caller to attach to a record.
func (s *FileService) Upload(ctx context.Context, actor Actor, category permission.FileCategory, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", category, uuid.New().String(), ext)

	if err := s.store.Put(ctx, key, body, contentType); err != nil {
		return "", err
	}

	metrics.FileUploadsTotal.WithLabelValues(string(category)).Inc()
	s.audit.Record(ctx, actor, audit.ActionUploadFile, "archivos", key, filename)
	return key, nil
}

// Download streams a file. The caller must close the reader.
func (s *FileService) Download(ctx context.Context, actor Actor, key string) (io.ReadCloser, string, error) {
	body, contentType, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}

	s.audit.Record(ctx, actor, audit.ActionDownloadFile, "archivos", key, "")
	return body, contentType, nil
}

// PresignDownload returns a time-limited URL for a file.
func (s *FileService) PresignDownload(ctx context.Context, actor Actor, key string) (string, error) {
	url, err := s.store.PresignGet(ctx, key)
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, actor, audit.ActionDownloadFile, "archivos", key, "presigned")
	return url, nil
}

// Delete removes a file from storage. Record fields referencing the key are
// soft and stay behind; the owning record's editor clears them.
func (s *FileService) Delete(ctx context.Context, actor Actor, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		metrics.FileDeletesTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.FileDeletesTotal.WithLabelValues("success").Inc()
	s.audit.Record(ctx, actor, audit.ActionDeleteFile, "archivos", key, "")
	return nil
}

// CategoryFromKey derives the file category from a storage key's first path
// segment. Returns false for keys outside known namespaces.
func CategoryFromKey(key string) (permission.FileCategory, bool) {
	seg, _, ok := strings.Cut(key, "/")
	if !ok {
		return "", false
	}
	return permission.NormalizeCategory(seg)
}
