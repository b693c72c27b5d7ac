package app

import (
	"context"
	"io"

	"github.com/angelous0/erp-textil/internal/metrics"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// ObjectStore abstracts the S3-compatible file backend.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// FileDeleteResult records one storage delete attempted during a cascade.
// Failures are reported, never fatal: the row delete proceeds regardless so
// a dead bucket cannot block removing database records. The cost is possible
// orphaned objects, which is the accepted trade-off.
type FileDeleteResult struct {
	Key   string `json:"key"`
	Field string `json:"field"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// fileRef names a storage key and the record field it came from.
type fileRef struct {
	key   string
	field string
}

// deleteFiles attempts every referenced file and collects one result per
// attempt. Empty keys are skipped entirely.
func deleteFiles(ctx context.Context, store ObjectStore, log *logger.Logger, refs []fileRef) []FileDeleteResult {
	results := make([]FileDeleteResult, 0, len(refs))
	for _, ref := range refs {
		if ref.key == "" {
			continue
		}

		res := FileDeleteResult{Key: ref.key, Field: ref.field, OK: true}
		if err := store.Delete(ctx, ref.key); err != nil {
			res.OK = false
			res.Error = err.Error()
			metrics.FileDeletesTotal.WithLabelValues("failure").Inc()
			log.Warn("failed to delete storage object during cascade",
				"key", ref.key,
				"field", ref.field,
				"error", err,
			)
		} else {
			metrics.FileDeletesTotal.WithLabelValues("success").Inc()
		}
		results = append(results, res)
	}
	return results
}
