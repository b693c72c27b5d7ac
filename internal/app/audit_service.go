package app

import (
	"context"
	"encoding/json"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/pagination"
)

// AuditService records and queries the activity history.
type AuditService struct {
	repo   audit.Repository
	logger *logger.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo audit.Repository, log *logger.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: log.With("service", "audit"),
	}
}

// Actor identifies who performed an operation and from where.
type Actor struct {
	UserID    shared.ID
	Username  string
	IP        string
	UserAgent string
}

// Record persists a history entry. Recording is best-effort: failures are
// logged and never propagate to the operation being recorded.
func (s *AuditService) Record(ctx context.Context, actor Actor, action audit.Action, table, recordID, detail string) {
	s.RecordChange(ctx, actor, action, table, recordID, detail, nil, nil)
}

// RecordChange persists a history entry with optional before/after snapshots
// of the affected record. Snapshots are marshaled best-effort; a value that
// does not marshal is stored as empty.
func (s *AuditService) RecordChange(ctx context.Context, actor Actor, action audit.Action, table, recordID, detail string, before, after any) {
	entry, err := audit.New(actor.UserID, actor.Username, action, table, recordID, detail)
	if err != nil {
		s.logger.Error("failed to build history entry", "error", err, "action", action)
		return
	}
	entry.IP = actor.IP
	entry.UserAgent = actor.UserAgent
	entry.DataBefore = marshalSnapshot(before)
	entry.DataAfter = marshalSnapshot(after)

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to persist history entry",
			"error", err,
			"action", string(action),
			"table", table,
			"record_id", recordID,
		)
		return
	}

	s.logger.Info("history event",
		"action", string(action),
		"table", table,
		"record_id", recordID,
		"actor", actor.Username,
	)
}

func marshalSnapshot(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// List returns history entries matching the filter.
func (s *AuditService) List(ctx context.Context, f audit.Filter, p pagination.Pagination) (pagination.Result[*audit.Entry], error) {
	entries, err := s.repo.List(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Result[*audit.Entry]{}, err
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return pagination.Result[*audit.Entry]{}, err
	}

	return pagination.NewResult(entries, total, p), nil
}

// Stats aggregates history counts for the admin dashboard.
func (s *AuditService) Stats(ctx context.Context) (*audit.Stats, error) {
	return s.repo.Stats(ctx)
}

// Tables returns the distinct affected-table names present in history.
func (s *AuditService) Tables(ctx context.Context) ([]string, error) {
	return s.repo.Tables(ctx)
}
