// Package audit provides the activity-history domain model. Entries record
// who did what to which resource; writes are best-effort and never block the
// operation they describe.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Action identifies what a user did. Values are part of the wire and
// database contract and stay in Spanish.
type Action string

const (
	ActionCreate       Action = "crear"
	ActionEdit         Action = "editar"
	ActionDelete       Action = "eliminar"
	ActionUploadFile   Action = "subir_archivo"
	ActionDownloadFile Action = "descargar_archivo"
	ActionDeleteFile   Action = "eliminar_archivo"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
)

// IsValid reports whether the action is one of the known values.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionEdit, ActionDelete,
		ActionUploadFile, ActionDownloadFile, ActionDeleteFile,
		ActionLogin, ActionLogout:
		return true
	}
	return false
}

// Entry is a single history record.
type Entry struct {
	ID         shared.ID
	UserID     *shared.ID // nil when the user was deleted afterwards
	Username   string     // denormalized so entries outlive the user row
	Action     Action
	Table      string // affected table, empty for login/logout
	RecordID   string // affected record id as text, may be empty
	Detail     string // free-text summary
	IP         string // client address, empty for CLI operations
	UserAgent  string
	DataBefore string // JSON snapshot prior to the change, empty when absent
	DataAfter  string // JSON snapshot after the change, empty when absent
	CreatedAt  time.Time
}

// New creates a history entry.
func New(userID shared.ID, username string, action Action, table, recordID, detail string) (*Entry, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit action %q", shared.ErrValidation, action)
	}
	uid := userID
	return &Entry{
		ID:        shared.NewID(),
		UserID:    &uid,
		Username:  username,
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Filter narrows history queries. Zero values mean "no constraint".
type Filter struct {
	Username string
	Action   Action
	Table    string
	From     time.Time
	To       time.Time
}

// Stats aggregates history counts for the admin dashboard.
type Stats struct {
	Total    int64
	ByAction map[Action]int64
	ByTable  map[string]int64
	ByUser   map[string]int64
}

// Repository defines the interface for history persistence.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	// Tables returns the distinct affected-table names present in history.
	Tables(ctx context.Context) ([]string, error)
}
