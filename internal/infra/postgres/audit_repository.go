package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// AuditRepository handles database operations for history entries.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a history entry.
func (r *AuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO historial (id, user_id, username, accion, tabla, registro_id, detalle,
			ip_address, user_agent, datos_anteriores, datos_nuevos, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID.String(), nullID(e.UserID), e.Username, string(e.Action),
		nullString(e.Table), nullString(e.RecordID), nullString(e.Detail),
		nullString(e.IP), nullString(e.UserAgent),
		nullString(e.DataBefore), nullString(e.DataAfter), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	return nil
}

// List returns history entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, f audit.Filter, limit, offset int) ([]*audit.Entry, error) {
	where, args := buildAuditFilter(f)

	query := fmt.Sprintf(`
		SELECT id, user_id, username, accion, tabla, registro_id, detalle,
			ip_address, user_agent, datos_anteriores, datos_nuevos, created_at
		FROM historial
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0)
	for rows.Next() {
		var (
			e          audit.Entry
			idStr      string
			userID     sql.NullString
			table      sql.NullString
			recordID   sql.NullString
			detail     sql.NullString
			ip         sql.NullString
			userAgent  sql.NullString
			dataBefore sql.NullString
			dataAfter  sql.NullString
			action     string
		)
		if err := rows.Scan(&idStr, &userID, &e.Username, &action, &table, &recordID, &detail,
			&ip, &userAgent, &dataBefore, &dataAfter, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid history id in database: %w", err)
		}
		e.ID = id
		e.UserID = parseNullID(userID)
		e.Action = audit.Action(action)
		e.Table = nullStringValue(table)
		e.RecordID = nullStringValue(recordID)
		e.Detail = nullStringValue(detail)
		e.IP = nullStringValue(ip)
		e.UserAgent = nullStringValue(userAgent)
		e.DataBefore = nullStringValue(dataBefore)
		e.DataAfter = nullStringValue(dataAfter)

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}

// Count returns the number of history entries matching the filter.
func (r *AuditRepository) Count(ctx context.Context, f audit.Filter) (int64, error) {
	where, args := buildAuditFilter(f)

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM historial %s`, where)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Stats aggregates history counts by action, table and user.
func (r *AuditRepository) Stats(ctx context.Context) (*audit.Stats, error) {
	stats := &audit.Stats{
		ByAction: make(map[audit.Action]int64),
		ByTable:  make(map[string]int64),
		ByUser:   make(map[string]int64),
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM historial`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	if err := r.aggregate(ctx, `SELECT accion, COUNT(*) FROM historial GROUP BY accion`, func(key string, n int64) {
		stats.ByAction[audit.Action(key)] = n
	}); err != nil {
		return nil, err
	}

	if err := r.aggregate(ctx, `SELECT tabla, COUNT(*) FROM historial WHERE tabla IS NOT NULL GROUP BY tabla`, func(key string, n int64) {
		stats.ByTable[key] = n
	}); err != nil {
		return nil, err
	}

	if err := r.aggregate(ctx, `SELECT username, COUNT(*) FROM historial GROUP BY username`, func(key string, n int64) {
		stats.ByUser[key] = n
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

// Tables returns the distinct affected-table names present in history.
func (r *AuditRepository) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT tabla FROM historial WHERE tabla IS NOT NULL ORDER BY tabla ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan history table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history tables: %w", err)
	}

	return tables, nil
}

func (r *AuditRepository) aggregate(ctx context.Context, query string, collect func(string, int64)) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to aggregate history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan history aggregate: %w", err)
		}
		collect(key, n)
	}

	return rows.Err()
}

// buildAuditFilter builds the WHERE clause for a history filter.
func buildAuditFilter(f audit.Filter) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(cond string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.Username != "" {
		add("username = $%d", f.Username)
	}
	if f.Action != "" {
		add("accion = $%d", string(f.Action))
	}
	if f.Table != "" {
		add("tabla = $%d", f.Table)
	}
	if !f.From.IsZero() {
		add("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at <= $%d", f.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
