package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Timestamps sort lexically in this layout. It matches
// strftime('%Y-%m-%dT%H:%M:%fZ') so SQL-side updates stay parseable.
const timeLayout = "2006-01-02T15:04:05.000Z"

const defaultListLimit = 50

var ErrNotFound = errors.New("render not found")

type Repository interface {
	CreateRender(ctx context.Context, r *Render) error
	GetRender(ctx context.Context, id string) (*Render, error)
	ListRenders(ctx context.Context, limit int) ([]*Render, error)
	CompleteRender(ctx context.Context, id string, c Completion) error
	FailRender(ctx context.Context, id, errorMsg string) error
}

type SQLiteRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

var renderColumns = []string{
	"id", "mode", "status", "error", "output_path",
	"clip_count", "timeline_ms", "elapsed_ms", "size_bytes",
	"probe_width", "probe_height", "probe_duration_ms",
	"created_at", "updated_at",
}

func (r *SQLiteRepository) CreateRender(ctx context.Context, rd *Render) error {
	query, args, err := r.sb.Insert("renders").
		Columns(renderColumns...).
		Values(
			rd.ID, rd.Mode, rd.Status, nullString(rd.Error), rd.OutputPath,
			rd.ClipCount, rd.TimelineMS, rd.ElapsedMS, rd.SizeBytes,
			rd.ProbeWidth, rd.ProbeHeight, rd.ProbeDurationMS,
			formatTime(rd.CreatedAt), formatTime(rd.UpdatedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *SQLiteRepository) GetRender(ctx context.Context, id string) (*Render, error) {
	query, args, err := r.sb.Select(renderColumns...).
		From("renders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rd, err := scanRender(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rd, err
}

func (r *SQLiteRepository) ListRenders(ctx context.Context, limit int) ([]*Render, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args, err := r.sb.Select(renderColumns...).
		From("renders").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var renders []*Render
	for rows.Next() {
		rd, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		renders = append(renders, rd)
	}
	return renders, rows.Err()
}

func (r *SQLiteRepository) CompleteRender(ctx context.Context, id string, c Completion) error {
	return r.update(ctx, id, sq.Eq{
		"status":            StatusCompleted,
		"error":             nil,
		"clip_count":        c.ClipCount,
		"timeline_ms":       c.TimelineMS,
		"elapsed_ms":        c.ElapsedMS,
		"size_bytes":        c.SizeBytes,
		"probe_width":       c.ProbeWidth,
		"probe_height":      c.ProbeHeight,
		"probe_duration_ms": c.ProbeDurationMS,
	})
}

func (r *SQLiteRepository) FailRender(ctx context.Context, id, errorMsg string) error {
	return r.update(ctx, id, sq.Eq{
		"status": StatusFailed,
		"error":  nullString(errorMsg),
	})
}

func (r *SQLiteRepository) update(ctx context.Context, id string, set sq.Eq) error {
	set["updated_at"] = formatTime(time.Now())
	query, args, err := r.sb.Update("renders").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRender(row scanner) (*Render, error) {
	var rd Render
	var errMsg sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&rd.ID, &rd.Mode, &rd.Status, &errMsg, &rd.OutputPath,
		&rd.ClipCount, &rd.TimelineMS, &rd.ElapsedMS, &rd.SizeBytes,
		&rd.ProbeWidth, &rd.ProbeHeight, &rd.ProbeDurationMS,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rd.Error = errMsg.String
	rd.CreatedAt = parseTime(createdAt)
	rd.UpdatedAt = parseTime(updatedAt)
	return &rd, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	// datetime('now') written by SQL-side updates
	t, _ := time.Parse(time.DateTime, s)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
