package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trackforge/internal/models"
)

// ErrTaskNotFound is returned when no task with the requested id exists.
var ErrTaskNotFound = errors.New("task not found")

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	MarkDone(ctx context.Context, id int64, completedAt time.Time) error
	ListDue(ctx context.Context, dueOnOrBefore time.Time, statuses []models.TaskStatus, limit int) ([]*models.Task, error)
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, source, tags, estimate_pomos, actual_pomos, due_date, status, created_at, completed_at`

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (title, source, tags, estimate_pomos, actual_pomos, due_date, status, created_at, completed_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	return r.db.QueryRowContext(
		ctx, query, task.Title, nullString(task.Source), task.Tags,
		task.EstimatePomos, task.ActualPomos, task.DueDate, task.Status,
		task.CreatedAt, nullTime(task.CompletedAt),
	).Scan(&task.ID)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	return task, err
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks SET title = $1, source = $2, tags = $3, estimate_pomos = $4,
	 actual_pomos = $5, due_date = $6, status = $7, completed_at = $8 WHERE id = $9`

	res, err := r.db.ExecContext(
		ctx, query, task.Title, nullString(task.Source), task.Tags,
		task.EstimatePomos, task.ActualPomos, task.DueDate, task.Status,
		nullTime(task.CompletedAt), task.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkDone reads the task, flips it to done and stamps completed_at, inside
// one transaction that commits or rolls back on every path. Marking an
// already-done task re-stamps it with the same values.
func (r *TaskRepository) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}
	if err != nil {
		return err
	}

	task.Status = models.StatusDone
	task.CompletedAt = &completedAt
	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET status = $1, completed_at = $2 WHERE id = $3`,
		task.Status, completedAt, task.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListDue returns tasks due on or before the given date whose status is in
// the given set, newest first within status, capped at limit. Status "today"
// sorts lexicographically after "scheduled", so descending order puts
// today-items first.
func (r *TaskRepository) ListDue(ctx context.Context, dueOnOrBefore time.Time, statuses []models.TaskStatus, limit int) ([]*models.Task, error) {
	placeholders := make([]string, len(statuses))
	args := []any{dueOnOrBefore}
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, s)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT `+taskColumns+` FROM tasks
	 WHERE due_date <= $1 AND status IN (%s)
	 ORDER BY status DESC, id DESC LIMIT $%d`,
		strings.Join(placeholders, ", "), len(statuses)+2)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var source sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&task.ID, &task.Title, &source, &task.Tags, &task.EstimatePomos,
		&task.ActualPomos, &task.DueDate, &task.Status, &task.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if source.Valid {
		task.Source = &source.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	return task, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
