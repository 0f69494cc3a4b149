package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// journalColumns — столбцы operation_journal для SELECT-запросов.
const journalColumns = `id, device, operation, outcome, detail, duration_ms, created_at`

// Ограничения выборки.
const (
	DefaultJournalLimit = 50
	MaxJournalLimit     = 500
)

// JournalFilter — фильтры выборки журнала. nil — фильтр не применяется.
type JournalFilter struct {
	Device  *string
	Outcome *string
	Since   *time.Time
	Limit   int
	Offset  int
}

// JournalRepository — доступ к журналу операций.
type JournalRepository interface {
	// Insert добавляет запись и возвращает её id.
	Insert(ctx context.Context, entry model.JournalEntry) (int64, error)
	// List возвращает записи (новые первыми) и общее количество по фильтру.
	List(ctx context.Context, filter JournalFilter) ([]model.JournalEntry, int, error)
	// DeleteBefore удаляет записи старше t и возвращает число удалённых.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}

type journalRepo struct {
	db DBTX
}

// NewJournalRepository создаёт репозиторий журнала.
func NewJournalRepository(db DBTX) JournalRepository {
	return &journalRepo{db: db}
}

func (r *journalRepo) Insert(ctx context.Context, e model.JournalEntry) (int64, error) {
	query := `
		INSERT INTO operation_journal (device, operation, outcome, detail, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query,
		e.Device, e.Operation, e.Outcome, e.Detail, e.DurationMS(),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка записи в журнал: %w", err)
	}
	return id, nil
}

func (r *journalRepo) List(ctx context.Context, filter JournalFilter) ([]model.JournalEntry, int, error) {
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)

	where, args := buildJournalWhere(filter, 1)
	argNum := len(args) + 1

	dataQuery := fmt.Sprintf(
		`SELECT %s FROM operation_journal %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		journalColumns, where, argNum, argNum+1,
	)
	dataArgs := append(args[:len(args):len(args)], filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	result := make([]model.JournalEntry, 0, filter.Limit)
	for rows.Next() {
		var (
			e          model.JournalEntry
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Device, &e.Operation, &e.Outcome, &e.Detail, &durationMS, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка итерации журнала: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM operation_journal %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта записей журнала: %w", err)
	}

	return result, total, nil
}

func (r *journalRepo) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM operation_journal WHERE created_at < $1`, t)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки журнала: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildJournalWhere строит WHERE-условие и аргументы.
// startArg — номер первого $-параметра.
func buildJournalWhere(filter JournalFilter, startArg int) (whereClause string, args []any) {
	var conditions []string
	argNum := startArg

	if filter.Device != nil {
		conditions = append(conditions, fmt.Sprintf("device = $%d", argNum))
		args = append(args, *filter.Device)
		argNum++
	}
	if filter.Outcome != nil {
		conditions = append(conditions, fmt.Sprintf("outcome = $%d", argNum))
		args = append(args, *filter.Outcome)
		argNum++
	}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
		args = append(args, *filter.Since)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// normalizePage приводит limit и offset к допустимым значениям.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	if limit > MaxJournalLimit {
		limit = MaxJournalLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
