package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/holiday"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (company_id, holiday_date, name)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, holiday_date, name, created_at, updated_at
	`

	var created holiday.Holiday
	err := q.QueryRow(ctx, query, h.CompanyID, h.Date, h.Name).Scan(
		&created.ID, &created.CompanyID, &created.Date, &created.Name, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return created, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, companyID, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM holidays
		WHERE id = $1 AND company_id = $2
		RETURNING id, company_id, holiday_date, name, created_at, updated_at
	`

	var deleted holiday.Holiday
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&deleted.ID, &deleted.CompanyID, &deleted.Date, &deleted.Name, &deleted.CreatedAt, &deleted.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to delete holiday with id %s: %w", id, err)
	}

	return deleted, nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, companyID string, filter holiday.HolidayFilter) ([]holiday.Holiday, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE conditions
	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM holiday_date) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM holidays WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	// Main query with pagination
	query := fmt.Sprintf(`
		SELECT id, company_id, holiday_date, name, created_at, updated_at
		FROM holidays
		WHERE %s
		ORDER BY holiday_date ASC, name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays, err := scanHolidays(rows)
	if err != nil {
		return nil, 0, err
	}

	return holidays, total, nil
}

// ListBetween implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, companyID string, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, holiday_date, name, created_at, updated_at
		FROM holidays
		WHERE company_id = $1 AND holiday_date BETWEEN $2 AND $3
		ORDER BY holiday_date ASC
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays between %s and %s: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// CompanyIDsWithHolidays implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) CompanyIDsWithHolidays(ctx context.Context, year int) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT company_id
		FROM holidays
		WHERE EXTRACT(YEAR FROM holiday_date) = $1
	`

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies with holidays: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		companyIDs = append(companyIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companyIDs, nil
}

// BulkUpsert implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) BulkUpsert(ctx context.Context, companyID string, holidays []holiday.Holiday) (int, error) {
	if len(holidays) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO holidays (company_id, holiday_date, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, holiday_date)
		DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`

	written := 0
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, h := range holidays {
			batch.Queue(query, companyID, h.Date, h.Name)
		}

		results := GetQuerier(ctx, r.db).SendBatch(ctx, batch)
		for i := range holidays {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert holiday %s: %w", holidays[i].Date.Format("2006-01-02"), err)
			}
			written += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

func scanHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}
