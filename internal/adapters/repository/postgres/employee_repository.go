package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	pgdb "github.com/aoyagi-dev/shiftboard/internal/platform/db/postgres"
)

const employeeColumns = `id, business_id, first_name, last_name, is_active, is_archived,
               weekly_hours_required, home_branch_id, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した従業員読み取りの実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID は ID で従業員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanEmployee(row)
}

// ListByBusiness はテナント配下の従業員一覧を取得します。
func (r *EmployeeRepository) ListByBusiness(ctx context.Context, businessID string, includeArchived bool) ([]*employee.Employee, error) {
	query := `
        SELECT ` + employeeColumns + `
          FROM employees
         WHERE business_id = $1`
	if !includeArchived {
		query += `
           AND is_archived = FALSE`
	}
	query += `
         ORDER BY last_name ASC, first_name ASC, id ASC`

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id           string
		businessID   string
		firstName    string
		lastName     string
		isActive     bool
		isArchived   bool
		weeklyHours  float64
		homeBranchID sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&businessID,
		&firstName,
		&lastName,
		&isActive,
		&isArchived,
		&weeklyHours,
		&homeBranchID,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	e := &employee.Employee{
		ID:                  id,
		BusinessID:          businessID,
		FirstName:           firstName,
		LastName:            lastName,
		IsActive:            isActive,
		IsArchived:          isArchived,
		WeeklyHoursRequired: weeklyHours,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}
	if homeBranchID.Valid {
		v := homeBranchID.String
		e.HomeBranchID = &v
	}
	return e, nil
}
