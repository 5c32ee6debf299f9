package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aoyagi-dev/shiftboard/internal/core/schedule"
	pgdb "github.com/aoyagi-dev/shiftboard/internal/platform/db/postgres"
)

const (
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

const shiftColumns = `id, business_id, shift_date, start_time, end_time, employee_id, branch_id,
               role, notes, status, required_staff, priority, entries, archived, created_at, updated_at`

// ShiftRepository は PostgreSQL を利用したシフト枠永続化の実装です。
type ShiftRepository struct {
	pool pgdb.Queryer
}

// NewShiftRepository は ShiftRepository を生成します。
func NewShiftRepository(pool pgdb.Queryer) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

// Create はシフト枠を新規作成します。
func (r *ShiftRepository) Create(ctx context.Context, s *schedule.ShiftSlot) (*schedule.ShiftSlot, error) {
	entries, err := marshalEntries(s.Entries)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO shifts (id, business_id, shift_date, start_time, end_time, employee_id, branch_id,
                            role, notes, status, required_staff, priority, entries, archived, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING `+shiftColumns,
		s.ID,
		s.BusinessID,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.EmployeeID,
		s.BranchID,
		s.Role,
		s.Notes,
		string(s.Status),
		s.RequiredStaff,
		priorityValue(s.Priority),
		entries,
		s.Archived,
		s.CreatedAt,
		s.UpdatedAt,
	)

	created, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return created, nil
}

// Update はシフト枠を更新します。
func (r *ShiftRepository) Update(ctx context.Context, s *schedule.ShiftSlot) (*schedule.ShiftSlot, error) {
	entries, err := marshalEntries(s.Entries)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE shifts
           SET shift_date = $1,
               start_time = $2,
               end_time = $3,
               employee_id = $4,
               branch_id = $5,
               role = $6,
               notes = $7,
               status = $8,
               required_staff = $9,
               priority = $10,
               entries = $11,
               archived = $12,
               updated_at = $13
         WHERE id = $14
        RETURNING `+shiftColumns,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.EmployeeID,
		s.BranchID,
		s.Role,
		s.Notes,
		string(s.Status),
		s.RequiredStaff,
		priorityValue(s.Priority),
		entries,
		s.Archived,
		s.UpdatedAt,
		s.ID,
	)

	updated, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return updated, nil
}

// Delete はシフト枠を削除します。
func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return translateShiftPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrShiftNotFound
	}
	return nil
}

// FindByID は ID でシフト枠を取得します。
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*schedule.ShiftSlot, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+shiftColumns+`
          FROM shifts
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return found, nil
}

// List は期間内のシフト枠一覧を日付・開始時刻順で取得します。
func (r *ShiftRepository) List(ctx context.Context, filter schedule.ListShiftsFilter) ([]*schedule.ShiftSlot, error) {
	args := []any{filter.BusinessID, filter.From, filter.To}
	query := `
        SELECT ` + shiftColumns + `
          FROM shifts
         WHERE business_id = $1
           AND shift_date >= $2
           AND shift_date <= $3`

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		query += `
           AND employee_id = $` + strconv.Itoa(len(args))
	}
	if !filter.IncludeArchived {
		query += `
           AND archived = FALSE`
	}
	query += `
         ORDER BY shift_date ASC, start_time ASC, id ASC`

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	defer rows.Close()

	var shifts []*schedule.ShiftSlot
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, translateShiftPgError(err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateShiftPgError(err)
	}

	return shifts, nil
}

func scanShift(row pgx.Row) (*schedule.ShiftSlot, error) {
	var (
		id            string
		businessID    string
		date          time.Time
		startTime     string
		endTime       string
		employeeID    sql.NullString
		branchID      sql.NullString
		role          sql.NullString
		notes         sql.NullString
		status        string
		requiredStaff sql.NullInt32
		priority      sql.NullString
		entriesRaw    []byte
		archived      bool
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(
		&id,
		&businessID,
		&date,
		&startTime,
		&endTime,
		&employeeID,
		&branchID,
		&role,
		&notes,
		&status,
		&requiredStaff,
		&priority,
		&entriesRaw,
		&archived,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schedule.ErrShiftNotFound
		}
		return nil, err
	}

	entries, err := unmarshalEntries(entriesRaw)
	if err != nil {
		return nil, err
	}

	s := &schedule.ShiftSlot{
		ID:         id,
		BusinessID: businessID,
		Date:       date.UTC(),
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     schedule.Status(status),
		Entries:    entries,
		Archived:   archived,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}

	s.EmployeeID = nullableString(employeeID)
	s.BranchID = nullableString(branchID)
	s.Role = nullableString(role)
	s.Notes = nullableString(notes)

	if requiredStaff.Valid {
		v := int(requiredStaff.Int32)
		s.RequiredStaff = &v
	}
	if priority.Valid {
		p := schedule.Priority(priority.String)
		s.Priority = &p
	}

	return s, nil
}

func marshalEntries(entries []schedule.AssignmentEntry) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("shifts: marshal entries: %w", err)
	}
	return b, nil
}

func unmarshalEntries(raw []byte) ([]schedule.AssignmentEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []schedule.AssignmentEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("shifts: unmarshal entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func priorityValue(p *schedule.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func translateShiftPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return schedule.ErrShiftNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case "shifts_employee_id_fkey":
				return schedule.ErrEmployeeNotFound
			case "shifts_branch_id_fkey":
				return schedule.ErrBranchNotFound
			default:
				return err
			}
		case checkViolationCode:
			return schedule.ErrInvalidTimeRange
		}
	}

	return err
}
