package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidID            = errors.New("schedule: invalid shift id")
	ErrInvalidBusinessID    = errors.New("schedule: invalid business id")
	ErrInvalidDate          = errors.New("schedule: invalid date")
	ErrInvalidTime          = errors.New("schedule: invalid time")
	ErrInvalidTimeRange     = errors.New("schedule: start time must be before end time")
	ErrInvalidStatus        = errors.New("schedule: invalid status")
	ErrInvalidPriority      = errors.New("schedule: invalid priority")
	ErrInvalidRequiredStaff = errors.New("schedule: required staff must be at least 1")
	ErrInvalidEntry         = errors.New("schedule: invalid assignment entry")
	ErrInvalidEmployeeID    = errors.New("schedule: invalid employee id")
	ErrInvalidViewMode      = errors.New("schedule: invalid view mode")
	ErrInvalidQuickFilter   = errors.New("schedule: invalid quick filter")
	ErrEmptyFieldMask       = errors.New("schedule: no fields selected for update")
	ErrShiftNotFound        = errors.New("schedule: shift not found")
	ErrEmployeeNotFound     = errors.New("schedule: employee not found")
	ErrBranchNotFound       = errors.New("schedule: branch not found")
	ErrEmployeeUnavailable  = errors.New("schedule: employee is archived or inactive")
	ErrConflictDetected     = errors.New("schedule: assignment conflict detected")
)

// ConflictError は時間帯の重複を検出した際の詳細を保持します。
// errors.Is(err, ErrConflictDetected) で判定でき、呼び出し側は
// 明示的な override を添えて再実行するかどうかを決めます。
type ConflictError struct {
	ShiftID        string
	EmployeeID     string
	ConflictingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule: employee %s has overlapping shifts [%s] for shift %s",
		e.EmployeeID, strings.Join(e.ConflictingIDs, ", "), e.ShiftID)
}

// Is は ErrConflictDetected との同一性判定を提供します。
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflictDetected
}
