package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/submission"
)

// Service はシフト枠の作成・割り当て・一括更新のユースケースをまとめます。
// 書き込みは永続化境界のみを通し、成功後に変更イベントを発火します。
type Service struct {
	shifts      Repository
	employees   employee.Repository
	branches    branch.Repository
	submissions submission.Repository
	clock       Clock
	tx          TransactionManager
	newID       func() string
	listeners   []ChangeListener
}

// UseCase はスケジューリングコアの公開インターフェースです。
type UseCase interface {
	CreateShift(ctx context.Context, in CreateShiftInput) (*ShiftSlot, error)
	GetShift(ctx context.Context, id string) (*ShiftSlot, error)
	ListShifts(ctx context.Context, filter ListShiftsFilter) ([]*ShiftSlot, error)
	AssignShift(ctx context.Context, in AssignShiftInput) (*ShiftSlot, error)
	UnassignShift(ctx context.Context, shiftID string) (*ShiftSlot, error)
	BulkUpdateShifts(ctx context.Context, in BulkUpdateInput) ([]*ShiftSlot, error)
	DeleteShift(ctx context.Context, id string) error
	ShiftCandidates(ctx context.Context, shiftID string) ([]Candidate, error)
	WeekStats(ctx context.Context, businessID string, weekStart time.Time) ([]EmployeeWeekStats, error)
}

// NewService は Service を生成します。clock と tx は nil 可で、既定実装が使われます。
func NewService(
	shifts Repository,
	employees employee.Repository,
	branches branch.Repository,
	submissions submission.Repository,
	clock Clock,
	tx TransactionManager,
) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		shifts:      shifts,
		employees:   employees,
		branches:    branches,
		submissions: submissions,
		clock:       clock,
		tx:          tx,
		newID:       uuid.NewString,
	}
}

// AddListener は変更イベントの通知先を登録します。
func (s *Service) AddListener(listener ChangeListener) {
	if listener != nil {
		s.listeners = append(s.listeners, listener)
	}
}

func (s *Service) emit(ctx context.Context, event ChangeEvent) {
	for _, l := range s.listeners {
		l.ScheduleChanged(ctx, event)
	}
}

// CreateShiftInput はシフト枠作成時の入力です。
// EmployeeID を指定する場合、重複があると Override なしでは失敗します。
type CreateShiftInput struct {
	BusinessID    string
	Date          time.Time
	StartTime     string
	EndTime       string
	EmployeeID    *string
	BranchID      *string
	Role          *string
	Notes         *string
	Status        *Status
	RequiredStaff *int
	Priority      *Priority
	Entries       []AssignmentEntry
	Override      bool
}

// AssignShiftInput は割り当て時の入力です。Override は重複確認後の強行を表します。
type AssignShiftInput struct {
	ShiftID    string
	EmployeeID string
	Override   bool
}

// BulkUpdateInput は複数シフトへの一括更新です。
// nil 許容のフィールドは値ポインタと Set フラグの組で表し、
// Set が立っていないフィールドは既定値があっても絶対に適用されません。
type BulkUpdateInput struct {
	ShiftIDs []string

	Status    *Status
	StartTime *string
	EndTime   *string

	EmployeeID    *string
	EmployeeIDSet bool

	BranchID    *string
	BranchIDSet bool

	Role    *string
	RoleSet bool

	Notes    *string
	NotesSet bool

	RequiredStaff    *int
	RequiredStaffSet bool

	Priority    *Priority
	PrioritySet bool
}

func (in BulkUpdateInput) selectedFieldCount() int {
	count := 0
	if in.Status != nil {
		count++
	}
	if in.StartTime != nil {
		count++
	}
	if in.EndTime != nil {
		count++
	}
	if in.EmployeeIDSet {
		count++
	}
	if in.BranchIDSet {
		count++
	}
	if in.RoleSet {
		count++
	}
	if in.NotesSet {
		count++
	}
	if in.RequiredStaffSet {
		count++
	}
	if in.PrioritySet {
		count++
	}
	return count
}

// CreateShift はシフト枠を新規作成します。
func (s *Service) CreateShift(ctx context.Context, in CreateShiftInput) (*ShiftSlot, error) {
	if strings.TrimSpace(in.BusinessID) == "" {
		return nil, fmt.Errorf("business_id: %w", ErrInvalidBusinessID)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("date: %w", ErrInvalidDate)
	}
	if err := validateTimeRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if in.RequiredStaff != nil && *in.RequiredStaff < 1 {
		return nil, fmt.Errorf("required_staff: %w", ErrInvalidRequiredStaff)
	}
	if in.Priority != nil && !isValidPriority(*in.Priority) {
		return nil, fmt.Errorf("priority: %w", ErrInvalidPriority)
	}
	if err := validateEntries(in.Entries); err != nil {
		return nil, err
	}

	status := StatusPending
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, fmt.Errorf("status: %w", ErrInvalidStatus)
		}
		status = *in.Status
	}

	var created *ShiftSlot
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if in.BranchID != nil {
			if _, err := s.branches.FindByID(txCtx, *in.BranchID); err != nil {
				return fmt.Errorf("branch_id: %w", ErrBranchNotFound)
			}
		}

		now := s.clock.Now()
		shift := &ShiftSlot{
			ID:            s.newID(),
			BusinessID:    strings.TrimSpace(in.BusinessID),
			Date:          normalizeDate(in.Date),
			StartTime:     strings.TrimSpace(in.StartTime),
			EndTime:       strings.TrimSpace(in.EndTime),
			BranchID:      in.BranchID,
			Role:          in.Role,
			Notes:         in.Notes,
			Status:        status,
			RequiredStaff: in.RequiredStaff,
			Priority:      in.Priority,
			Entries:       in.Entries,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if in.EmployeeID != nil && *in.EmployeeID != "" {
			if err := s.checkAssignable(txCtx, shift, *in.EmployeeID, in.Override); err != nil {
				return err
			}
			shift.EmployeeID = in.EmployeeID
			// 担当者が付いた枠を pending のまま残さない。
			if shift.Status == StatusPending {
				shift.Status = StatusAssigned
			}
		}

		result, err := s.shifts.Create(txCtx, shift)
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ChangeEvent{
		BusinessID: created.BusinessID,
		Kind:       ChangeCreated,
		ShiftIDs:   []string{created.ID},
		EmployeeID: created.EmployeeID,
	})
	return created, nil
}

// GetShift はシフト枠を取得します。
func (s *Service) GetShift(ctx context.Context, id string) (*ShiftSlot, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var found *ShiftSlot
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.shifts.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListShifts は期間内のシフト枠一覧を取得します。
func (s *Service) ListShifts(ctx context.Context, filter ListShiftsFilter) ([]*ShiftSlot, error) {
	if strings.TrimSpace(filter.BusinessID) == "" {
		return nil, fmt.Errorf("business_id: %w", ErrInvalidBusinessID)
	}
	if filter.From.IsZero() || filter.To.IsZero() || filter.To.Before(filter.From) {
		return nil, fmt.Errorf("date range: %w", ErrInvalidDate)
	}

	var shifts []*ShiftSlot
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.shifts.List(txCtx, filter)
		if err != nil {
			return err
		}
		shifts = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

// AssignShift は従業員をシフト枠へ割り当てます。
// 同日の既存シフトとの重複が検出された場合、Override が true でなければ
// ConflictError を返します。黙って上書きすることはありません。
func (s *Service) AssignShift(ctx context.Context, in AssignShiftInput) (*ShiftSlot, error) {
	if strings.TrimSpace(in.ShiftID) == "" {
		return nil, fmt.Errorf("shift_id: %w", ErrInvalidID)
	}
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("employee_id: %w", ErrInvalidEmployeeID)
	}

	var updated *ShiftSlot
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		shift, err := s.shifts.FindByID(txCtx, in.ShiftID)
		if err != nil {
			return err
		}

		if err := s.checkAssignable(txCtx, shift, in.EmployeeID, in.Override); err != nil {
			return err
		}

		employeeID := in.EmployeeID
		shift.EmployeeID = &employeeID
		shift.Status = StatusAssigned
		shift.UpdatedAt = s.clock.Now()

		result, err := s.shifts.Update(txCtx, shift)
		if err != nil {
			return err
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ChangeEvent{
		BusinessID: updated.BusinessID,
		Kind:       ChangeAssigned,
		ShiftIDs:   []string{updated.ID},
		EmployeeID: updated.EmployeeID,
	})
	return updated, nil
}

// UnassignShift は割り当てを解除し、枠を pending に戻します。
func (s *Service) UnassignShift(ctx context.Context, shiftID string) (*ShiftSlot, error) {
	if strings.TrimSpace(shiftID) == "" {
		return nil, fmt.Errorf("shift_id: %w", ErrInvalidID)
	}

	var (
		updated  *ShiftSlot
		previous *string
	)
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		shift, err := s.shifts.FindByID(txCtx, shiftID)
		if err != nil {
			return err
		}

		previous = shift.EmployeeID
		shift.EmployeeID = nil
		shift.Status = StatusPending
		shift.UpdatedAt = s.clock.Now()

		result, err := s.shifts.Update(txCtx, shift)
		if err != nil {
			return err
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ChangeEvent{
		BusinessID: updated.BusinessID,
		Kind:       ChangeUnassigned,
		ShiftIDs:   []string{updated.ID},
		EmployeeID: previous,
	})
	return updated, nil
}

// BulkUpdateShifts は選択されたシフト群へスパースなフィールド変更を適用します。
// Set フラグの立っていないフィールドはどの行でも変更されません。
// 全件が単一トランザクションで更新され、途中で失敗すると何も適用されません。
func (s *Service) BulkUpdateShifts(ctx context.Context, in BulkUpdateInput) ([]*ShiftSlot, error) {
	if len(in.ShiftIDs) == 0 {
		return nil, fmt.Errorf("shift_ids: %w", ErrInvalidID)
	}
	if in.selectedFieldCount() == 0 {
		return nil, ErrEmptyFieldMask
	}
	if in.Status != nil && !isValidStatus(*in.Status) {
		return nil, fmt.Errorf("status: %w", ErrInvalidStatus)
	}
	if in.PrioritySet && in.Priority != nil && !isValidPriority(*in.Priority) {
		return nil, fmt.Errorf("priority: %w", ErrInvalidPriority)
	}
	if in.RequiredStaffSet && in.RequiredStaff != nil && *in.RequiredStaff < 1 {
		return nil, fmt.Errorf("required_staff: %w", ErrInvalidRequiredStaff)
	}

	var (
		updated    []*ShiftSlot
		businessID string
	)
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		updated = updated[:0]
		for _, id := range in.ShiftIDs {
			shift, err := s.shifts.FindByID(txCtx, id)
			if err != nil {
				return fmt.Errorf("shift %s: %w", id, err)
			}

			applyBulkFields(shift, in)

			if err := validateTimeRange(shift.StartTime, shift.EndTime); err != nil {
				return fmt.Errorf("shift %s: %w", id, err)
			}

			shift.UpdatedAt = s.clock.Now()
			result, err := s.shifts.Update(txCtx, shift)
			if err != nil {
				return fmt.Errorf("shift %s: %w", id, err)
			}
			updated = append(updated, result)
			businessID = result.BusinessID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ChangeEvent{
		BusinessID: businessID,
		Kind:       ChangeUpdated,
		ShiftIDs:   in.ShiftIDs,
	})
	return updated, nil
}

// applyBulkFields はフィールドマスクで選択された値のみを適用します。
func applyBulkFields(shift *ShiftSlot, in BulkUpdateInput) {
	if in.Status != nil {
		shift.Status = *in.Status
	}
	if in.StartTime != nil {
		shift.StartTime = strings.TrimSpace(*in.StartTime)
	}
	if in.EndTime != nil {
		shift.EndTime = strings.TrimSpace(*in.EndTime)
	}
	if in.EmployeeIDSet {
		shift.EmployeeID = in.EmployeeID
		if in.EmployeeID == nil && shift.Status == StatusAssigned {
			shift.Status = StatusPending
		}
	}
	if in.BranchIDSet {
		shift.BranchID = in.BranchID
	}
	if in.RoleSet {
		shift.Role = in.Role
	}
	if in.NotesSet {
		shift.Notes = in.Notes
	}
	if in.RequiredStaffSet {
		shift.RequiredStaff = in.RequiredStaff
	}
	if in.PrioritySet {
		shift.Priority = in.Priority
	}
}

// DeleteShift はシフト枠を削除します。
func (s *Service) DeleteShift(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	var businessID string
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		shift, err := s.shifts.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		businessID = shift.BusinessID
		return s.shifts.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, ChangeEvent{
		BusinessID: businessID,
		Kind:       ChangeDeleted,
		ShiftIDs:   []string{id},
	})
	return nil
}

// ShiftCandidates はシフト枠に対する割り当て候補を返します。
// 希望提出・同日シフトを取得した上でマッチャーへ委譲します。
func (s *Service) ShiftCandidates(ctx context.Context, shiftID string) ([]Candidate, error) {
	if strings.TrimSpace(shiftID) == "" {
		return nil, fmt.Errorf("shift_id: %w", ErrInvalidID)
	}

	var candidates []Candidate
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		shift, err := s.shifts.FindByID(txCtx, shiftID)
		if err != nil {
			return err
		}

		employees, err := s.employees.ListByBusiness(txCtx, shift.BusinessID, false)
		if err != nil {
			return err
		}

		branches, err := s.branches.ListByBusiness(txCtx, shift.BusinessID)
		if err != nil {
			return err
		}

		weekStart := WeekStart(shift.Date)
		submissions, err := s.submissions.ListForWeek(txCtx, shift.BusinessID, weekStart, weekStart.AddDate(0, 0, 6))
		if err != nil {
			return err
		}

		dayShifts, err := s.shifts.List(txCtx, ListShiftsFilter{
			BusinessID: shift.BusinessID,
			From:       normalizeDate(shift.Date),
			To:         normalizeDate(shift.Date),
		})
		if err != nil {
			return err
		}

		candidates = EligibleEmployees(shift, employees, submissions, branches, dayShifts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// WeekStats は週次のシフト・希望・時間集計を返します。
func (s *Service) WeekStats(ctx context.Context, businessID string, weekStart time.Time) ([]EmployeeWeekStats, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, fmt.Errorf("business_id: %w", ErrInvalidBusinessID)
	}
	if weekStart.IsZero() {
		return nil, fmt.Errorf("week_start: %w", ErrInvalidDate)
	}

	from := normalizeDate(weekStart)
	to := from.AddDate(0, 0, 6)

	var stats []EmployeeWeekStats
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		shifts, err := s.shifts.List(txCtx, ListShiftsFilter{BusinessID: businessID, From: from, To: to})
		if err != nil {
			return err
		}

		employees, err := s.employees.ListByBusiness(txCtx, businessID, false)
		if err != nil {
			return err
		}

		submissions, err := s.submissions.ListForWeek(txCtx, businessID, from, to)
		if err != nil {
			return err
		}

		stats = ComputeWeekStats(shifts, employees, submissions, from, to)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// checkAssignable は従業員の存在・候補適格と時間帯重複を検証します。
func (s *Service) checkAssignable(ctx context.Context, shift *ShiftSlot, employeeID string, override bool) error {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("employee %s: %w", employeeID, ErrEmployeeNotFound)
	}
	if !emp.Schedulable() {
		return fmt.Errorf("employee %s: %w", employeeID, ErrEmployeeUnavailable)
	}

	date := normalizeDate(shift.Date)
	sameDay, err := s.shifts.List(ctx, ListShiftsFilter{
		BusinessID: shift.BusinessID,
		From:       date,
		To:         date,
		EmployeeID: &employeeID,
	})
	if err != nil {
		return err
	}

	conflicting := ConflictingShiftIDs(shift, employeeID, sameDay)
	if len(conflicting) > 0 && !override {
		return &ConflictError{ShiftID: shift.ID, EmployeeID: employeeID, ConflictingIDs: conflicting}
	}
	return nil
}

// validateTimeRange は同一日内の開始 < 終了を強制します。
// 日またぎのシフトは対象外で、終了が開始以前の入力は拒否します。
func validateTimeRange(start, end string) error {
	if !validClock(start) {
		return fmt.Errorf("start_time %q: %w", start, ErrInvalidTime)
	}
	if !validClock(end) {
		return fmt.Errorf("end_time %q: %w", end, ErrInvalidTime)
	}
	if clockMinutes(start) >= clockMinutes(end) {
		return ErrInvalidTimeRange
	}
	return nil
}

func validateEntries(entries []AssignmentEntry) error {
	for i, entry := range entries {
		if !isValidEntryType(entry.Type) {
			return fmt.Errorf("entries[%d].type %q: %w", i, entry.Type, ErrInvalidEntry)
		}
		if entry.Position < 0 {
			return fmt.Errorf("entries[%d].position: %w", i, ErrInvalidEntry)
		}
	}
	return nil
}
