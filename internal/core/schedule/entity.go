package schedule

import "time"

// Status はシフト枠の状態を表します。
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusAssigned  Status = "assigned"
)

// Priority はシフト枠の優先度を表します。
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityNormal   Priority = "normal"
	PriorityBackup   Priority = "backup"
)

// EntryType は複数人シフトのサブ枠種別を表します。
type EntryType string

const (
	EntryMandatory     EntryType = "mandatory"
	EntryReinforcement EntryType = "reinforcement"
)

// AssignmentEntry は複数人を要するシフトのサブ枠です。Position 順に並びます。
type AssignmentEntry struct {
	Type       EntryType `json:"type"`
	EmployeeID *string   `json:"employee_id,omitempty"`
	Position   int       `json:"position"`
	Required   bool      `json:"required"`
}

// ShiftSlot はスケジューリングの単位となるシフト枠です。
// 開始・終了は同一日内の "HH:MM" 文字列で保持します。
// EmployeeID が nil の枠は未割り当てです。
type ShiftSlot struct {
	ID            string
	BusinessID    string
	Date          time.Time
	StartTime     string
	EndTime       string
	EmployeeID    *string
	BranchID      *string
	Role          *string
	Notes         *string
	Status        Status
	RequiredStaff *int
	Priority      *Priority
	Entries       []AssignmentEntry
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assigned は従業員が割り当て済みかを返します。
func (s *ShiftSlot) Assigned() bool {
	return s.EmployeeID != nil && *s.EmployeeID != ""
}

// SameDate は 2 つの時刻が同じ暦日(UTC)かを返します。
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DurationHours は枠の拘束時間を 10 進時間で返します。
// 時刻が不正な場合は 0 に縮退し、負値は返しません。
func (s *ShiftSlot) DurationHours() float64 {
	start := clockMinutes(s.StartTime)
	end := clockMinutes(s.EndTime)
	if end <= start {
		return 0
	}
	return float64(end-start) / 60
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusAssigned:
		return true
	default:
		return false
	}
}

func isValidPriority(priority Priority) bool {
	switch priority {
	case PriorityCritical, PriorityNormal, PriorityBackup:
		return true
	default:
		return false
	}
}

func isValidEntryType(entryType EntryType) bool {
	switch entryType {
	case EntryMandatory, EntryReinforcement:
		return true
	default:
		return false
	}
}
