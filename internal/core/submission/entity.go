package submission

import "time"

// Status は希望提出の状態を表します。
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ShiftRequest は希望提出に含まれる個別のシフト希望です。
// 日付・開始・終了・店舗名の完全一致でシフト枠と照合されます。
type ShiftRequest struct {
	Date             time.Time
	StartTime        string
	EndTime          string
	BranchPreference string
}

// PreferenceSubmission は従業員が提出した週単位のシフト希望です。
// 提出フローは外部サブシステムが所有し、スケジューリングコアは読み取り専用で扱います。
type PreferenceSubmission struct {
	ID          string
	BusinessID  string
	EmployeeID  string
	SubmittedAt time.Time
	WeekStart   time.Time
	WeekEnd     time.Time
	Requests    []ShiftRequest
	Status      Status
}
