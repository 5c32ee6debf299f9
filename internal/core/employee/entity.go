package employee

import (
	"strings"
	"time"
)

// Employee はシフト割り当て対象となる従業員エンティティです。
// HR 側のワークフローが作成・更新し、スケジューリングコアは参照のみ行います。
type Employee struct {
	ID                  string
	BusinessID          string
	FirstName           string
	LastName            string
	IsActive            bool
	IsArchived          bool
	WeeklyHoursRequired float64
	HomeBranchID        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DisplayName は姓名を連結した表示名を返します。
func (e *Employee) DisplayName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.ID
	}
	return name
}

// Schedulable はシフト割り当て候補になり得るかを返します。
// アーカイブ済み・非アクティブの従業員は候補から除外されます。
func (e *Employee) Schedulable() bool {
	return e.IsActive && !e.IsArchived
}
