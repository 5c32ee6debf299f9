package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/submission"
)

// WorkStatus は週次の労働時間が目標に対して多いか少ないかを表します。
type WorkStatus string

const (
	WorkOver  WorkStatus = "over"
	WorkUnder WorkStatus = "under"
	WorkExact WorkStatus = "exact"
)

// EmployeeWeekStats は従業員 1 名分の週次集計です。永続化されません。
type EmployeeWeekStats struct {
	EmployeeID          string
	DisplayName         string
	AssignedShifts      int
	SubmittedShifts     int
	RequestedShifts     int
	TotalHours          float64
	WeeklyHoursRequired float64
	Status              WorkStatus
	SuccessRate         int
}

// ComputeWeekStats はシフト・希望提出コレクションから週次集計を導出します。
// 入力のみに依存する純粋関数で、週内のデータが変わるたびに再計算します。
// アクティブかつ未アーカイブの従業員のみが対象で、結果は表示名順です。
// 時刻は同一日内として扱い、日またぎのシフトは集計対象になりません。
func ComputeWeekStats(
	shifts []*ShiftSlot,
	employees []*employee.Employee,
	submissions []*submission.PreferenceSubmission,
	weekStart, weekEnd time.Time,
) []EmployeeWeekStats {
	from := normalizeDate(weekStart)
	to := normalizeDate(weekEnd)

	stats := make([]EmployeeWeekStats, 0, len(employees))
	for _, emp := range employees {
		if emp == nil || !emp.Schedulable() {
			continue
		}

		row := EmployeeWeekStats{
			EmployeeID:          emp.ID,
			DisplayName:         emp.DisplayName(),
			WeeklyHoursRequired: emp.WeeklyHoursRequired,
		}

		for _, shift := range shifts {
			if shift == nil || shift.EmployeeID == nil || *shift.EmployeeID != emp.ID {
				continue
			}
			if !withinRange(shift.Date, from, to) {
				continue
			}
			row.AssignedShifts++
			row.TotalHours += shift.DurationHours()
		}

		for _, sub := range submissions {
			if sub == nil || sub.EmployeeID != emp.ID {
				continue
			}
			if !overlapsWeek(sub, from, to) {
				continue
			}
			row.SubmittedShifts++
			row.RequestedShifts += len(sub.Requests)
		}

		switch {
		case row.TotalHours > emp.WeeklyHoursRequired:
			row.Status = WorkOver
		case row.TotalHours < emp.WeeklyHoursRequired:
			row.Status = WorkUnder
		default:
			row.Status = WorkExact
		}

		if row.RequestedShifts > 0 {
			row.SuccessRate = int(math.Round(float64(row.AssignedShifts) / float64(row.RequestedShifts) * 100))
		}

		stats = append(stats, row)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].DisplayName != stats[j].DisplayName {
			return stats[i].DisplayName < stats[j].DisplayName
		}
		return stats[i].EmployeeID < stats[j].EmployeeID
	})
	return stats
}

func withinRange(date, from, to time.Time) bool {
	d := normalizeDate(date)
	return !d.Before(from) && !d.After(to)
}

func overlapsWeek(sub *submission.PreferenceSubmission, from, to time.Time) bool {
	subStart := normalizeDate(sub.WeekStart)
	subEnd := normalizeDate(sub.WeekEnd)
	return !subStart.After(to) && !subEnd.Before(from)
}
