package schedule

import (
	"testing"
	"time"

	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/submission"
)

func statsEmployee(id, first, last string, weeklyHours float64) *employee.Employee {
	e := testEmployee(id, first, last)
	e.WeeklyHoursRequired = weeklyHours
	return e
}

func weekOf(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 6)
}

func TestComputeWeekStats_HoursStatusBoundaries(t *testing.T) {
	t.Parallel()

	weekStart, weekEnd := weekOf(t)

	cases := []struct {
		name    string
		lastEnd string // 5 日目のみ終了時刻を変える。他 4 日は 09:00-17:00。
		want    WorkStatus
		hours   float64
	}{
		{"exact", "17:00", WorkExact, 40.0},
		// 32 + 8.1 = 40.1 時間。
		{"over", "17:06", WorkOver, 40.1},
		// 32 + 7.9 = 39.9 時間。
		{"under", "16:54", WorkUnder, 39.9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			emp := statsEmployee("emp-1", "Taro", "Yamada", 40)
			var shifts []*ShiftSlot
			for day := 0; day < 4; day++ {
				shifts = append(shifts, dayShift("s", "emp-1", "09:00", "17:00", weekStart.AddDate(0, 0, day)))
			}
			shifts = append(shifts, dayShift("s5", "emp-1", "09:00", tc.lastEnd, weekStart.AddDate(0, 0, 4)))

			stats := ComputeWeekStats(shifts, []*employee.Employee{emp}, nil, weekStart, weekEnd)
			if len(stats) != 1 {
				t.Fatalf("expected one row, got %d", len(stats))
			}

			row := stats[0]
			if row.Status != tc.want {
				t.Fatalf("expected status %s for %.1f hours, got %s", tc.want, row.TotalHours, row.Status)
			}
			if diff := row.TotalHours - tc.hours; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("expected %.1f total hours, got %v", tc.hours, row.TotalHours)
			}
			if row.AssignedShifts != 5 {
				t.Fatalf("expected 5 assigned shifts, got %d", row.AssignedShifts)
			}
		})
	}
}

func TestComputeWeekStats_SubmissionCountsAndSuccessRate(t *testing.T) {
	t.Parallel()

	weekStart, weekEnd := weekOf(t)
	emp := statsEmployee("emp-1", "Taro", "Yamada", 40)

	shifts := []*ShiftSlot{
		dayShift("a", "emp-1", "09:00", "17:00", weekStart),
		dayShift("b", "emp-1", "09:00", "17:00", weekStart.AddDate(0, 0, 1)),
	}

	sub := &submission.PreferenceSubmission{
		ID: "sub-1", BusinessID: "biz-1", EmployeeID: "emp-1",
		WeekStart: weekStart, WeekEnd: weekEnd,
		Requests: []submission.ShiftRequest{
			{Date: weekStart, StartTime: "09:00", EndTime: "17:00"},
			{Date: weekStart.AddDate(0, 0, 1), StartTime: "09:00", EndTime: "17:00"},
			{Date: weekStart.AddDate(0, 0, 2), StartTime: "09:00", EndTime: "17:00"},
		},
	}

	stats := ComputeWeekStats(shifts, []*employee.Employee{emp}, []*submission.PreferenceSubmission{sub}, weekStart, weekEnd)
	row := stats[0]

	if row.SubmittedShifts != 1 {
		t.Fatalf("expected 1 submission, got %d", row.SubmittedShifts)
	}
	if row.RequestedShifts != 3 {
		t.Fatalf("expected 3 requested shifts, got %d", row.RequestedShifts)
	}
	// round(2/3*100) = 67
	if row.SuccessRate != 67 {
		t.Fatalf("expected success rate 67, got %d", row.SuccessRate)
	}
}

func TestComputeWeekStats_ZeroRequestsZeroRate(t *testing.T) {
	t.Parallel()

	weekStart, weekEnd := weekOf(t)
	emp := statsEmployee("emp-1", "Taro", "Yamada", 40)

	stats := ComputeWeekStats(nil, []*employee.Employee{emp}, nil, weekStart, weekEnd)
	if stats[0].SuccessRate != 0 {
		t.Fatalf("expected success rate 0 without requests, got %d", stats[0].SuccessRate)
	}
	if stats[0].Status != WorkUnder {
		t.Fatalf("expected under with zero hours, got %s", stats[0].Status)
	}
}

func TestComputeWeekStats_ExcludesOutOfWindowAndOtherEmployees(t *testing.T) {
	t.Parallel()

	weekStart, weekEnd := weekOf(t)
	emp := statsEmployee("emp-1", "Taro", "Yamada", 8)

	shifts := []*ShiftSlot{
		dayShift("in", "emp-1", "09:00", "17:00", weekStart),
		dayShift("before", "emp-1", "09:00", "17:00", weekStart.AddDate(0, 0, -1)),
		dayShift("after", "emp-1", "09:00", "17:00", weekEnd.AddDate(0, 0, 1)),
		dayShift("other", "emp-2", "09:00", "17:00", weekStart),
		dayShift("open", "", "09:00", "17:00", weekStart),
	}

	stats := ComputeWeekStats(shifts, []*employee.Employee{emp}, nil, weekStart, weekEnd)
	row := stats[0]
	if row.AssignedShifts != 1 || row.TotalHours != 8 {
		t.Fatalf("expected exactly the in-window shift, got %d shifts / %v hours", row.AssignedShifts, row.TotalHours)
	}
	if row.Status != WorkExact {
		t.Fatalf("expected exact, got %s", row.Status)
	}
}

func TestComputeWeekStats_SortedByDisplayName(t *testing.T) {
	t.Parallel()

	weekStart, weekEnd := weekOf(t)
	employees := []*employee.Employee{
		statsEmployee("emp-1", "Zoe", "Watanabe", 40),
		statsEmployee("emp-2", "Aki", "Kato", 40),
		statsEmployee("emp-3", "Mia", "Hoshino", 40),
	}

	stats := ComputeWeekStats(nil, employees, nil, weekStart, weekEnd)
	if len(stats) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stats))
	}
	if stats[0].EmployeeID != "emp-2" || stats[1].EmployeeID != "emp-3" || stats[2].EmployeeID != "emp-1" {
		t.Fatalf("expected display-name order, got %s %s %s", stats[0].EmployeeID, stats[1].EmployeeID, stats[2].EmployeeID)
	}
}

func TestComputeWeekStats_SkipsArchivedEmployees(t *testing.T) {
	t.Parallel()

	weekStart, weekEnd := weekOf(t)
	archived := statsEmployee("emp-1", "Taro", "Yamada", 40)
	archived.IsArchived = true

	stats := ComputeWeekStats(nil, []*employee.Employee{archived}, nil, weekStart, weekEnd)
	if len(stats) != 0 {
		t.Fatalf("archived employees must not appear in stats, got %d rows", len(stats))
	}
}
