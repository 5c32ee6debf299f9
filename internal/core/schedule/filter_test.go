package schedule

import (
	"testing"
	"time"
)

func strPtr(v string) *string {
	return &v
}

func TestProject_AllDefaultsIsIdentity(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	shifts := []*ShiftSlot{
		dayShift("a", "emp-1", "10:00", "12:00", date),
		dayShift("b", "", "09:00", "17:00", date),
		dayShift("c", "emp-2", "14:00", "16:00", date.AddDate(0, 0, 1)),
	}

	view := NewViewState()
	model := view.Project(shifts)

	if len(model.Shifts) != len(shifts) {
		t.Fatalf("expected identity projection, got %d of %d", len(model.Shifts), len(shifts))
	}
	for i := range shifts {
		if model.Shifts[i].ID != shifts[i].ID {
			t.Fatalf("flat projection must preserve input order, got %s at %d", model.Shifts[i].ID, i)
		}
	}
}

func TestProject_ExcludesArchivedShifts(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	archived := dayShift("a", "emp-1", "10:00", "12:00", date)
	archived.Archived = true
	shifts := []*ShiftSlot{archived, dayShift("b", "", "09:00", "17:00", date)}

	model := NewViewState().Project(shifts)
	if len(model.Shifts) != 1 || model.Shifts[0].ID != "b" {
		t.Fatalf("archived shift must be excluded from active views, got %+v", model.Shifts)
	}
}

func TestProject_FiltersAreANDed(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	branchA, branchB := "br-1", "br-2"
	roleCook := "cook"

	s1 := dayShift("a", "emp-1", "10:00", "12:00", date)
	s1.BranchID = &branchA
	s1.Role = &roleCook
	s2 := dayShift("b", "emp-1", "13:00", "15:00", date)
	s2.BranchID = &branchB
	s2.Role = &roleCook
	s3 := dayShift("c", "", "09:00", "17:00", date)
	s3.BranchID = &branchA
	s3.Status = StatusPending

	view := NewViewState()
	view.Apply(FilterPatch{Branch: strPtr("br-1"), Employee: strPtr("emp-1")})

	model := view.Project([]*ShiftSlot{s1, s2, s3})
	if len(model.Shifts) != 1 || model.Shifts[0].ID != "a" {
		t.Fatalf("expected AND of branch and employee filters, got %+v", model.Shifts)
	}
}

func TestProject_UnassignedFilter(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	shifts := []*ShiftSlot{
		dayShift("a", "emp-1", "10:00", "12:00", date),
		dayShift("b", "", "09:00", "17:00", date),
	}

	view := NewViewState()
	view.Apply(FilterPatch{Employee: strPtr(FilterUnassigned)})

	model := view.Project(shifts)
	if len(model.Shifts) != 1 || model.Shifts[0].ID != "b" {
		t.Fatalf("expected only unassigned shifts, got %+v", model.Shifts)
	}
}

func TestApply_MergesOnlySpecifiedFields(t *testing.T) {
	t.Parallel()

	view := NewViewState()
	view.Apply(FilterPatch{Status: strPtr("approved"), Branch: strPtr("br-1")})
	view.Apply(FilterPatch{Employee: strPtr("emp-1")})

	f := view.Filter()
	if f.Status != "approved" || f.Branch != "br-1" || f.Employee != "emp-1" {
		t.Fatalf("patch must merge without dropping prior fields: %+v", f)
	}
	if f.Role != FilterAll {
		t.Fatalf("unspecified field must stay at default, got %q", f.Role)
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	t.Parallel()

	view := NewViewState()
	view.Apply(FilterPatch{Status: strPtr("approved"), Search: strPtr("cook")})
	if err := view.QuickFilter(QuickToday, time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)); err != nil {
		t.Fatalf("QuickFilter returned error: %v", err)
	}

	view.Reset()

	if view.Filter() != DefaultFilter() {
		t.Fatalf("expected default filter after reset, got %+v", view.Filter())
	}

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	model := view.Project([]*ShiftSlot{dayShift("a", "", "09:00", "17:00", date)})
	if len(model.Shifts) != 1 {
		t.Fatal("reset must clear the quick filter date window")
	}
}

func TestQuickFilter_Windows(t *testing.T) {
	t.Parallel()

	// 2025-03-12 は水曜。
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	shifts := []*ShiftSlot{
		dayShift("mon", "", "09:00", "17:00", monday),
		dayShift("wed", "", "09:00", "17:00", monday.AddDate(0, 0, 2)),
		dayShift("thu", "", "09:00", "17:00", monday.AddDate(0, 0, 3)),
		dayShift("next-mon", "", "09:00", "17:00", monday.AddDate(0, 0, 7)),
	}

	cases := []struct {
		kind QuickFilterKind
		want []string
	}{
		{QuickToday, []string{"wed"}},
		{QuickTomorrow, []string{"thu"}},
		{QuickThisWeek, []string{"mon", "wed", "thu"}},
		{QuickNextWeek, []string{"next-mon"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()

			view := NewViewState()
			if err := view.QuickFilter(tc.kind, now); err != nil {
				t.Fatalf("QuickFilter returned error: %v", err)
			}

			model := view.Project(shifts)
			if len(model.Shifts) != len(tc.want) {
				t.Fatalf("expected %d shifts, got %d", len(tc.want), len(model.Shifts))
			}
			for i, id := range tc.want {
				if model.Shifts[i].ID != id {
					t.Fatalf("expected %s at %d, got %s", id, i, model.Shifts[i].ID)
				}
			}
		})
	}
}

func TestQuickFilter_PreservesNonDateFilters(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	shifts := []*ShiftSlot{
		dayShift("assigned", "emp-1", "09:00", "12:00", today),
		dayShift("open", "", "13:00", "17:00", today),
	}

	view := NewViewState()
	view.Apply(FilterPatch{Employee: strPtr(FilterUnassigned)})
	if err := view.QuickFilter(QuickToday, now); err != nil {
		t.Fatalf("QuickFilter returned error: %v", err)
	}

	model := view.Project(shifts)
	if len(model.Shifts) != 1 || model.Shifts[0].ID != "open" {
		t.Fatalf("quick filter must narrow on top of existing filters, got %+v", model.Shifts)
	}
}

func TestProject_GroupedByBranchDaySort(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	branchID := "br-1"

	mk := func(id, start, end string) *ShiftSlot {
		s := dayShift(id, "", start, end, date)
		s.BranchID = &branchID
		return s
	}

	shifts := []*ShiftSlot{
		mk("a", "10:00", "12:00"),
		mk("b", "09:00", "17:00"),
		mk("c", "09:00", "11:00"),
	}

	view := NewViewState()
	if err := view.SetMode(ViewByBranch); err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}

	model := view.Project(shifts)
	day := model.ByBranch[branchID][DateKey(date)]
	if len(day) != 3 {
		t.Fatalf("expected 3 shifts in day group, got %d", len(day))
	}

	// 開始昇順、同時刻は長い枠が先。
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if day[i].ID != id {
			t.Fatalf("expected %s at %d, got %s", id, i, day[i].ID)
		}
	}
}

func TestProject_GroupedByEmployee(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	shifts := []*ShiftSlot{
		dayShift("a", "emp-1", "13:00", "15:00", date),
		dayShift("b", "emp-1", "09:00", "11:00", date),
		dayShift("c", "", "09:00", "17:00", date),
	}

	view := NewViewState()
	if err := view.SetMode(ViewByEmployee); err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}

	model := view.Project(shifts)
	if got := model.ByEmployee["emp-1"]; len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected employee group order: %+v", got)
	}
	if got := model.ByEmployee[""]; len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("unassigned shifts must group under empty key: %+v", got)
	}
}

func TestSetMode_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	view := NewViewState()
	if err := view.SetMode(ViewMode("calendar")); err == nil {
		t.Fatal("expected error for unknown view mode")
	}
}

func TestProject_SearchMatchesRoleAndNotes(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	role := "Line Cook"
	notes := "cover for holiday"

	s1 := dayShift("a", "", "09:00", "12:00", date)
	s1.Role = &role
	s2 := dayShift("b", "", "13:00", "17:00", date)
	s2.Notes = &notes
	s3 := dayShift("c", "", "13:00", "17:00", date)

	view := NewViewState()
	view.Apply(FilterPatch{Search: strPtr("COOK")})

	model := view.Project([]*ShiftSlot{s1, s2, s3})
	if len(model.Shifts) != 1 || model.Shifts[0].ID != "a" {
		t.Fatalf("expected case-insensitive role match, got %+v", model.Shifts)
	}

	view.Apply(FilterPatch{Search: strPtr("holiday")})
	model = view.Project([]*ShiftSlot{s1, s2, s3})
	if len(model.Shifts) != 1 || model.Shifts[0].ID != "b" {
		t.Fatalf("expected notes match, got %+v", model.Shifts)
	}
}

func TestWeekStart_MondayBased(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, // 月曜
		{time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},  // 水曜
		{time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, // 日曜
	}

	for _, tc := range cases {
		if got := WeekStart(tc.in); !got.Equal(tc.want) {
			t.Fatalf("WeekStart(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
