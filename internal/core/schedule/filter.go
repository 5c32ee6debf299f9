package schedule

import (
	"sort"
	"strings"
	"time"
)

// ViewMode は週表示の形式を表します。
type ViewMode string

const (
	ViewFlatWeek   ViewMode = "flat_week"
	ViewByBranch   ViewMode = "by_branch"
	ViewByEmployee ViewMode = "by_employee"
)

// フィルタ値の特殊キーワード。ID と衝突しない前提で運用します。
const (
	FilterAll        = "all"
	FilterUnassigned = "unassigned"
)

// QuickFilterKind は日付ウィンドウを絞り込むクイックフィルタの種別です。
type QuickFilterKind string

const (
	QuickToday    QuickFilterKind = "today"
	QuickTomorrow QuickFilterKind = "tomorrow"
	QuickThisWeek QuickFilterKind = "this_week"
	QuickNextWeek QuickFilterKind = "next_week"
)

// Filter は表示用の絞り込み条件です。永続化されず、表示のたびに導出されます。
// "all" のフィールドは条件として作用しません。
type Filter struct {
	Status   string
	Employee string
	Branch   string
	Role     string
	Search   string
	Date     *time.Time
}

// FilterPatch は Filter への部分更新です。nil のフィールドは変更されません。
// Date は nil へ戻す更新があり得るため DateSet で明示します。
type FilterPatch struct {
	Status   *string
	Employee *string
	Branch   *string
	Role     *string
	Search   *string
	Date     *time.Time
	DateSet  bool
}

// DefaultFilter は全件表示のフィルタを返します。
func DefaultFilter() Filter {
	return Filter{
		Status:   FilterAll,
		Employee: FilterAll,
		Branch:   FilterAll,
		Role:     FilterAll,
	}
}

// ViewState は現在のフィルタと表示モードを保持する状態機械です。
// クイックフィルタ由来の日付ウィンドウは通常フィルタとは独立に保持し、
// Reset で両方とも初期化されます。
type ViewState struct {
	filter     Filter
	mode       ViewMode
	windowFrom *time.Time
	windowTo   *time.Time
}

// NewViewState は全件表示・フラット週表示の初期状態を返します。
func NewViewState() *ViewState {
	return &ViewState{filter: DefaultFilter(), mode: ViewFlatWeek}
}

// Filter は現在のフィルタを返します。
func (v *ViewState) Filter() Filter {
	return v.filter
}

// Mode は現在の表示モードを返します。
func (v *ViewState) Mode() ViewMode {
	return v.mode
}

// Apply はパッチで指定されたフィールドのみを現在のフィルタへマージします。
func (v *ViewState) Apply(patch FilterPatch) {
	if patch.Status != nil {
		v.filter.Status = *patch.Status
	}
	if patch.Employee != nil {
		v.filter.Employee = *patch.Employee
	}
	if patch.Branch != nil {
		v.filter.Branch = *patch.Branch
	}
	if patch.Role != nil {
		v.filter.Role = *patch.Role
	}
	if patch.Search != nil {
		v.filter.Search = *patch.Search
	}
	if patch.DateSet {
		if patch.Date == nil {
			v.filter.Date = nil
		} else {
			d := normalizeDate(*patch.Date)
			v.filter.Date = &d
		}
	}
}

// Reset はフィルタ・日付ウィンドウを初期状態へ戻します。表示モードは維持します。
func (v *ViewState) Reset() {
	v.filter = DefaultFilter()
	v.windowFrom = nil
	v.windowTo = nil
}

// SetMode は表示モードを切り替えます。
func (v *ViewState) SetMode(mode ViewMode) error {
	switch mode {
	case ViewFlatWeek, ViewByBranch, ViewByEmployee:
		v.mode = mode
		return nil
	default:
		return ErrInvalidViewMode
	}
}

// QuickFilter は既存の非日付フィルタを保ったまま日付ウィンドウを絞り込みます。
// 週は月曜始まりです。
func (v *ViewState) QuickFilter(kind QuickFilterKind, now time.Time) error {
	today := normalizeDate(now)

	var from, to time.Time
	switch kind {
	case QuickToday:
		from, to = today, today
	case QuickTomorrow:
		from = today.AddDate(0, 0, 1)
		to = from
	case QuickThisWeek:
		from = WeekStart(today)
		to = from.AddDate(0, 0, 6)
	case QuickNextWeek:
		from = WeekStart(today).AddDate(0, 0, 7)
		to = from.AddDate(0, 0, 6)
	default:
		return ErrInvalidQuickFilter
	}

	v.windowFrom = &from
	v.windowTo = &to
	return nil
}

// WeekStart はその日が属する週の月曜日を返します。
func WeekStart(t time.Time) time.Time {
	d := normalizeDate(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// ViewModel はフィルタ・グルーピング適用後の射影です。
// Mode に応じたフィールドのみが埋まります。日付キーは "2006-01-02" 形式です。
type ViewModel struct {
	Mode       ViewMode
	Shifts     []*ShiftSlot
	ByBranch   map[string]map[string][]*ShiftSlot
	ByEmployee map[string][]*ShiftSlot
}

// DateKey は日付キーを整形します。
func DateKey(t time.Time) string {
	return normalizeDate(t).Format("2006-01-02")
}

// Project はフィルタと表示モードを適用した射影を生成します。
// ネットワーク・永続化への副作用はない純粋変換です。
// フラット表示は入力順を保ち、グループ表示では日内を
// 開始昇順・開始同時刻は終了降順(長い枠が先)で並べます。
func (v *ViewState) Project(shifts []*ShiftSlot) *ViewModel {
	filtered := make([]*ShiftSlot, 0, len(shifts))
	for _, s := range shifts {
		if s == nil || s.Archived {
			continue
		}
		if v.matches(s) {
			filtered = append(filtered, s)
		}
	}

	model := &ViewModel{Mode: v.mode}
	switch v.mode {
	case ViewByBranch:
		model.ByBranch = groupByBranch(filtered)
	case ViewByEmployee:
		model.ByEmployee = groupByEmployee(filtered)
	default:
		model.Shifts = filtered
	}
	return model
}

// matches は有効な(非 "all")フィールドの AND で判定します。
func (v *ViewState) matches(s *ShiftSlot) bool {
	f := v.filter

	if f.Status != FilterAll && f.Status != "" && string(s.Status) != f.Status {
		return false
	}

	switch f.Employee {
	case FilterAll, "":
	case FilterUnassigned:
		if s.Assigned() {
			return false
		}
	default:
		if s.EmployeeID == nil || *s.EmployeeID != f.Employee {
			return false
		}
	}

	if f.Branch != FilterAll && f.Branch != "" {
		if s.BranchID == nil || *s.BranchID != f.Branch {
			return false
		}
	}

	if f.Role != FilterAll && f.Role != "" {
		if s.Role == nil || *s.Role != f.Role {
			return false
		}
	}

	if f.Search != "" && !matchesSearch(s, f.Search) {
		return false
	}

	if f.Date != nil && !SameDate(s.Date, *f.Date) {
		return false
	}

	if v.windowFrom != nil && s.Date.Before(*v.windowFrom) {
		return false
	}
	if v.windowTo != nil && s.Date.After(v.windowTo.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
		return false
	}

	return true
}

func matchesSearch(s *ShiftSlot, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	if s.Role != nil && strings.Contains(strings.ToLower(*s.Role), needle) {
		return true
	}
	if s.Notes != nil && strings.Contains(strings.ToLower(*s.Notes), needle) {
		return true
	}
	return false
}

func groupByBranch(shifts []*ShiftSlot) map[string]map[string][]*ShiftSlot {
	grouped := make(map[string]map[string][]*ShiftSlot)
	for _, s := range shifts {
		branchKey := ""
		if s.BranchID != nil {
			branchKey = *s.BranchID
		}
		days, ok := grouped[branchKey]
		if !ok {
			days = make(map[string][]*ShiftSlot)
			grouped[branchKey] = days
		}
		key := DateKey(s.Date)
		days[key] = append(days[key], s)
	}

	for _, days := range grouped {
		for _, dayShifts := range days {
			SortDayShifts(dayShifts)
		}
	}
	return grouped
}

func groupByEmployee(shifts []*ShiftSlot) map[string][]*ShiftSlot {
	grouped := make(map[string][]*ShiftSlot)
	for _, s := range shifts {
		employeeKey := ""
		if s.EmployeeID != nil {
			employeeKey = *s.EmployeeID
		}
		grouped[employeeKey] = append(grouped[employeeKey], s)
	}

	for _, employeeShifts := range grouped {
		sort.SliceStable(employeeShifts, func(i, j int) bool {
			if !SameDate(employeeShifts[i].Date, employeeShifts[j].Date) {
				return employeeShifts[i].Date.Before(employeeShifts[j].Date)
			}
			return lessWithinDay(employeeShifts[i], employeeShifts[j])
		})
	}
	return grouped
}

// SortDayShifts は同一日のシフトを開始昇順、開始同時刻は終了降順で並べます。
// 長い枠を先に出す終了降順のタイブレークは表示上の方針であり、変更時は
// テストも更新してください。
func SortDayShifts(shifts []*ShiftSlot) {
	sort.SliceStable(shifts, func(i, j int) bool {
		return lessWithinDay(shifts[i], shifts[j])
	})
}

func lessWithinDay(a, b *ShiftSlot) bool {
	aStart, bStart := clockMinutes(a.StartTime), clockMinutes(b.StartTime)
	if aStart != bStart {
		return aStart < bStart
	}
	return clockMinutes(a.EndTime) > clockMinutes(b.EndTime)
}
