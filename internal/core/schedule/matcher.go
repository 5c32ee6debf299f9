package schedule

import (
	"sort"

	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/submission"
)

// Candidate はシフト枠への割り当て候補 1 名分の評価結果です。
// Requested は本人が希望提出でこの枠を指名していることを表し、
// HasConflict は同日の既存シフトと時間帯が重なることを表します。
// 重複のある候補も除外せず、フラグ付きで返します。
type Candidate struct {
	Employee    *employee.Employee
	Requested   bool
	HasConflict bool
}

// EligibleEmployees はシフト枠に対する候補従業員の一覧を返します。
// 希望提出で枠を指名した候補が先、それ以外が後に並び、各グループ内は
// 表示名順で決定的に整列します。アーカイブ済み・非アクティブは含まれません。
// dayShifts には対象日の全シフトを渡します(重複判定に使用)。
func EligibleEmployees(
	shift *ShiftSlot,
	employees []*employee.Employee,
	submissions []*submission.PreferenceSubmission,
	branches []*branch.Branch,
	dayShifts []*ShiftSlot,
) []Candidate {
	if shift == nil {
		return nil
	}

	requested := requestedEmployeeIDs(shift, submissions, branches)

	candidates := make([]Candidate, 0, len(employees))
	for _, emp := range employees {
		if emp == nil || !emp.Schedulable() {
			continue
		}
		candidates = append(candidates, Candidate{
			Employee:    emp,
			Requested:   requested[emp.ID],
			HasConflict: HasConflict(shift, emp.ID, dayShifts),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Requested != candidates[j].Requested {
			return candidates[i].Requested
		}
		ni, nj := candidates[i].Employee.DisplayName(), candidates[j].Employee.DisplayName()
		if ni != nj {
			return ni < nj
		}
		return candidates[i].Employee.ID < candidates[j].Employee.ID
	})

	return candidates
}

// Organize は候補従業員を「この枠を希望した従業員」と「それ以外」に分割します。
// 2 つのグループは重複せず、合わせると割り当て可能な従業員全体になります。
func Organize(
	shift *ShiftSlot,
	employees []*employee.Employee,
	submissions []*submission.PreferenceSubmission,
	branches []*branch.Branch,
) (requested, others []*employee.Employee) {
	if shift == nil {
		return nil, nil
	}

	requestedIDs := requestedEmployeeIDs(shift, submissions, branches)

	for _, emp := range employees {
		if emp == nil || !emp.Schedulable() {
			continue
		}
		if requestedIDs[emp.ID] {
			requested = append(requested, emp)
		} else {
			others = append(others, emp)
		}
	}

	employee.SortByDisplayName(requested)
	employee.SortByDisplayName(others)
	return requested, others
}

// requestedEmployeeIDs は希望提出の個別エントリをシフト枠と照合します。
// 一致条件は日付・開始・終了・店舗名の完全一致で、時刻の許容誤差はありません。
func requestedEmployeeIDs(
	shift *ShiftSlot,
	submissions []*submission.PreferenceSubmission,
	branches []*branch.Branch,
) map[string]bool {
	branchName := ""
	if shift.BranchID != nil {
		branchName = branch.NameIndex(branches)[*shift.BranchID]
	}

	requested := make(map[string]bool)
	for _, sub := range submissions {
		if sub == nil {
			continue
		}
		for _, req := range sub.Requests {
			if !SameDate(req.Date, shift.Date) {
				continue
			}
			if req.StartTime != shift.StartTime || req.EndTime != shift.EndTime {
				continue
			}
			if req.BranchPreference != branchName {
				continue
			}
			requested[sub.EmployeeID] = true
			break
		}
	}
	return requested
}
