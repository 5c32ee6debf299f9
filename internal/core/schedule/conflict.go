package schedule

// HasConflict は candidate を employeeID に割り当てた場合、同一日の既存シフトと
// 時間帯が重なるかを返します。半開区間 [start, end) 同士の重複判定
// (s1 < e2 && e1 > s2) を、その従業員に割り当て済みの同日シフトへ適用します。
// candidate 自身(同一 ID)と未割り当てシフトは判定対象外です。副作用はありません。
func HasConflict(candidate *ShiftSlot, employeeID string, sameDayShifts []*ShiftSlot) bool {
	return len(ConflictingShiftIDs(candidate, employeeID, sameDayShifts)) > 0
}

// ConflictingShiftIDs は重複する既存シフトの ID を列挙します。
// 呼び出し側が確認ダイアログへ詳細を出すために使います。
func ConflictingShiftIDs(candidate *ShiftSlot, employeeID string, sameDayShifts []*ShiftSlot) []string {
	if candidate == nil || employeeID == "" {
		return nil
	}

	start := clockMinutes(candidate.StartTime)
	end := clockMinutes(candidate.EndTime)

	var conflicting []string
	for _, other := range sameDayShifts {
		if other == nil || other.ID == candidate.ID {
			continue
		}
		if other.EmployeeID == nil || *other.EmployeeID != employeeID {
			continue
		}
		if !SameDate(other.Date, candidate.Date) {
			continue
		}

		otherStart := clockMinutes(other.StartTime)
		otherEnd := clockMinutes(other.EndTime)
		if start < otherEnd && end > otherStart {
			conflicting = append(conflicting, other.ID)
		}
	}
	return conflicting
}
