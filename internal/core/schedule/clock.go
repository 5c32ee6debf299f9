package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock はシステム時刻(UTC)の Clock を返します。
func SystemClock() Clock {
	return realClock{}
}

// clockMinutes は "HH:MM" を 0 時からの分数へ変換します。
// 不正な値は 0 として扱い、どの正常値よりも後と判定されないため
// ソートや重複判定が例外を出さずに縮退します。
func clockMinutes(value string) int {
	hours, minutes, ok := splitClock(value)
	if !ok {
		return 0
	}
	return hours*60 + minutes
}

// validClock は "HH:MM" として解釈可能かを返します。
func validClock(value string) bool {
	_, _, ok := splitClock(value)
	return ok
}

func splitClock(value string) (int, int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, false
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, false
	}

	return hours, minutes, true
}

// normalizeDate は時刻成分を落とし UTC の 0 時へ正規化します。
func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
