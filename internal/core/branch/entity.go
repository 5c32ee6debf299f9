package branch

import "time"

// Branch は店舗・支店エンティティです。シフトから参照されますが、所有はされません。
// 位置情報と半径は勤怠打刻機能(本コアの対象外)が使用します。
type Branch struct {
	ID           string
	BusinessID   string
	Name         string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
