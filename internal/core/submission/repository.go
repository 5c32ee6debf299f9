package submission

import (
	"context"
	"time"
)

// Repository は希望提出読み取りの抽象です。コアからの書き込みはありません。
type Repository interface {
	ListForWeek(ctx context.Context, businessID string, weekStart, weekEnd time.Time) ([]*PreferenceSubmission, error)
}
