package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/aoyagi-dev/shiftboard/internal/core/schedule"
)

// LoggingNotifier はスケジュール変更イベントを構造化ログへ流す通知先です。
// 従業員への割り当て・解除はプッシュ通知基盤への連携点となるため、
// 対象従業員を含めて記録します。
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier は LoggingNotifier を生成します。
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingNotifier{logger: logger}
}

// ScheduleChanged は schedule.ChangeListener の実装です。
func (n *LoggingNotifier) ScheduleChanged(_ context.Context, event schedule.ChangeEvent) {
	fields := []zap.Field{
		zap.String("business_id", event.BusinessID),
		zap.String("kind", string(event.Kind)),
		zap.Strings("shift_ids", event.ShiftIDs),
	}
	if event.EmployeeID != nil {
		fields = append(fields, zap.String("employee_id", *event.EmployeeID))
	}
	n.logger.Info("schedule changed", fields...)
}
