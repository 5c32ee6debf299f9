package schedule

import (
	"context"
	"time"
)

// Repository はシフト枠永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, shift *ShiftSlot) (*ShiftSlot, error)
	Update(ctx context.Context, shift *ShiftSlot) (*ShiftSlot, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*ShiftSlot, error)
	List(ctx context.Context, filter ListShiftsFilter) ([]*ShiftSlot, error)
}

// ListShiftsFilter は一覧取得用フィルタです。From/To は両端を含みます。
// EmployeeID を指定すると従業員本人向けのスコープに絞られます。
type ListShiftsFilter struct {
	BusinessID      string
	From            time.Time
	To              time.Time
	EmployeeID      *string
	IncludeArchived bool
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// ChangeKind はスケジュール変更イベントの種別です。
type ChangeKind string

const (
	ChangeCreated    ChangeKind = "created"
	ChangeUpdated    ChangeKind = "updated"
	ChangeAssigned   ChangeKind = "assigned"
	ChangeUnassigned ChangeKind = "unassigned"
	ChangeDeleted    ChangeKind = "deleted"
)

// ChangeEvent は書き込み成功後に通知される変更イベントです。
// 派生ビュー(一覧・統計)はこれを契機に再取得します。差分適用は行いません。
// EmployeeID は割り当て・解除の影響を受けた従業員を指します。
type ChangeEvent struct {
	BusinessID string
	Kind       ChangeKind
	ShiftIDs   []string
	EmployeeID *string
}

// ChangeListener はスケジュール変更の通知先です。キャッシュ破棄や
// 従業員への通知連携(配信自体は外部サービス)をここへ接続します。
type ChangeListener interface {
	ScheduleChanged(ctx context.Context, event ChangeEvent)
}
