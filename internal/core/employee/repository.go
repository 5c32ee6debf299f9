package employee

import "context"

// Repository は従業員読み取りの抽象です。書き込みは HR 側のサブシステムが担います。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	ListByBusiness(ctx context.Context, businessID string, includeArchived bool) ([]*Employee, error)
}
