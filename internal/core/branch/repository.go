package branch

import "context"

// Repository は店舗読み取りの抽象です。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Branch, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*Branch, error)
}
