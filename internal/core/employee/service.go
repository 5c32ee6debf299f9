package employee

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Service は従業員参照のユースケースをまとめます。
type Service struct {
	repo Repository
}

// UseCase は従業員参照の公開インターフェースです。
type UseCase interface {
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context, businessID string, includeArchived bool) ([]*Employee, error)
	ListSchedulable(ctx context.Context, businessID string) ([]*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetEmployee は従業員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// ListEmployees はテナント配下の従業員一覧を表示名順で返します。
func (s *Service) ListEmployees(ctx context.Context, businessID string, includeArchived bool) ([]*Employee, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, fmt.Errorf("business_id: %w", ErrInvalidBusinessID)
	}

	employees, err := s.repo.ListByBusiness(ctx, businessID, includeArchived)
	if err != nil {
		return nil, err
	}

	SortByDisplayName(employees)
	return employees, nil
}

// ListSchedulable は割り当て候補となり得る従業員のみを返します。
func (s *Service) ListSchedulable(ctx context.Context, businessID string) ([]*Employee, error) {
	employees, err := s.ListEmployees(ctx, businessID, false)
	if err != nil {
		return nil, err
	}

	schedulable := make([]*Employee, 0, len(employees))
	for _, e := range employees {
		if e.Schedulable() {
			schedulable = append(schedulable, e)
		}
	}
	return schedulable, nil
}

// SortByDisplayName は表示名昇順、同名の場合は ID 昇順で安定に並べ替えます。
func SortByDisplayName(employees []*Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		ni, nj := employees[i].DisplayName(), employees[j].DisplayName()
		if ni != nj {
			return ni < nj
		}
		return employees[i].ID < employees[j].ID
	})
}
