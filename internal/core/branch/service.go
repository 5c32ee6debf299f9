package branch

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Service は店舗参照のユースケースをまとめます。
type Service struct {
	repo Repository
}

// UseCase は店舗参照の公開インターフェースです。
type UseCase interface {
	GetBranch(ctx context.Context, id string) (*Branch, error)
	ListBranches(ctx context.Context, businessID string) ([]*Branch, error)
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetBranch は店舗を取得します。
func (s *Service) GetBranch(ctx context.Context, id string) (*Branch, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// ListBranches はテナント配下の店舗一覧を名前順で返します。
func (s *Service) ListBranches(ctx context.Context, businessID string) ([]*Branch, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, fmt.Errorf("business_id: %w", ErrInvalidBusinessID)
	}

	branches, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(branches, func(i, j int) bool {
		if branches[i].Name != branches[j].Name {
			return branches[i].Name < branches[j].Name
		}
		return branches[i].ID < branches[j].ID
	})
	return branches, nil
}

// NameIndex は店舗 ID から店舗名を引くためのインデックスを構築します。
func NameIndex(branches []*Branch) map[string]string {
	index := make(map[string]string, len(branches))
	for _, b := range branches {
		index[b.ID] = b.Name
	}
	return index
}
