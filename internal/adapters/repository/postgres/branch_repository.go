package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	pgdb "github.com/aoyagi-dev/shiftboard/internal/platform/db/postgres"
)

const branchColumns = `id, business_id, name, latitude, longitude, radius_meters, is_active, created_at, updated_at`

// BranchRepository は PostgreSQL を利用した店舗読み取りの実装です。
type BranchRepository struct {
	pool pgdb.Queryer
}

// NewBranchRepository は BranchRepository を生成します。
func NewBranchRepository(pool pgdb.Queryer) *BranchRepository {
	return &BranchRepository{pool: pool}
}

// FindByID は ID で店舗を取得します。
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*branch.Branch, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+branchColumns+`
          FROM branches
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanBranch(row)
}

// ListByBusiness はテナント配下の店舗一覧を取得します。
func (r *BranchRepository) ListByBusiness(ctx context.Context, businessID string) ([]*branch.Branch, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+branchColumns+`
          FROM branches
         WHERE business_id = $1
         ORDER BY name ASC, id ASC
    `, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*branch.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return branches, nil
}

func scanBranch(row pgx.Row) (*branch.Branch, error) {
	var (
		id           string
		businessID   string
		name         string
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		radiusMeters sql.NullInt32
		isActive     bool
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&businessID,
		&name,
		&latitude,
		&longitude,
		&radiusMeters,
		&isActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, branch.ErrBranchNotFound
		}
		return nil, err
	}

	b := &branch.Branch{
		ID:         id,
		BusinessID: businessID,
		Name:       name,
		IsActive:   isActive,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if latitude.Valid {
		v := latitude.Float64
		b.Latitude = &v
	}
	if longitude.Valid {
		v := longitude.Float64
		b.Longitude = &v
	}
	if radiusMeters.Valid {
		v := int(radiusMeters.Int32)
		b.RadiusMeters = &v
	}
	return b, nil
}
