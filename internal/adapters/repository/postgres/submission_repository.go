package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aoyagi-dev/shiftboard/internal/core/submission"
	pgdb "github.com/aoyagi-dev/shiftboard/internal/platform/db/postgres"
)

// SubmissionRepository は PostgreSQL を利用した希望提出読み取りの実装です。
// 提出の作成・更新は従業員向けサブシステムが行い、ここでは読み取りのみです。
type SubmissionRepository struct {
	pool pgdb.Queryer
}

// NewSubmissionRepository は SubmissionRepository を生成します。
func NewSubmissionRepository(pool pgdb.Queryer) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// submissionRequestRecord は requests カラム(jsonb)の 1 要素です。
type submissionRequestRecord struct {
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	BranchPreference string `json:"branch_preference"`
}

// ListForWeek は週ウィンドウに重なる希望提出を取得します。
func (r *SubmissionRepository) ListForWeek(ctx context.Context, businessID string, weekStart, weekEnd time.Time) ([]*submission.PreferenceSubmission, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, business_id, employee_id, submitted_at, week_start, week_end, requests, status
          FROM preference_submissions
         WHERE business_id = $1
           AND week_start <= $3
           AND week_end >= $2
         ORDER BY submitted_at ASC, id ASC
    `, businessID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*submission.PreferenceSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}

func scanSubmission(row pgx.Row) (*submission.PreferenceSubmission, error) {
	var (
		id          string
		businessID  string
		employeeID  string
		submittedAt time.Time
		weekStart   time.Time
		weekEnd     time.Time
		requestsRaw []byte
		status      string
	)

	if err := row.Scan(
		&id,
		&businessID,
		&employeeID,
		&submittedAt,
		&weekStart,
		&weekEnd,
		&requestsRaw,
		&status,
	); err != nil {
		return nil, err
	}

	requests, err := unmarshalRequests(requestsRaw)
	if err != nil {
		return nil, err
	}

	return &submission.PreferenceSubmission{
		ID:          id,
		BusinessID:  businessID,
		EmployeeID:  employeeID,
		SubmittedAt: submittedAt,
		WeekStart:   weekStart.UTC(),
		WeekEnd:     weekEnd.UTC(),
		Requests:    requests,
		Status:      submission.Status(status),
	}, nil
}

func unmarshalRequests(raw []byte) ([]submission.ShiftRequest, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var records []submissionRequestRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("submissions: unmarshal requests: %w", err)
	}

	requests := make([]submission.ShiftRequest, 0, len(records))
	for _, rec := range records {
		date, err := time.ParseInLocation("2006-01-02", rec.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("submissions: parse request date %q: %w", rec.Date, err)
		}
		requests = append(requests, submission.ShiftRequest{
			Date:             date,
			StartTime:        rec.StartTime,
			EndTime:          rec.EndTime,
			BranchPreference: rec.BranchPreference,
		})
	}
	return requests, nil
}
