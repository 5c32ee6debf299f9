package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/aoyagi-dev/shiftboard/internal/core/submission"
)

func TestUnmarshalRequests_ParsesDates(t *testing.T) {
	t.Parallel()

	raw := []byte(`[{"date":"2025-03-10","start_time":"09:00","end_time":"17:00","branch_preference":"Shibuya"}]`)
	requests, err := unmarshalRequests(raw)
	if err != nil {
		t.Fatalf("unmarshalRequests returned error: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !requests[0].Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, requests[0].Date)
	}
	if requests[0].BranchPreference != "Shibuya" {
		t.Fatalf("unexpected branch preference: %s", requests[0].BranchPreference)
	}

	if _, err := unmarshalRequests([]byte(`[{"date":"not-a-date"}]`)); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestSubmissionRepository_ListForWeek(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewSubmissionRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT id, business_id, employee_id, submitted_at, week_start, week_end, requests, status
          FROM preference_submissions
         WHERE business_id = $1
           AND week_start <= $3
           AND week_end >= $2
         ORDER BY submitted_at ASC, id ASC
    `)

	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)
	submittedAt := weekStart.Add(-48 * time.Hour)

	rows := pgxmock.NewRows([]string{"id", "business_id", "employee_id", "submitted_at", "week_start", "week_end", "requests", "status"}).
		AddRow("sub-1", "biz-1", "emp-1", submittedAt, weekStart, weekEnd,
			[]byte(`[{"date":"2025-03-11","start_time":"09:00","end_time":"17:00","branch_preference":""}]`),
			string(submission.StatusPending))

	mock.ExpectQuery(query).
		WithArgs("biz-1", weekStart, weekEnd).
		WillReturnRows(rows)

	submissions, err := repo.ListForWeek(context.Background(), "biz-1", weekStart, weekEnd)
	if err != nil {
		t.Fatalf("ListForWeek returned error: %v", err)
	}

	if len(submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(submissions))
	}
	if submissions[0].EmployeeID != "emp-1" || len(submissions[0].Requests) != 1 {
		t.Fatalf("unexpected submission: %+v", submissions[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
