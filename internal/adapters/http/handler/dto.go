package handler

import (
	"time"

	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/schedule"
)

const dateLayout = "2006-01-02"

type shiftResponse struct {
	ID            string                     `json:"id"`
	BusinessID    string                     `json:"business_id"`
	Date          string                     `json:"date"`
	StartTime     string                     `json:"start_time"`
	EndTime       string                     `json:"end_time"`
	EmployeeID    *string                    `json:"employee_id,omitempty"`
	BranchID      *string                    `json:"branch_id,omitempty"`
	Role          *string                    `json:"role,omitempty"`
	Notes         *string                    `json:"notes,omitempty"`
	Status        string                     `json:"status"`
	RequiredStaff *int                       `json:"required_staff,omitempty"`
	Priority      *string                    `json:"priority,omitempty"`
	Entries       []schedule.AssignmentEntry `json:"entries,omitempty"`
	Archived      bool                       `json:"archived"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

func toShiftResponse(s *schedule.ShiftSlot) shiftResponse {
	resp := shiftResponse{
		ID:            s.ID,
		BusinessID:    s.BusinessID,
		Date:          s.Date.Format(dateLayout),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		EmployeeID:    s.EmployeeID,
		BranchID:      s.BranchID,
		Role:          s.Role,
		Notes:         s.Notes,
		Status:        string(s.Status),
		RequiredStaff: s.RequiredStaff,
		Entries:       s.Entries,
		Archived:      s.Archived,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Priority != nil {
		p := string(*s.Priority)
		resp.Priority = &p
	}
	return resp
}

func toShiftResponses(shifts []*schedule.ShiftSlot) []shiftResponse {
	responses := make([]shiftResponse, 0, len(shifts))
	for _, s := range shifts {
		responses = append(responses, toShiftResponse(s))
	}
	return responses
}

type employeeResponse struct {
	ID                  string  `json:"id"`
	BusinessID          string  `json:"business_id"`
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	DisplayName         string  `json:"display_name"`
	IsActive            bool    `json:"is_active"`
	IsArchived          bool    `json:"is_archived"`
	WeeklyHoursRequired float64 `json:"weekly_hours_required"`
	HomeBranchID        *string `json:"home_branch_id,omitempty"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:                  e.ID,
		BusinessID:          e.BusinessID,
		FirstName:           e.FirstName,
		LastName:            e.LastName,
		DisplayName:         e.DisplayName(),
		IsActive:            e.IsActive,
		IsArchived:          e.IsArchived,
		WeeklyHoursRequired: e.WeeklyHoursRequired,
		HomeBranchID:        e.HomeBranchID,
	}
}

type branchResponse struct {
	ID           string   `json:"id"`
	BusinessID   string   `json:"business_id"`
	Name         string   `json:"name"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *int     `json:"radius_meters,omitempty"`
	IsActive     bool     `json:"is_active"`
}

func toBranchResponse(b *branch.Branch) branchResponse {
	return branchResponse{
		ID:           b.ID,
		BusinessID:   b.BusinessID,
		Name:         b.Name,
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		RadiusMeters: b.RadiusMeters,
		IsActive:     b.IsActive,
	}
}

type candidateResponse struct {
	Employee    employeeResponse `json:"employee"`
	Requested   bool             `json:"requested"`
	HasConflict bool             `json:"has_conflict"`
}

func toCandidateResponses(candidates []schedule.Candidate) []candidateResponse {
	responses := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		responses = append(responses, candidateResponse{
			Employee:    toEmployeeResponse(c.Employee),
			Requested:   c.Requested,
			HasConflict: c.HasConflict,
		})
	}
	return responses
}

type weekStatsResponse struct {
	EmployeeID          string  `json:"employee_id"`
	DisplayName         string  `json:"display_name"`
	AssignedShifts      int     `json:"assigned_shifts"`
	SubmittedShifts     int     `json:"submitted_shifts"`
	RequestedShifts     int     `json:"requested_shifts"`
	TotalHours          float64 `json:"total_hours"`
	WeeklyHoursRequired float64 `json:"weekly_hours_required"`
	Status              string  `json:"status"`
	SuccessRate         int     `json:"success_rate"`
}

func toWeekStatsResponses(stats []schedule.EmployeeWeekStats) []weekStatsResponse {
	responses := make([]weekStatsResponse, 0, len(stats))
	for _, st := range stats {
		responses = append(responses, weekStatsResponse{
			EmployeeID:          st.EmployeeID,
			DisplayName:         st.DisplayName,
			AssignedShifts:      st.AssignedShifts,
			SubmittedShifts:     st.SubmittedShifts,
			RequestedShifts:     st.RequestedShifts,
			TotalHours:          st.TotalHours,
			WeeklyHoursRequired: st.WeeklyHoursRequired,
			Status:              string(st.Status),
			SuccessRate:         st.SuccessRate,
		})
	}
	return responses
}

type weekViewResponse struct {
	Mode       string                                `json:"mode"`
	Shifts     []shiftResponse                       `json:"shifts,omitempty"`
	ByBranch   map[string]map[string][]shiftResponse `json:"by_branch,omitempty"`
	ByEmployee map[string][]shiftResponse            `json:"by_employee,omitempty"`
}

func toWeekViewResponse(model *schedule.ViewModel) weekViewResponse {
	resp := weekViewResponse{Mode: string(model.Mode)}

	switch model.Mode {
	case schedule.ViewByBranch:
		resp.ByBranch = make(map[string]map[string][]shiftResponse, len(model.ByBranch))
		for branchKey, days := range model.ByBranch {
			converted := make(map[string][]shiftResponse, len(days))
			for day, shifts := range days {
				converted[day] = toShiftResponses(shifts)
			}
			resp.ByBranch[branchKey] = converted
		}
	case schedule.ViewByEmployee:
		resp.ByEmployee = make(map[string][]shiftResponse, len(model.ByEmployee))
		for employeeKey, shifts := range model.ByEmployee {
			resp.ByEmployee[employeeKey] = toShiftResponses(shifts)
		}
	default:
		resp.Shifts = toShiftResponses(model.Shifts)
	}
	return resp
}
