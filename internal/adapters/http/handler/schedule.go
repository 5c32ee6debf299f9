package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aoyagi-dev/shiftboard/internal/core/schedule"
)

// ScheduleHandler はスケジューリングコアを REST で公開します。
// 書き込み系は成功レスポンスに永続化後の最新状態を含めます。
type ScheduleHandler struct {
	usecase schedule.UseCase
	clock   schedule.Clock
	logger  *zap.Logger
}

// NewScheduleHandler は ScheduleHandler を生成します。clock は nil 可です。
func NewScheduleHandler(usecase schedule.UseCase, clock schedule.Clock, logger *zap.Logger) *ScheduleHandler {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHandler{usecase: usecase, clock: clock, logger: logger}
}

// RegisterRoutes はシフト管理のルートを登録します。
func (h *ScheduleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/shifts", h.ListShifts).Methods(http.MethodGet)
	router.HandleFunc("/v1/shifts", h.CreateShift).Methods(http.MethodPost)
	router.HandleFunc("/v1/shifts/bulk", h.BulkUpdateShifts).Methods(http.MethodPatch)
	router.HandleFunc("/v1/shifts/{id}", h.GetShift).Methods(http.MethodGet)
	router.HandleFunc("/v1/shifts/{id}", h.DeleteShift).Methods(http.MethodDelete)
	router.HandleFunc("/v1/shifts/{id}/assign", h.AssignShift).Methods(http.MethodPost)
	router.HandleFunc("/v1/shifts/{id}/unassign", h.UnassignShift).Methods(http.MethodPost)
	router.HandleFunc("/v1/shifts/{id}/candidates", h.ShiftCandidates).Methods(http.MethodGet)
	router.HandleFunc("/v1/schedule/week", h.WeekView).Methods(http.MethodGet)
	router.HandleFunc("/v1/schedule/week/stats", h.WeekStats).Methods(http.MethodGet)
}

type createShiftRequest struct {
	BusinessID    string                     `json:"business_id"`
	Date          string                     `json:"date"`
	StartTime     string                     `json:"start_time"`
	EndTime       string                     `json:"end_time"`
	EmployeeID    *string                    `json:"employee_id"`
	BranchID      *string                    `json:"branch_id"`
	Role          *string                    `json:"role"`
	Notes         *string                    `json:"notes"`
	Status        *string                    `json:"status"`
	RequiredStaff *int                       `json:"required_staff"`
	Priority      *string                    `json:"priority"`
	Entries       []schedule.AssignmentEntry `json:"entries"`
	Override      bool                       `json:"override"`
}

// CreateShift はシフト枠を新規作成します。
func (h *ScheduleHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	in := schedule.CreateShiftInput{
		BusinessID:    req.BusinessID,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		EmployeeID:    req.EmployeeID,
		BranchID:      req.BranchID,
		Role:          req.Role,
		Notes:         req.Notes,
		RequiredStaff: req.RequiredStaff,
		Entries:       req.Entries,
		Override:      req.Override,
	}
	if req.Status != nil {
		status := schedule.Status(*req.Status)
		in.Status = &status
	}
	if req.Priority != nil {
		priority := schedule.Priority(*req.Priority)
		in.Priority = &priority
	}

	created, err := h.usecase.CreateShift(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftResponse(created))
}

// GetShift はシフト枠を 1 件取得します。
func (h *ScheduleHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.usecase.GetShift(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftResponse(shift))
}

// ListShifts は期間内のシフト枠一覧を返します。
func (h *ScheduleHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := parseDate(query.Get("from"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	to, err := parseDate(query.Get("to"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	filter := schedule.ListShiftsFilter{
		BusinessID:      query.Get("business_id"),
		From:            from,
		To:              to,
		IncludeArchived: query.Get("include_archived") == "true",
	}
	if v := query.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}

	shifts, err := h.usecase.ListShifts(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shifts": toShiftResponses(shifts)})
}

type assignShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	Override   bool   `json:"override"`
}

// AssignShift は従業員をシフト枠へ割り当てます。
// 重複が検出された場合は 409 を返し、override 付きの再実行を促します。
func (h *ScheduleHandler) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req assignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.usecase.AssignShift(r.Context(), schedule.AssignShiftInput{
		ShiftID:    mux.Vars(r)["id"],
		EmployeeID: req.EmployeeID,
		Override:   req.Override,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftResponse(updated))
}

// UnassignShift は割り当てを解除します。
func (h *ScheduleHandler) UnassignShift(w http.ResponseWriter, r *http.Request) {
	updated, err := h.usecase.UnassignShift(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftResponse(updated))
}

type bulkUpdateRequest struct {
	ShiftIDs []string                   `json:"shift_ids"`
	Fields   map[string]json.RawMessage `json:"fields"`
}

// BulkUpdateShifts は複数シフトへフィールドマスク付きの一括更新を適用します。
// fields に現れたキーのみが適用され、null は該当フィールドのクリアを意味します。
func (h *ScheduleHandler) BulkUpdateShifts(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	in, err := buildBulkUpdateInput(req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.usecase.BulkUpdateShifts(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shifts": toShiftResponses(updated)})
}

func buildBulkUpdateInput(req bulkUpdateRequest) (schedule.BulkUpdateInput, error) {
	in := schedule.BulkUpdateInput{ShiftIDs: req.ShiftIDs}

	for key, raw := range req.Fields {
		switch key {
		case "status":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, fmt.Errorf("status: %w", schedule.ErrInvalidStatus)
			}
			status := schedule.Status(v)
			in.Status = &status
		case "start_time":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, fmt.Errorf("start_time: %w", schedule.ErrInvalidTime)
			}
			in.StartTime = &v
		case "end_time":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, fmt.Errorf("end_time: %w", schedule.ErrInvalidTime)
			}
			in.EndTime = &v
		case "employee_id":
			in.EmployeeIDSet = true
			if err := unmarshalNullable(raw, &in.EmployeeID); err != nil {
				return in, fmt.Errorf("employee_id: %w", schedule.ErrInvalidEmployeeID)
			}
		case "branch_id":
			in.BranchIDSet = true
			if err := unmarshalNullable(raw, &in.BranchID); err != nil {
				return in, fmt.Errorf("branch_id: %w", schedule.ErrInvalidID)
			}
		case "role":
			in.RoleSet = true
			if err := unmarshalNullable(raw, &in.Role); err != nil {
				return in, fmt.Errorf("role: %w", schedule.ErrInvalidID)
			}
		case "notes":
			in.NotesSet = true
			if err := unmarshalNullable(raw, &in.Notes); err != nil {
				return in, fmt.Errorf("notes: %w", schedule.ErrInvalidID)
			}
		case "required_staff":
			in.RequiredStaffSet = true
			if err := unmarshalNullable(raw, &in.RequiredStaff); err != nil {
				return in, fmt.Errorf("required_staff: %w", schedule.ErrInvalidRequiredStaff)
			}
		case "priority":
			in.PrioritySet = true
			var v *string
			if err := unmarshalNullable(raw, &v); err != nil {
				return in, fmt.Errorf("priority: %w", schedule.ErrInvalidPriority)
			}
			if v != nil {
				priority := schedule.Priority(*v)
				in.Priority = &priority
			}
		default:
			return in, fmt.Errorf("unknown field %q: %w", key, schedule.ErrEmptyFieldMask)
		}
	}
	return in, nil
}

func unmarshalNullable[T any](raw json.RawMessage, dest **T) error {
	if string(raw) == "null" {
		*dest = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dest = &v
	return nil
}

// DeleteShift はシフト枠を削除します。
func (h *ScheduleHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.DeleteShift(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ShiftCandidates はシフト枠への割り当て候補を返します。
// 希望提出で枠を指名した従業員が先頭に並びます。
func (h *ScheduleHandler) ShiftCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.usecase.ShiftCandidates(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": toCandidateResponses(candidates)})
}

// WeekView は週のシフトへフィルタと表示モードを適用した射影を返します。
// フィルタ条件はリクエストのクエリのみから導出され、サーバ側に保持されません。
func (h *ScheduleHandler) WeekView(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	weekStart, err := parseDate(query.Get("week_start"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	weekStart = schedule.WeekStart(weekStart)

	state := schedule.NewViewState()
	if mode := query.Get("view"); mode != "" {
		if err := state.SetMode(schedule.ViewMode(mode)); err != nil {
			h.writeError(w, err)
			return
		}
	}
	state.Apply(filterPatchFromQuery(query))
	if quick := query.Get("quick"); quick != "" {
		if err := state.QuickFilter(schedule.QuickFilterKind(quick), h.clock.Now()); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if date := query.Get("date"); date != "" {
		d, err := parseDate(date)
		if err != nil {
			h.writeError(w, err)
			return
		}
		state.Apply(schedule.FilterPatch{Date: &d, DateSet: true})
	}

	shifts, err := h.usecase.ListShifts(r.Context(), schedule.ListShiftsFilter{
		BusinessID: query.Get("business_id"),
		From:       weekStart,
		To:         weekStart.AddDate(0, 0, 6),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWeekViewResponse(state.Project(shifts)))
}

func filterPatchFromQuery(query map[string][]string) schedule.FilterPatch {
	var patch schedule.FilterPatch
	if v, ok := firstValue(query, "status"); ok {
		patch.Status = &v
	}
	if v, ok := firstValue(query, "employee"); ok {
		patch.Employee = &v
	}
	if v, ok := firstValue(query, "branch"); ok {
		patch.Branch = &v
	}
	if v, ok := firstValue(query, "role"); ok {
		patch.Role = &v
	}
	if v, ok := firstValue(query, "search"); ok {
		patch.Search = &v
	}
	return patch
}

func firstValue(query map[string][]string, key string) (string, bool) {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// WeekStats は週次の従業員別集計を返します。
func (h *ScheduleHandler) WeekStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	weekStart, err := parseDate(query.Get("week_start"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	stats, err := h.usecase.WeekStats(r.Context(), query.Get("business_id"), weekStart)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": toWeekStatsResponses(stats)})
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required: %w", schedule.ErrInvalidDate)
	}
	t, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", trimmed, schedule.ErrInvalidDate)
	}
	return t, nil
}
