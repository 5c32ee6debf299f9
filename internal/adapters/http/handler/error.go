package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/schedule"
)

type errorResponse struct {
	Error          string   `json:"error"`
	ConflictingIDs []string `json:"conflicting_shift_ids,omitempty"`
}

// writeError はドメインエラーを HTTP ステータスへ写像して返します。
// 重複検出は 409 で、再実行の判断材料として重複相手の ID を含めます。
func (h *ScheduleHandler) writeError(w http.ResponseWriter, err error) {
	var conflictErr *schedule.ConflictError
	if errors.As(err, &conflictErr) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:          conflictErr.Error(),
			ConflictingIDs: conflictErr.ConflictingIDs,
		})
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, schedule.ErrShiftNotFound),
		errors.Is(err, schedule.ErrEmployeeNotFound),
		errors.Is(err, schedule.ErrBranchNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, branch.ErrBranchNotFound):
		return http.StatusNotFound
	case errors.Is(err, schedule.ErrEmployeeUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, schedule.ErrInvalidID),
		errors.Is(err, schedule.ErrInvalidBusinessID),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrInvalidTime),
		errors.Is(err, schedule.ErrInvalidTimeRange),
		errors.Is(err, schedule.ErrInvalidStatus),
		errors.Is(err, schedule.ErrInvalidPriority),
		errors.Is(err, schedule.ErrInvalidRequiredStaff),
		errors.Is(err, schedule.ErrInvalidEntry),
		errors.Is(err, schedule.ErrInvalidEmployeeID),
		errors.Is(err, schedule.ErrInvalidViewMode),
		errors.Is(err, schedule.ErrInvalidQuickFilter),
		errors.Is(err, schedule.ErrEmptyFieldMask),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidBusinessID),
		errors.Is(err, branch.ErrInvalidID),
		errors.Is(err, branch.ErrInvalidBusinessID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
