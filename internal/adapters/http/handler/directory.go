package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
)

// DirectoryHandler は従業員・店舗の参照系エンドポイントを公開します。
// 作成・更新は HR 側のワークフローが担い、ここでは読み取りのみです。
type DirectoryHandler struct {
	employees *employee.Service
	branches  *branch.Service
	logger    *zap.Logger
}

// NewDirectoryHandler は DirectoryHandler を生成します。
func NewDirectoryHandler(employees *employee.Service, branches *branch.Service, logger *zap.Logger) *DirectoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryHandler{employees: employees, branches: branches, logger: logger}
}

// RegisterRoutes は参照系のルートを登録します。
func (h *DirectoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/employees", h.ListEmployees).Methods(http.MethodGet)
	router.HandleFunc("/v1/employees/{id}", h.GetEmployee).Methods(http.MethodGet)
	router.HandleFunc("/v1/branches", h.ListBranches).Methods(http.MethodGet)
	router.HandleFunc("/v1/branches/{id}", h.GetBranch).Methods(http.MethodGet)
}

// ListEmployees はテナント配下の従業員一覧を返します。
func (h *DirectoryHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	employees, err := h.employees.ListEmployees(r.Context(),
		query.Get("business_id"),
		query.Get("include_archived") == "true",
	)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}

	responses := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, toEmployeeResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": responses})
}

// GetEmployee は従業員を 1 件取得します。
func (h *DirectoryHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	found, err := h.employees.GetEmployee(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(found))
}

// ListBranches はテナント配下の店舗一覧を返します。
func (h *DirectoryHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branches.ListBranches(r.Context(), r.URL.Query().Get("business_id"))
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}

	responses := make([]branchResponse, 0, len(branches))
	for _, b := range branches {
		responses = append(responses, toBranchResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"branches": responses})
}

// GetBranch は店舗を 1 件取得します。
func (h *DirectoryHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	found, err := h.branches.GetBranch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBranchResponse(found))
}

func (h *DirectoryHandler) writeDirectoryError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
