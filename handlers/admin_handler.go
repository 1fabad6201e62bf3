package handlers

import (
	"net/http"
	"time"

	"github.com/rackline/pool-league-system/middleware"
	"github.com/rackline/pool-league-system/repositories"
	"github.com/rackline/pool-league-system/services"
)

// AdminHandler groups the league-management endpoints: dashboard,
// schedule generation, audit logs and backups.
type AdminHandler struct {
	dashboardService services.DashboardService
	scheduleService  services.ScheduleService
	backupService    services.BackupService
	auditLogRepo     repositories.AuditLogRepository
}

func NewAdminHandler(
	ds services.DashboardService,
	ss services.ScheduleService,
	bs services.BackupService,
	auditLogRepo repositories.AuditLogRepository,
) *AdminHandler {
	return &AdminHandler{
		dashboardService: ds,
		scheduleService:  ss,
		backupService:    bs,
		auditLogRepo:     auditLogRepo,
	}
}

func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var input services.GenerateScheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.ActorID = actorID

	result, err := h.scheduleService.GenerateSchedule(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SeasonID     int    `json:"season_id"`
		Confirmation string `json:"confirmation"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	result, err := h.scheduleService.ClearSchedule(r.Context(), input.SeasonID, actorID, input.Confirmation)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := repositories.AuditLogFilter{
		UserID: queryInt(r, "user_id"),
		Offset: 0,
		Limit:  50,
	}
	if v := queryInt(r, "offset"); v != nil && *v > 0 {
		filter.Offset = *v
	}
	if v := queryInt(r, "limit"); v != nil && *v > 0 {
		filter.Limit = *v
	}
	if raw := r.URL.Query().Get("action"); raw != "" {
		filter.Action = &raw
	}
	if raw := r.URL.Query().Get("entity"); raw != "" {
		filter.Entity = &raw
	}
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		if t, parseErr := time.Parse("2006-01-02", raw); parseErr == nil {
			filter.StartDate = &t
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		if t, parseErr := time.Parse("2006-01-02", raw); parseErr == nil {
			filter.EndDate = &t
		}
	}

	logs, total, err := h.auditLogRepo.List(r.Context(), filter)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{"logs": logs, "total": total}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SeasonID int `json:"season_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.backupService.CreateSeasonBackup(r.Context(), input.SeasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupService.ListBackups(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"backups": backups, "total": len(backups)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
