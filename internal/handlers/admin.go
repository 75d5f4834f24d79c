// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitvault/kitvault-backend/internal/i18n"
	"github.com/kitvault/kitvault-backend/internal/models"
	"github.com/kitvault/kitvault-backend/internal/services"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

type AdminHandler struct {
	moderationService   *services.ModerationService
	notificationService *services.NotificationService
}

func NewAdminHandler(moderationService *services.ModerationService, notificationService *services.NotificationService) *AdminHandler {
	return &AdminHandler{
		moderationService:   moderationService,
		notificationService: notificationService,
	}
}

// GET /admin/submissions
func (h *AdminHandler) ListPendingSubmissions(c *gin.Context) {
	_, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := services.ModerationFilter{
		PaginationParams: utils.GetPaginationParams(c),
		Season:           c.Query("season"),
	}
	if raw := c.Query("submitter_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid submitter_id", nil)
			return
		}
		filter.SubmitterID = &id
	}

	submissions, total, err := h.moderationService.GetPendingSubmissions(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(submissions, total, filter.PaginationParams))
}

// POST /admin/submissions/:id/approve
func (h *AdminHandler) ApproveSubmission(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Optional inline corrections applied before publication
	var edits services.SubmissionEdits
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&edits); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
	}

	jerseyID, err := h.moderationService.Approve(submissionID, reviewerID, &edits)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySubmissionApproved),
		"kit_id":  jerseyID,
	})
}

// POST /admin/submissions/:id/reject
func (h *AdminHandler) RejectSubmission(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
	}

	if err := h.moderationService.Reject(submissionID, reviewerID, req.Notes); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySubmissionRejected),
	})
}

// PUT /admin/profiles/:id/status
func (h *AdminHandler) SetProfileStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	profileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	status := models.ApprovalStatus(req.Status)
	if status != models.ApprovalStatusApproved && status != models.ApprovalStatusRejected {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
		return
	}

	if err := h.moderationService.SetProfileStatus(profileID, reviewerID, status); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.moderationService.GetDashboardStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// POST /admin/reconcile
// Repairs approved submissions that lost their catalog row.
func (h *AdminHandler) Reconcile(c *gin.Context) {
	repaired, err := h.moderationService.ReconcileApproved()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"repaired": repaired})
}

// GET /admin/notifications
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	notifications, err := h.notificationService.ListUnread(params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"notifications": notifications})
}

// PUT /admin/notifications/:id/read
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkNotificationRead(notificationID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Marked as read"})
}
