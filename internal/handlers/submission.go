// internal/handlers/submission.go
package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kitvault/kitvault-backend/internal/i18n"
	"github.com/kitvault/kitvault-backend/internal/services"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB per image

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// POST /submissions
// Multipart: "draft" JSON part plus optional "front_image"/"back_image" files.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	draftJSON := c.PostForm("draft")
	if draftJSON == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "draft"), nil)
		return
	}

	var draft services.SubmissionDraft
	if err := json.Unmarshal([]byte(draftJSON), &draft); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "draft"), err.Error())
		return
	}

	images, ok := h.readImages(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.SubmitSingle(draft, userID, images)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySubmissionReceived),
		"submission": submission,
	})
}

// POST /submissions/batch
// JSON body of drafts; bulk rows carry no images.
func (h *SubmissionHandler) SubmitBatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Rows []services.SubmissionDraft `json:"rows"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if len(req.Rows) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "rows"), nil)
		return
	}

	rows := make([]services.BatchRow, len(req.Rows))
	for i, draft := range req.Rows {
		rows[i] = services.BatchRow{Draft: draft}
	}

	result, err := h.submissionService.SubmitBatch(c.Request.Context(), rows, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"result": result})
}

// GET /submissions/quota?incoming=n
func (h *SubmissionHandler) CheckQuota(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	incoming := 1
	if raw := c.Query("incoming"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.BadRequestResponse(c, "Invalid incoming count", nil)
			return
		}
		incoming = n
	}

	check, err := h.submissionService.CheckQuota(userID, incoming)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"quota": check})
}

// GET /submissions
func (h *SubmissionHandler) ListOwn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	submissions, err := h.submissionService.GetUserSubmissions(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) readImages(c *gin.Context) (services.SubmissionImages, bool) {
	lang := utils.GetLangFromContext(c)
	var images services.SubmissionImages

	for _, side := range []struct {
		field string
		slot  **services.ImageAttachment
	}{
		{"front_image", &images.Front},
		{"back_image", &images.Back},
	} {
		file, header, err := c.Request.FormFile(side.field)
		if err != nil {
			continue // image parts are optional individually
		}

		if header.Size > maxImageSize {
			file.Close()
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), gin.H{"field": side.field})
			return images, false
		}

		att, ok := readAttachment(c, file, header)
		file.Close()
		if !ok {
			return images, false
		}
		*side.slot = att
	}

	return images, true
}

func readAttachment(c *gin.Context, file multipart.File, header *multipart.FileHeader) (*services.ImageAttachment, bool) {
	lang := utils.GetLangFromContext(c)

	data, err := io.ReadAll(file)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return nil, false
	}

	return &services.ImageAttachment{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
