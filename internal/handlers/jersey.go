// internal/handlers/jersey.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kitvault/kitvault-backend/internal/i18n"
	"github.com/kitvault/kitvault-backend/internal/services"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

type JerseyHandler struct {
	jerseyService *services.JerseyService
}

func NewJerseyHandler(jerseyService *services.JerseyService) *JerseyHandler {
	return &JerseyHandler{
		jerseyService: jerseyService,
	}
}

// GET /kits
func (h *JerseyHandler) Browse(c *gin.Context) {
	filter := services.JerseyFilter{
		PaginationParams: utils.GetPaginationParams(c),
		Category:         c.Query("category"),
		KitType:          c.Query("kit_type"),
		Gender:           c.Query("gender"),
		TeamName:         c.Query("team_name"),
		Season:           c.Query("season"),
	}

	result, err := h.jerseyService.Browse(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /kits/:id
func (h *JerseyHandler) GetByID(c *gin.Context) {
	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.jerseyService.GetByID(c.Request.Context(), jerseyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"kit": detail})
}

// PUT /admin/kits/:id
func (h *JerseyHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateJerseyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	jersey, err := h.jerseyService.Update(adminID, jerseyID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyKitUpdated),
		"kit":     jersey,
	})
}
