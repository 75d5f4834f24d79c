// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kitvault/kitvault-backend/internal/services"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP codes in
// one place so the handlers stay thin.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var consistencyErr *services.ConsistencyError
	var storageErr *services.UpstreamStorageError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, extractResource(c))
	case errors.Is(err, services.ErrNotAuthorized):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrDuplicateMember):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrAlreadyReviewed):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrQuotaExceeded):
		utils.TooManyRequestsResponse(c, err.Error())
	case errors.Is(err, services.ErrUsernameCooldown):
		utils.ConflictResponse(c, err.Error())
	case errors.As(err, &validationErr):
		utils.BadRequestResponse(c, validationErr.Error(), gin.H{"field": validationErr.Field})
	case errors.As(err, &consistencyErr):
		utils.ConflictResponse(c, consistencyErr.Error())
	case errors.As(err, &storageErr):
		logrus.WithError(err).Error("Upstream storage failure")
		utils.ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Storage backend unavailable", nil)
	default:
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// extractResource derives the i18n resource prefix from the route.
func extractResource(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case strings.Contains(path, "profile"):
		return "profile"
	case strings.Contains(path, "collection"):
		return "collection"
	case strings.Contains(path, "submission"):
		return "submission"
	default:
		return "kit"
	}
}

// currentUserID pulls and parses the authenticated user id from context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

// parseUUIDList parses a slice of uuid strings or writes a 400.
func parseUUIDList(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid id: "+s, nil)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// parseIDParam parses a uuid path parameter or writes a 400.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
