// internal/handlers/collection.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitvault/kitvault-backend/internal/i18n"
	"github.com/kitvault/kitvault-backend/internal/models"
	"github.com/kitvault/kitvault-backend/internal/services"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
	}
}

// parseRef turns the :kind (and optional :id) path segments into a
// CollectionRef.
func parseRef(c *gin.Context) (services.CollectionRef, bool) {
	kind, ok := models.ParseCollectionKind(c.Param("kind"))
	if !ok {
		utils.BadRequestResponse(c, "Unknown collection kind", nil)
		return services.CollectionRef{}, false
	}

	ref := services.CollectionRef{Kind: kind}
	if kind == models.KindCustom {
		id, parseErr := uuid.Parse(c.Param("id"))
		if parseErr != nil {
			utils.BadRequestResponse(c, "Invalid collection id", nil)
			return services.CollectionRef{}, false
		}
		ref.CustomID = id
	}
	return ref, true
}

// GET /collections/:kind and /collections/custom/:id
func (h *CollectionHandler) GetOwn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ref, ok := parseRef(c)
	if !ok {
		return
	}

	view, err := h.collectionService.Resolve(userID, ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"collection": view})
}

// GET /profiles/:username/collections/:kind and .../custom/:id
func (h *CollectionHandler) GetPublic(c *gin.Context) {
	username := c.Param("username")

	ref, ok := parseRef(c)
	if !ok {
		return
	}

	view, err := h.collectionService.ResolvePublic(c.Request.Context(), username, ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"collection": view})
}

// GET /collections
func (h *CollectionHandler) ListOwn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summaries, err := h.collectionService.ListCollections(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"collections": summaries})
}

// POST /collections
func (h *CollectionHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	collection, err := h.collectionService.CreateCollection(userID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyCollectionCreated),
		"collection": collection,
	})
}

// PUT /collections/custom/:id
func (h *CollectionHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	collection, err := h.collectionService.UpdateCollection(userID, collectionID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyCollectionUpdated),
		"collection": collection,
	})
}

// DELETE /collections/custom/:id
func (h *CollectionHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.DeleteCollection(userID, collectionID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCollectionDeleted),
	})
}

// POST /collections/custom/:id/items
func (h *CollectionHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		OwnershipID string `json:"ownership_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	ownershipID, err := uuid.Parse(req.OwnershipID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ownership id", nil)
		return
	}

	if err := h.collectionService.AddToCustomCollection(userID, collectionID, ownershipID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"message": "Added to collection"})
}

// DELETE /collections/custom/:id/items/:ownershipId
func (h *CollectionHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ownershipID, ok := parseIDParam(c, "ownershipId")
	if !ok {
		return
	}

	if err := h.collectionService.RemoveFromCustomCollection(userID, collectionID, ownershipID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Removed from collection"})
}

// POST /kits/:id/own
func (h *CollectionHandler) AddOwnership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var details services.OwnershipDetails
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&details); err != nil {
			utils.BadRequestResponse(c, "Invalid input", err.Error())
			return
		}
	}

	record, err := h.collectionService.AddOwnership(userID, jerseyID, &details)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"ownership": record})
}

// PUT /ownerships/:id
func (h *CollectionHandler) UpdateOwnership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ownershipID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var details services.OwnershipDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	record, err := h.collectionService.UpdateOwnership(userID, ownershipID, details)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"ownership": record})
}

// DELETE /ownerships/:id
func (h *CollectionHandler) RemoveOwnership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ownershipID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.RemoveOwnership(userID, ownershipID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Kit removed from your collection"})
}

// POST /kits/:id/like
func (h *CollectionHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.LikeJersey(userID, jerseyID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"message": "Liked"})
}

// DELETE /kits/:id/like
func (h *CollectionHandler) Unlike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.UnlikeJersey(userID, jerseyID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Unliked"})
}

// POST /kits/:id/wishlist
func (h *CollectionHandler) AddToWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.AddToWishlist(userID, jerseyID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"message": "Added to wishlist"})
}

// DELETE /kits/:id/wishlist
func (h *CollectionHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	jerseyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.RemoveFromWishlist(userID, jerseyID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Removed from wishlist"})
}
